package main

import (
	"context"
	"flag"
	"log"

	"ytgrab/cmd"
	"ytgrab/config"
	"ytgrab/services"
	"ytgrab/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	var (
		urlFlag string
		kind    string
		quality string
		format  string
		server  bool
		port    int
	)

	flag.StringVar(&urlFlag, "url", "", "Video URL to download")
	flag.StringVar(&kind, "kind", "audio", "Media kind: audio or video")
	flag.StringVar(&quality, "quality", "high", "Quality tier: high or medium")
	flag.StringVar(&format, "format", "", "Output format (default mp3 for audio, mp4 for video)")
	flag.BoolVar(&server, "server", false, "Start in web server mode")
	flag.IntVar(&port, "port", 0, "Port for web server mode (overrides SERVER_PORT)")
	flag.Parse()

	// Server mode takes precedence
	if server {
		if port != 0 {
			cfg.Port = port
		}
		cmd.StartWebServer(cfg)
		return
	}

	if urlFlag == "" {
		flag.Usage()
		return
	}

	req := types.DownloadRequest{
		URL:     urlFlag,
		Kind:    types.MediaKind(kind),
		Quality: types.Quality(quality),
		Format:  format,
	}
	if req.Format == "" {
		if req.Kind == types.KindVideo {
			req.Format = "mp4"
		} else {
			req.Format = "mp3"
		}
	}

	transcoder := services.NewTranscoder(cfg)
	downloader := services.NewDownloader(cfg, transcoder)

	bar := services.NewBarSink("Downloading")
	result, err := downloader.Download(context.Background(), req, bar)
	bar.Finish()
	if err != nil {
		log.Fatalf("Error: %s", result.Message)
	}

	log.Println(result.Message)
}
