package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ytgrab/config"
	"ytgrab/types"
)

// Downloader accepts a download request, drives the extraction tool and
// returns the finished file. The returned JobResult is always non-nil so
// callers can surface a status message even on failure.
type Downloader interface {
	Download(ctx context.Context, req types.DownloadRequest, sink Sink) (*types.JobResult, error)
}

// ytdlpDownloader implements Downloader on top of the yt-dlp binary
type ytdlpDownloader struct {
	cfg        *config.Config
	transcoder Transcoder
}

// NewDownloader creates a new yt-dlp backed downloader
func NewDownloader(cfg *config.Config, transcoder Transcoder) Downloader {
	return &ytdlpDownloader{cfg: cfg, transcoder: transcoder}
}

// ValidateRequest checks a request before any external process is started
func ValidateRequest(req types.DownloadRequest) error {
	if strings.TrimSpace(req.URL) == "" {
		return NewInputError("please enter a valid URL")
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Host == "" {
		return NewInputError(fmt.Sprintf("malformed URL: %s", req.URL))
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return NewInputError(fmt.Sprintf("unsupported URL scheme: %s", parsed.Scheme))
	}

	if req.Kind != types.KindAudio && req.Kind != types.KindVideo {
		return NewInputError(fmt.Sprintf("unknown media kind: %s", req.Kind))
	}
	if req.Quality != types.QualityHigh && req.Quality != types.QualityMedium {
		return NewInputError(fmt.Sprintf("unknown quality: %s", req.Quality))
	}
	if !types.FormatAllowed(req.Kind, req.Format) {
		return NewInputError(fmt.Sprintf("format %q is not supported for %s", req.Format, req.Kind))
	}
	return nil
}

func (d *ytdlpDownloader) Download(ctx context.Context, req types.DownloadRequest, sink Sink) (*types.JobResult, error) {
	if err := ValidateRequest(req); err != nil {
		return failedResult(err), err
	}

	outputDir := d.cfg.OutputLocation()
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		derr := NewDownloadError("creating output directory", err)
		return failedResult(derr), derr
	}

	cookieFile, err := d.cfg.CookieFile()
	if err != nil {
		// Cookies are optional, carry on without them
		log.Printf("Warning: could not materialize cookie file: %v", err)
		cookieFile = ""
	}

	args := buildArgs(req, outputDir, cookieFile)
	started := time.Now()
	log.Printf("Running %s %v", d.cfg.YTDLPPath, args)

	cmd := exec.CommandContext(ctx, d.cfg.YTDLPPath, args...)
	cmd.Env = append(os.Environ(), "PYTHONUNBUFFERED=1", "PYTHONIOENCODING=UTF-8")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		derr := NewDownloadError("creating stdout pipe", err)
		return failedResult(derr), derr
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		derr := NewDownloadError("creating stderr pipe", err)
		return failedResult(derr), derr
	}

	if err := cmd.Start(); err != nil {
		derr := NewDownloadError("starting extraction tool", err)
		return failedResult(derr), derr
	}

	var errBuf bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		Relay(stdout, sink)
	}()
	go func() {
		defer wg.Done()
		Relay(io.TeeReader(stderr, &errBuf), sink)
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		derr := NewDownloadError(trimToolError(errBuf.String()), err)
		return failedResult(derr), derr
	}

	outPath, err := newestOutput(outputDir, started)
	if err != nil {
		derr := NewDownloadError("download finished but no file found in output directory", err)
		return failedResult(derr), derr
	}

	// yt-dlp usually lands on the requested container via its own
	// postprocessing; transcode only when it did not
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), "."); ext != req.Format {
		outPath, err = d.transcoder.Transcode(ctx, outPath, req.Format, sink)
		if err != nil {
			return failedResult(err), err
		}
	}

	log.Printf("Downloaded %s in %s", filepath.Base(outPath), time.Since(started).Round(time.Second))
	return &types.JobResult{
		OutputPath: outPath,
		Status:     types.ResultSuccess,
		Message:    fmt.Sprintf("Saved %s to %s", filepath.Base(outPath), outputDir),
	}, nil
}

// buildArgs constructs the yt-dlp argument list for a validated request
func buildArgs(req types.DownloadRequest, outputDir, cookieFile string) []string {
	args := []string{
		"--newline",
		"--progress",
		"--no-warnings",
		"--restrict-filenames",
		"--windows-filenames",
		"-o", filepath.Join(outputDir, "%(title)s.%(ext)s"),
	}

	if req.Kind == types.KindAudio {
		args = append(args,
			"-f", "bestaudio/best",
			"--extract-audio",
			"--audio-format", req.Format,
			"--audio-quality", audioBitrate(req.Quality),
		)
	} else {
		args = append(args,
			"-f", videoFormatSelector(req.Format, req.Quality),
			"--merge-output-format", req.Format,
		)
	}

	if cookieFile != "" {
		args = append(args, "--cookies", cookieFile)
	}

	return append(args, req.URL)
}

// audioBitrate maps the quality tier to an audio bitrate accepted by
// yt-dlp's audio postprocessor
func audioBitrate(quality types.Quality) string {
	if quality == types.QualityHigh {
		return "320K"
	}
	return "192K"
}

// videoFormatSelector builds the -f selector for a video download.
// High quality requests the best available resolution; medium caps the
// video height at 720.
func videoFormatSelector(format string, quality types.Quality) string {
	cap := ""
	if quality == types.QualityMedium {
		cap = "[height<=720]"
	}

	switch format {
	case "mp4":
		return fmt.Sprintf("bestvideo[ext=mp4]%s+bestaudio[ext=m4a]/best[ext=mp4]%s/best", cap, cap)
	case "webm":
		return fmt.Sprintf("bestvideo[ext=webm]%s+bestaudio[ext=webm]/best[ext=webm]%s/best", cap, cap)
	default:
		return fmt.Sprintf("bestvideo%s+bestaudio/best", cap)
	}
}

// newestOutput returns the most recently modified file written to dir
// since the download started
func newestOutput(dir string, since time.Time) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		// Small slack for filesystems with coarse mtime resolution
		if info.ModTime().Before(since.Add(-2 * time.Second)) {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = entry.Name()
			newestMod = info.ModTime()
		}
	}

	if newest == "" {
		return "", fmt.Errorf("no files written to %s", dir)
	}
	return filepath.Join(dir, newest), nil
}

// trimToolError extracts a readable message from yt-dlp stderr, stripping
// the "ERROR: [youtube]" prefix the tool emits
func trimToolError(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if idx := strings.Index(line, "ERROR: [youtube]"); idx >= 0 {
			return strings.TrimSpace(line[idx+len("ERROR: [youtube]"):])
		}
		if idx := strings.Index(line, "ERROR:"); idx >= 0 {
			return strings.TrimSpace(line[idx+len("ERROR:"):])
		}
	}
	if len(lines) > 0 && lines[len(lines)-1] != "" {
		return lines[len(lines)-1]
	}
	return "extraction tool failed"
}

func failedResult(err error) *types.JobResult {
	return &types.JobResult{
		Status:  types.ResultFailed,
		Message: err.Error(),
	}
}
