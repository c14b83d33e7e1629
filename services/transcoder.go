package services

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"ytgrab/config"
)

// Transcoder converts a retrieved media file to a target container format.
// Only invoked when the natively retrieved container differs from the
// requested one.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, format string, sink Sink) (string, error)
}

// ffmpegTranscoder implements Transcoder on top of the ffmpeg binary
type ffmpegTranscoder struct {
	cfg *config.Config
}

// NewTranscoder creates a new ffmpeg backed transcoder
func NewTranscoder(cfg *config.Config) Transcoder {
	return &ffmpegTranscoder{cfg: cfg}
}

func (t *ffmpegTranscoder) Transcode(ctx context.Context, inputPath, format string, sink Sink) (string, error) {
	outputPath := strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + "." + format

	args := []string{"-y", "-i", inputPath}
	args = append(args, codecArgs(format)...)
	args = append(args, outputPath)

	log.Printf("Running %s %v", t.cfg.FFmpegPath, args)
	cmd := exec.CommandContext(ctx, t.cfg.FFmpegPath, args...)

	// ffmpeg writes all progress text to stderr
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", NewTranscodeError("creating stderr pipe", err)
	}

	if err := cmd.Start(); err != nil {
		return "", NewTranscodeError("starting transcoding tool", err)
	}

	var errBuf bytes.Buffer
	Relay(io.TeeReader(stderr, &errBuf), sink)

	if err := cmd.Wait(); err != nil {
		os.Remove(outputPath)
		return "", NewTranscodeError(lastLine(errBuf.String()), err)
	}

	// The intermediate container is no longer needed
	if err := os.Remove(inputPath); err != nil {
		log.Printf("Warning: could not remove intermediate file %s: %v", inputPath, err)
	}

	return outputPath, nil
}

// codecArgs returns the ffmpeg codec arguments for a target format.
// Audio formats are re-encoded; video formats are remuxed stream-copy.
func codecArgs(format string) []string {
	switch format {
	case "mp3":
		return []string{"-vn", "-c:a", "libmp3lame", "-q:a", "0"}
	case "wav":
		return []string{"-vn", "-c:a", "pcm_s16le"}
	case "m4a":
		return []string{"-vn", "-c:a", "aac"}
	case "flac":
		return []string{"-vn", "-c:a", "flac"}
	case "opus":
		return []string{"-vn", "-c:a", "libopus"}
	default:
		return []string{"-c", "copy"}
	}
}

// lastLine returns the last non-empty line of tool output
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return "transcoding tool failed"
}
