package services

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// Sink receives progress updates from a running tool, one line at a time,
// in the order the tool produced them. percent is -1 when the line carried
// no percentage.
type Sink interface {
	Publish(line string, percent float64)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(line string, percent float64)

// Publish calls f
func (f SinkFunc) Publish(line string, percent float64) {
	f(line, percent)
}

var percentRe = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)%`)

// Relay reads line-oriented tool output from r and forwards every line to
// sink. Lines are split on CR as well as LF because yt-dlp redraws its
// progress line with carriage returns.
func Relay(r io.Reader, sink Sink) {
	sc := bufio.NewScanner(r)
	sc.Split(splitCRorLF)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		sink.Publish(line, parsePercent(line))
	}
}

// parsePercent extracts a 0-100 percentage from a tool output line,
// returning -1 when none is present
func parsePercent(line string) float64 {
	m := percentRe.FindStringSubmatch(line)
	if len(m) != 2 {
		return -1
	}
	p, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return -1
	}
	if p > 100 {
		p = 100
	}
	return p
}

// splitCRorLF is a bufio.SplitFunc treating both \r and \n as terminators
func splitCRorLF(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// BarSink renders progress on a terminal progress bar for CLI mode
type BarSink struct {
	bar *progressbar.ProgressBar
}

// NewBarSink creates a terminal progress bar sink
func NewBarSink(description string) *BarSink {
	return &BarSink{
		bar: progressbar.NewOptions(100,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionShowCount(),
		),
	}
}

// Publish advances the bar when the line carries a percentage
func (b *BarSink) Publish(line string, percent float64) {
	if percent >= 0 {
		b.bar.Set(int(percent))
	}
}

// Finish completes the bar
func (b *BarSink) Finish() {
	b.bar.Finish()
}
