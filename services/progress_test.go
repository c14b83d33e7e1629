package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayForwardsLinesInOrder(t *testing.T) {
	input := "[download] Destination: outputs/video.mp4\n" +
		"[download]  10.0% of 10.00MiB\n" +
		"[download]  55.5% of 10.00MiB\n" +
		"[download] 100% of 10.00MiB\n"

	var lines []string
	var percents []float64
	Relay(strings.NewReader(input), SinkFunc(func(line string, percent float64) {
		lines = append(lines, line)
		percents = append(percents, percent)
	}))

	require.Len(t, lines, 4)
	assert.Equal(t, "[download] Destination: outputs/video.mp4", lines[0])
	assert.Contains(t, lines[1], "10.0%")
	assert.Contains(t, lines[2], "55.5%")
	assert.Contains(t, lines[3], "100%")

	assert.Equal(t, []float64{-1, 10, 55.5, 100}, percents)
}

func TestRelaySplitsOnCarriageReturn(t *testing.T) {
	// yt-dlp redraws its progress line using \r without a newline
	input := "[download]  25.0% of 4.00MiB\r[download]  75.0% of 4.00MiB\r"

	var percents []float64
	Relay(strings.NewReader(input), SinkFunc(func(line string, percent float64) {
		percents = append(percents, percent)
	}))

	assert.Equal(t, []float64{25, 75}, percents)
}

func TestRelaySkipsBlankLines(t *testing.T) {
	input := "\n\n  \nline one\n\nline two\n"

	var lines []string
	Relay(strings.NewReader(input), SinkFunc(func(line string, percent float64) {
		lines = append(lines, line)
	}))

	assert.Equal(t, []string{"line one", "line two"}, lines)
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		line string
		want float64
	}{
		{"[download]  42.3% of 10MiB", 42.3},
		{"[download] 100% of 10MiB", 100},
		{"frame= 250 fps=0.0 q=-1.0", -1},
		{"", -1},
		{"999% nonsense gets clamped", 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parsePercent(tt.line), "line %q", tt.line)
	}
}
