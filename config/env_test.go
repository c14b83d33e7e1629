package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "OUTPUT_DIR", "CORS_ORIGINS", "MAX_WORKERS",
		"YTDLP_PATH", "FFMPEG_PATH", "USE_FIREFOX_COOKIES", "FIREFOX_COOKIES",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "outputs", cfg.OutputDir)
	assert.Equal(t, 1, cfg.MaxWorkers)
	assert.Equal(t, "yt-dlp", cfg.YTDLPPath)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.False(t, cfg.UseCookies)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OUTPUT_DIR", "/tmp/media")
	t.Setenv("MAX_WORKERS", "3")
	t.Setenv("YTDLP_PATH", "/usr/local/bin/yt-dlp")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/tmp/media", cfg.OutputDir)
	assert.Equal(t, 3, cfg.MaxWorkers)
	assert.Equal(t, "/usr/local/bin/yt-dlp", cfg.YTDLPPath)
}

func TestCookieFileDisabled(t *testing.T) {
	cfg := &Config{UseCookies: false, Cookies: `# header\ncookie line`}
	path, err := cfg.CookieFile()
	require.NoError(t, err)
	assert.Empty(t, path, "disabled cookies yield no file and no error")

	cfg = &Config{UseCookies: true, Cookies: ""}
	path, err = cfg.CookieFile()
	require.NoError(t, err)
	assert.Empty(t, path, "empty cookie content yields no file and no error")
}

func TestCookieFileMaterializesContent(t *testing.T) {
	cfg := &Config{
		UseCookies: true,
		Cookies:    `# Netscape HTTP Cookie File\n\n.youtube.com	TRUE	/	TRUE	0	SID	abc123`,
	}

	path, err := cfg.CookieFile()
	require.NoError(t, err)
	require.NotEmpty(t, path)
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(string(data), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.Equal(t, "# Netscape HTTP Cookie File", lines[0])
	assert.Contains(t, lines[2], "SID")

	// The same file is reused on subsequent calls
	again, err := cfg.CookieFile()
	require.NoError(t, err)
	assert.Equal(t, path, again)
}
