package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all process-wide configuration, loaded once at startup.
type Config struct {
	Port        int    `envconfig:"SERVER_PORT" default:"8080"`
	OutputDir   string `envconfig:"OUTPUT_DIR" default:"outputs"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	MaxWorkers  int    `envconfig:"MAX_WORKERS" default:"1"`
	YTDLPPath   string `envconfig:"YTDLP_PATH" default:"yt-dlp"`
	FFmpegPath  string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`

	// Optional browser-session cookies for authenticated retrieval.
	// FIREFOX_COOKIES holds Netscape cookie-file content with literal
	// \n separators; USE_FIREFOX_COOKIES gates whether it is used.
	UseCookies bool   `envconfig:"USE_FIREFOX_COOKIES" default:"false"`
	Cookies    string `envconfig:"FIREFOX_COOKIES"`

	cookieFile string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// Missing .env is fine, the environment may be set directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OutputLocation returns the directory finished files are written to.
// A user settings file takes precedence over the environment.
func (c *Config) OutputLocation() string {
	if settings, err := LoadSettings(); err == nil && settings.OutputLocation != "" {
		return settings.OutputLocation
	}
	return c.OutputDir
}

// CookieFile materializes the configured cookie content into a temp file
// and returns its path. Returns "" when cookies are absent or disabled;
// that is not an error.
func (c *Config) CookieFile() (string, error) {
	if !c.UseCookies || c.Cookies == "" {
		return "", nil
	}
	if c.cookieFile != "" {
		return c.cookieFile, nil
	}

	f, err := os.CreateTemp("", "ytgrab-cookies-*.txt")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeCookieContent(f, c.Cookies); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	c.cookieFile = f.Name()
	return c.cookieFile, nil
}

// UserSettings represents the user's personal settings
type UserSettings struct {
	OutputLocation string `json:"outputLocation"`
}

// SettingsFilePath returns the path to the settings file
func SettingsFilePath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".ytgrab-settings.json")
}

// LoadSettings loads settings from the settings file
func LoadSettings() (*UserSettings, error) {
	data, err := os.ReadFile(SettingsFilePath())
	if err != nil {
		return nil, err
	}

	var settings UserSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings saves settings to the settings file
func SaveSettings(settings *UserSettings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(SettingsFilePath(), data, 0644)
}
