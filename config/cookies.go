package config

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// CookiesToEnv converts a Netscape cookie file into the single-line
// FIREFOX_COOKIES env assignment, with real newlines replaced by literal
// \n so the content survives .env files.
func CookiesToEnv(cookieFilePath string) (string, error) {
	data, err := os.ReadFile(cookieFilePath)
	if err != nil {
		return "", fmt.Errorf("reading cookie file: %w", err)
	}

	var header, cookies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "#"):
			header = append(header, line)
		case line != "":
			cookies = append(cookies, line)
		}
	}

	content := strings.Join(append(append(header, ""), cookies...), `\n`)
	return fmt.Sprintf(`FIREFOX_COOKIES="%s"`, content), nil
}

// EnvToCookieFile writes FIREFOX_COOKIES-style content back out as a
// cookie file usable by the extraction tool.
func EnvToCookieFile(envContent, outputPath string) error {
	if !strings.Contains(envContent, `="`) {
		return fmt.Errorf("invalid env content format")
	}
	content := strings.TrimSuffix(strings.SplitN(envContent, `="`, 2)[1], `"`)

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating cookie file: %w", err)
	}
	defer f.Close()

	return writeCookieContent(f, content)
}

func writeCookieContent(w io.Writer, content string) error {
	_, err := io.WriteString(w, strings.ReplaceAll(content, `\n`, "\n"))
	return err
}
