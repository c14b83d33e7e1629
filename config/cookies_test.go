package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCookieFile = `# Netscape HTTP Cookie File
# This is a generated file! Do not edit.

.youtube.com	TRUE	/	TRUE	0	SID	abc123
.youtube.com	TRUE	/	TRUE	0	HSID	def456
`

func TestCookiesToEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleCookieFile), 0600))

	env, err := CookiesToEnv(path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(env, `FIREFOX_COOKIES="`))
	assert.True(t, strings.HasSuffix(env, `"`))
	assert.NotContains(t, env, "\n", "output must be a single line")
	assert.Contains(t, env, `\n`, "real newlines are encoded as literal backslash-n")
	assert.Contains(t, env, "SID\tabc123")
	assert.Contains(t, env, "HSID\tdef456")
}

func TestCookiesToEnvMissingFile(t *testing.T) {
	_, err := CookiesToEnv(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestCookieRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cookies.txt")
	require.NoError(t, os.WriteFile(in, []byte(sampleCookieFile), 0600))

	env, err := CookiesToEnv(in)
	require.NoError(t, err)

	out := filepath.Join(dir, "restored.txt")
	require.NoError(t, EnvToCookieFile(env, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	restored := string(data)

	assert.Contains(t, restored, "# Netscape HTTP Cookie File")
	assert.Contains(t, restored, ".youtube.com\tTRUE\t/\tTRUE\t0\tSID\tabc123")
	assert.Contains(t, restored, ".youtube.com\tTRUE\t/\tTRUE\t0\tHSID\tdef456")

	// Header and cookie lines are separated by a blank line
	assert.Contains(t, restored, "edit.\n\n.youtube.com")
}

func TestEnvToCookieFileRejectsMalformedContent(t *testing.T) {
	err := EnvToCookieFile("not an assignment", filepath.Join(t.TempDir(), "out.txt"))
	assert.Error(t, err)
}
