package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanMediaFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Some_Song.mp3", "A_Clip.mp4", "notes.txt", "cover.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0644))
	}
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "Deep_Track.opus"), []byte("data"), 0644))

	fs := NewFileService()
	files, err := fs.ScanMediaFiles(dir)
	require.NoError(t, err)

	byName := make(map[string]bool)
	for _, f := range files {
		byName[f.Filename] = true
	}
	assert.True(t, byName["Some_Song.mp3"])
	assert.True(t, byName["A_Clip.mp4"])
	assert.True(t, byName["Deep_Track.opus"])
	assert.False(t, byName["notes.txt"], "non-media files must not be listed")
	assert.False(t, byName["cover.jpg"])
	assert.Len(t, files, 3)

	for _, f := range files {
		assert.NotZero(t, f.Size)
		assert.NotEmpty(t, f.Format)
		if f.Filename == "Deep_Track.opus" {
			assert.Equal(t, filepath.Join("nested", "Deep_Track.opus"), f.Path)
		}
	}
}

func TestScanMediaFilesMissingDir(t *testing.T) {
	fs := NewFileService()
	_, err := fs.ScanMediaFiles(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.NoError(t, err, "a missing directory yields an empty listing, not an error")
}

func TestExtractMediaMetadataFilenameFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Never_Gonna_Give_You_Up.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not real mp3 data"), 0644))

	fs := NewFileService()
	meta := fs.ExtractMediaMetadata(path)
	require.NotNil(t, meta)
	assert.Equal(t, "Never Gonna Give You Up", meta.Title)
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"song.mp3", "audio/mpeg"},
		{"song.WAV", "audio/wav"},
		{"song.m4a", "audio/mp4"},
		{"song.flac", "audio/flac"},
		{"song.opus", "audio/opus"},
		{"clip.mp4", "video/mp4"},
		{"clip.webm", "video/webm"},
		{"clip.mkv", "video/x-matroska"},
		{"readme.txt", "application/octet-stream"},
	}

	fs := NewFileService()
	for _, tt := range tests {
		assert.Equal(t, tt.want, fs.GetContentType(tt.path), tt.path)
	}
}

func TestValidateFilePath(t *testing.T) {
	fs := NewFileService()

	assert.NoError(t, fs.ValidateFilePath("Some_Song.mp3"))
	assert.NoError(t, fs.ValidateFilePath("nested/Deep_Track.opus"))

	assert.Error(t, fs.ValidateFilePath("../etc/passwd"))
	assert.Error(t, fs.ValidateFilePath("nested/../../secret"))
	assert.Error(t, fs.ValidateFilePath("/etc/passwd"))
	assert.Error(t, fs.ValidateFilePath(""))
	assert.Error(t, fs.ValidateFilePath("   "))
}
