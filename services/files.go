package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"ytgrab/types"
)

// FileService interface defines methods for output directory management
type FileService interface {
	ScanMediaFiles(rootPath string) ([]types.MediaFile, error)
	ExtractMediaMetadata(filePath string) *types.MediaMetadata
	ValidateFilePath(path string) error
	GetContentType(filePath string) string
}

// fileService implements the FileService interface
type fileService struct{}

// NewFileService creates a new file service
func NewFileService() FileService {
	return &fileService{}
}

var audioContentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".opus": "audio/opus",
}

var videoContentTypes = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
}

// ScanMediaFiles scans the output directory for finished media files
func (fs *fileService) ScanMediaFiles(rootPath string) ([]types.MediaFile, error) {
	var files []types.MediaFile

	err := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("Error accessing path %s: %v", path, err)
			return nil // Continue walking, don't fail entire scan
		}
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		_, isAudio := audioContentTypes[ext]
		_, isVideo := videoContentTypes[ext]
		if !isAudio && !isVideo {
			return nil
		}

		relativePath, err := filepath.Rel(rootPath, path)
		if err != nil {
			relativePath = path // fallback to absolute path
		}

		file := types.MediaFile{
			Filename: info.Name(),
			Path:     relativePath,
			Size:     info.Size(),
			Format:   strings.TrimPrefix(ext, "."),
		}

		// Tag probing only makes sense for audio containers
		if isAudio {
			file.Metadata = fs.ExtractMediaMetadata(path)
		}

		files = append(files, file)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return files, nil
}

// ExtractMediaMetadata extracts tag metadata from an audio file with a
// filename fallback
func (fs *fileService) ExtractMediaMetadata(filePath string) *types.MediaMetadata {
	file, err := os.Open(filePath)
	if err != nil {
		log.Printf("Warning: Could not open media file %s: %v", filePath, err)
		return fs.metadataFromFilename(filePath)
	}
	defer file.Close()

	meta, err := tag.ReadFrom(file)
	if err != nil {
		log.Printf("Warning: Could not parse metadata from %s: %v", filePath, err)
		return fs.metadataFromFilename(filePath)
	}

	metadata := &types.MediaMetadata{
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
	}
	if metadata.Title == "" {
		metadata.Title = fs.metadataFromFilename(filePath).Title
	}
	return metadata
}

// metadataFromFilename derives a title from the file name. The extraction
// tool writes restricted filenames, so underscores stand in for spaces.
func (fs *fileService) metadataFromFilename(filePath string) *types.MediaMetadata {
	title := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	title = strings.ReplaceAll(title, "_", " ")
	return &types.MediaMetadata{Title: strings.TrimSpace(title)}
}

// GetContentType returns the appropriate MIME type for a media file
func (fs *fileService) GetContentType(filePath string) string {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ct, ok := audioContentTypes[ext]; ok {
		return ct
	}
	if ct, ok := videoContentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ValidateFilePath checks for path traversal attempts and other security issues
func (fs *fileService) ValidateFilePath(path string) error {
	// Check for path traversal attempts
	if strings.Contains(path, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	// Check for absolute paths
	if strings.HasPrefix(path, "/") {
		return fmt.Errorf("absolute paths not allowed")
	}

	// Check for empty path
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty path not allowed")
	}

	return nil
}
