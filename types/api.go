package types

// MediaFile represents a finished file discovered in the output directory
type MediaFile struct {
	Filename string         `json:"filename"`
	Path     string         `json:"path"`
	Size     int64          `json:"size"`
	Format   string         `json:"format"` // "mp3", "mp4", etc.
	Metadata *MediaMetadata `json:"metadata,omitempty"`
}

// MediaMetadata represents tag metadata probed from an audio file
type MediaMetadata struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
}
