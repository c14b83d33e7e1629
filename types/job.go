package types

import "time"

// MediaKind represents the kind of media to retrieve
type MediaKind string

const (
	KindAudio MediaKind = "audio"
	KindVideo MediaKind = "video"
)

// Quality represents the quality tier of a download
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
)

// DownloadRequest describes a single user submission. Format must belong
// to the allowed set for the chosen kind (see AllowedFormats).
type DownloadRequest struct {
	URL     string    `json:"url"`
	Kind    MediaKind `json:"kind"`
	Quality Quality   `json:"quality"`
	Format  string    `json:"format"`
}

// AllowedFormats maps each media kind to its supported output containers
var AllowedFormats = map[MediaKind][]string{
	KindAudio: {"mp3", "wav", "m4a", "flac", "opus"},
	KindVideo: {"mp4", "webm", "mkv"},
}

// FormatAllowed reports whether format is valid for the given kind
func FormatAllowed(kind MediaKind, format string) bool {
	for _, f := range AllowedFormats[kind] {
		if f == format {
			return true
		}
	}
	return false
}

// ResultStatus represents the outcome of a finished job
type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultFailed  ResultStatus = "failed"
)

// JobResult is produced by the invokers and consumed once by the caller
type JobResult struct {
	OutputPath string       `json:"outputPath"`
	Status     ResultStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
}

// JobStatus represents the current status of a download job
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// DownloadJob represents a download job in the queue
type DownloadJob struct {
	ID          string          `json:"id"`
	Request     DownloadRequest `json:"request"`
	Status      JobStatus       `json:"status"`
	Progress    float64         `json:"progress"`
	Error       string          `json:"error,omitempty"`
	Result      *JobResult      `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}
