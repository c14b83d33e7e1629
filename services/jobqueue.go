package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"ytgrab/types"
	"ytgrab/websocket"
)

// JobQueue interface defines the methods for managing download jobs
type JobQueue interface {
	Start()
	AddJob(req types.DownloadRequest) *types.DownloadJob
	GetJob(id string) (*types.DownloadJob, bool)
	GetAllJobs() []*types.DownloadJob
	CancelJob(id string) bool
	UpdateJobProgress(id, line string, percent float64)
	SetJobStatus(id string, status types.JobStatus, errorMsg string)
}

// jobQueue manages download jobs. One worker by default, preserving the
// one-blocking-download-at-a-time behavior of the UI.
type jobQueue struct {
	jobs       map[string]*types.DownloadJob
	queue      chan *types.DownloadJob
	activeJobs map[string]*types.DownloadJob
	mu         sync.RWMutex
	maxWorkers int
	hub        websocket.Hub
	downloader Downloader
}

// NewJobQueue creates a new job queue
func NewJobQueue(maxWorkers int, hub websocket.Hub, downloader Downloader) JobQueue {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &jobQueue{
		jobs:       make(map[string]*types.DownloadJob),
		queue:      make(chan *types.DownloadJob, 100), // Buffer for 100 jobs
		activeJobs: make(map[string]*types.DownloadJob),
		maxWorkers: maxWorkers,
		hub:        hub,
		downloader: downloader,
	}
}

// AddJob adds a new job to the queue
func (jq *jobQueue) AddJob(req types.DownloadRequest) *types.DownloadJob {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	job := &types.DownloadJob{
		ID:        uuid.New().String(),
		Request:   req,
		Status:    types.JobStatusQueued,
		CreatedAt: time.Now(),
	}

	jq.jobs[job.ID] = job
	jq.queue <- job

	return job
}

// GetJob retrieves a job by ID
func (jq *jobQueue) GetJob(id string) (*types.DownloadJob, bool) {
	jq.mu.RLock()
	defer jq.mu.RUnlock()
	job, exists := jq.jobs[id]
	return job, exists
}

// GetAllJobs returns all jobs
func (jq *jobQueue) GetAllJobs() []*types.DownloadJob {
	jq.mu.RLock()
	defer jq.mu.RUnlock()

	jobs := make([]*types.DownloadJob, 0, len(jq.jobs))
	for _, job := range jq.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// CancelJob cancels a queued job
func (jq *jobQueue) CancelJob(id string) bool {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	job, exists := jq.jobs[id]
	if !exists {
		return false
	}

	if job.Status == types.JobStatusQueued {
		job.Status = types.JobStatusCancelled
		now := time.Now()
		job.CompletedAt = &now
		return true
	}

	return false
}

// UpdateJobProgress records a relayed tool output line against the job and
// broadcasts it. Lines arrive in the order the tool produced them.
func (jq *jobQueue) UpdateJobProgress(id, line string, percent float64) {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	job, exists := jq.jobs[id]
	if !exists {
		return
	}
	if percent >= 0 {
		job.Progress = percent
	}

	if jq.hub != nil {
		jq.hub.BroadcastProgress(id, "progress", string(job.Status), line, "", job.Progress)
	}
}

// SetJobStatus updates job status
func (jq *jobQueue) SetJobStatus(id string, status types.JobStatus, errorMsg string) {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	job, exists := jq.jobs[id]
	if !exists {
		return
	}

	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}

	now := time.Now()
	if status == types.JobStatusProcessing && job.StartedAt == nil {
		job.StartedAt = &now
		jq.activeJobs[id] = job
	} else if status == types.JobStatusCompleted || status == types.JobStatusFailed || status == types.JobStatusCancelled {
		job.CompletedAt = &now
		delete(jq.activeJobs, id)
	}

	// Broadcast status update via WebSocket
	if jq.hub != nil {
		msgType := "status"
		message := string(status)
		progress := job.Progress

		if status == types.JobStatusCompleted {
			msgType = "complete"
			progress = 100.0
			message = "Download completed"
			if job.Result != nil {
				message = job.Result.Message
			}
		} else if status == types.JobStatusFailed {
			msgType = "error"
			message = errorMsg
		} else if status == types.JobStatusProcessing {
			message = "Started downloading " + job.Request.URL
		}

		jq.hub.BroadcastProgress(id, msgType, string(status), "", message, progress)
	}
}

// Start begins processing jobs
func (jq *jobQueue) Start() {
	for i := 0; i < jq.maxWorkers; i++ {
		go jq.worker()
	}
}

// worker processes jobs from the queue
func (jq *jobQueue) worker() {
	for job := range jq.queue {
		if job.Status == types.JobStatusCancelled {
			continue
		}

		jq.SetJobStatus(job.ID, types.JobStatusProcessing, "")

		sink := SinkFunc(func(line string, percent float64) {
			jq.UpdateJobProgress(job.ID, line, percent)
		})

		result, err := jq.downloader.Download(context.Background(), job.Request, sink)

		jq.mu.Lock()
		job.Result = result
		jq.mu.Unlock()

		if err != nil {
			jq.SetJobStatus(job.ID, types.JobStatusFailed, err.Error())
			log.Printf("Job %s failed: %v", job.ID, err)
		} else {
			jq.SetJobStatus(job.ID, types.JobStatusCompleted, "")
			log.Printf("Job %s completed successfully", job.ID)
		}
	}
}
