package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ytgrab/services"
	"ytgrab/types"
	"ytgrab/websocket"
)

// DownloadHandler handles download management endpoints
type DownloadHandler struct {
	jobQueue services.JobQueue
	hub      websocket.Hub
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(jq services.JobQueue, hub websocket.Hub) *DownloadHandler {
	return &DownloadHandler{
		jobQueue: jq,
		hub:      hub,
	}
}

// QueueDownload validates a download request and queues it
func (h *DownloadHandler) QueueDownload(c *gin.Context) {
	var req types.DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return
	}

	normalizeRequest(&req)

	// Reject bad input before any external process is started
	if err := services.ValidateRequest(req); err != nil {
		var ie *services.InvokeError
		details := err.Error()
		if errors.As(err, &ie) {
			details = ie.Message
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid download request",
			"details": details,
		})
		return
	}

	job := h.jobQueue.AddJob(req)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Download queued successfully",
		"job":     job,
	})
}

// normalizeRequest fills the form's default selections for omitted fields
func normalizeRequest(req *types.DownloadRequest) {
	if req.Kind == "" {
		req.Kind = types.KindAudio
	}
	if req.Quality == "" {
		req.Quality = types.QualityHigh
	}
	if req.Format == "" {
		if req.Kind == types.KindVideo {
			req.Format = "mp4"
		} else {
			req.Format = "mp3"
		}
	}
}

// GetAllJobs returns all download jobs
func (h *DownloadHandler) GetAllJobs(c *gin.Context) {
	jobs := h.jobQueue.GetAllJobs()
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// GetJob returns a specific download job by ID
func (h *DownloadHandler) GetJob(c *gin.Context) {
	jobID := c.Param("jobId")
	job, exists := h.jobQueue.GetJob(jobID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "job not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job": job,
	})
}

// CancelJob cancels a download job
func (h *DownloadHandler) CancelJob(c *gin.Context) {
	jobID := c.Param("jobId")
	cancelled := h.jobQueue.CancelJob(jobID)
	if !cancelled {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "job cannot be cancelled (not found or already processing)",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "job cancelled successfully",
	})
}

// HandleWebSocketConnection handles WebSocket connections for specific job progress
func (h *DownloadHandler) HandleWebSocketConnection(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job ID is required"})
		return
	}

	// Check if job exists
	_, exists := h.jobQueue.GetJob(jobID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, jobID)
	h.hub.RegisterClient(client)

	// Start client pumps
	client.StartPumps()
}

// HandleWebSocketAllConnection handles WebSocket connections for all job progress
func (h *DownloadHandler) HandleWebSocketAllConnection(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, "all")
	h.hub.RegisterClient(client)

	// Start client pumps
	client.StartPumps()
}
