package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"ytgrab/config"
	"ytgrab/handlers"
	"ytgrab/services"
	"ytgrab/types"
	"ytgrab/websocket"
)

// TestHelper provides utilities for exercising the full HTTP surface
// against a stubbed tool invoker.
type TestHelper struct {
	Server    *httptest.Server
	OutputDir string
	Config    *config.Config
	JobQueue  services.JobQueue
	Hub       websocket.Hub
}

// stubInvoker stands in for the real yt-dlp invoker. It validates the
// request the same way, emits canned progress lines, and writes a file
// into the output directory on success.
type stubInvoker struct {
	outputDir string
	lines     []string
	delay     time.Duration
	fail      bool
}

func (s *stubInvoker) Download(ctx context.Context, req types.DownloadRequest, sink services.Sink) (*types.JobResult, error) {
	if err := services.ValidateRequest(req); err != nil {
		return &types.JobResult{Status: types.ResultFailed, Message: err.Error()}, err
	}

	// Give WebSocket clients a moment to connect before progress starts
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	for i, line := range s.lines {
		sink.Publish(line, float64(i+1)*100/float64(len(s.lines)))
	}

	if s.fail {
		err := services.NewDownloadError("stub extraction failure", nil)
		return &types.JobResult{Status: types.ResultFailed, Message: "stub extraction failure"}, err
	}

	outputPath := filepath.Join(s.outputDir, "Stub_Video."+req.Format)
	if err := os.WriteFile(outputPath, []byte("stub media"), 0644); err != nil {
		return &types.JobResult{Status: types.ResultFailed, Message: err.Error()}, services.NewDownloadError("writing output", err)
	}

	return &types.JobResult{
		OutputPath: outputPath,
		Status:     types.ResultSuccess,
		Message:    fmt.Sprintf("Saved Stub_Video.%s", req.Format),
	}, nil
}

// NewTestHelper builds a test server with the real handlers, hub, and job
// queue around the given stub invoker.
func NewTestHelper(t *testing.T, stub *stubInvoker) *TestHelper {
	t.Helper()

	outputDir := t.TempDir()
	// Isolate the user settings file from the real home directory
	t.Setenv("HOME", t.TempDir())

	if stub == nil {
		stub = &stubInvoker{}
	}
	stub.outputDir = outputDir
	if stub.lines == nil {
		stub.lines = []string{
			"[download]  50.0% of 4.00MiB at 2.00MiB/s",
			"[download] 100% of 4.00MiB",
		}
	}

	cfg := &config.Config{
		Port:       0,
		OutputDir:  outputDir,
		MaxWorkers: 1,
	}

	gin.SetMode(gin.TestMode)

	hub := websocket.NewHub()
	go hub.Run()

	jobQueue := services.NewJobQueue(cfg.MaxWorkers, hub, stub)
	jobQueue.Start()

	fileService := services.NewFileService()

	downloadHandler := handlers.NewDownloadHandler(jobQueue, hub)
	fileHandler := handlers.NewFileHandler(fileService, cfg)
	formatHandler := handlers.NewFormatHandler()
	healthHandler := handlers.NewHealthHandler(cfg)
	settingsHandler := handlers.NewSettingsHandler(cfg)
	uiHandler := handlers.NewUIHandler()

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", uiHandler.Index)
	router.GET("/health", healthHandler.HealthCheck)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)
		apiGroup.GET("/formats", formatHandler.ListFormats)

		downloadsGroup := apiGroup.Group("/downloads")
		{
			downloadsGroup.POST("", downloadHandler.QueueDownload)
			downloadsGroup.GET("", downloadHandler.GetAllJobs)
			downloadsGroup.GET("/:jobId", downloadHandler.GetJob)
			downloadsGroup.DELETE("/:jobId", downloadHandler.CancelJob)
		}

		wsGroup := apiGroup.Group("/ws")
		{
			wsGroup.GET("/downloads/:jobId", downloadHandler.HandleWebSocketConnection)
			wsGroup.GET("/downloads", downloadHandler.HandleWebSocketAllConnection)
		}

		apiGroup.GET("/files", fileHandler.ListFiles)
		apiGroup.GET("/files/download/*filepath", fileHandler.DownloadFile)

		apiGroup.GET("/settings", settingsHandler.GetSettings)
		apiGroup.POST("/settings", settingsHandler.UpdateSettings)
	}

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &TestHelper{
		Server:    server,
		OutputDir: outputDir,
		Config:    cfg,
		JobQueue:  jobQueue,
		Hub:       hub,
	}
}

// MakeRequest makes an HTTP request to the test server
func (h *TestHelper) MakeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, h.Server.URL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// GetJSON makes a GET request and unmarshals the JSON response
func (h *TestHelper) GetJSON(t *testing.T, path string, target interface{}) *http.Response {
	t.Helper()

	resp := h.MakeRequest(t, "GET", path, nil)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		require.NoError(t, json.Unmarshal(body, target))
	}
	return resp
}

// PostJSON makes a POST request with a JSON body and unmarshals the response
func (h *TestHelper) PostJSON(t *testing.T, path string, requestBody interface{}, target interface{}) *http.Response {
	t.Helper()

	resp := h.MakeRequest(t, "POST", path, requestBody)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer resp.Body.Close()

	if target != nil {
		require.NoError(t, json.Unmarshal(body, target))
	}
	return resp
}

// WaitForJobCompletion polls the job endpoint until the job reaches a
// terminal status or the timeout elapses
func (h *TestHelper) WaitForJobCompletion(t *testing.T, jobID string, timeout time.Duration) *types.DownloadJob {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var response struct {
			Job *types.DownloadJob `json:"job"`
		}
		resp := h.GetJSON(t, "/api/downloads/"+jobID, &response)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		switch response.Job.Status {
		case types.JobStatusCompleted, types.JobStatusFailed, types.JobStatusCancelled:
			return response.Job
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatalf("Job %s did not complete within %v", jobID, timeout)
	return nil
}

// ConnectWebSocket connects to a WebSocket endpoint on the test server
func (h *TestHelper) ConnectWebSocket(t *testing.T, path string) *gws.Conn {
	t.Helper()

	wsURL := "ws" + h.Server.URL[4:] + path
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

// validDownloadBody returns a request body for a well-formed audio download
func validDownloadBody() map[string]string {
	return map[string]string{
		"url":     "https://youtube.com/watch?v=abc123",
		"kind":    "audio",
		"quality": "high",
		"format":  "mp3",
	}
}
