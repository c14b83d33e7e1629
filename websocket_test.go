package main

import (
	"net/http"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytgrab/types"
)

// collectMessages reads progress messages from conn until a terminal
// message type arrives or the timeout elapses
func collectMessages(t *testing.T, helper *TestHelper, path string, timeout time.Duration) []types.ProgressMessage {
	t.Helper()

	conn := helper.ConnectWebSocket(t, path)
	defer conn.Close()

	var messages []types.ProgressMessage
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)

		var msg types.ProgressMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		messages = append(messages, msg)
		if msg.Type == "complete" || msg.Type == "error" {
			break
		}
	}
	return messages
}

func TestWebSocketReceivesJobProgress(t *testing.T) {
	lines := []string{
		"[download]  25.0% of 4.00MiB",
		"[download]  50.0% of 4.00MiB",
		"[download] 100% of 4.00MiB",
	}
	// The delay leaves time to connect before progress starts flowing
	helper := NewTestHelper(t, &stubInvoker{lines: lines, delay: 500 * time.Millisecond})

	var queued struct {
		Job *types.DownloadJob `json:"job"`
	}
	resp := helper.PostJSON(t, "/api/downloads", validDownloadBody(), &queued)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	messages := collectMessages(t, helper, "/api/ws/downloads/"+queued.Job.ID, 10*time.Second)
	require.NotEmpty(t, messages)

	// Raw tool lines arrive in the order the tool produced them
	var gotLines []string
	for _, msg := range messages {
		assert.Equal(t, queued.Job.ID, msg.JobID)
		if msg.Type == "progress" && msg.Line != "" {
			gotLines = append(gotLines, msg.Line)
		}
	}
	assert.Equal(t, lines, gotLines)

	final := messages[len(messages)-1]
	assert.Equal(t, "complete", final.Type)
	assert.Equal(t, float64(100), final.Progress)
	assert.Contains(t, final.Message, "Stub_Video.mp3")
}

func TestWebSocketReportsFailure(t *testing.T) {
	helper := NewTestHelper(t, &stubInvoker{fail: true, delay: 500 * time.Millisecond})

	var queued struct {
		Job *types.DownloadJob `json:"job"`
	}
	resp := helper.PostJSON(t, "/api/downloads", validDownloadBody(), &queued)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	messages := collectMessages(t, helper, "/api/ws/downloads/"+queued.Job.ID, 10*time.Second)
	require.NotEmpty(t, messages)

	final := messages[len(messages)-1]
	assert.Equal(t, "error", final.Type)
	assert.Contains(t, final.Message, "stub extraction failure")
}

func TestWebSocketUnknownJobRejected(t *testing.T) {
	helper := NewTestHelper(t, nil)

	// The handler refuses the upgrade for unknown jobs
	wsURL := "ws" + helper.Server.URL[4:] + "/api/ws/downloads/no-such-job"
	_, resp, err := gws.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocketAllEndpointSeesEveryJob(t *testing.T) {
	helper := NewTestHelper(t, &stubInvoker{delay: 500 * time.Millisecond})

	conn := helper.ConnectWebSocket(t, "/api/ws/downloads")
	defer conn.Close()

	var queued struct {
		Job *types.DownloadJob `json:"job"`
	}
	resp := helper.PostJSON(t, "/api/downloads", validDownloadBody(), &queued)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	deadline := time.Now().Add(10 * time.Second)
	var sawComplete bool
	for time.Now().Before(deadline) {
		conn.SetReadDeadline(deadline)

		var msg types.ProgressMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		assert.Equal(t, queued.Job.ID, msg.JobID)
		if msg.Type == "complete" {
			sawComplete = true
			break
		}
	}
	assert.True(t, sawComplete, "the global endpoint should see the job finish")
}
