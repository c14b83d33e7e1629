package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ytgrab/types"
)

// FormatHandler handles format discovery endpoints
type FormatHandler struct{}

// NewFormatHandler creates a new format handler
func NewFormatHandler() *FormatHandler {
	return &FormatHandler{}
}

// ListFormats returns the supported kind/format/quality combinations,
// letting the form populate its selects without hardcoding them
func (h *FormatHandler) ListFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"kinds": []types.MediaKind{types.KindAudio, types.KindVideo},
		"formats": gin.H{
			string(types.KindAudio): types.AllowedFormats[types.KindAudio],
			string(types.KindVideo): types.AllowedFormats[types.KindVideo],
		},
		"qualities": []types.Quality{types.QualityHigh, types.QualityMedium},
	})
}
