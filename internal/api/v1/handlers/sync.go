package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"youtube-transcriber/internal/api/middleware"
	"youtube-transcriber/internal/api/v1/dto"
	"youtube-transcriber/internal/api/v1/services"
)

// SyncTranscribeHandler serves POST /api/transcribe in synchronous mode,
// where the response carries the finished transcript instead of a job id.
type SyncTranscribeHandler struct {
	service services.SyncTranscriptionService
}

// NewSyncTranscribeHandler creates a new synchronous transcribe handler
func NewSyncTranscribeHandler(service services.SyncTranscriptionService) *SyncTranscribeHandler {
	return &SyncTranscribeHandler{
		service: service,
	}
}

// Transcribe handles POST /api/transcribe
// Runs the whole pipeline inside the request and returns the transcript
func (h *SyncTranscribeHandler) Transcribe(c *gin.Context) {
	var req dto.TranscribeRequest

	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Transcribe(c.Request.Context(), req.URL)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
