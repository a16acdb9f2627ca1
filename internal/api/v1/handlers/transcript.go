package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"youtube-transcriber/internal/api/middleware"
	"youtube-transcriber/internal/api/v1/services"
)

// TranscriptHandler handles transcript read endpoints
type TranscriptHandler struct {
	service services.TranscriptService
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(service services.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{
		service: service,
	}
}

// Get handles GET /api/transcripts/:id
func (h *TranscriptHandler) Get(c *gin.Context) {
	response, err := h.service.GetTranscript(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
