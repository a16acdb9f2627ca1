package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"youtube-transcriber/internal/api/middleware"
	"youtube-transcriber/internal/api/v1/dto"
	"youtube-transcriber/internal/api/v1/services"
)

// JobHandler handles job lifecycle API endpoints
type JobHandler struct {
	service services.JobService
}

// NewJobHandler creates a new job handler
func NewJobHandler(service services.JobService) *JobHandler {
	return &JobHandler{
		service: service,
	}
}

// Submit handles POST /api/transcribe
// Creates a new transcription job in the pending state
func (h *JobHandler) Submit(c *gin.Context) {
	var req dto.TranscribeRequest

	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Submit(c.Request.Context(), req.URL)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// GetStatus handles GET /api/jobs/:id
// Reports the job's current status and, once completed, its transcript id
func (h *JobHandler) GetStatus(c *gin.Context) {
	response, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Pending handles GET /api/jobs/pending
// Returns the oldest pending job, or an empty list when there is none
func (h *JobHandler) Pending(c *gin.Context) {
	jobs, err := h.service.NextPending(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// MarkProcessing handles PUT /api/jobs/:id/processing
func (h *JobHandler) MarkProcessing(c *gin.Context) {
	response, err := h.service.MarkProcessing(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Complete handles PUT /api/jobs/:id/complete
// Marks the job completed and stores its transcript in one step
func (h *JobHandler) Complete(c *gin.Context) {
	var req dto.CompleteJobRequest

	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Complete(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Fail handles PUT /api/jobs/:id/fail
func (h *JobHandler) Fail(c *gin.Context) {
	var req dto.FailJobRequest

	if err := middleware.ValidateRequest(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	response, err := h.service.Fail(c.Request.Context(), c.Param("id"), req.Error)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
