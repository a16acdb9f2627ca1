package routes

import (
	"github.com/gin-gonic/gin"
	"youtube-transcriber/internal/api/v1/handlers"
	"youtube-transcriber/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	JobService        services.JobService
	TranscriptService services.TranscriptService

	// SyncService, when set, switches POST /transcribe to the
	// synchronous variant that returns the finished transcript.
	SyncService services.SyncTranscriptionService
}

// RegisterRoutes registers all API routes under the given group
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	jobHandler := handlers.NewJobHandler(container.JobService)

	if container.SyncService != nil {
		syncHandler := handlers.NewSyncTranscribeHandler(container.SyncService)
		router.POST("/transcribe", syncHandler.Transcribe)
	} else {
		router.POST("/transcribe", jobHandler.Submit)
	}

	jobs := router.Group("/jobs")
	{
		jobs.GET("/pending", jobHandler.Pending)
		jobs.GET("/:id", jobHandler.GetStatus)
		jobs.PUT("/:id/processing", jobHandler.MarkProcessing)
		jobs.PUT("/:id/complete", jobHandler.Complete)
		jobs.PUT("/:id/fail", jobHandler.Fail)
	}

	transcriptHandler := handlers.NewTranscriptHandler(container.TranscriptService)
	router.GET("/transcripts/:id", transcriptHandler.Get)
}
