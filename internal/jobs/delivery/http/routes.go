package http

import (
	"github.com/furkanc/voicecloning-backend/internal/jobs"
	"github.com/labstack/echo/v4"
)

func MapJobRoutes(jobsGroup *echo.Group, h jobs.Handler) {
	jobsGroup.GET("", h.ListJobs())
	jobsGroup.GET("/:job_id", h.GetJobByID())
	jobsGroup.POST("", h.CreateJob())
}
