package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/furkanc/voicecloning-backend/internal/config"
	"github.com/furkanc/voicecloning-backend/internal/jobs"
	"github.com/furkanc/voicecloning-backend/internal/models"
	"github.com/furkanc/voicecloning-backend/pkg/logger"
	"github.com/furkanc/voicecloning-backend/pkg/utils"
	"github.com/labstack/echo/v4"
)

type jobsHandler struct {
	cfg    *config.Config
	jobsUC jobs.UseCase
	logger logger.Logger
}

func NewJobsHandler(cfg *config.Config, jobsUC jobs.UseCase, logger logger.Logger) jobs.Handler {
	return &jobsHandler{
		cfg:    cfg,
		jobsUC: jobsUC,
		logger: logger,
	}
}

func (h *jobsHandler) Root() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"api": fmt.Sprintf("%s | version: %s", h.cfg.Server.AppName, h.cfg.Server.AppVersion),
		})
	}
}

func (h *jobsHandler) Health() echo.HandlerFunc {
	return func(c echo.Context) error {
		state, err := h.jobsUC.Health(c.Request().Context())
		if err != nil || state != "ACTIVE" {
			h.logger.Errorf("Health - store not ready, state %s, RequestID: %s: %v", state, utils.GetRequestID(c), err)
			return c.JSON(http.StatusOK, map[string]string{"status": fmt.Sprintf("Error: %s", state)})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	}
}

// CreateJob accepts a multipart creation request. Required form fields are
// rejected at the boundary, before any side effect.
func (h *jobsHandler) CreateJob() echo.HandlerFunc {
	return func(c echo.Context) error {
		title := c.FormValue("title")
		description := c.FormValue("description")
		text := c.FormValue("text")
		quality := c.FormValue("quality")
		if title == "" || text == "" || quality == "" {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"error": "title, text and quality are required",
			})
		}
		form, err := c.MultipartForm()
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid multipart form"})
		}
		fileHeaders := form.File["audio_files"]
		if len(fileHeaders) == 0 {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{
				"error": "at least one audio file is required",
			})
		}

		input := &models.CreateJobInput{
			Title:       title,
			Description: description,
			Text:        text,
			Quality:     quality,
			Files:       make([]*models.AudioUpload, 0, len(fileHeaders)),
		}
		for _, header := range fileHeaders {
			file, err := header.Open()
			if err != nil {
				return c.JSON(http.StatusUnprocessableEntity, map[string]string{
					"error": fmt.Sprintf("failed to read %s", header.Filename),
				})
			}
			defer file.Close()
			input.Files = append(input.Files, &models.AudioUpload{
				FileName: header.Filename,
				Size:     header.Size,
				MimeType: header.Header.Get("Content-Type"),
				Content:  file,
			})
		}

		result, err := h.jobsUC.CreateJob(c.Request().Context(), input)
		if err != nil {
			if errors.Is(err, jobs.ErrNoAudioFiles) {
				return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
			}
			h.logger.Errorf("CreateJob - usecase error, RequestID: %s: %v", utils.GetRequestID(c), err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusCreated, result)
	}
}

func (h *jobsHandler) GetJobByID() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID := c.Param("job_id")
		job, err := h.jobsUC.GetJob(c.Request().Context(), jobID)
		if err != nil {
			if errors.Is(err, jobs.ErrJobNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{
					"error": fmt.Sprintf("job with id %s not found", jobID),
				})
			}
			h.logger.Errorf("GetJobByID - usecase error, RequestID: %s: %v", utils.GetRequestID(c), err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, job)
	}
}

func (h *jobsHandler) ListJobs() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobList, err := h.jobsUC.ListJobs(c.Request().Context())
		if err != nil {
			h.logger.Errorf("ListJobs - usecase error, RequestID: %s: %v", utils.GetRequestID(c), err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, jobList)
	}
}
