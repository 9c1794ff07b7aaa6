package server

import (
	jobsHttp "github.com/furkanc/voicecloning-backend/internal/jobs/delivery/http"
	jobsRepository "github.com/furkanc/voicecloning-backend/internal/jobs/repository"
	jobsUsecase "github.com/furkanc/voicecloning-backend/internal/jobs/usecase"
	"github.com/labstack/echo/v4"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	jobsRepo := jobsRepository.NewJobsRepo(s.db)
	awsRepo := jobsRepository.NewAwsRepository(s.s3Client, s.preSignClient, s.cfg, s.logger)
	dispatcher := jobsRepository.NewRedisDispatcher(s.redisClient, s.cfg)

	jobsUC := jobsUsecase.NewJobsUseCase(s.cfg, jobsRepo, awsRepo, dispatcher, s.logger)

	jobsHandlers := jobsHttp.NewJobsHandler(s.cfg, jobsUC, s.logger)

	e.GET("/", jobsHandlers.Root())
	e.GET("/health", jobsHandlers.Health())

	jobsGroup := e.Group("/jobs")
	jobsHttp.MapJobRoutes(jobsGroup, jobsHandlers)
	return nil
}
