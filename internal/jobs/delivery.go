package jobs

import "github.com/labstack/echo/v4"

type Handler interface {
	Root() echo.HandlerFunc
	Health() echo.HandlerFunc
	CreateJob() echo.HandlerFunc
	GetJobByID() echo.HandlerFunc
	ListJobs() echo.HandlerFunc
}
