package utils

import (
	"github.com/labstack/echo/v4"
)

// GetRequestID returns the request id assigned by the RequestID middleware,
// for correlating handler logs.
func GetRequestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
