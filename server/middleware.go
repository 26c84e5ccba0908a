package server

import (
	"net/http"
	"time"

	"github.com/existflow/tasktrack/internal/logger"
	"github.com/labstack/echo/v4"
)

// requestLogger logs every request and its outcome
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		err := next(c)
		if err != nil {
			// Let echo write the error response so the status is known
			c.Error(err)
		}

		res := c.Response()
		logger.Info("HTTP Request",
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("request_id", res.Header().Get(echo.HeaderXRequestID)),
			logger.F("duration", time.Since(start).String()))

		return nil
	}
}

// errorJSON writes {"error": msg}
func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// notFound writes the standard missing-task response
func notFound(c echo.Context) error {
	return errorJSON(c, http.StatusNotFound, "task not found")
}
