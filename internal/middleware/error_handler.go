package middleware

import (
	"errors"
	"net/http"

	"procureMatch/pkg/logger"

	jsonres "procureMatch/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the echo-level catch-all for errors that escaped the
// handlers.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("unhandled request error", "path", c.Path(), "error", err)
	}

	_ = c.JSON(code, jsonres.Error(http.StatusText(code), message, nil))
}
