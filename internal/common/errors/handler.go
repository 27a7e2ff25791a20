// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"
)

// ErrorHandler turns service errors into JSON responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Respond writes the error body and aborts the gin chain.
func (h *ErrorHandler) Respond(c *gin.Context, err error) {
	stdErr := Normalize(err)
	status := HTTPStatus(stdErr.Code)

	h.logError(c, stdErr, status)

	_ = c.Error(stdErr)
	c.AbortWithStatusJSON(status, ToResponse(stdErr))
}

// Normalize ensures we always have a StandardError
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

func (h *ErrorHandler) logError(c *gin.Context, stdErr *StandardError, status int) {
	fields := map[string]interface{}{
		"requestId":     c.GetString("requestId"),
		"method":        c.Request.Method,
		"path":          c.Request.URL.Path,
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"details":       stdErr.Details,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if IsClientError(stdErr.Code) {
		h.logger.Warn("Request rejected", fields)
		return
	}
	h.logger.Error("Request failed", fields)
}
