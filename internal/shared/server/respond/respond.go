// Package respond writes the JSON envelopes shared by the upload and job
// endpoints.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pdfextract-backend/internal/shared/telemetry"
)

// Error codes used across handlers.
const (
	CodeValidation = "validation_error"
	CodeTooLarge   = "payload_too_large"
	CodeForbidden  = "forbidden"
	CodeNotFound   = "not_found"
	CodeInternal   = "internal_error"
)

// ErrorBody is the object under the "error" key. RequestID matches the
// X-Request-Id response header so clients can quote it.
type ErrorBody struct {
	Code      string      `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
	Details   interface{} `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// JSON writes payload uncached; job views change while a job runs.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Error aborts with the error envelope and logs it with whatever upload and
// job ids the handler attached to the context.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fail(c, status, code, message, details, nil)
}

// Internal aborts with a 500 whose body hides cause; cause is only logged.
func Internal(c *gin.Context, message string, cause error) {
	fail(c, http.StatusInternalServerError, CodeInternal, message, nil, cause)
}

func fail(c *gin.Context, status int, code, message string, details interface{}, cause error) {
	requestID := c.GetString("requestId")
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       path,
		"method":     c.Request.Method,
		"request_id": requestID,
	}
	for key, field := range map[string]string{"userId": "user_id", "uploadId": "upload_id", "jobId": "job_id"} {
		if v := c.GetString(key); v != "" {
			fields[field] = v
		}
	}
	if cause != nil {
		fields["error"] = cause
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Details:   details,
	}})
}
