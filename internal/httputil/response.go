// Package httputil holds the JSON error envelope shared by handlers and middleware.
package httputil

import "github.com/gin-gonic/gin"

// RequestIDKey is the gin context key the request id middleware stores under.
const RequestIDKey = "request_id"

// ErrorBody is the JSON body of every non-2xx response.
type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// NewErrorBody builds the envelope for c, picking up its request id.
func NewErrorBody(c *gin.Context, code, message string) ErrorBody {
	return ErrorBody{Code: code, Message: message, RequestID: c.GetString(RequestIDKey)}
}

// RespondError aborts the request with status and the error envelope.
func RespondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, NewErrorBody(c, code, message))
}
