package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FieldError is a single field level problem reported to the client.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Type    string       `json:"type"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// ErrorResponse wraps ErrorBody under the "error" key.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error types.
const (
	TypeValidation         = "validation_error"
	TypeInvalidIdentifier  = "invalid_identifier"
	TypeNotFound           = "not_found"
	TypeInternal           = "internal_error"
	TypeServiceUnavailable = "service_unavailable"
)

// Success writes data with 200 OK.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Fail aborts the request with the given status and error body.
func Fail(c *gin.Context, status int, body ErrorBody) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: body})
}

// InternalError aborts with 500 without leaking the cause.
func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, ErrorBody{Type: TypeInternal, Message: "internal server error"})
}

// ServiceUnavailable aborts with 503.
func ServiceUnavailable(c *gin.Context, message string) {
	Fail(c, http.StatusServiceUnavailable, ErrorBody{Type: TypeServiceUnavailable, Message: message})
}
