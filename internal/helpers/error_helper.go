package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type ValidationErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: customMessage,
	})
}

// RespondNotFound emits the fixed not-found body shared by every API
// endpoint.
func RespondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
}

// RespondValidationErrors emits the two-key validation envelope, e.g.
// {"error": "Failed to create tip", "details": ["Amount must be greater than 0"]}.
func RespondValidationErrors(c *gin.Context, action string, details []string) {
	c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
		Error:   action,
		Details: details,
	})
}
