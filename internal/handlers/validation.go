package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseValidationErrors converts validator errors to user-friendly format
func ParseValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return errors
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "datetime":
		return fe.Field() + " must match the format " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "min":
		return fe.Field() + " must have at least " + fe.Param() + " entries"
	default:
		return fe.Field() + " is invalid"
	}
}

// respondBindError sends a 400 with per-field details when the bind failure
// came from validator; plain malformed JSON gets the bare message.
func respondBindError(c *gin.Context, err error) {
	attachError(c, err)
	if details := ParseValidationErrors(err); len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": details})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
}
