package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/quesify/identity-service/internal/models"
)

var validate = validator.New()

// ErrorDetailsResponse is the body shape for any error response that carries
// field-level details (request validation failures and store rejections).
type ErrorDetailsResponse struct {
	Message string              `json:"message"`
	Details []models.FieldError `json:"details"`
}

// ValidateRequest runs struct-tag validation and converts the result into the
// domain's field-error shape. Returns nil when the request is valid.
func ValidateRequest(obj any) []models.FieldError {
	err := validate.Struct(obj)
	if err == nil {
		return nil
	}

	var fieldErrors []models.FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
		})
	}
	return fieldErrors
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "url":
		return "Invalid URL format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}

// RespondWithDetails writes an error response carrying field-level details.
func RespondWithDetails(c *gin.Context, code int, message string, details []models.FieldError) {
	c.JSON(code, ErrorDetailsResponse{
		Message: message,
		Details: details,
	})
}

// RespondWithValidationError writes the standard 400 for an invalid request.
func RespondWithValidationError(c *gin.Context, details []models.FieldError) {
	RespondWithDetails(c, http.StatusBadRequest, "Invalid request data", details)
}

// RespondWithError writes a plain error response with a message only.
func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"message": message,
	})
}
