package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/portalteam/auth-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("user_role", validateUserRole); err != nil {
		panic(fmt.Sprintf("failed to register user_role validator: %v", err))
	}
}

// validateUserRole validates that a string is a known role value
func validateUserRole(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.RoleUser, models.RoleAdmin:
		return true
	default:
		return false
	}
}

// SanitizeText trims whitespace and removes control characters from text input
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateUserRole validates a role string value
func ValidateUserRole(value string) error {
	switch value {
	case models.RoleUser, models.RoleAdmin:
		return nil
	default:
		return fmt.Errorf("invalid role: %s (must be '%s' or '%s')", value, models.RoleUser, models.RoleAdmin)
	}
}
