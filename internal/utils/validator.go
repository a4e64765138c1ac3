package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Register custom validators
	validate.RegisterValidation("username", validateUsername)
	validate.RegisterValidation("strong_password", validateStrongPassword)
	validate.RegisterValidation("invite_code", validateInviteCode)
}

// ValidationError represents validation error details
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ValidateStruct validates a struct and returns user-friendly error messages
func ValidateStruct(s interface{}) []ValidationError {
	var errors []ValidationError

	err := validate.Struct(s)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			errors = append(errors, ValidationError{
				Field:   strings.ToLower(err.Field()),
				Tag:     err.Tag(),
				Value:   err.Param(),
				Message: getErrorMessage(err),
			})
		}
	}

	return errors
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// ValidatePassword validates password strength
func ValidatePassword(password string) bool {
	return len(password) >= 8 &&
		containsUpper(password) &&
		containsLower(password) &&
		containsDigit(password)
}

// ValidateUsername validates username format
func ValidateUsername(username string) bool {
	// Username: 3-20 characters, alphanumeric and underscore
	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	return usernameRegex.MatchString(username)
}

// ValidateInviteCode validates invite code format
func ValidateInviteCode(code string) bool {
	codeRegex := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	return codeRegex.MatchString(code)
}

// Custom validators for go-playground/validator

func validateUsername(fl validator.FieldLevel) bool {
	return ValidateUsername(fl.Field().String())
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	return ValidatePassword(fl.Field().String())
}

func validateInviteCode(fl validator.FieldLevel) bool {
	return ValidateInviteCode(fl.Field().String())
}

// Helper functions

func containsUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func containsLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// getErrorMessage returns user-friendly error messages
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Please enter a valid email address"
	case "min":
		return "This field must be at least " + fe.Param() + " characters long"
	case "max":
		return "This field must be no more than " + fe.Param() + " characters long"
	case "username":
		return "Username must be 3-20 characters long and contain only letters, numbers, and underscores"
	case "strong_password":
		return "Password must be at least 8 characters long and contain uppercase, lowercase, and numbers"
	case "invite_code":
		return "Invite code must be 6 characters of uppercase letters and digits"
	default:
		return "This field is invalid"
	}
}
