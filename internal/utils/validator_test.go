package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{"simple address", "user@example.com", true},
		{"subdomain", "user@mail.example.co.uk", true},
		{"plus tag", "user+tag@example.com", true},
		{"missing at", "userexample.com", false},
		{"missing domain", "user@", false},
		{"missing tld", "user@example", false},
		{"empty", "", false},
		{"spaces", "user name@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateEmail(tt.email))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"meets all rules", "Password1", true},
		{"long mixed", "Sup3rSecretPass", true},
		{"too short", "Pass1", false},
		{"no uppercase", "password1", false},
		{"no lowercase", "PASSWORD1", false},
		{"no digit", "PasswordX", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidatePassword(tt.password))
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{"alphanumeric", "moviefan42", true},
		{"underscores", "movie_fan", true},
		{"minimum length", "abc", true},
		{"maximum length", "a1234567890123456789", true},
		{"too short", "ab", false},
		{"too long", "a12345678901234567890", false},
		{"spaces", "movie fan", false},
		{"symbols", "movie-fan!", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateUsername(tt.username))
		})
	}
}

func TestValidateInviteCode(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{"uppercase letters", "ABCDEF", true},
		{"letters and digits", "A1B2C3", true},
		{"all digits", "123456", true},
		{"lowercase rejected", "abcdef", false},
		{"too short", "ABC12", false},
		{"too long", "ABC1234", false},
		{"symbols", "ABC-12", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateInviteCode(tt.code))
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type registration struct {
		Username string `validate:"required,username"`
		Email    string `validate:"required,email"`
		Password string `validate:"required,strong_password"`
	}

	errs := ValidateStruct(registration{
		Username: "moviefan",
		Email:    "user@example.com",
		Password: "Password1",
	})
	assert.Empty(t, errs)

	errs = ValidateStruct(registration{
		Username: "ab",
		Email:    "not-an-email",
	})
	assert.Len(t, errs, 3)

	fields := make(map[string]string)
	for _, ve := range errs {
		fields[ve.Field] = ve.Tag
	}
	assert.Equal(t, "username", fields["username"])
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "required", fields["password"])
}
