package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "user not found",
			err:  &ProviderError{Code: CodeUserNotFound, Message: "EMAIL_NOT_FOUND"},
			want: "No user found with this email.",
		},
		{
			name: "invalid email",
			err:  &ProviderError{Code: CodeInvalidEmail, Message: "INVALID_EMAIL"},
			want: "Invalid email address.",
		},
		{
			name: "too many requests",
			err:  &ProviderError{Code: CodeTooManyRequests, Message: "TOO_MANY_ATTEMPTS_TRY_LATER"},
			want: "Too many requests. Please try again later.",
		},
		{
			name: "other code falls back to raw message",
			err:  &ProviderError{Code: CodeWeakPassword, Message: "WEAK_PASSWORD : Password should be at least 6 characters"},
			want: "WEAK_PASSWORD : Password should be at least 6 characters",
		},
		{
			name: "code mentioned only in message is not mapped",
			err:  &ProviderError{Code: CodeInternalError, Message: "see auth/user-not-found"},
			want: "see auth/user-not-found",
		},
		{
			name: "wrapped provider error",
			err:  errors.Join(errors.New("sign in"), &ProviderError{Code: CodeInvalidEmail}),
			want: "Invalid email address.",
		},
		{
			name: "malformed email",
			err:  ErrMalformedEmail,
			want: "Please enter a valid email address.",
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"ada@example.com", true},
		{"  ada@example.com  ", true},
		{"ada@mail.example.org", true},
		{"", false},
		{"ada", false},
		{"ada@example", false},
		{"ada smith@example.com", false},
		{"ada@@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}
