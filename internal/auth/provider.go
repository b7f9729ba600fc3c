// Package auth signs users in against an external identity provider.
package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

const (
	CodeUserNotFound        = "auth/user-not-found"
	CodeInvalidEmail        = "auth/invalid-email"
	CodeTooManyRequests     = "auth/too-many-requests"
	CodeMissingEmail        = "auth/missing-email"
	CodeEmailAlreadyInUse   = "auth/email-already-in-use"
	CodeWrongPassword       = "auth/wrong-password"
	CodeInvalidCredential   = "auth/invalid-credential"
	CodeMissingPassword     = "auth/missing-password"
	CodeWeakPassword        = "auth/weak-password"
	CodeUserDisabled        = "auth/user-disabled"
	CodeOperationNotAllowed = "auth/operation-not-allowed"
	CodeUserTokenExpired    = "auth/user-token-expired"
	CodeInvalidUserToken    = "auth/invalid-user-token"
	CodeInternalError       = "auth/internal-error"
)

var ErrMalformedEmail = errors.New("malformed email address")

type User struct {
	ID    string
	Email string
}

type Provider interface {
	// CurrentUser returns the signed-in user, or nil if there is none.
	CurrentUser(ctx context.Context) (*User, error)

	SignIn(ctx context.Context, email, password string) (*User, error)
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error

	// SendPasswordReset returns ErrMalformedEmail without contacting the
	// provider if email doesn't look like an address.
	SendPasswordReset(ctx context.Context, email string) error
}

// ProviderError is an error reported by the identity provider.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return e.Code + ": " + e.Message
}

var messages = map[string]string{
	CodeUserNotFound:    "No user found with this email.",
	CodeInvalidEmail:    "Invalid email address.",
	CodeTooManyRequests: "Too many requests. Please try again later.",
}

// Message returns a message fit for showing to the user.
func Message(err error) string {
	if errors.Is(err, ErrMalformedEmail) {
		return "Please enter a valid email address."
	}

	var pErr *ProviderError
	if !errors.As(err, &pErr) {
		return err.Error()
	}
	if msg, ok := messages[pErr.Code]; ok {
		return msg
	}
	return pErr.Message
}

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(email string) bool {
	return emailRegexp.MatchString(strings.TrimSpace(email))
}
