package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/tasktrackr/internal/models"
)

var ErrNoSession = errors.New("no session")

// SessionFile keeps the session as JSON in a file only the owner can read.
type SessionFile struct {
	path string
}

func NewSessionFile(path string) *SessionFile {
	return &SessionFile{path: path}
}

func (f *SessionFile) Path() string {
	return f.path
}

// Load returns ErrNoSession if nobody is signed in.
func (f *SessionFile) Load() (*models.Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session models.Session
	err = json.Unmarshal(data, &session)
	if err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if session.UserID == "" || session.RefreshToken == "" {
		return nil, ErrNoSession
	}
	return &session, nil
}

func (f *SessionFile) Save(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	dir := filepath.Dir(f.path)
	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}

	// CreateTemp opens the file with mode 0600.
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create session file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	err = os.Rename(tmp.Name(), f.path)
	if err != nil {
		return fmt.Errorf("failed to replace session: %w", err)
	}
	return nil
}

func (f *SessionFile) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// idTokenExpiry reads the exp claim of an ID token. The signature is not
// checked: the token is only ever sent back to the provider that issued it.
func idTokenExpiry(idToken string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	_, _, err := jwt.NewParser().ParseUnverified(idToken, &claims)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("id token has no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}
