package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/adanyl0v/tasktrackr/internal/models"
)

const (
	DefaultIdentityURL = "https://identitytoolkit.googleapis.com/v1"
	DefaultTokenURL    = "https://securetoken.googleapis.com/v1/token"
)

// reasonCodes maps Identity Toolkit error reasons onto provider codes.
// The reason is the part of the error message before " : ".
var reasonCodes = map[string]string{
	"EMAIL_NOT_FOUND":             CodeUserNotFound,
	"USER_NOT_FOUND":              CodeUserNotFound,
	"INVALID_EMAIL":               CodeInvalidEmail,
	"MISSING_EMAIL":               CodeMissingEmail,
	"TOO_MANY_ATTEMPTS_TRY_LATER": CodeTooManyRequests,
	"EMAIL_EXISTS":                CodeEmailAlreadyInUse,
	"INVALID_PASSWORD":            CodeWrongPassword,
	"INVALID_LOGIN_CREDENTIALS":   CodeInvalidCredential,
	"MISSING_PASSWORD":            CodeMissingPassword,
	"WEAK_PASSWORD":               CodeWeakPassword,
	"USER_DISABLED":               CodeUserDisabled,
	"OPERATION_NOT_ALLOWED":       CodeOperationNotAllowed,
	"TOKEN_EXPIRED":               CodeUserTokenExpired,
	"INVALID_ID_TOKEN":            CodeInvalidUserToken,
}

type FirebaseConfig struct {
	APIKey      string
	IdentityURL string
	TokenURL    string
	HTTPClient  *http.Client
}

// FirebaseProvider implements Provider with the Firebase Auth REST API.
type FirebaseProvider struct {
	logger     zerolog.Logger
	sessions   *SessionFile
	apiKey     string
	identity   string
	tokenURL   string
	httpClient *http.Client
	now        func() time.Time
}

func NewFirebaseProvider(
	logger zerolog.Logger,
	cfg FirebaseConfig,
	sessions *SessionFile,
) *FirebaseProvider {
	p := &FirebaseProvider{
		logger:     logger,
		sessions:   sessions,
		apiKey:     cfg.APIKey,
		identity:   strings.TrimRight(cfg.IdentityURL, "/"),
		tokenURL:   cfg.TokenURL,
		httpClient: cfg.HTTPClient,
		now:        time.Now,
	}
	if p.identity == "" {
		p.identity = DefaultIdentityURL
	}
	if p.tokenURL == "" {
		p.tokenURL = DefaultTokenURL
	}
	if p.httpClient == nil {
		p.httpClient = http.DefaultClient
	}
	return p
}

func (p *FirebaseProvider) CurrentUser(ctx context.Context) (*User, error) {
	session, err := p.sessions.Load()
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return nil, nil
		}
		return nil, err
	}

	if session.Expired(p.now()) {
		session, err = p.refresh(ctx, session)
		if err != nil {
			var rErr *oauth2.RetrieveError
			if !errors.As(err, &rErr) {
				return nil, err
			}

			p.logger.Warn().
				Err(err).
				Str("user_id", session.UserID).
				Msg("failed to refresh session, signing out")
			return nil, p.sessions.Clear()
		}
	}

	return &User{ID: session.UserID, Email: session.Email}, nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	return p.authenticate(ctx, "accounts:signInWithPassword", email, password)
}

func (p *FirebaseProvider) SignUp(ctx context.Context, email, password string) (*User, error) {
	return p.authenticate(ctx, "accounts:signUp", email, password)
}

func (p *FirebaseProvider) SignOut(context.Context) error {
	err := p.sessions.Clear()
	if err != nil {
		return err
	}
	p.logger.Debug().Msg("cleared session")
	return nil
}

func (p *FirebaseProvider) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !ValidEmail(email) {
		return ErrMalformedEmail
	}

	req := struct {
		RequestType string `json:"requestType"`
		Email       string `json:"email"`
	}{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}
	var res struct {
		Email string `json:"email"`
	}
	err := p.post(ctx, "accounts:sendOobCode", req, &res)
	if err != nil {
		return err
	}

	p.logger.Debug().Msg("sent password reset email")
	return nil
}

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type credentialsResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

func (p *FirebaseProvider) authenticate(ctx context.Context, method, email, password string) (*User, error) {
	var res credentialsResponse
	err := p.post(ctx, method, credentialsRequest{
		Email:             strings.TrimSpace(email),
		Password:          password,
		ReturnSecureToken: true,
	}, &res)
	if err != nil {
		return nil, err
	}

	now := p.now()
	session := &models.Session{
		UserID:       res.LocalID,
		Email:        res.Email,
		IDToken:      res.IDToken,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    p.expiry(res.IDToken, res.ExpiresIn, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = p.sessions.Save(session)
	if err != nil {
		return nil, err
	}

	p.logger.Debug().
		Str("user_id", session.UserID).
		Time("expires_at", session.ExpiresAt).
		Msg("saved session")
	return &User{ID: session.UserID, Email: session.Email}, nil
}

// refresh exchanges the refresh token for a new ID token. Secure Token
// speaks OAuth2 with the API key in the URL instead of client credentials.
func (p *FirebaseProvider) refresh(ctx context.Context, session *models.Session) (*models.Session, error) {
	cfg := oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  p.tokenURL + "?key=" + url.QueryEscape(p.apiKey),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: session.RefreshToken}).Token()
	if err != nil {
		return session, fmt.Errorf("failed to refresh id token: %w", err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return session, errors.New("failed to refresh id token: no id_token in response")
	}

	now := p.now()
	refreshed := *session
	refreshed.IDToken = idToken
	refreshed.RefreshToken = token.RefreshToken
	refreshed.UpdatedAt = now
	refreshed.ExpiresAt = token.Expiry
	if exp, err := idTokenExpiry(idToken); err == nil {
		refreshed.ExpiresAt = exp
	}

	err = p.sessions.Save(&refreshed)
	if err != nil {
		return session, err
	}

	p.logger.Debug().
		Str("user_id", refreshed.UserID).
		Time("expires_at", refreshed.ExpiresAt).
		Msg("refreshed session")
	return &refreshed, nil
}

// expiry prefers the token's own exp claim over the advertised lifetime.
func (p *FirebaseProvider) expiry(idToken, expiresIn string, now time.Time) time.Time {
	exp, err := idTokenExpiry(idToken)
	if err == nil {
		return exp
	}

	seconds, err := strconv.Atoi(expiresIn)
	if err != nil {
		p.logger.Warn().
			Str("expires_in", expiresIn).
			Msg("id token lifetime is unknown")
		return now
	}
	return now.Add(time.Duration(seconds) * time.Second)
}

func (p *FirebaseProvider) post(ctx context.Context, method string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	target := p.identity + "/" + method + "?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer func() { _ = res.Body.Close() }()

	err = googleapi.CheckResponse(res)
	if err != nil {
		return newProviderError(err)
	}

	err = json.NewDecoder(res.Body).Decode(out)
	if err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	return nil
}

func newProviderError(err error) error {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return err
	}

	message := gErr.Message
	if message == "" {
		message = http.StatusText(gErr.Code)
	}

	reason, _, _ := strings.Cut(message, " : ")
	code, ok := reasonCodes[strings.TrimSpace(reason)]
	if !ok {
		code = CodeInternalError
	}
	return &ProviderError{
		Code:    code,
		Message: message,
	}
}
