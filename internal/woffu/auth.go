package woffu

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Credentials identify the Woffu account
type Credentials struct {
	Email    string
	Password string
}

// Session is an authenticated Woffu session carrying a bearer token
type Session struct {
	token   *oauth2.Token
	baseURL string
}

// AccessToken returns the bearer credential of the session
func (s *Session) AccessToken() string {
	return s.token.AccessToken
}

// Authenticator logs into a company tenant with the password grant
type Authenticator struct {
	baseURL     string
	credentials Credentials
	httpClient  *http.Client
	logger      *zap.Logger
}

// BaseURL returns the tenant URL for a company: https://{company}.woffu.com
func BaseURL(company string) string {
	return fmt.Sprintf("https://%s.woffu.com", company)
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(baseURL string, credentials Credentials, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: credentials,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Login exchanges the account credentials for a bearer token.
// POST {baseURL}/token with grant_type=password, username and password as form fields
func (a *Authenticator) Login(ctx context.Context) (*Session, error) {
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  a.baseURL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	token, err := conf.PasswordCredentialsToken(ctx, a.credentials.Email, a.credentials.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return nil, fmt.Errorf("%w: token endpoint returned status %d: %s",
				ErrAuthentication, retrieveErr.Response.StatusCode, strings.TrimSpace(string(retrieveErr.Body)))
		}
		return nil, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	a.logger.Info("Logged into Woffu",
		zap.String("base_url", a.baseURL),
		zap.String("email", a.credentials.Email),
		zap.Time("expires_at", token.Expiry))

	return &Session{token: token, baseURL: a.baseURL}, nil
}
