package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/monoshelf/monoshelf-backend/pkg/config"
	pkgerrors "github.com/monoshelf/monoshelf-backend/pkg/errors"
	"github.com/monoshelf/monoshelf-backend/pkg/logger"
)

const maxResponseBytes = 1 << 20

var (
	errClientIDRequired     = errors.New("github client id is required")
	errClientSecretRequired = errors.New("github client secret is required")
	errLoggerRequired       = errors.New("github logger is required")
)

// AccessToken is the result of exchanging an OAuth authorization code.
type AccessToken struct {
	Token string
	Scope string
	Type  string
}

// User is the subset of the GitHub user profile the service persists.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// Client talks to GitHub's OAuth and REST endpoints with centralized logging and error mapping.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	apiBaseURL   string
	oauthBaseURL string
	logger       *logger.Logger
}

// NewClient validates the OAuth credentials and builds the GitHub wrapper.
func NewClient(ctx context.Context, cfg config.GitHubConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return nil, errClientIDRequired
	}
	clientSecret := strings.TrimSpace(cfg.ClientSecret)
	if clientSecret == "" {
		return nil, errClientSecretRequired
	}

	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		httpClient:   &http.Client{Timeout: timeout},
		clientID:     clientID,
		clientSecret: clientSecret,
		apiBaseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
		oauthBaseURL: strings.TrimRight(cfg.OAuthBaseURL, "/"),
		logger:       logg,
	}

	logg.Info(ctx, "github client initialized")
	return c, nil
}

// ExchangeCode swaps an OAuth authorization code for a user access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*AccessToken, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization code is required")
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)

	endpoint := c.oauthBaseURL + "/login/oauth/access_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building token exchange request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	c.log(ctx, "request", "exchange_code", nil)

	var payload struct {
		AccessToken      string `json:"access_token"`
		TokenType        string `json:"token_type"`
		Scope            string `json:"scope"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := c.do(req, &payload); err != nil {
		c.log(ctx, "error", "exchange_code", map[string]any{"error": err.Error()})
		return nil, err
	}

	if payload.Error != "" {
		c.log(ctx, "error", "exchange_code", map[string]any{"oauth_error": payload.Error})
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "github rejected the authorization code").
			WithDetails(map[string]any{"oauth_error": payload.Error})
	}
	if payload.AccessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "github returned an empty access token")
	}

	c.log(ctx, "response", "exchange_code", map[string]any{"scope": payload.Scope})
	return &AccessToken{
		Token: payload.AccessToken,
		Scope: payload.Scope,
		Type:  payload.TokenType,
	}, nil
}

// FetchUser loads the authenticated user's profile, falling back to the primary
// verified email when the profile email is hidden.
func (c *Client) FetchUser(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "github access token is required")
	}

	c.log(ctx, "request", "fetch_user", nil)

	var user User
	if err := c.get(ctx, "/user", token, &user); err != nil {
		c.log(ctx, "error", "fetch_user", map[string]any{"error": err.Error()})
		return nil, err
	}
	if user.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "github returned an invalid user profile")
	}

	if user.Email == "" {
		email, err := c.primaryEmail(ctx, token)
		if err != nil {
			c.log(ctx, "error", "fetch_user", map[string]any{"error": err.Error()})
			return nil, err
		}
		user.Email = email
	}

	c.log(ctx, "response", "fetch_user", map[string]any{"github_id": user.ID, "login": user.Login})
	return &user, nil
}

func (c *Client) primaryEmail(ctx context.Context, token string) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := c.get(ctx, "/user/emails", token, &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeValidation, "github account has no verified email")
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building github request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling github")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading github response")
	}

	if resp.StatusCode >= 400 {
		return pkgerrors.New(domainCodeForStatus(resp.StatusCode), fmt.Sprintf("github responded with status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding github response")
	}
	return nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = v
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("github %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("github %s", phase))
	}
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.CodeUnauthorized
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}
