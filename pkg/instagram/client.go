package instagram

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"igoauth/pkg/logger"
)

// TokenState is the OAuth state a Client accumulates across operations.
// Callers persist it between runs and seed it back with SetTokenState.
type TokenState struct {
	RedirectURI                     string `json:"redirect_uri,omitempty" yaml:"redirect_uri,omitempty"`
	ShortLivedAccessToken           string `json:"short_lived_access_token,omitempty" yaml:"short_lived_access_token,omitempty"`
	LongLivedAccessToken            string `json:"long_lived_access_token,omitempty" yaml:"long_lived_access_token,omitempty"`
	LongLivedAccessTokenExpiresIn   int64  `json:"long_lived_access_token_expires_in,omitempty" yaml:"long_lived_access_token_expires_in,omitempty"`
	LongLivedAccessTokenExpiresWhen int64  `json:"long_lived_access_token_expires_when,omitempty" yaml:"long_lived_access_token_expires_when,omitempty"`
}

// ExpiresWhenFrom returns the unix time at which the long-lived token
// expires if it was issued at now
func (s TokenState) ExpiresWhenFrom(now time.Time) int64 {
	return now.Unix() + s.LongLivedAccessTokenExpiresIn
}

// IsLongLivedTokenExpired reports whether a long-lived token with a known
// lifetime is past its expiry time at now. An empty token or a zero
// lifetime is never expired.
func (s TokenState) IsLongLivedTokenExpired(now time.Time) bool {
	return s.LongLivedAccessToken != "" &&
		s.LongLivedAccessTokenExpiresIn != 0 &&
		now.Unix() > s.LongLivedAccessTokenExpiresWhen
}

// Client drives the Instagram OAuth flow and media retrieval.
// A Client is owned by one goroutine; separate instances share nothing.
type Client struct {
	clientID     string
	clientSecret string
	state        TokenState

	endpoints  Endpoints
	requester  Requester
	httpClient *http.Client
	userAgent  string
	logger     logger.Logger
	now        func() time.Time
}

// Option configures a Client
type Option func(*Client)

// WithRequester replaces the HTTP collaborator
func WithRequester(r Requester) Option {
	return func(c *Client) { c.requester = r }
}

// WithHTTPClient sets the *http.Client used by the default requester
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent used by the default requester
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithEndpoints overrides the API URLs
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e }
}

// WithClock sets the time source used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client for the given OAuth application.
// Credentials are not validated; empty values fail at the API.
func NewClient(clientID, clientSecret string, opts ...Option) *Client {
	c := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoints:    DefaultEndpoints(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.GetLogger()
	}
	if c.requester == nil {
		hr := NewHTTPRequester(c.httpClient, c.logger)
		hr.SetUserAgent(c.userAgent)
		c.requester = hr
	}
	return c
}

func (c *Client) ClientID() string     { return c.clientID }
func (c *Client) ClientSecret() string { return c.clientSecret }

func (c *Client) RedirectURI() string { return c.state.RedirectURI }

func (c *Client) SetRedirectURI(uri string) { c.state.RedirectURI = uri }

func (c *Client) ShortLivedAccessToken() string { return c.state.ShortLivedAccessToken }

func (c *Client) SetShortLivedAccessToken(token string) { c.state.ShortLivedAccessToken = token }

func (c *Client) LongLivedAccessToken() string { return c.state.LongLivedAccessToken }

func (c *Client) SetLongLivedAccessToken(token string) { c.state.LongLivedAccessToken = token }

// LongLivedAccessTokenExpiresIn is the token lifetime in seconds
func (c *Client) LongLivedAccessTokenExpiresIn() int64 {
	return c.state.LongLivedAccessTokenExpiresIn
}

func (c *Client) SetLongLivedAccessTokenExpiresIn(seconds int64) {
	c.state.LongLivedAccessTokenExpiresIn = seconds
}

// LongLivedAccessTokenExpiresWhen is the absolute expiry as unix seconds
func (c *Client) LongLivedAccessTokenExpiresWhen() int64 {
	return c.state.LongLivedAccessTokenExpiresWhen
}

// SetLongLivedAccessTokenExpiresWhen stores the absolute expiry. The client
// never derives it; see TokenState.ExpiresWhenFrom.
func (c *Client) SetLongLivedAccessTokenExpiresWhen(unix int64) {
	c.state.LongLivedAccessTokenExpiresWhen = unix
}

// TokenState returns a copy of the current state for persistence
func (c *Client) TokenState() TokenState { return c.state }

// SetTokenState replaces the whole state, e.g. after loading it from storage
func (c *Client) SetTokenState(s TokenState) { c.state = s }

// IsLongLivedTokenExpired applies TokenState.IsLongLivedTokenExpired at the client's current time
func (c *Client) IsLongLivedTokenExpired() bool {
	return c.state.IsLongLivedTokenExpired(c.now())
}

// BuildAuthorizeURL stores redirectURI and returns the URL the user must
// visit to authorize the application. An empty scope requests DefaultScopes.
func (c *Client) BuildAuthorizeURL(redirectURI string, scope []string) string {
	return c.BuildAuthorizeURLWithState(redirectURI, scope, "")
}

// BuildAuthorizeURLWithState is BuildAuthorizeURL with an extra state
// parameter echoed back on the redirect. An empty state is omitted.
func (c *Client) BuildAuthorizeURLWithState(redirectURI string, scope []string, state string) string {
	c.state.RedirectURI = redirectURI
	if len(scope) == 0 {
		scope = DefaultScopes
	}
	return authorizeURL(c.endpoints.Authorize, c.clientID, redirectURI, scope, state)
}

// NewState returns a random value for the OAuth state parameter
func NewState() string {
	return uuid.NewString()
}

// ExchangeCodeForShortLivedToken trades an authorization code for a
// short-lived token and stores the returned access_token.
//
// The response is returned as decoded, API error payloads included; the
// status code is not inspected. A nil Result means nothing usable came
// back, and in that case the state is left untouched.
func (c *Client) ExchangeCodeForShortLivedToken(ctx context.Context, code string) (Result, error) {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("grant_type", GrantTypeAuthorizationCode)
	params.Set("redirect_uri", c.state.RedirectURI)
	params.Set("code", code)

	result, err := c.call(ctx, "exchange_code", http.MethodPost, c.endpoints.AccessToken, params)
	if err != nil {
		return nil, err
	}

	c.state.ShortLivedAccessToken = result.AccessToken()
	return result, nil
}

// ExchangeShortLivedForLongLivedToken trades the stored short-lived token
// for a long-lived one and stores its token and lifetime. The absolute
// expiry is left to the caller.
func (c *Client) ExchangeShortLivedForLongLivedToken(ctx context.Context) (Result, error) {
	params := url.Values{}
	params.Set("grant_type", GrantTypeExchangeToken)
	params.Set("client_secret", c.clientSecret)
	params.Set("access_token", c.state.ShortLivedAccessToken)

	result, err := c.call(ctx, "exchange_long_lived", http.MethodGet, c.endpoints.ExchangeToken, params)
	if err != nil {
		return nil, err
	}

	c.storeLongLived(result)
	return result, nil
}

// RefreshLongLivedToken refreshes the stored long-lived token. Storage
// semantics match ExchangeShortLivedForLongLivedToken.
func (c *Client) RefreshLongLivedToken(ctx context.Context) (Result, error) {
	params := url.Values{}
	params.Set("grant_type", GrantTypeRefreshToken)
	params.Set("access_token", c.state.LongLivedAccessToken)

	result, err := c.call(ctx, "refresh_long_lived", http.MethodGet, c.endpoints.RefreshToken, params)
	if err != nil {
		return nil, err
	}

	c.storeLongLived(result)
	return result, nil
}

// Limit returns a pointer for FetchMyMedia's optional limit
func Limit(n int) *int { return &n }

// FetchMyMedia lists the authenticated user's media. Empty fields request
// DefaultMediaFields; limit is sent only when non-nil.
//
// The short-lived token is used only when the long-lived token is expired.
// When no long-lived token was ever stored the (empty) long-lived token is
// still sent, because an empty token never counts as expired.
func (c *Client) FetchMyMedia(ctx context.Context, fields []string, limit *int) (Result, error) {
	if len(fields) == 0 {
		fields = DefaultMediaFields
	}

	token := c.state.LongLivedAccessToken
	tokenKind := "long_lived"
	if c.IsLongLivedTokenExpired() {
		token = c.state.ShortLivedAccessToken
		tokenKind = "short_lived"
	}

	params := url.Values{}
	params.Set("fields", joinFields(fields))
	params.Set("access_token", token)
	if limit != nil {
		params.Set("limit", strconv.Itoa(*limit))
	}

	c.logger.DebugWithFields("fetching media", map[string]interface{}{
		"token_kind": tokenKind,
		"fields":     fields,
	})

	return c.call(ctx, "fetch_media", http.MethodGet, c.endpoints.Media, params)
}

func (c *Client) storeLongLived(result Result) {
	c.state.LongLivedAccessToken = result.AccessToken()
	c.state.LongLivedAccessTokenExpiresIn = result.ExpiresIn()
}

// call issues the request and decodes the body. API error payloads are
// logged but still returned as results.
func (c *Client) call(ctx context.Context, operation, method, endpoint string, params url.Values) (Result, error) {
	body, err := c.requester.Request(ctx, method, endpoint, params)
	if err != nil {
		c.logger.WithError(err).WarnWithFields("request failed", map[string]interface{}{
			"operation": operation,
		})
		return nil, err
	}

	result, err := decodeResult(body)
	if err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.WarnWithFields("failed to parse response", map[string]interface{}{
			"operation":    operation,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return nil, err
	}

	if apiErr := result.APIError(); apiErr != nil {
		c.logger.WarnWithFields("API returned an error payload", map[string]interface{}{
			"operation":  operation,
			"error_type": apiErr.Type,
			"code":       apiErr.Code,
			"message":    apiErr.Message,
		})
	} else {
		c.logger.DebugWithFields("request succeeded", map[string]interface{}{
			"operation":    operation,
			"access_token": logger.Mask(result.AccessToken()),
		})
	}
	return result, nil
}
