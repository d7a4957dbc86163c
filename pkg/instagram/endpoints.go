package instagram

import (
	"net/url"
	"strings"
)

const (
	// AuthorizeURL is where the user is sent to grant access
	AuthorizeURL = "https://api.instagram.com/oauth/authorize"

	// AccessTokenURL exchanges an authorization code for a short-lived token
	AccessTokenURL = "https://api.instagram.com/oauth/access_token"

	// ExchangeTokenURL exchanges a short-lived token for a long-lived one
	ExchangeTokenURL = "https://graph.instagram.com/access_token"

	// RefreshTokenURL refreshes a long-lived token
	RefreshTokenURL = "https://graph.instagram.com/refresh_access_token"

	// MediaURL lists the authenticated user's media
	MediaURL = "https://graph.instagram.com/me/media"
)

const (
	GrantTypeAuthorizationCode = "authorization_code"
	GrantTypeExchangeToken     = "ig_exchange_token"
	GrantTypeRefreshToken      = "ig_refresh_token"
)

// DefaultScopes are requested when BuildAuthorizeURL is given no scope
var DefaultScopes = []string{"user_profile", "user_media"}

// DefaultMediaFields are requested when FetchMyMedia is given no fields
var DefaultMediaFields = []string{
	"caption",
	"id",
	"media_type",
	"media_url",
	"permalink",
	"thumbnail_url",
	"timestamp",
}

// Endpoints holds the URLs the client talks to
type Endpoints struct {
	Authorize     string
	AccessToken   string
	ExchangeToken string
	RefreshToken  string
	Media         string
}

// DefaultEndpoints returns the production Instagram endpoints
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Authorize:     AuthorizeURL,
		AccessToken:   AccessTokenURL,
		ExchangeToken: ExchangeTokenURL,
		RefreshToken:  RefreshTokenURL,
		Media:         MediaURL,
	}
}

// authorizeURL renders the authorization URL with parameters in a fixed order.
// Values are query-escaped; the comma separating scopes stays literal.
func authorizeURL(base, clientID, redirectURI string, scope []string, state string) string {
	escaped := make([]string, len(scope))
	for i, s := range scope {
		escaped[i] = url.QueryEscape(s)
	}

	var b strings.Builder
	b.WriteString(base)
	if strings.Contains(base, "?") {
		b.WriteString("&")
	} else {
		b.WriteString("?")
	}
	b.WriteString("client_id=")
	b.WriteString(url.QueryEscape(clientID))
	b.WriteString("&redirect_uri=")
	b.WriteString(url.QueryEscape(redirectURI))
	b.WriteString("&scope=")
	b.WriteString(strings.Join(escaped, ","))
	b.WriteString("&response_type=code")
	if state != "" {
		b.WriteString("&state=")
		b.WriteString(url.QueryEscape(state))
	}
	return b.String()
}

// joinFields joins field or scope names with commas, skipping blanks
func joinFields(fields []string) string {
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, ",")
}
