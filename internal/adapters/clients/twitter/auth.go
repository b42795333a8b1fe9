package twitter

import (
	"context"
	"net/http"

	"github.com/dghubble/oauth1"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jsamuelsen/go-twitter-connections/internal/platform/config"
)

// AuthMode is how a connection authenticates its requests.
type AuthMode string

const (
	// AuthUser signs each request with OAuth 1.0a user-context credentials.
	AuthUser AuthMode = "oauth1_user"

	// AuthBearer sends a preissued app-only bearer token.
	AuthBearer AuthMode = "bearer"

	// AuthAppOnly exchanges the consumer key and secret for a bearer token.
	AuthAppOnly AuthMode = "client_credentials"
)

// ModeFor picks the auth mode for conn.
func ModeFor(conn config.ConnectionConfig) AuthMode {
	switch {
	case conn.Token != "" && conn.TokenSecret != "":
		return AuthUser
	case conn.BearerToken != "":
		return AuthBearer
	default:
		return AuthAppOnly
	}
}

// authTransport wraps base with the signing layer for conn. No network I/O
// happens here; the client-credentials exchange runs on the first request.
func authTransport(conn config.ConnectionConfig, tokenURL string, base *http.Client) (http.RoundTripper, AuthMode) {
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	mode := ModeFor(conn)

	var hc *http.Client

	switch mode {
	case AuthUser:
		cfg := oauth1.NewConfig(conn.ConsumerKey, conn.ConsumerSecret)
		hc = cfg.Client(ctx, oauth1.NewToken(conn.Token, conn.TokenSecret))
	case AuthBearer:
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: conn.BearerToken,
			TokenType:   "Bearer",
		}))
	default:
		cfg := &clientcredentials.Config{
			ClientID:     conn.ConsumerKey,
			ClientSecret: conn.ConsumerSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		hc = cfg.Client(ctx)
	}

	return hc.Transport, mode
}
