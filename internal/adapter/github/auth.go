package github

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"golang.org/x/oauth2"
)

// AppCredentials identify a GitHub App installation. The private key signs a
// short-lived JWT which the transport exchanges for installation tokens as
// needed.
type AppCredentials struct {
	AppID          int64
	InstallationID int64
	PrivateKeyPath string
}

// Configured reports whether all three App fields are present.
func (c AppCredentials) Configured() bool {
	return c.AppID != 0 && c.InstallationID != 0 && c.PrivateKeyPath != ""
}

// ResolveToken returns the personal access token to use, preferring the
// GITHUB_TOKEN environment variable over the configured value. An empty
// result is not an error here; the caller decides whether App credentials
// cover for it.
func ResolveToken(configured string) string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return configured
}

// NewTokenHTTPClient builds an HTTP client that authenticates with a static
// personal access token.
func NewTokenHTTPClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return oauth2.NewClient(ctx, ts)
}

// NewAppHTTPClient builds an HTTP client that authenticates as a GitHub App
// installation.
func NewAppHTTPClient(creds AppCredentials) (*http.Client, error) {
	if _, err := os.Stat(creds.PrivateKeyPath); err != nil {
		return nil, fmt.Errorf("github app private key: %w", err)
	}

	itr, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, creds.AppID, creds.InstallationID, creds.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("github app transport: %w", err)
	}
	return &http.Client{Transport: itr}, nil
}

// NewAuthenticatedHTTPClient picks the authentication scheme: App
// credentials win when fully configured, otherwise the token chain is used.
// Returns an error when neither is available.
func NewAuthenticatedHTTPClient(ctx context.Context, token string, creds AppCredentials) (*http.Client, error) {
	if creds.Configured() {
		return NewAppHTTPClient(creds)
	}
	if resolved := ResolveToken(token); resolved != "" {
		return NewTokenHTTPClient(ctx, resolved), nil
	}
	return nil, fmt.Errorf("no GitHub credentials: set GITHUB_TOKEN, github.token, or the github.app section")
}
