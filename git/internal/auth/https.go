// Package auth provides HTTPS token authentication for git operations.
package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// TokenUsername is the basic-auth user GitHub expects alongside an access token.
const TokenUsername = "x-access-token"

// HTTPSAuthProvider provides HTTPS authentication for git operations.
// It wraps go-git's http.BasicAuth with host pattern matching.
type HTTPSAuthProvider struct {
	auth *http.BasicAuth

	// AllowedHosts restricts authentication to specific host patterns.
	// If empty, authentication is allowed for all HTTPS URLs.
	// Supports patterns like "*.github.com" or "github.*".
	AllowedHosts []string
}

// NewHTTPSTokenProvider creates an HTTPS provider for token authentication.
func NewHTTPSTokenProvider(token string) *HTTPSAuthProvider {
	return &HTTPSAuthProvider{
		auth: &http.BasicAuth{
			Username: TokenUsername,
			Password: token,
		},
	}
}

// WithAllowedHosts sets the allowed hosts for this provider.
func (p *HTTPSAuthProvider) WithAllowedHosts(hosts ...string) *HTTPSAuthProvider {
	p.AllowedHosts = hosts
	return p
}

// Method returns the authentication method for the given remote URL.
// Non-HTTPS URLs and hosts outside AllowedHosts get no credentials.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *HTTPSAuthProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	parsedURL, err := url.Parse(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if parsedURL.Scheme != "https" {
		return nil, nil
	}

	if p.auth.Password == "" {
		return nil, nil
	}

	if len(p.AllowedHosts) > 0 && !p.isHostAllowed(parsedURL.Hostname()) {
		return nil, nil
	}

	return p.auth, nil
}

func (p *HTTPSAuthProvider) isHostAllowed(host string) bool {
	for _, pattern := range p.AllowedHosts {
		if matchesPattern(host, pattern) {
			return true
		}
	}
	return false
}

// matchesPattern checks if a host matches a pattern with a single "*" wildcard.
func matchesPattern(host, pattern string) bool {
	if host == pattern {
		return true
	}

	if strings.Count(pattern, "*") != 1 {
		return false
	}

	if strings.HasPrefix(pattern, "*.") {
		suffix := strings.TrimPrefix(pattern, "*.")
		return strings.HasSuffix(host, "."+suffix) || host == suffix
	}

	if strings.HasSuffix(pattern, ".*") {
		prefix := strings.TrimSuffix(pattern, ".*")
		return strings.HasPrefix(host, prefix+".")
	}

	return false
}
