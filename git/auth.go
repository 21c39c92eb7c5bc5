package git

import "github.com/blackbaud/skyux-sdk-actions/git/internal/auth"

// NewTokenAuth returns an AuthProvider that presents token as HTTPS basic
// auth to github.com. Other hosts and non-HTTPS remotes get no credentials.
//
//nolint:ireturn // callers only need the AuthProvider contract
func NewTokenAuth(token string) AuthProvider {
	return auth.NewHTTPSTokenProvider(token).WithAllowedHosts("github.com", "*.github.com")
}
