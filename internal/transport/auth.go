package transport

import "net/http"

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request, token string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// BearerAuth sends the token with the "bearer" scheme. Header defaults to
// "Authentication", which is what the store API reads.
type BearerAuth struct {
	Header string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request, token string) {
	if token == "" {
		return
	}
	header := a.Header
	if header == "" {
		header = "Authentication"
	}
	req.Header.Set(header, "bearer "+token)
}
