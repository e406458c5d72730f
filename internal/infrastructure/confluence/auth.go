package confluence

import "net/http"

// AuthStrategy applies one credential scheme to an outbound request.
// Strategies are tried in registration order; the first one whose request
// yields a usable JSON response wins.
type AuthStrategy interface {
	Name() string
	// Configured reports whether the strategy has credentials to offer.
	// Unconfigured strategies are skipped without issuing a request.
	Configured() bool
	Apply(req *http.Request)
}

// BasicAuth is the legacy paired-identity scheme: user plus API token,
// base64-combined by net/http.
type BasicAuth struct {
	User     string
	APIToken string
}

func (b BasicAuth) Name() string { return "basic" }

func (b BasicAuth) Configured() bool { return b.User != "" && b.APIToken != "" }

func (b BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(b.User, b.APIToken)
}

// BearerAuth is the modern token-only scheme.
type BearerAuth struct {
	Token string
}

func (b BearerAuth) Name() string { return "bearer" }

func (b BearerAuth) Configured() bool { return b.Token != "" }

func (b BearerAuth) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+b.Token)
}
