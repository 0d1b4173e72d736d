package httpclient

import (
	"net/http"
	"net/url"
)

// Request is an outbound HTTP request.
type Request struct {
	Method  string      `json:"method"`
	URL     string      `json:"url"`
	Headers http.Header `json:"headers,omitempty"`
	Query   url.Values  `json:"query,omitempty"`
	Body    []byte      `json:"-"`

	// Auth is applied after the blocked headers are stripped.
	Auth *AuthConfig `json:"-"`

	RequestID string `json:"request_id,omitempty"`
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte

	Request    *Request
	RawRequest *http.Request
}

const (
	AuthTypeBearer = "bearer"
	AuthTypeAPIKey = "api_key"
)

// AuthConfig describes the credentials of a request.
type AuthConfig struct {
	Type      string `json:"type"`
	APIKey    string `json:"-"`
	HeaderKey string `json:"header_key,omitempty"`
}

// Bearer returns a bearer token auth config.
func Bearer(token string) *AuthConfig {
	return &AuthConfig{Type: AuthTypeBearer, APIKey: token}
}

const (
	ProxyTypeDisabled    = "disabled"
	ProxyTypeEnvironment = "environment"
	ProxyTypeURL         = "url"
)

// ProxyConfig selects how outbound requests reach the network.
type ProxyConfig struct {
	Type     string `conf:"type" yaml:"type" json:"type"`
	URL      string `conf:"url" yaml:"url" json:"url"`
	Username string `conf:"username" yaml:"username" json:"username"`
	Password string `conf:"password" yaml:"password" json:"-"`
}
