package payment

import (
	"errors"
	"time"

	"github.com/arenax/arenax/internal/pkg/httpclient"
)

// ErrNotConfigured is returned before any request when the provider base URL
// or secret key is missing.
var ErrNotConfigured = errors.New("payment provider not configured")

type Config struct {
	// BaseURL of the provider API, e.g. https://api.flutterwave.com/v3.
	BaseURL   string `conf:"base_url" yaml:"base_url" json:"base_url"`
	SecretKey string `conf:"secret_key" yaml:"secret_key" json:"-"`

	// Network is the default mobile money network used in the charge type,
	// e.g. "ghana" for mobile_money_ghana.
	Network  string `conf:"network" yaml:"network" json:"network"`
	Currency string `conf:"currency" yaml:"currency" json:"currency"`

	RedirectURL string `conf:"redirect_url" yaml:"redirect_url" json:"redirect_url"`

	Timeout time.Duration `conf:"timeout" yaml:"timeout" json:"timeout"`

	// Retry is the number of extra attempts for verification requests that
	// fail with a retryable status.
	Retry      int           `conf:"retry" yaml:"retry" json:"retry"`
	RetryDelay time.Duration `conf:"retry_delay" yaml:"retry_delay" json:"retry_delay"`

	Proxy httpclient.ProxyConfig `conf:"proxy" yaml:"proxy" json:"proxy"`
}

// Configured reports whether requests can be sent.
func (c Config) Configured() bool {
	return c.BaseURL != "" && c.SecretKey != ""
}
