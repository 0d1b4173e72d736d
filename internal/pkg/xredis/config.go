package xredis

import (
	"strings"
	"time"
)

type Config struct {
	Addr                  string        `conf:"addr" yaml:"addr" json:"addr"`
	URL                   string        `conf:"url" yaml:"url" json:"url"`
	Username              string        `conf:"username" yaml:"username" json:"username"`
	Password              string        `conf:"password" yaml:"password" json:"-"`
	DB                    *int          `conf:"db" yaml:"db" json:"db"`
	TLS                   bool          `conf:"tls" yaml:"tls" json:"tls"`
	TLSInsecureSkipVerify bool          `conf:"tls_insecure_skip_verify" yaml:"tls_insecure_skip_verify" json:"tls_insecure_skip_verify"`
	PingTimeout           time.Duration `conf:"ping_timeout" yaml:"ping_timeout" json:"ping_timeout"`

	// Expiration is the default TTL for values stored by redis backed caches.
	Expiration time.Duration `conf:"expiration" yaml:"expiration" json:"expiration"`
}

// Configured reports whether an address or URL is set.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.Addr) != "" || c.URL != ""
}
