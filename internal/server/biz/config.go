package biz

import "time"

type Config struct {
	// VerifyCron schedules re-verification of pending payments. Empty disables it.
	VerifyCron string `conf:"verify_cron" yaml:"verify_cron" json:"verify_cron"`

	// VerifyMinAge skips pending payments younger than this, so a charge has
	// time to reach the payer.
	VerifyMinAge time.Duration `conf:"verify_min_age" yaml:"verify_min_age" json:"verify_min_age"`

	// SessionTTL expires client sessions that stop reporting.
	SessionTTL time.Duration `conf:"session_ttl" yaml:"session_ttl" json:"session_ttl"`

	Admin AdminConfig `conf:"admin" yaml:"admin" json:"admin"`
}

type AdminConfig struct {
	// PasswordHash is the hex encoded bcrypt hash of the organizer password,
	// as printed by `arenax admin hash-password`. Empty disables sign-in.
	PasswordHash string `conf:"password_hash" yaml:"password_hash" json:"-"`

	// SecretKey signs admin tokens.
	SecretKey string `conf:"secret_key" yaml:"secret_key" json:"-"`

	TokenTTL time.Duration `conf:"token_ttl" yaml:"token_ttl" json:"token_ttl"`
}
