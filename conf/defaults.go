package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Every key has a default so that AutomaticEnv can override it.
var defaults = map[string]any{
	"server.host":                   "0.0.0.0",
	"server.port":                   8090,
	"server.name":                   "arenax",
	"server.base_path":              "",
	"server.read_timeout":           30 * time.Second,
	"server.request_timeout":        30 * time.Second,
	"server.debug":                  false,
	"server.trusted_proxies":        []string{},
	"server.trace.trace_header":     "X-Arenax-Trace-Id",
	"server.trace.request_header":   "X-Arenax-Request-Id",
	"server.trace.session_header":   "X-Arenax-Session",
	"server.cors.enabled":           false,
	"server.cors.allowed_origins":   []string{},
	"server.cors.allowed_methods":   []string{"GET", "POST", "OPTIONS"},
	"server.cors.allowed_headers":   []string{"Content-Type", "Authorization", "x-file-name", "x-scope", "X-Arenax-Session"},
	"server.cors.exposed_headers":   []string{"X-Arenax-Request-Id"},
	"server.cors.allow_credentials": false,
	"server.cors.max_age":           12 * time.Hour,

	"log.name":             "arenax",
	"log.level":            "info",
	"log.encoding":         "json",
	"log.output":           "stdio",
	"log.debug":            false,
	"log.file.path":        "logs/arenax.log",
	"log.file.max_size":    100,
	"log.file.max_age":     30,
	"log.file.max_backups": 10,
	"log.file.local_time":  false,
	"log.file.compress":    false,

	"db.dialect":           "sqlite",
	"db.dsn":               "file:arenax.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
	"db.debug":             false,
	"db.max_open_conns":    0,
	"db.max_idle_conns":    0,
	"db.conn_max_lifetime": time.Duration(0),

	"cache.mode":                    "memory",
	"cache.memory.expiration":       10 * time.Minute,
	"cache.memory.cleanup_interval": 5 * time.Minute,
	"cache.redis.addr":              "",
	"cache.redis.url":               "",
	"cache.redis.username":          "",
	"cache.redis.password":          "",
	"cache.redis.tls":               false,
	"cache.redis.expiration":        10 * time.Minute,

	"eventbus.mode":           "memory",
	"eventbus.channel":        "arenax:data-changed",
	"eventbus.redis.addr":     "",
	"eventbus.redis.url":      "",
	"eventbus.redis.username": "",
	"eventbus.redis.password": "",
	"eventbus.redis.tls":      false,

	"query_cache.name":           "arenax",
	"query_cache.size":           512,
	"query_cache.debounce_delay": 50 * time.Millisecond,
	"query_cache.fetch_timeout":  10 * time.Second,
	"query_cache.retry":          1,
	"query_cache.retry_delay":    200 * time.Millisecond,

	"events.keep_alive": 15 * time.Second,

	"payment.base_url":     "https://api.flutterwave.com/v3",
	"payment.secret_key":   "",
	"payment.network":      "ghana",
	"payment.currency":     "GHS",
	"payment.redirect_url": "",
	"payment.timeout":      30 * time.Second,
	"payment.retry":        2,
	"payment.retry_delay":  500 * time.Millisecond,

	"media.type":            "fs",
	"media.directory":       "data/media",
	"media.max_size":        5 << 20,
	"media.cache_ttl":       5 * time.Minute,
	"media.s3.bucket_name":  "",
	"media.s3.endpoint":     "",
	"media.s3.region":       "",
	"media.s3.access_key":   "",
	"media.s3.secret_key":   "",
	"media.gcs.bucket_name": "",
	"media.gcs.credential":  "",

	"media_client.base_url": "",
	"media_client.origin":   "http://localhost:8090",
	"media_client.timeout":  30 * time.Second,

	"biz.verify_cron":         "*/5 * * * *",
	"biz.verify_min_age":      time.Minute,
	"biz.session_ttl":         10 * time.Minute,
	"biz.admin.password_hash": "",
	"biz.admin.secret_key":    "",
	"biz.admin.token_ttl":     12 * time.Hour,

	"metrics.enabled":           false,
	"metrics.service_name":      "arenax",
	"metrics.exporter.type":     "stdout",
	"metrics.exporter.endpoint": "",
	"metrics.exporter.insecure": false,
	"metrics.interval":          30 * time.Second,
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
