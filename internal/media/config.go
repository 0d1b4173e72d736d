package media

import (
	"errors"
	"time"
)

// ErrNotConfigured is returned when neither a base URL nor an origin is set.
var ErrNotConfigured = errors.New("media upload base url not configured")

// ClientConfig configures an Uploader.
type ClientConfig struct {
	// BaseURL of the media service. When empty, Origin is used.
	BaseURL string        `conf:"base_url" yaml:"base_url" json:"base_url"`
	Origin  string        `conf:"origin" yaml:"origin" json:"origin"`
	Timeout time.Duration `conf:"timeout" yaml:"timeout" json:"timeout"`
}

// Storage types.
const (
	StorageTypeFs     = "fs"
	StorageTypeS3     = "s3"
	StorageTypeGcs    = "gcs"
	StorageTypeMemory = "memory"
)

// StorageConfig selects where uploaded files are kept.
type StorageConfig struct {
	Type      string    `conf:"type" yaml:"type" json:"type"`
	Directory string    `conf:"directory" yaml:"directory" json:"directory"`
	S3        S3Config  `conf:"s3" yaml:"s3" json:"s3"`
	GCS       GCSConfig `conf:"gcs" yaml:"gcs" json:"gcs"`

	// MaxSize bounds an upload in bytes.
	MaxSize int64 `conf:"max_size" yaml:"max_size" json:"max_size"`

	// CacheTTL of the read cache in front of remote storage.
	CacheTTL time.Duration `conf:"cache_ttl" yaml:"cache_ttl" json:"cache_ttl"`
}

type S3Config struct {
	BucketName string `conf:"bucket_name" yaml:"bucket_name" json:"bucket_name"`
	Endpoint   string `conf:"endpoint" yaml:"endpoint" json:"endpoint"`
	Region     string `conf:"region" yaml:"region" json:"region"`
	AccessKey  string `conf:"access_key" yaml:"access_key" json:"-"`
	SecretKey  string `conf:"secret_key" yaml:"secret_key" json:"-"`
}

type GCSConfig struct {
	BucketName string `conf:"bucket_name" yaml:"bucket_name" json:"bucket_name"`
	Credential string `conf:"credential" yaml:"credential" json:"-"`
}
