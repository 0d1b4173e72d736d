package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/spf13/afero/gcsfs"
	"golang.org/x/oauth2/google"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscredentials "github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3fs "github.com/looplj/afero-s3"
	googleoption "google.golang.org/api/option"

	"github.com/arenax/arenax/internal/log"
)

var (
	ErrInvalidScope = errors.New("invalid media scope")
	ErrInvalidName  = errors.New("invalid media file name")
	ErrTooLarge     = errors.New("media file too large")
	ErrNotFound     = errors.New("media file not found")
)

var scopePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

const defaultMaxSize = 10 << 20

// Storage keeps uploaded files under <scope>/<file> in an afero filesystem.
type Storage struct {
	fs      afero.Fs
	typ     string
	maxSize int64
}

// NewStorage builds the filesystem selected by cfg.Type. An empty type uses
// memory.
func NewStorage(ctx context.Context, cfg StorageConfig) (*Storage, error) {
	var (
		fs  afero.Fs
		err error
	)

	typ := lo.CoalesceOrEmpty(cfg.Type, StorageTypeMemory)
	ttl := lo.CoalesceOrEmpty(cfg.CacheTTL, 5*time.Minute)

	switch typ {
	case StorageTypeMemory:
		fs = afero.NewMemMapFs()
	case StorageTypeFs:
		if cfg.Directory == "" {
			return nil, errors.New("media fs storage requires a directory")
		}

		if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory: %w", err)
		}

		fs = afero.NewBasePathFs(afero.NewOsFs(), cfg.Directory)
	case StorageTypeS3:
		fs, err = newS3Fs(ctx, cfg.S3, ttl)
	case StorageTypeGcs:
		fs, err = newGcsFs(ctx, cfg.GCS, ttl)
	default:
		return nil, fmt.Errorf("unsupported media storage type: %s", typ)
	}

	if err != nil {
		return nil, err
	}

	log.Info(ctx, "media storage ready", log.String("type", typ))

	return NewStorageWithFs(fs, typ, cfg.MaxSize), nil
}

// NewStorageWithFs wraps an existing filesystem.
func NewStorageWithFs(fs afero.Fs, typ string, maxSize int64) *Storage {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}

	return &Storage{fs: fs, typ: typ, maxSize: maxSize}
}

func newS3Fs(ctx context.Context, cfg S3Config, ttl time.Duration) (afero.Fs, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("media s3 storage requires a bucket name")
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			awscredentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = lo.ToPtr(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return afero.NewCacheOnReadFs(s3fs.NewFsFromClient(cfg.BucketName, client), afero.NewMemMapFs(), ttl), nil
}

func newGcsFs(ctx context.Context, cfg GCSConfig, ttl time.Duration) (afero.Fs, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("media gcs storage requires a bucket name")
	}

	creds, err := google.CredentialsFromJSON(ctx, []byte(cfg.Credential), storage.ScopeFullControl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GCP credentials: %w", err)
	}

	client, err := storage.NewClient(ctx, googleoption.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	fs, err := gcsfs.NewGcsFSFromClient(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS filesystem: %w", err)
	}

	return afero.NewCacheOnReadFs(afero.NewBasePathFs(fs, cfg.BucketName), afero.NewMemMapFs(), ttl), nil
}

// Type returns the storage type.
func (s *Storage) Type() string {
	return s.typ
}

// Save writes body as a new file in scope and returns its file name, which
// is "<uuid>-<name>".
func (s *Storage) Save(ctx context.Context, scope, name string, body io.Reader) (string, error) {
	if !scopePattern.MatchString(scope) {
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, scope)
	}

	clean := sanitizeName(name)
	if clean == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	data, err := io.ReadAll(io.LimitReader(body, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read media body: %w", err)
	}

	if int64(len(data)) > s.maxSize {
		return "", ErrTooLarge
	}

	file := uuid.NewString() + "-" + clean
	key := path.Join(scope, file)

	if err := s.fs.MkdirAll(scope, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w, key: %s", err, key)
	}

	if err := afero.WriteFile(s.fs, key, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w, key: %s", err, key)
	}

	log.Debug(ctx, "media saved", log.String("key", key), log.Int("size", len(data)))

	return file, nil
}

// Open returns the stored file. The caller closes it.
func (s *Storage) Open(ctx context.Context, scope, file string) (afero.File, os.FileInfo, error) {
	if !scopePattern.MatchString(scope) || file != sanitizeName(file) || file == "" {
		return nil, nil, ErrNotFound
	}

	key := path.Join(scope, file)

	info, err := s.fs.Stat(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrNotFound
		}

		return nil, nil, fmt.Errorf("failed to stat file: %w, key: %s", err, key)
	}

	f, err := s.fs.Open(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w, key: %s", err, key)
	}

	return f, info, nil
}

// Delete removes a stored file. Missing files are ignored.
func (s *Storage) Delete(ctx context.Context, scope, file string) error {
	key := path.Join(scope, sanitizeName(file))

	if err := s.fs.Remove(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w, key: %s", err, key)
	}

	return nil
}

// URLPath is the public path of a stored file.
func URLPath(scope, file string) string {
	return "/media/" + scope + "/" + file
}

// sanitizeName keeps the base name and replaces characters outside a
// conservative set.
func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}

	var b strings.Builder

	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return strings.TrimLeft(b.String(), ".")
}
