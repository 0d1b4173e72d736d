// Package media stores uploaded files and provides the client that sends
// them to the media endpoint.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/pkg/httpclient"
)

// Uploader posts files to {base}/media/upload.
type Uploader struct {
	cfg  ClientConfig
	http *httpclient.HttpClient
}

func NewUploader(cfg ClientConfig, hc *httpclient.HttpClient) *Uploader {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	if hc == nil {
		hc = httpclient.NewHttpClientWithClient(&http.Client{Timeout: cfg.Timeout})
	}

	return &Uploader{cfg: cfg, http: hc}
}

// baseURL returns the configured base URL, falling back to the origin.
func (u *Uploader) baseURL() (*url.URL, error) {
	raw := strings.TrimSpace(u.cfg.BaseURL)
	if raw == "" {
		raw = strings.TrimSpace(u.cfg.Origin)
	}

	if raw == "" {
		return nil, ErrNotConfigured
	}

	base, err := url.Parse(strings.TrimRight(raw, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotConfigured, err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base url %q is not absolute", ErrNotConfigured, raw)
	}

	return base, nil
}

// Upload sends body as name into scope and returns the absolute URL of the
// stored file.
func (u *Uploader) Upload(ctx context.Context, name, scope string, body io.Reader) (string, error) {
	base, err := u.baseURL()
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("upload media: read body: %w", err)
	}

	endpoint := base.ResolveReference(&url.URL{Path: "media/upload"})

	resp, err := u.http.Do(ctx, &httpclient.Request{
		Method: http.MethodPost,
		URL:    endpoint.String(),
		Headers: http.Header{
			"Content-Type": []string{"application/octet-stream"},
			"X-File-Name":  []string{EncodeFileName(name)},
			"X-Scope":      []string{scope},
		},
		Body: data,
	})
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}

	location := gjson.GetBytes(resp.Body, "url").String()
	if location == "" {
		return "", fmt.Errorf("upload media: response has no url")
	}

	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("upload media: invalid url %q: %w", location, err)
	}

	resolved := base.ResolveReference(ref).String()

	log.Debug(ctx, "media uploaded", log.String("scope", scope), log.String("url", resolved))

	return resolved, nil
}

// EncodeFileName percent-encodes name for the x-file-name header.
func EncodeFileName(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

// DecodeFileName reverses EncodeFileName.
func DecodeFileName(encoded string) (string, error) {
	return url.PathUnescape(encoded)
}
