package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/arenax/arenax/internal/build"
	"github.com/arenax/arenax/internal/contexts"
	"github.com/arenax/arenax/internal/log"
)

const (
	// maxResponseBody bounds how much of a response is read.
	maxResponseBody = 4 << 20
	// maxErrorBody bounds the body kept on *Error.
	maxErrorBody = 4 << 10
)

// Credentials are set by Auth only.
var strippedHeaders = []string{
	"Content-Length",
	"Transfer-Encoding",
	"Accept-Encoding",
	"Authorization",
	"Api-Key",
	"X-Api-Key",
}

// HttpClient sends requests and reads full responses. Non-2xx responses
// are returned as *Error.
type HttpClient struct {
	client *http.Client
}

// NewHttpClient creates a client on http.DefaultTransport without a timeout.
func NewHttpClient() *HttpClient {
	return &HttpClient{client: &http.Client{}}
}

// NewHttpClientWithClient wraps an existing http.Client.
func NewHttpClientWithClient(client *http.Client) *HttpClient {
	return &HttpClient{client: client}
}

// NewHttpClientWithProxy creates a client with its own transport routed
// through the configured proxy. A zero timeout means none.
func NewHttpClientWithProxy(proxyConfig *ProxyConfig, timeout time.Duration) *HttpClient {
	return &HttpClient{
		client: &http.Client{
			Transport: newTransport(proxyConfig),
			Timeout:   timeout,
		},
	}
}

func newTransport(proxyConfig *ProxyConfig) *http.Transport {
	return &http.Transport{
		Proxy: getProxyFunc(proxyConfig),
		DialContext: (&net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          32,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

func getProxyFunc(config *ProxyConfig) func(*http.Request) (*url.URL, error) {
	failing := func(err error) func(*http.Request) (*url.URL, error) {
		return func(*http.Request) (*url.URL, error) { return nil, err }
	}

	if config == nil {
		return http.ProxyFromEnvironment
	}

	switch config.Type {
	case ProxyTypeDisabled:
		return failing(nil)
	case ProxyTypeURL:
		if config.URL == "" {
			return failing(errors.New("proxy URL is required when type is 'url'"))
		}

		proxyURL, err := url.Parse(config.URL)
		if err != nil {
			return failing(fmt.Errorf("invalid proxy URL: %w", err))
		}

		if config.Username != "" && config.Password != "" {
			proxyURL.User = url.UserPassword(config.Username, config.Password)
		}

		log.Debug(context.Background(), "use custom proxy", log.String("proxy_url", proxyURL.Redacted()))

		return http.ProxyURL(proxyURL)
	default:
		// environment and unknown types
		return http.ProxyFromEnvironment
	}
}

// Do sends the request and reads the whole response body.
func (hc *HttpClient) Do(ctx context.Context, request *Request) (*Response, error) {
	rawReq, err := newRawRequest(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}

	start := time.Now()

	rawResp, err := hc.client.Do(rawReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer closeBody(ctx, rawResp.Body)

	body, err := io.ReadAll(io.LimitReader(rawResp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if log.DebugEnabled(ctx) {
		log.Debug(ctx, "http request done",
			log.String("method", rawReq.Method),
			log.String("url", rawReq.URL.Redacted()),
			log.Int("status_code", rawResp.StatusCode),
			log.Duration("elapsed", time.Since(start)),
			log.String("body", string(truncate(body, maxErrorBody))))
	}

	if rawResp.StatusCode < http.StatusOK || rawResp.StatusCode >= http.StatusMultipleChoices {
		return nil, &Error{
			Method:     rawReq.Method,
			URL:        rawReq.URL.Redacted(),
			StatusCode: rawResp.StatusCode,
			Status:     rawResp.Status,
			Body:       truncate(body, maxErrorBody),
		}
	}

	return &Response{
		StatusCode: rawResp.StatusCode,
		Headers:    rawResp.Header,
		Body:       body,
		Request:    request,
		RawRequest: rawReq,
	}, nil
}

func newRawRequest(ctx context.Context, request *Request) (*http.Request, error) {
	var body io.Reader
	if len(request.Body) > 0 {
		body = bytes.NewReader(request.Body)
	}

	rawReq, err := http.NewRequestWithContext(ctx, request.Method, request.URL, body)
	if err != nil {
		return nil, err
	}

	header := request.Headers.Clone()
	if header == nil {
		header = make(http.Header)
	}

	for _, k := range strippedHeaders {
		header.Del(k)
	}

	setDefault(header, "Accept", "application/json")
	setDefault(header, "User-Agent", "arenax/"+build.Version)

	requestID := request.RequestID
	if requestID == "" {
		requestID, _ = contexts.GetRequestID(ctx)
	}

	if requestID != "" {
		header.Set("X-Request-Id", requestID)
	}

	if request.Auth != nil {
		if err := request.Auth.apply(header); err != nil {
			return nil, fmt.Errorf("failed to apply authentication: %w", err)
		}
	}

	rawReq.Header = header

	if len(request.Query) > 0 {
		q := rawReq.URL.Query()
		for k, vs := range request.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}

		rawReq.URL.RawQuery = q.Encode()
	}

	return rawReq, nil
}

func (a *AuthConfig) apply(header http.Header) error {
	switch a.Type {
	case AuthTypeBearer:
		if a.APIKey == "" {
			return errors.New("bearer token is required")
		}

		header.Set("Authorization", "Bearer "+a.APIKey)
	case AuthTypeAPIKey:
		if a.HeaderKey == "" {
			return errors.New("header key is required")
		}

		header.Set(a.HeaderKey, a.APIKey)
	default:
		return fmt.Errorf("unsupported auth type: %s", a.Type)
	}

	return nil
}

func setDefault(header http.Header, key, value string) {
	if header.Get(key) == "" {
		header.Set(key, value)
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}

	return b[:n]
}

func closeBody(ctx context.Context, body io.Closer) {
	if err := body.Close(); err != nil {
		log.Warn(ctx, "failed to close HTTP response body", log.Cause(err))
	}
}
