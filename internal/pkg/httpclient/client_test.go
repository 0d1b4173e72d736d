package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenax/arenax/internal/build"
	"github.com/arenax/arenax/internal/contexts"
)

func TestHttpClient_Do(t *testing.T) {
	var got *http.Request

	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		gotBody, _ = io.ReadAll(r.Body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	ctx := contexts.WithRequestID(context.Background(), "ar-1")

	resp, err := NewHttpClient().Do(ctx, &Request{
		Method:  http.MethodPost,
		URL:     srv.URL + "/charges?type=mobile_money_ghana",
		Headers: http.Header{"Authorization": []string{"leak"}, "Content-Type": []string{"application/json"}},
		Query:   url.Values{"extra": []string{"1"}},
		Body:    []byte(`{"amount":"10"}`),
		Auth:    Bearer("secret"),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"success"}`, string(resp.Body))

	require.NotNil(t, got)
	assert.Equal(t, "Bearer secret", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "arenax/"+build.Version, got.Header.Get("User-Agent"))
	assert.Equal(t, "ar-1", got.Header.Get("X-Request-Id"))
	assert.Equal(t, "mobile_money_ghana", got.URL.Query().Get("type"))
	assert.Equal(t, "1", got.URL.Query().Get("extra"))
	assert.JSONEq(t, `{"amount":"10"}`, string(gotBody))
}

func TestHttpClient_DoErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no transaction"}`))
	}))
	defer srv.Close()

	_, err := NewHttpClient().Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL + "/transactions/1/verify"})
	require.Error(t, err)

	var httpErr *Error
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, http.MethodGet, httpErr.Method)
	assert.Contains(t, string(httpErr.Body), "no transaction")
	assert.True(t, IsNotFoundErr(err))
}

func TestHttpClient_DoTruncatesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(bytes.Repeat([]byte("x"), maxErrorBody*2))
	}))
	defer srv.Close()

	_, err := NewHttpClient().Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})

	var httpErr *Error
	require.ErrorAs(t, err, &httpErr)
	assert.Len(t, httpErr.Body, maxErrorBody)
	assert.True(t, IsRetryable(err))
}

func TestHttpClient_DoAuthErrors(t *testing.T) {
	c := NewHttpClient()

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, URL: "http://127.0.0.1", Auth: Bearer("")})
	assert.ErrorContains(t, err, "bearer token is required")

	_, err = c.Do(context.Background(), &Request{Method: http.MethodGet, URL: "http://127.0.0.1", Auth: &AuthConfig{Type: "basic"}})
	assert.ErrorContains(t, err, "unsupported auth type")
}

func TestHttpClient_WithProxyTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewHttpClientWithProxy(&ProxyConfig{Type: ProxyTypeDisabled}, 20*time.Millisecond)

	_, err := c.Do(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
	assert.Error(t, err)
}

func TestGetProxyFunc(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com", nil)

	u, err := getProxyFunc(&ProxyConfig{Type: ProxyTypeDisabled})(req)
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = getProxyFunc(&ProxyConfig{Type: ProxyTypeURL})(req)
	assert.Error(t, err)

	u, err = getProxyFunc(&ProxyConfig{Type: ProxyTypeURL, URL: "http://proxy:8080", Username: "u", Password: "p"})(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy:8080", u.Host)
	assert.Equal(t, "u", u.User.Username())
}
