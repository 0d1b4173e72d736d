package media

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploader_Upload(t *testing.T) {
	var (
		gotName  string
		gotScope string
		gotBody  []byte
		gotPath  string
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.Header.Get("x-file-name")
		gotScope = r.Header.Get("x-scope")
		gotBody, _ = io.ReadAll(r.Body)

		_, _ = w.Write([]byte(`{"url":"/media/logos/abc-team.png"}`))
	}))
	defer srv.Close()

	u := NewUploader(ClientConfig{BaseURL: srv.URL + "/api"}, nil)

	got, err := u.Upload(context.Background(), "team logo+1.png", "logos", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/media/logos/abc-team.png", got)
	assert.Equal(t, "/api/media/upload", gotPath)
	assert.Equal(t, "team%20logo%2B1.png", gotName)
	assert.Equal(t, "logos", gotScope)
	assert.Equal(t, "png-bytes", string(gotBody))

	decoded, err := DecodeFileName(gotName)
	require.NoError(t, err)
	assert.Equal(t, "team logo+1.png", decoded)
}

func TestUploader_RelativeURLWithoutSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url":"files/a.png"}`))
	}))
	defer srv.Close()

	got, err := NewUploader(ClientConfig{BaseURL: srv.URL + "/api/"}, nil).Upload(context.Background(), "a.png", "logos", bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/api/files/a.png", got)
}

func TestUploader_AbsoluteURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/a.png"}`))
	}))
	defer srv.Close()

	got, err := NewUploader(ClientConfig{Origin: srv.URL}, nil).Upload(context.Background(), "a.png", "logos", bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", got)
}

func TestUploader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "non 2xx", status: http.StatusInternalServerError, body: `{"url":"/x"}`},
		{name: "missing url", status: http.StatusOK, body: `{"ok":true}`},
		{name: "not json", status: http.StatusOK, body: `oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewUploader(ClientConfig{BaseURL: srv.URL}, nil).Upload(context.Background(), "a.png", "logos", bytes.NewReader(nil))
			require.Error(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestUploader_NotConfigured(t *testing.T) {
	var requests atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	for _, cfg := range []ClientConfig{{}, {BaseURL: "   "}, {BaseURL: "relative/path"}} {
		_, err := NewUploader(cfg, nil).Upload(context.Background(), "a.png", "logos", bytes.NewReader([]byte("x")))
		assert.ErrorIs(t, err, ErrNotConfigured)
	}

	assert.Equal(t, int32(0), requests.Load())
}
