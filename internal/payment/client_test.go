package payment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenax/arenax/internal/pkg/httpclient"
)

type provider struct {
	*httptest.Server

	requests atomic.Int32
	last     atomic.Pointer[http.Request]
	body     atomic.Pointer[[]byte]
}

func newProvider(t *testing.T, handler http.HandlerFunc) *provider {
	t.Helper()

	p := &provider{}
	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.requests.Add(1)

		b, _ := io.ReadAll(r.Body)
		p.body.Store(&b)
		p.last.Store(r)

		handler(w, r)
	}))
	t.Cleanup(p.Close)

	return p
}

func newTestClient(baseURL string, retry int) *Client {
	c := NewClient(Config{BaseURL: baseURL + "/", SecretKey: "sk_test", Network: "ghana", Currency: "GHS", Retry: retry}, httpclient.NewHttpClient())
	c.sleep = func(context.Context, time.Duration) error { return nil }

	return c
}

func TestClient_InitiateCharge(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","message":"Charge initiated","data":{"id":4821,"tx_ref":"ref-1","status":"pending"}}`))
	})

	c := newTestClient(p.URL, 0)

	res, err := c.InitiateCharge(context.Background(), ChargeRequest{
		Reference: "ref-1",
		Phone:     "0244000000",
		Amount:    decimal.RequireFromString("150.00"),
		Email:     "cap@example.com",
		Name:      "Kofi",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", res.Status)
	assert.Equal(t, "Charge initiated", res.Message)
	assert.Equal(t, "ref-1", res.Reference)
	assert.Equal(t, "4821", res.ProviderTransactionID)
	assert.NotEmpty(t, res.RawData)

	req := p.last.Load()
	require.NotNil(t, req)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/charges", req.URL.Path)
	assert.Equal(t, "mobile_money_ghana", req.URL.Query().Get("type"))
	assert.Equal(t, "Bearer sk_test", req.Header.Get("Authorization"))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(*p.body.Load(), &payload))
	assert.Equal(t, "ref-1", payload["tx_ref"])
	assert.Equal(t, "150", payload["amount"])
	assert.Equal(t, "GHS", payload["currency"])
	assert.Equal(t, "0244000000", payload["phone_number"])
	assert.Equal(t, "GHANA", payload["network"])
}

func TestClient_InitiateChargeUpstreamError(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"error","message":"Invalid phone number"}`))
	})

	_, err := newTestClient(p.URL, 2).InitiateCharge(context.Background(), ChargeRequest{Reference: "r"})
	require.Error(t, err)

	var httpErr *httpclient.Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, int32(1), p.requests.Load())
}

func TestClient_InitiateChargeMalformed(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := newTestClient(p.URL, 0).InitiateCharge(context.Background(), ChargeRequest{Reference: "r"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_VerifyByReference(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"id":99,"tx_ref":"ref-1","status":"successful","amount":150.5,"currency":"ghs"}}`))
	})

	v, err := newTestClient(p.URL, 0).VerifyByReference(context.Background(), "ref-1")
	require.NoError(t, err)

	assert.True(t, v.Success)
	assert.Equal(t, StatusSuccessful, v.Status)
	assert.True(t, decimal.RequireFromString("150.5").Equal(v.Amount))
	assert.Equal(t, "GHS", v.Currency)
	assert.Equal(t, "ref-1", v.Reference)
	assert.Equal(t, "99", v.ProviderTransactionID)
	assert.True(t, v.Final())

	req := p.last.Load()
	assert.Equal(t, "/transactions/verify_by_reference", req.URL.Path)
	assert.Equal(t, "ref-1", req.URL.Query().Get("tx_ref"))
}

func TestClient_VerifyByReferenceMissing(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, ref := range []string{"", "   "} {
		v, err := newTestClient(p.URL, 0).VerifyByReference(context.Background(), ref)
		require.NoError(t, err)
		assert.False(t, v.Success)
		assert.Equal(t, StatusMissingReference, v.Status)
	}

	assert.Equal(t, int32(0), p.requests.Load())
}

func TestClient_VerifyByID(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"id":7,"tx_ref":"ref-7","status":"failed","amount":10,"currency":"GHS"}}`))
	})

	v, err := newTestClient(p.URL, 0).VerifyByID(context.Background(), "7")
	require.NoError(t, err)

	assert.False(t, v.Success)
	assert.Equal(t, StatusFailed, v.Status)
	assert.Equal(t, "/transactions/7/verify", p.last.Load().URL.Path)

	_, err = newTestClient(p.URL, 0).VerifyByID(context.Background(), "")
	assert.Error(t, err)
	assert.Equal(t, int32(1), p.requests.Load())
}

func TestClient_VerifyRetries(t *testing.T) {
	var calls atomic.Int32

	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		_, _ = w.Write([]byte(`{"status":"success","data":{"id":1,"status":"pending"}}`))
	})

	v, err := newTestClient(p.URL, 3).VerifyByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, v.Status)
	assert.False(t, v.Final())
	assert.Equal(t, int32(3), p.requests.Load())
}

func TestClient_VerifyNoRetryOnClientError(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := newTestClient(p.URL, 3).VerifyByID(context.Background(), "1")
	require.Error(t, err)
	assert.True(t, httpclient.IsNotFoundErr(err))
	assert.Equal(t, int32(1), p.requests.Load())
}

func TestClient_VerifyMalformed(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})

	_, err := newTestClient(p.URL, 0).VerifyByReference(context.Background(), "ref")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_NotConfigured(t *testing.T) {
	p := newProvider(t, func(w http.ResponseWriter, r *http.Request) {})

	c := NewClient(Config{BaseURL: p.URL}, nil)

	_, err := c.InitiateCharge(context.Background(), ChargeRequest{Reference: "r"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.VerifyByReference(context.Background(), "r")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = c.VerifyByID(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.Equal(t, int32(0), p.requests.Load())
}
