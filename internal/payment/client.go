// Package payment wraps the hosted mobile money provider API. Charge creation
// and settlement stay with the provider; this package only sends the calls
// and normalizes their answers.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/arenax/arenax/internal/log"
	"github.com/arenax/arenax/internal/pkg/httpclient"
)

// ErrMalformedResponse is returned when the provider answers 2xx with a body
// that cannot be normalized.
var ErrMalformedResponse = errors.New("malformed payment provider response")

//go:generate mockgen -source=client.go -destination=mock_provider.go -package=payment Provider

// Provider is the set of provider calls used by the service.
type Provider interface {
	InitiateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	VerifyByReference(ctx context.Context, reference string) (*Verification, error)
	VerifyByID(ctx context.Context, id string) (*Verification, error)
}

type Client struct {
	cfg  Config
	http *httpclient.HttpClient

	sleep func(ctx context.Context, d time.Duration) error
}

var _ Provider = (*Client)(nil)

func NewClient(cfg Config, hc *httpclient.HttpClient) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	if hc == nil {
		hc = httpclient.NewHttpClientWithProxy(&cfg.Proxy, cfg.Timeout)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{cfg: cfg, http: hc, sleep: sleepContext}
}

func (c *Client) checkConfig(op string) error {
	if !c.cfg.Configured() {
		return fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	return nil
}

type chargePayload struct {
	TxRef       string `json:"tx_ref"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	FullName    string `json:"fullname"`
	Network     string `json:"network,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// InitiateCharge asks the provider to push a mobile money charge to the payer.
func (c *Client) InitiateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := c.checkConfig("initiate charge"); err != nil {
		return nil, err
	}

	network := req.Network
	if network == "" {
		network = c.cfg.Network
	}

	currency := req.Currency
	if currency == "" {
		currency = c.cfg.Currency
	}

	body, err := json.Marshal(chargePayload{
		TxRef:       req.Reference,
		Amount:      req.Amount.String(),
		Currency:    currency,
		Email:       req.Email,
		PhoneNumber: req.Phone,
		FullName:    req.Name,
		Network:     strings.ToUpper(network),
		RedirectURL: c.cfg.RedirectURL,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, &httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.cfg.BaseURL + "/charges",
		Query:   url.Values{"type": []string{"mobile_money_" + strings.ToLower(network)}},
		Headers: http.Header{"Content-Type": []string{"application/json"}},
		Body:    body,
		Auth:    httpclient.Bearer(c.cfg.SecretKey),
	})
	if err != nil {
		return nil, fmt.Errorf("initiate charge: %w", err)
	}

	result, err := parseCharge(resp.Body, req.Reference)
	if err != nil {
		return nil, fmt.Errorf("initiate charge: %w", err)
	}

	log.Info(ctx, "payment charge initiated",
		log.String("reference", result.Reference),
		log.String("status", result.Status),
		log.String("provider_transaction_id", result.ProviderTransactionID))

	return result, nil
}

// VerifyByReference looks a transaction up by our reference. An empty
// reference is answered without a request.
func (c *Client) VerifyByReference(ctx context.Context, reference string) (*Verification, error) {
	if strings.TrimSpace(reference) == "" {
		return MissingReference(), nil
	}

	if err := c.checkConfig("verify by reference"); err != nil {
		return nil, err
	}

	return c.verify(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    c.cfg.BaseURL + "/transactions/verify_by_reference",
		Query:  url.Values{"tx_ref": []string{reference}},
		Auth:   httpclient.Bearer(c.cfg.SecretKey),
	})
}

// VerifyByID looks a transaction up by the provider transaction id.
func (c *Client) VerifyByID(ctx context.Context, id string) (*Verification, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("verify by id: transaction id is required")
	}

	if err := c.checkConfig("verify by id"); err != nil {
		return nil, err
	}

	return c.verify(ctx, &httpclient.Request{
		Method: http.MethodGet,
		URL:    c.cfg.BaseURL + "/transactions/" + url.PathEscape(id) + "/verify",
		Auth:   httpclient.Bearer(c.cfg.SecretKey),
	})
}

func (c *Client) verify(ctx context.Context, req *httpclient.Request) (*Verification, error) {
	var (
		resp *httpclient.Response
		err  error
	)

	for attempt := 0; attempt <= c.cfg.Retry; attempt++ {
		if attempt > 0 {
			if serr := c.sleep(ctx, c.cfg.RetryDelay); serr != nil {
				break
			}

			log.Debug(ctx, "retrying payment verification", log.String("url", req.URL), log.Int("attempt", attempt))
		}

		resp, err = c.http.Do(ctx, req)
		if err == nil || !httpclient.IsRetryable(err) {
			break
		}
	}

	if err != nil {
		return nil, fmt.Errorf("verify transaction: %w", err)
	}

	v, err := parseVerification(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("verify transaction: %w", err)
	}

	return v, nil
}

func parseCharge(body []byte, reference string) (*ChargeResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}

	root := gjson.ParseBytes(body)

	status := root.Get("data.status").String()
	if status == "" {
		status = root.Get("status").String()
	}

	if status == "" {
		return nil, ErrMalformedResponse
	}

	ref := root.Get("data.tx_ref").String()
	if ref == "" {
		ref = reference
	}

	return &ChargeResult{
		Status:                strings.ToLower(status),
		Message:               root.Get("message").String(),
		Reference:             ref,
		ProviderTransactionID: root.Get("data.id").String(),
		RawData:               json.RawMessage(body),
	}, nil
}

func parseVerification(body []byte) (*Verification, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedResponse
	}

	root := gjson.ParseBytes(body)

	data := root.Get("data")
	if !data.IsObject() {
		return nil, ErrMalformedResponse
	}

	amount, err := decimal.NewFromString(data.Get("amount").String())
	if err != nil {
		amount = decimal.Zero
	}

	status := normalizeStatus(data.Get("status").String())

	return &Verification{
		Success:               root.Get("status").String() == "success" && status == StatusSuccessful,
		Status:                status,
		Amount:                amount,
		Currency:              strings.ToUpper(data.Get("currency").String()),
		Reference:             data.Get("tx_ref").String(),
		ProviderTransactionID: data.Get("id").String(),
		RawData:               json.RawMessage(body),
	}, nil
}

func normalizeStatus(s string) string {
	switch strings.ToLower(s) {
	case "successful", "success", "completed":
		return StatusSuccessful
	case "failed", "cancelled", "canceled", "error":
		return StatusFailed
	case "":
		return StatusPending
	default:
		return strings.ToLower(s)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
