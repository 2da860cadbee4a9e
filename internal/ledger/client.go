// Package ledger is a thin synchronous client for the double-entry ledger
// service's HTTP interface.
//
// The client is deliberately dumb: it performs no retry, no backoff, and
// keeps no local idempotency cache. Exactly-once effect per idempotency key
// is the ledger service's contract; this client's only jobs are to deliver
// each operation once, in order, and to surface any non-2xx response as a
// typed, fatal error.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds each request/response exchange.
const DefaultTimeout = 15 * time.Second

// APIError is a non-2xx response from the ledger service. The run treats it
// as fatal; no recovery or partial-completion handling is attempted.
type APIError struct {
	Status int    // HTTP status code
	Path   string // request path, e.g. "/v1/tx/transfer"
	Body   string // response body, truncated for logging
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ledger: POST %s returned %d: %s", e.Path, e.Status, e.Body)
}

// IsAPIError reports whether err is a ledger-side rejection, as opposed to a
// transport failure. Uses errors.As to handle wrapped errors.
func IsAPIError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// Client submits idempotent operations to one ledger service instance. The
// underlying http.Client pools connections across requests; Client itself is
// only ever used from the single driver goroutine.
type Client struct {
	baseURL string
	hc      *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

// WithHTTPClient substitutes the underlying HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// NewClient creates a client for the ledger service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type createAccountRequest struct {
	Label          string `json:"label"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotency_key"`
}

type createAccountResponse struct {
	AccountID string `json:"account_id"`
}

type mintRequest struct {
	AccountID      string `json:"account_id"`
	AmountCents    int64  `json:"amount_cents"`
	IdempotencyKey string `json:"idempotency_key"`
}

type transferRequest struct {
	FromAccountID  string `json:"from_account_id"`
	ToAccountID    string `json:"to_account_id"`
	AmountCents    int64  `json:"amount_cents"`
	IdempotencyKey string `json:"idempotency_key"`
}

type txResponse struct {
	TxID string `json:"tx_id"`
}

// CreateAccount registers an account and returns its ledger-assigned id.
// The id is opaque; callers store and reuse it without interpreting it.
func (c *Client) CreateAccount(ctx context.Context, label, currency, idemKey string) (string, error) {
	var res createAccountResponse
	err := c.post(ctx, "/v1/accounts", createAccountRequest{
		Label:          label,
		Currency:       currency,
		IdempotencyKey: idemKey,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.AccountID, nil
}

// Mint creates amountCents of new liquidity in the given account.
func (c *Client) Mint(ctx context.Context, accountID string, amountCents int64, idemKey string) (string, error) {
	var res txResponse
	err := c.post(ctx, "/v1/tx/mint", mintRequest{
		AccountID:      accountID,
		AmountCents:    amountCents,
		IdempotencyKey: idemKey,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.TxID, nil
}

// Transfer moves amountCents between two accounts.
func (c *Client) Transfer(ctx context.Context, fromID, toID string, amountCents int64, idemKey string) (string, error) {
	var res txResponse
	err := c.post(ctx, "/v1/tx/transfer", transferRequest{
		FromAccountID:  fromID,
		ToAccountID:    toID,
		AmountCents:    amountCents,
		IdempotencyKey: idemKey,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.TxID, nil
}

const maxErrBody = 512

// post performs one blocking JSON exchange. Each request carries a fresh
// X-Correlation-Id; correlation ids are diagnostic only and never feed the
// deterministic plan.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ledger: marshal %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ledger: build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Correlation-Id", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("ledger: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return &APIError{
			Status: resp.StatusCode,
			Path:   path,
			Body:   strings.TrimSpace(string(raw)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ledger: decode %s response: %w", path, err)
	}
	return nil
}
