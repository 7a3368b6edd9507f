// Package bank talks to the account-aggregation service. All four
// operations are JSON POST calls keyed by uid; responses pass through a
// loose parse boundary before becoming core types.
package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"santi/internal/core"
)

// Endpoints holds the four aggregator function URLs.
type Endpoints struct {
	CreateLinkToken     string
	ExchangePublicToken string
	Accounts            string
	Transactions        string
}

type Client struct {
	http      *http.Client
	endpoints Endpoints
}

// APIError is a non-success aggregator response, carrying the status and
// the raw response body for the logs.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("aggregator error: %d %s", e.Status, e.Body)
}

func NewClient(endpoints Endpoints, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{http: hc, endpoints: endpoints}
}

// CreateLinkToken starts a bank-link flow and returns the link token the
// frontend hands to the link widget.
func (c *Client) CreateLinkToken(ctx context.Context, uid string) (string, error) {
	var resp struct {
		LinkToken string `json:"link_token"`
	}
	if err := c.call(ctx, c.endpoints.CreateLinkToken, map[string]string{"uid": uid}, &resp); err != nil {
		return "", fmt.Errorf("create link token: %w", err)
	}
	return resp.LinkToken, nil
}

// ExchangePublicToken finalizes a link flow by trading the widget's public
// token for server-side credentials held by the aggregator.
func (c *Client) ExchangePublicToken(ctx context.Context, uid, publicToken string) error {
	payload := map[string]string{"uid": uid, "public_token": publicToken}
	if err := c.call(ctx, c.endpoints.ExchangePublicToken, payload, nil); err != nil {
		return fmt.Errorf("exchange public token: %w", err)
	}
	return nil
}

// Accounts fetches the current account snapshot for the user.
func (c *Client) Accounts(ctx context.Context, uid string) ([]core.BankAccount, error) {
	var resp struct {
		Accounts []rawAccount `json:"accounts"`
	}
	if err := c.call(ctx, c.endpoints.Accounts, map[string]string{"uid": uid}, &resp); err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}

	accounts := make([]core.BankAccount, 0, len(resp.Accounts))
	for _, raw := range resp.Accounts {
		accounts = append(accounts, raw.toAccount())
	}
	return accounts, nil
}

// Transactions fetches recent bank transactions for the user, still in the
// aggregator's sign convention (positive = outflow).
func (c *Client) Transactions(ctx context.Context, uid string) ([]core.BankTransaction, error) {
	var resp struct {
		Transactions []rawTransaction `json:"transactions"`
	}
	if err := c.call(ctx, c.endpoints.Transactions, map[string]string{"uid": uid}, &resp); err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}

	txs := make([]core.BankTransaction, 0, len(resp.Transactions))
	for _, raw := range resp.Transactions {
		txs = append(txs, raw.toTransaction())
	}
	return txs, nil
}

func (c *Client) call(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call aggregator: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
