// Package rest implements the fetch ports against the live banking REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"bankdg/internal/core"
	"bankdg/internal/fetch"
)

// TokenSource supplies the current bearer token, empty when no session is
// active. The session package implements it.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	apiKey  string
	tokens  TokenSource
	http    *http.Client
	retries uint64
}

const (
	defaultTimeout = 15 * time.Second
	defaultRetries = 3
)

// New builds a client for the banking API. A zero timeout or negative
// retry count falls back to the defaults.
func New(baseURL, apiKey string, tokens TokenSource, timeout time.Duration, retries int) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if retries < 0 {
		retries = defaultRetries
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		tokens:  tokens,
		http:    &http.Client{Timeout: timeout},
		retries: uint64(retries),
	}
}

// do runs one API call with exponential backoff on transient failures
// (network errors, 429 and 5xx). Client errors are permanent: 401 maps to
// fetch.ErrUnauthorized, 404 to fetch.ErrNotFound, anything else surfaces the
// backend's message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-api-key", c.apiKey)
		}
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return backoff.Permanent(fetch.ErrUnauthorized)
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fetch.ErrNotFound)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return backoff.Permanent(fmt.Errorf("decode envelope: %w", err))
		}
		if resp.StatusCode >= 400 || !env.Success {
			msg := env.Message
			if msg == "" {
				msg = resp.Status
			}
			return backoff.Permanent(fmt.Errorf("%s %s: %s", method, path, msg))
		}
		if out != nil && len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, out); err != nil {
				return backoff.Permanent(fmt.Errorf("decode data: %w", err))
			}
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		slog.DebugContext(ctx, "API request failed", "method", method, "path", path, "error", err)
		return err
	}
	return nil
}

func (c *Client) Accounts(ctx context.Context) ([]core.Account, error) {
	var dtos []accountDTO
	if err := c.do(ctx, http.MethodGet, "/accounts", nil, &dtos); err != nil {
		return nil, err
	}
	accounts := make([]core.Account, 0, len(dtos))
	for _, d := range dtos {
		accounts = append(accounts, d.toCore())
	}
	return accounts, nil
}

func (c *Client) Account(ctx context.Context, id string) (core.Account, error) {
	var dto accountDTO
	if err := c.do(ctx, http.MethodGet, "/accounts/"+url.PathEscape(id), nil, &dto); err != nil {
		return core.Account{}, err
	}
	return dto.toCore(), nil
}

func (c *Client) Cards(ctx context.Context) ([]core.Card, error) {
	var dtos []cardDTO
	if err := c.do(ctx, http.MethodGet, "/cards", nil, &dtos); err != nil {
		return nil, err
	}
	cards := make([]core.Card, 0, len(dtos))
	for _, d := range dtos {
		cards = append(cards, d.toCore())
	}
	return cards, nil
}

func (c *Client) Card(ctx context.Context, id string) (core.Card, error) {
	var dto cardDTO
	if err := c.do(ctx, http.MethodGet, "/cards/"+url.PathEscape(id), nil, &dto); err != nil {
		return core.Card{}, err
	}
	return dto.toCore(), nil
}

func (c *Client) AccountMovements(ctx context.Context, accountID string, page, pageSize int) ([]core.Movement, error) {
	return c.movements(ctx, "/accounts/"+url.PathEscape(accountID)+"/movements", page, pageSize)
}

func (c *Client) CardMovements(ctx context.Context, cardID string, page, pageSize int) ([]core.Movement, error) {
	return c.movements(ctx, "/cards/"+url.PathEscape(cardID)+"/movements", page, pageSize)
}

func (c *Client) movements(ctx context.Context, path string, page, pageSize int) ([]core.Movement, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))

	var paged pagedMovements
	if err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &paged); err != nil {
		return nil, err
	}
	movements := make([]core.Movement, 0, len(paged.Items))
	for _, d := range paged.Items {
		movements = append(movements, d.toCore())
	}
	return movements, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (core.User, string, error) {
	body := map[string]string{"usuario": username, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return core.User{}, "", err
	}
	return resp.User.toCore(), resp.Token, nil
}

func (c *Client) SendInternal(ctx context.Context, req fetch.TransferRequest) (fetch.Receipt, error) {
	body := map[string]any{
		"fromAccountId": req.FromAccountID,
		"toAccountId":   req.ToAccountID,
		"amount":        req.Amount,
		"currency":      req.Currency,
		"description":   req.Description,
		"userId":        req.UserID,
	}
	return c.sendTransfer(ctx, "/transfers/internal", body)
}

func (c *Client) SendThirdParty(ctx context.Context, req fetch.TransferRequest) (fetch.Receipt, error) {
	body := map[string]any{
		"fromAccountId": req.FromAccountID,
		"toIBAN":        req.ToIBAN,
		"amount":        req.Amount,
		"currency":      req.Currency,
		"description":   req.Description,
		"userId":        req.UserID,
	}
	return c.sendTransfer(ctx, "/transfers/third-party", body)
}

func (c *Client) sendTransfer(ctx context.Context, path string, body map[string]any) (fetch.Receipt, error) {
	var resp transferResponse
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return fetch.Receipt{}, err
	}
	ref := resp.Receipt
	if ref == "" {
		ref = resp.TransactionID
	}
	return fetch.Receipt{Reference: ref, SentAt: resp.Fecha}, nil
}

func (c *Client) RequestOTP(ctx context.Context, cardID string) error {
	return c.do(ctx, http.MethodPost, "/cards/"+url.PathEscape(cardID)+"/otp", map[string]string{}, nil)
}

func (c *Client) CardSecrets(ctx context.Context, cardID, otpCode string) (fetch.CardSecrets, error) {
	body := map[string]string{"otpCode": otpCode}
	var dto cardDTO
	if err := c.do(ctx, http.MethodPost, "/cards/"+url.PathEscape(cardID)+"/view-details", body, &dto); err != nil {
		return fetch.CardSecrets{}, err
	}
	if dto.CVV == "" && dto.PIN == "" {
		return fetch.CardSecrets{}, fetch.ErrBadOTP
	}
	return fetch.CardSecrets{CVV: dto.CVV, PIN: dto.PIN}, nil
}
