package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bankdg/internal/core"
	"bankdg/internal/fetch"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := New(srv.URL, "test-key", staticToken("tok123"), 0, 0)
	return c
}

func TestAccountMovementsMapsWirePayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/acc-1/movements" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("missing bearer token, got %q", got)
		}
		if r.URL.Query().Get("pageSize") != "50" {
			t.Errorf("unexpected pageSize %q", r.URL.Query().Get("pageSize"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"items":[
			{"id":"m1","fecha":"2025-06-15T10:00:00Z","tipo":{"nombre":"Crédito"},"monto":100.50,"descripcion":"Depósito","moneda":{"codigo":"CRC"}},
			{"id":"m2","fecha":"2025-06-15T11:00:00Z","tipoMovimiento":"DEBITO","monto":30}
		]}}`))
	})

	movs, err := c.AccountMovements(context.Background(), "acc-1", 1, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(movs) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(movs))
	}
	if movs[0].Kind != core.KindCredit || !movs[0].Amount.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("credit not mapped: %+v", movs[0])
	}
	if movs[0].TypeLabel != "Crédito" {
		t.Fatalf("raw label not preserved: %q", movs[0].TypeLabel)
	}
	// Flat legacy label and missing description fall back safely.
	if movs[1].Kind != core.KindDebit || movs[1].Description != core.DefaultDescription {
		t.Fatalf("fallbacks not applied: %+v", movs[1])
	}
}

func TestDoUnwrapsEnvelopeFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"cuenta inactiva"}`))
	})
	_, err := c.Account(context.Background(), "acc-1")
	if err == nil {
		t.Fatalf("expected error for success=false envelope")
	}
}

func TestDoMapsAuthAndMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	if _, err := c.Accounts(context.Background()); err != fetch.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if _, err := c.Card(context.Background(), "nope"); err != fetch.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDoRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", staticToken(""), 0, 2)
	if _, err := c.Accounts(context.Background()); err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestNewAppliesTimeoutAndRetries(t *testing.T) {
	c := New("http://bank.local", "", staticToken(""), 3*time.Second, 5)
	if c.http.Timeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %v", c.http.Timeout)
	}
	if c.retries != 5 {
		t.Errorf("expected 5 retries, got %d", c.retries)
	}

	c = New("http://bank.local", "", staticToken(""), 0, -1)
	if c.http.Timeout != defaultTimeout {
		t.Errorf("expected default timeout, got %v", c.http.Timeout)
	}
	if c.retries != defaultRetries {
		t.Errorf("expected default retries, got %d", c.retries)
	}
}
