package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"bankdg/internal/core"
	"bankdg/internal/fetch"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func seedStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "users.json", `[
		{"id":"u1","usuario":"maria","nombre":"María","email":"maria@example.com","password":"Secreta1"}
	]`)
	writeFixture(t, dir, "accounts.json", `[
		{"id":"acc-1","aliass":"Ahorros","iban":"CR05B01000000012345678","tipoCuenta":{"nombre":"Ahorro"},"moneda":{"codigo":"CRC"},"saldoActual":1500.00,"estado":{"nombre":"Activa"}}
	]`)
	writeFixture(t, dir, "cards.json", `[
		{"id":"card-1","tipo_nombre":"Credito","numero_enmascarado":"4512 **** **** 1234","fecha_expiracion":"12/2027","moneda_iso":"USD","limite_credito":2000,"saldo_actual":500,"cvv":"321","pin":"9876"}
	]`)
	writeFixture(t, dir, "movements-acc-1.json", `[
		{"id":"m1","fecha":"2025-06-01T09:00:00Z","tipo":{"nombre":"Crédito"},"monto":100,"descripcion":"Depósito","moneda":{"codigo":"CRC"}},
		{"id":"m2","fecha":"2025-06-02T09:00:00Z","tipo":{"nombre":"Débito"},"monto":30,"descripcion":""},
		{"id":"m3","fecha":"2025-06-03T09:00:00Z","tipo":{"nombre":"Crédito"},"monto":20,"descripcion":"Pago"}
	]`)
	return NewFromFiles(dir)
}

func TestStoreLoadsAndPagesMovements(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	all, err := s.AccountMovements(ctx, "acc-1", 1, 50)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 movements, got %d (err=%v)", len(all), err)
	}
	if all[0].Kind != core.KindCredit || all[1].Kind != core.KindDebit {
		t.Fatalf("kinds not classified: %+v", all[:2])
	}
	if all[1].Description != core.DefaultDescription {
		t.Fatalf("missing description not defaulted: %q", all[1].Description)
	}

	page2, err := s.AccountMovements(ctx, "acc-1", 2, 2)
	if err != nil || len(page2) != 1 || page2[0].ID != "m3" {
		t.Fatalf("paging broken: %+v (err=%v)", page2, err)
	}
}

func TestStoreMissingFilesDegradeToEmpty(t *testing.T) {
	s := NewFromFiles(t.TempDir())
	ctx := context.Background()

	movs, err := s.AccountMovements(ctx, "ghost", 1, 10)
	if err != nil || len(movs) != 0 {
		t.Fatalf("expected empty movements, got %v (err=%v)", movs, err)
	}
	accounts, err := s.Accounts(ctx)
	if err != nil || len(accounts) != 0 {
		t.Fatalf("expected no accounts, got %v (err=%v)", accounts, err)
	}
}

func TestStoreLogin(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	user, token, err := s.Login(ctx, "maria", "Secreta1")
	if err != nil || token == "" || user.Name != "María" {
		t.Fatalf("login failed: %+v %q %v", user, token, err)
	}
	if _, _, err := s.Login(ctx, "maria", "wrong"); err != fetch.ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestStoreCardSecretsRequireOTP(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	if err := s.RequestOTP(ctx, "card-1"); err != nil {
		t.Fatalf("unexpected OTP request error: %v", err)
	}
	if _, err := s.CardSecrets(ctx, "card-1", "000000"); err != fetch.ErrBadOTP {
		t.Fatalf("expected ErrBadOTP, got %v", err)
	}
	secrets, err := s.CardSecrets(ctx, "card-1", FixtureOTP)
	if err != nil || secrets.CVV != "321" || secrets.PIN != "9876" {
		t.Fatalf("secrets not disclosed: %+v (err=%v)", secrets, err)
	}
}

func TestStoreTransferReceipts(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	r1, err := s.SendInternal(ctx, fetch.TransferRequest{FromAccountID: "acc-1"})
	if err != nil || r1.Reference == "" {
		t.Fatalf("expected receipt, got %+v (err=%v)", r1, err)
	}
	r2, _ := s.SendThirdParty(ctx, fetch.TransferRequest{FromAccountID: "acc-1"})
	if r2.Reference == r1.Reference {
		t.Fatalf("receipts must be unique")
	}
	if _, err := s.SendInternal(ctx, fetch.TransferRequest{FromAccountID: "nope"}); err != fetch.ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown source, got %v", err)
	}
}
