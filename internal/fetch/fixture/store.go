// Package fixture implements the fetch ports from static JSON files, the
// demo mode the product ships with when no live backend is reachable. Files
// keep the backend's Spanish wire shape so the same fixtures feed both the
// static site and this store.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bankdg/internal/core"
	"bankdg/internal/fetch"
)

// FixtureOTP is the verification code every fixture card accepts.
const FixtureOTP = "123456"

type Store struct {
	mu        sync.Mutex
	dir       string
	users     []userRecord
	accounts  []core.Account
	cards     []core.Card
	secrets   map[string]fetch.CardSecrets
	transfers int
}

type userRecord struct {
	User     core.User
	Password string
}

// NewFromFiles loads users, accounts and cards from base; movement files are
// read lazily per owner. Missing files degrade to empty collections, never
// errors.
func NewFromFiles(base string) *Store {
	s := &Store{dir: base, secrets: make(map[string]fetch.CardSecrets)}

	var users []struct {
		ID       string `json:"id"`
		Usuario  string `json:"usuario"`
		Username string `json:"username"`
		Nombre   string `json:"nombre"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	readJSON(filepath.Join(base, "users.json"), &users)
	for _, u := range users {
		username := u.Usuario
		if username == "" {
			username = u.Username
		}
		s.users = append(s.users, userRecord{
			User:     core.User{ID: u.ID, Username: username, Name: u.Nombre, Email: u.Email},
			Password: u.Password,
		})
	}

	var accounts []accountFile
	readJSON(filepath.Join(base, "accounts.json"), &accounts)
	for _, a := range accounts {
		s.accounts = append(s.accounts, a.toCore())
	}

	var cards []cardFile
	readJSON(filepath.Join(base, "cards.json"), &cards)
	for _, c := range cards {
		s.cards = append(s.cards, c.toCore())
		s.secrets[c.ID] = fetch.CardSecrets{CVV: c.CVV, PIN: c.PIN}
	}

	return s
}

func (s *Store) Accounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Account(nil), s.accounts...), nil
}

func (s *Store) Account(_ context.Context, id string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return core.Account{}, fetch.ErrNotFound
}

func (s *Store) Cards(_ context.Context) ([]core.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Card(nil), s.cards...), nil
}

func (s *Store) Card(_ context.Context, id string) (core.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cards {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Card{}, fetch.ErrNotFound
}

func (s *Store) AccountMovements(_ context.Context, accountID string, page, pageSize int) ([]core.Movement, error) {
	return s.movements(accountID, page, pageSize), nil
}

func (s *Store) CardMovements(_ context.Context, cardID string, page, pageSize int) ([]core.Movement, error) {
	return s.movements(cardID, page, pageSize), nil
}

func (s *Store) movements(ownerID string, page, pageSize int) []core.Movement {
	var raw []movementFile
	readJSON(filepath.Join(s.dir, "movements-"+ownerID+".json"), &raw)

	all := make([]core.Movement, 0, len(raw))
	for _, m := range raw {
		all = append(all, m.toCore())
	}
	if pageSize < 1 {
		return all
	}
	lo := (page - 1) * pageSize
	if lo < 0 {
		lo = 0
	}
	if lo >= len(all) {
		return nil
	}
	hi := lo + pageSize
	if hi > len(all) {
		hi = len(all)
	}
	return all[lo:hi]
}

func (s *Store) Login(_ context.Context, username, password string) (core.User, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.User.Username == username && u.Password == password {
			return u.User, "fixture-session", nil
		}
	}
	return core.User{}, "", fetch.ErrUnauthorized
}

func (s *Store) SendInternal(_ context.Context, req fetch.TransferRequest) (fetch.Receipt, error) {
	return s.record(req.FromAccountID)
}

func (s *Store) SendThirdParty(_ context.Context, req fetch.TransferRequest) (fetch.Receipt, error) {
	return s.record(req.FromAccountID)
}

func (s *Store) record(fromID string) (fetch.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for _, a := range s.accounts {
		if a.ID == fromID {
			found = true
			break
		}
	}
	if !found {
		return fetch.Receipt{}, fetch.ErrNotFound
	}
	s.transfers++
	return fetch.Receipt{
		Reference: fmt.Sprintf("fix-%06d", s.transfers),
		SentAt:    time.Now().Format(time.RFC3339),
	}, nil
}

func (s *Store) RequestOTP(_ context.Context, cardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.secrets[cardID]; !ok {
		return fetch.ErrNotFound
	}
	return nil
}

func (s *Store) CardSecrets(_ context.Context, cardID, otpCode string) (fetch.CardSecrets, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secrets, ok := s.secrets[cardID]
	if !ok {
		return fetch.CardSecrets{}, fetch.ErrNotFound
	}
	if otpCode != FixtureOTP {
		return fetch.CardSecrets{}, fetch.ErrBadOTP
	}
	return secrets, nil
}

func readJSON(path string, out any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, out)
}

// File schemas, matching the backend wire format.

type namedRef struct {
	Nombre string `json:"nombre"`
}

type currencyRef struct {
	Codigo string `json:"codigo"`
	ISO    string `json:"iso"`
}

func (c currencyRef) code() string {
	if c.Codigo != "" {
		return c.Codigo
	}
	return c.ISO
}

type movementFile struct {
	ID          string          `json:"id"`
	Fecha       time.Time       `json:"fecha"`
	Tipo        namedRef        `json:"tipo"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion string          `json:"descripcion"`
	Moneda      currencyRef     `json:"moneda"`
}

func (m movementFile) toCore() core.Movement {
	description := m.Descripcion
	if description == "" {
		description = core.DefaultDescription
	}
	return core.Movement{
		ID:          m.ID,
		Timestamp:   m.Fecha,
		TypeLabel:   m.Tipo.Nombre,
		Kind:        core.ParseKind(m.Tipo.Nombre),
		Amount:      m.Monto,
		Description: description,
		Currency:    m.Moneda.code(),
	}
}

type accountFile struct {
	ID          string          `json:"id"`
	Alias       string          `json:"aliass"`
	IBAN        string          `json:"iban"`
	TipoCuenta  namedRef        `json:"tipoCuenta"`
	Moneda      currencyRef     `json:"moneda"`
	SaldoActual decimal.Decimal `json:"saldoActual"`
	Estado      namedRef        `json:"estado"`
}

func (a accountFile) toCore() core.Account {
	return core.Account{
		ID:       a.ID,
		Alias:    a.Alias,
		IBAN:     a.IBAN,
		Type:     a.TipoCuenta.Nombre,
		Currency: a.Moneda.code(),
		Balance:  a.SaldoActual,
		Status:   a.Estado.Nombre,
	}
}

type cardFile struct {
	ID                string          `json:"id"`
	TipoNombre        string          `json:"tipo_nombre"`
	NumeroEnmascarado string          `json:"numero_enmascarado"`
	FechaExpiracion   string          `json:"fecha_expiracion"`
	MonedaISO         string          `json:"moneda_iso"`
	LimiteCredito     decimal.Decimal `json:"limite_credito"`
	SaldoActual       decimal.Decimal `json:"saldo_actual"`
	CVV               string          `json:"cvv"`
	PIN               string          `json:"pin"`
}

func (c cardFile) toCore() core.Card {
	return core.Card{
		ID:           c.ID,
		TypeLabel:    c.TipoNombre,
		MaskedNumber: c.NumeroEnmascarado,
		Expiration:   c.FechaExpiracion,
		Currency:     c.MonedaISO,
		CreditLimit:  c.LimiteCredito,
		Consumed:     c.SaldoActual,
	}
}
