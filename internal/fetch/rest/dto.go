package rest

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"bankdg/internal/core"
)

// The backend speaks Spanish on the wire. DTOs stay faithful to it and are
// mapped to the English domain types at this boundary.

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type pagedMovements struct {
	Items []movementDTO `json:"items"`
}

type namedRef struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

type currencyRef struct {
	ID     string `json:"id"`
	Codigo string `json:"codigo"`
	ISO    string `json:"iso"`
}

func (c currencyRef) code() string {
	if c.Codigo != "" {
		return c.Codigo
	}
	return c.ISO
}

type movementDTO struct {
	ID             string          `json:"id"`
	Fecha          time.Time       `json:"fecha"`
	Tipo           namedRef        `json:"tipo"`
	TipoMovimiento string          `json:"tipoMovimiento"`
	Monto          decimal.Decimal `json:"monto"`
	Descripcion    string          `json:"descripcion"`
	Moneda         currencyRef     `json:"moneda"`
}

func (d movementDTO) toCore() core.Movement {
	// Older backend payloads carry the label flat instead of nested.
	label := d.Tipo.Nombre
	if label == "" {
		label = d.TipoMovimiento
	}
	description := d.Descripcion
	if description == "" {
		description = core.DefaultDescription
	}
	return core.Movement{
		ID:          d.ID,
		Timestamp:   d.Fecha,
		TypeLabel:   label,
		Kind:        core.ParseKind(label),
		Amount:      d.Monto,
		Description: description,
		Currency:    d.Moneda.code(),
	}
}

type accountDTO struct {
	ID          string          `json:"id"`
	Alias       string          `json:"aliass"`
	IBAN        string          `json:"iban"`
	TipoCuenta  namedRef        `json:"tipoCuenta"`
	Moneda      currencyRef     `json:"moneda"`
	SaldoActual decimal.Decimal `json:"saldoActual"`
	Estado      namedRef        `json:"estado"`
}

func (d accountDTO) toCore() core.Account {
	return core.Account{
		ID:       d.ID,
		Alias:    d.Alias,
		IBAN:     d.IBAN,
		Type:     d.TipoCuenta.Nombre,
		Currency: d.Moneda.code(),
		Balance:  d.SaldoActual,
		Status:   d.Estado.Nombre,
	}
}

type cardDTO struct {
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

func (d cardDTO) toCore() core.Card {
	return core.Card{
		ID:           d.ID,
		TypeLabel:    d.TipoNombre,
		MaskedNumber: d.NumeroEnmascarado,
		Expiration:   d.FechaExpiracion,
		Currency:     d.MonedaISO,
		CreditLimit:  d.LimiteCredito,
		Consumed:     d.SaldoActual,
	}
}

type userDTO struct {
	ID      string `json:"id"`
	Usuario string `json:"usuario"`
	Nombre  string `json:"nombre"`
	Email   string `json:"email"`
}

func (d userDTO) toCore() core.User {
	return core.User{
		ID:       d.ID,
		Username: d.Usuario,
		Name:     d.Nombre,
		Email:    d.Email,
	}
}

type loginResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type transferResponse struct {
	Receipt       string `json:"receipt"`
	TransactionID string `json:"transactionId"`
	Fecha         string `json:"fecha"`
}
