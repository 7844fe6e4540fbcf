package core

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	KindCredit  Kind = "credit"
	KindDebit   Kind = "debit"
	KindUnknown Kind = "unknown"
)

// DefaultDescription replaces an absent movement description.
const DefaultDescription = "Movimiento"

// DefaultCurrency is assumed when neither the movement nor its owner carries one.
const DefaultCurrency = "CRC"

type (
	Kind string

	// Movement is a single ledger entry affecting an account or card balance.
	Movement struct {
		ID          string          `json:"id"`
		Timestamp   time.Time       `json:"timestamp"`
		TypeLabel   string          `json:"typeLabel"` // raw backend label, preserved verbatim for filtering
		Kind        Kind            `json:"kind"`
		Amount      decimal.Decimal `json:"amount"` // magnitude; sign comes from Kind
		Description string          `json:"description"`
		Currency    string          `json:"currency,omitempty"`

		// RunningBalance is attached by WithRunningBalances and is only
		// meaningful when movements arrive in chronological order.
		RunningBalance decimal.Decimal `json:"runningBalance"`
	}

	// Account holds owner metadata used for fallback and display only; the
	// ledger never reads Balance.
	Account struct {
		ID       string          `json:"id"`
		Alias    string          `json:"alias"`
		IBAN     string          `json:"iban"`
		Type     string          `json:"type"`
		Currency string          `json:"currency"`
		Balance  decimal.Decimal `json:"balance"` // as of last backend sync
		Status   string          `json:"status"`
	}

	Card struct {
		ID           string          `json:"id"`
		TypeLabel    string          `json:"typeLabel"`
		MaskedNumber string          `json:"maskedNumber"`
		Expiration   string          `json:"expiration"` // MM/YYYY
		Currency     string          `json:"currency"`
		CreditLimit  decimal.Decimal `json:"creditLimit"`
		Consumed     decimal.Decimal `json:"consumed"`
	}

	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}
)

var (
	ErrNegativeAmount = errors.New("negative movement amount")
	ErrZeroTimestamp  = errors.New("movement timestamp is zero")
)

var labelFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldLabel lowercases a type label and strips diacritics, so that
// "Crédito", "CREDITO" and "credito" all compare equal.
func FoldLabel(label string) string {
	folded, _, err := transform.String(labelFolder, label)
	if err != nil {
		folded = label
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ParseKind classifies a free-text movement type label. Pure: unrecognized
// labels map to KindUnknown and the caller keeps the raw label for filtering
// and display.
func ParseKind(label string) Kind {
	switch FoldLabel(label) {
	case "credito":
		return KindCredit
	case "debito":
		return KindDebit
	default:
		return KindUnknown
	}
}

// IsCredit reports whether the movement increases the balance. Anything that
// is not a credit renders with a debit sign in the UI.
func (m Movement) IsCredit() bool {
	return m.Kind == KindCredit
}

func (m Movement) Validate() error {
	if m.Timestamp.IsZero() {
		return ErrZeroTimestamp
	}
	if m.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Available returns the remaining credit on the card.
func (c Card) Available() decimal.Decimal {
	return c.CreditLimit.Sub(c.Consumed)
}

// UsagePercent returns consumed/limit as a percentage; zero when the card has
// no limit.
func (c Card) UsagePercent() float64 {
	if c.CreditLimit.IsZero() {
		return 0
	}
	ratio, _ := c.Consumed.Div(c.CreditLimit).Float64()
	return ratio * 100
}
