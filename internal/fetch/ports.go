package fetch

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"bankdg/internal/core"
)

// Ports for the remote banking backend. The live REST API and the static
// fixture store both implement these; everything above them is written once.
type (
	AccountReader interface {
		// Accounts lists the session user's accounts.
		Accounts(ctx context.Context) ([]core.Account, error)
		// Account returns one account by id.
		Account(ctx context.Context, id string) (core.Account, error)
	}

	CardReader interface {
		Cards(ctx context.Context) ([]core.Card, error)
		Card(ctx context.Context, id string) (core.Card, error)
	}

	// MovementLister returns an owner's movements in the order the backend
	// produces them (assumed chronological ascending); running balances are
	// attached later and depend on that ordering.
	MovementLister interface {
		AccountMovements(ctx context.Context, accountID string, page, pageSize int) ([]core.Movement, error)
		CardMovements(ctx context.Context, cardID string, page, pageSize int) ([]core.Movement, error)
	}

	TransferSender interface {
		// SendInternal moves funds between two of the user's own accounts.
		SendInternal(ctx context.Context, req TransferRequest) (Receipt, error)
		// SendThirdParty moves funds to an IBAN within the same bank.
		SendThirdParty(ctx context.Context, req TransferRequest) (Receipt, error)
	}

	Authenticator interface {
		Login(ctx context.Context, username, password string) (core.User, string, error)
	}

	// CardSecretsReader gates CVV/PIN disclosure behind a one-time passcode.
	// Issuance and verification happen on the backend; this port only
	// forwards.
	CardSecretsReader interface {
		RequestOTP(ctx context.Context, cardID string) error
		CardSecrets(ctx context.Context, cardID, otpCode string) (CardSecrets, error)
	}
)

// TransferRequest carries a validated transfer to the backend.
type TransferRequest struct {
	FromAccountID string
	ToAccountID   string // own transfers
	ToIBAN        string // third-party transfers
	Amount        decimal.Decimal
	Currency      string
	Description   string
	UserID        string
}

type Receipt struct {
	Reference string `json:"reference"`
	SentAt    string `json:"sentAt"`
}

type CardSecrets struct {
	CVV string `json:"cvv"`
	PIN string `json:"pin"`
}

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("session expired or invalid")
	ErrBadOTP       = errors.New("invalid verification code")
)
