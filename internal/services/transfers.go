package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"bankdg/internal/core"
	"bankdg/internal/fetch"
	"bankdg/internal/log"
)

// Validation failures carry the same messages the confirmation modal
// shows the user.
var (
	ErrNoSourceAccount   = errors.New("seleccione una cuenta de origen válida")
	ErrInvalidAmount     = errors.New("ingrese un monto válido mayor a 0")
	ErrInsufficientFunds = errors.New("saldo insuficiente en la cuenta origen")
	ErrNoTargetAccount   = errors.New("seleccione una cuenta destino válida")
	ErrCurrencyMismatch  = errors.New("las cuentas deben ser de la misma moneda")
	ErrMissingIBAN       = errors.New("ingrese un IBAN de cuenta destino")
	ErrInvalidIBAN       = errors.New("el formato del IBAN no es válido")
	ErrSameAccount       = errors.New("la cuenta destino no puede ser la misma que la de origen")
)

// DefaultTransferConcept is used when the user leaves the concept blank.
const DefaultTransferConcept = "Transferencia"

var ibanRe = regexp.MustCompile(`^CR\d{2}B\d{2}\d{12}$`)

// ValidIBAN reports whether iban matches the CR account format after
// stripping spaces.
func ValidIBAN(iban string) bool {
	return ibanRe.MatchString(strings.ReplaceAll(iban, " ", ""))
}

// TransferInput is what the wizard submits. Own transfers carry
// ToAccountID; third-party transfers carry ToIBAN.
type TransferInput struct {
	FromAccountID string          `json:"fromAccountId"`
	ToAccountID   string          `json:"toAccountId,omitempty"`
	ToIBAN        string          `json:"toIban,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	UserID        string          `json:"userId"`
}

// Publisher announces movement activity after a transfer lands, so
// cached views of the involved accounts are dropped.
type Publisher interface {
	PublishMovementEvent(ctx context.Context, ownerID, ownerKind string) error
}

// Transfers validates and submits the wizard's transfer requests.
type Transfers struct {
	accounts  fetch.AccountReader
	sender    fetch.TransferSender
	publisher Publisher
	logger    *log.Logger
}

// NewTransfers builds the transfer service. publisher may be nil when
// AMQP is not configured.
func NewTransfers(accounts fetch.AccountReader, sender fetch.TransferSender, publisher Publisher, logger *log.Logger) *Transfers {
	return &Transfers{
		accounts:  accounts,
		sender:    sender,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentTransfer),
	}
}

// Send validates the input against the wizard's rules and submits it.
// Own transfers require matching currencies; third-party transfers
// require a well-formed destination IBAN distinct from the source.
func (s *Transfers) Send(ctx context.Context, input TransferInput) (fetch.Receipt, error) {
	accounts, err := s.accounts.Accounts(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "accounts fetch failed during transfer", log.FieldError, err.Error())
		return fetch.Receipt{}, err
	}

	from := findAccount(accounts, input.FromAccountID)
	if from == nil {
		return fetch.Receipt{}, ErrNoSourceAccount
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return fetch.Receipt{}, ErrInvalidAmount
	}
	if input.Amount.GreaterThan(from.Balance) {
		return fetch.Receipt{}, ErrInsufficientFunds
	}

	if strings.TrimSpace(input.Description) == "" {
		input.Description = DefaultTransferConcept
	}

	req := fetch.TransferRequest{
		FromAccountID: input.FromAccountID,
		Amount:        input.Amount,
		Currency:      from.Currency,
		Description:   input.Description,
		UserID:        input.UserID,
	}

	var receipt fetch.Receipt
	if input.ToAccountID != "" {
		to := findAccount(accounts, input.ToAccountID)
		if to == nil {
			return fetch.Receipt{}, ErrNoTargetAccount
		}
		if to.Currency != from.Currency {
			return fetch.Receipt{}, ErrCurrencyMismatch
		}
		req.ToAccountID = input.ToAccountID
		receipt, err = s.sender.SendInternal(ctx, req)
	} else {
		iban := strings.ReplaceAll(input.ToIBAN, " ", "")
		if iban == "" {
			return fetch.Receipt{}, ErrMissingIBAN
		}
		if !ValidIBAN(iban) {
			return fetch.Receipt{}, ErrInvalidIBAN
		}
		if iban == strings.ReplaceAll(from.IBAN, " ", "") {
			return fetch.Receipt{}, ErrSameAccount
		}
		req.ToIBAN = iban
		receipt, err = s.sender.SendThirdParty(ctx, req)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "transfer submission failed",
			log.FieldAccountID, input.FromAccountID, log.FieldError, err.Error())
		return fetch.Receipt{}, err
	}

	s.logger.InfoContext(ctx, "transfer sent",
		log.FieldAccountID, input.FromAccountID, "reference", receipt.Reference)
	s.publish(ctx, input, req)
	return receipt, nil
}

func (s *Transfers) publish(ctx context.Context, input TransferInput, req fetch.TransferRequest) {
	if s.publisher == nil {
		return
	}
	owners := []string{input.FromAccountID}
	if req.ToAccountID != "" {
		owners = append(owners, req.ToAccountID)
	}
	for _, owner := range owners {
		if err := s.publisher.PublishMovementEvent(ctx, owner, "account"); err != nil {
			s.logger.WarnContext(ctx, "movement event publish failed",
				log.FieldOwnerID, owner, log.FieldError, err.Error())
		}
	}
}

func findAccount(accounts []core.Account, id string) *core.Account {
	for i := range accounts {
		if accounts[i].ID == id {
			return &accounts[i]
		}
	}
	return nil
}
