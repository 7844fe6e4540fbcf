package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"bankdg/internal/core"
	"bankdg/internal/fetch"
	"bankdg/internal/format"
	"bankdg/internal/log"
)

// recentMovements is how many movements the dashboard previews.
const recentMovements = 5

// Overview is the dashboard payload: featured account, portfolio
// totals and a short activity preview.
type Overview struct {
	Accounts          []core.Account `json:"accounts"`
	Cards             []core.Card    `json:"cards"`
	Featured          *core.Account  `json:"featured,omitempty"`
	FeaturedIBANLabel string         `json:"featuredIbanLabel,omitempty"`
	FeaturedBalance   string         `json:"featuredBalance,omitempty"`
	TotalAccounts     int            `json:"totalAccounts"`
	TotalCards        int            `json:"totalCards"`
	TotalBalance      string         `json:"totalBalance"`
	Recent            []MovementRow  `json:"recent"`
}

// Dashboard builds the overview. Accounts and cards load concurrently;
// either side failing degrades to its empty collection so the page
// still renders.
type Dashboard struct {
	accounts fetch.AccountReader
	cards    fetch.CardReader
	lister   fetch.MovementLister
	logger   *log.Logger
	now      func() time.Time
}

func NewDashboard(accounts fetch.AccountReader, cards fetch.CardReader, lister fetch.MovementLister, logger *log.Logger) *Dashboard {
	return &Dashboard{
		accounts: accounts,
		cards:    cards,
		lister:   lister,
		logger:   logger.WithComponent(log.ComponentApp),
		now:      time.Now,
	}
}

func (s *Dashboard) Overview(ctx context.Context) Overview {
	var (
		accounts []core.Account
		cards    []core.Card
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if accounts, err = s.accounts.Accounts(gctx); err != nil {
			s.logger.WarnContext(gctx, "dashboard accounts fetch failed", log.FieldError, err.Error())
			accounts = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if cards, err = s.cards.Cards(gctx); err != nil {
			s.logger.WarnContext(gctx, "dashboard cards fetch failed", log.FieldError, err.Error())
			cards = nil
		}
		return nil
	})
	g.Wait()

	overview := Overview{
		Accounts:      accounts,
		Cards:         cards,
		TotalAccounts: len(accounts),
		TotalCards:    len(cards),
	}

	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	currency := core.DefaultCurrency
	if len(accounts) > 0 {
		currency = accounts[0].Currency
	}
	overview.TotalBalance = format.Currency(total, currency)

	if featured := featuredAccount(accounts); featured != nil {
		overview.Featured = featured
		overview.FeaturedIBANLabel = format.MaskIBAN(featured.IBAN)
		overview.FeaturedBalance = format.Currency(featured.Balance, featured.Currency)
	}

	overview.Recent = s.recent(ctx, accounts)
	return overview
}

// featuredAccount picks the account with the highest balance.
func featuredAccount(accounts []core.Account) *core.Account {
	if len(accounts) == 0 {
		return nil
	}
	best := &accounts[0]
	for i := range accounts[1:] {
		if accounts[i+1].Balance.GreaterThan(best.Balance) {
			best = &accounts[i+1]
		}
	}
	return best
}

// recent previews the first account's latest movements. Failures
// degrade to an empty preview.
func (s *Dashboard) recent(ctx context.Context, accounts []core.Account) []MovementRow {
	if len(accounts) == 0 {
		return nil
	}
	main := accounts[0]
	movements, err := s.lister.AccountMovements(ctx, main.ID, 1, recentMovements)
	if err != nil {
		s.logger.WarnContext(ctx, "recent movements fetch failed",
			log.FieldAccountID, main.ID, log.FieldError, err.Error())
		return nil
	}

	now := s.now()
	rows := make([]MovementRow, len(movements))
	for i, m := range core.WithRunningBalances(movements) {
		rows[i] = newMovementRow(m, main.Currency, now)
	}
	return rows
}
