// Package services assembles the views the front end renders: account
// and card activity with derived running balances, the dashboard
// overview, and the transfer wizard.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bankdg/internal/cache"
	"bankdg/internal/core"
	"bankdg/internal/fetch"
	"bankdg/internal/format"
	"bankdg/internal/log"
)

// maxMovementFetch is the page size used to pull an owner's full
// history in one call so running balances cover every movement.
const maxMovementFetch = 5000

// MovementRow is a movement decorated with display labels.
type MovementRow struct {
	core.Movement
	AmountLabel  string `json:"amountLabel"`
	BalanceLabel string `json:"balanceLabel"`
	DateLabel    string `json:"dateLabel"`
}

// AccountView is one page of an account's filtered activity.
type AccountView struct {
	Account         core.Account           `json:"account"`
	BalanceLabel    string                 `json:"balanceLabel"`
	IBANLabel       string                 `json:"ibanLabel"`
	Page            core.Page[MovementRow] `json:"page"`
	ResultsLabel    string                 `json:"resultsLabel"`
	ControlsVisible bool                   `json:"controlsVisible"`
}

// Accounts serves account activity views. Criteria changes reset the
// page to 1, mirroring how the search and filter controls behave.
type Accounts struct {
	reader fetch.AccountReader
	lister fetch.MovementLister
	views  cache.Cache[AccountView]
	logger *log.Logger
	now    func() time.Time

	mu   sync.Mutex
	last map[string]core.Criteria
}

func NewAccounts(reader fetch.AccountReader, lister fetch.MovementLister, views cache.Cache[AccountView], logger *log.Logger) *Accounts {
	return &Accounts{
		reader: reader,
		lister: lister,
		views:  views,
		logger: logger.WithComponent(log.ComponentAccounts),
		now:    time.Now,
		last:   make(map[string]core.Criteria),
	}
}

// List returns every account for the account picker.
func (s *Accounts) List(ctx context.Context) ([]core.Account, error) {
	accounts, err := s.reader.Accounts(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list accounts failed", log.FieldError, err.Error())
		return nil, err
	}
	return accounts, nil
}

// View returns one page of an account's activity under the given
// criteria. A movement fetch failure degrades to an empty listing so
// the account header still renders.
func (s *Accounts) View(ctx context.Context, accountID string, criteria core.Criteria, page int) (AccountView, error) {
	if !criteria.Range.IsValid() {
		criteria.Range = core.RangeAll
	}
	page = s.resetPageOnCriteriaChange(accountID, criteria, page)

	key := viewKey(accountID, criteria, page)
	if view, ok := s.views.Get(key); ok {
		return view, nil
	}

	account, err := s.reader.Account(ctx, accountID)
	if err != nil {
		s.logger.ErrorContext(ctx, "account fetch failed",
			log.FieldAccountID, accountID, log.FieldError, err.Error())
		return AccountView{}, err
	}

	movements, err := s.lister.AccountMovements(ctx, accountID, 1, maxMovementFetch)
	if err != nil {
		s.logger.WarnContext(ctx, "movement fetch failed, rendering empty listing",
			log.FieldAccountID, accountID, log.FieldError, err.Error())
		movements = nil
	}

	view := s.buildView(account, movements, criteria, page)
	s.views.Set(key, view)
	return view, nil
}

func (s *Accounts) buildView(account core.Account, movements []core.Movement, criteria core.Criteria, page int) AccountView {
	withBalances := core.WithRunningBalances(movements)
	filtered := core.Filter(withBalances, criteria, s.now())

	rows := make([]MovementRow, len(filtered))
	for i, m := range filtered {
		rows[i] = newMovementRow(m, account.Currency, s.now())
	}

	p := core.Paginate(rows, core.PageSize, page)
	return AccountView{
		Account:         account,
		BalanceLabel:    format.Currency(account.Balance, account.Currency),
		IBANLabel:       format.MaskIBAN(account.IBAN),
		Page:            p,
		ResultsLabel:    format.ResultsLabel(p),
		ControlsVisible: p.ControlsVisible(),
	}
}

// resetPageOnCriteriaChange forces page 1 whenever the criteria differ
// from the previous request for the same account.
func (s *Accounts) resetPageOnCriteriaChange(accountID string, criteria core.Criteria, page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.last[accountID]; ok && prev != criteria {
		page = 1
	}
	s.last[accountID] = criteria
	return page
}

func newMovementRow(m core.Movement, fallbackCurrency string, now time.Time) MovementRow {
	currency := m.Currency
	if currency == "" {
		currency = fallbackCurrency
	}
	sign := "-"
	if m.IsCredit() {
		sign = "+"
	}
	return MovementRow{
		Movement:     m,
		AmountLabel:  sign + format.Currency(m.Amount, currency),
		BalanceLabel: format.Currency(m.RunningBalance, currency),
		DateLabel:    format.RelativeDateTime(m.Timestamp, now),
	}
}

func viewKey(ownerID string, c core.Criteria, page int) string {
	return cache.Key(ownerID, "view", c.Search, c.TypeLabel, string(c.Range), fmt.Sprintf("p%d", page))
}
