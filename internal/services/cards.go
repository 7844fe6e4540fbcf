package services

import (
	"context"
	"sync"
	"time"

	"bankdg/internal/cache"
	"bankdg/internal/core"
	"bankdg/internal/fetch"
	"bankdg/internal/format"
	"bankdg/internal/log"
)

// CardView is one page of a card's filtered activity plus usage
// figures against the credit limit.
type CardView struct {
	Card            core.Card              `json:"card"`
	AvailableLabel  string                 `json:"availableLabel"`
	ConsumedLabel   string                 `json:"consumedLabel"`
	LimitLabel      string                 `json:"limitLabel"`
	UsagePercent    float64                `json:"usagePercent"`
	Page            core.Page[MovementRow] `json:"page"`
	ResultsLabel    string                 `json:"resultsLabel"`
	ControlsVisible bool                   `json:"controlsVisible"`
}

// Cards serves card activity views and the OTP-gated secret reveal.
type Cards struct {
	reader  fetch.CardReader
	lister  fetch.MovementLister
	secrets fetch.CardSecretsReader
	views   cache.Cache[CardView]
	logger  *log.Logger
	now     func() time.Time

	mu   sync.Mutex
	last map[string]core.Criteria
}

func NewCards(reader fetch.CardReader, lister fetch.MovementLister, secrets fetch.CardSecretsReader, views cache.Cache[CardView], logger *log.Logger) *Cards {
	return &Cards{
		reader:  reader,
		lister:  lister,
		secrets: secrets,
		views:   views,
		logger:  logger.WithComponent(log.ComponentCards),
		now:     time.Now,
		last:    make(map[string]core.Criteria),
	}
}

func (s *Cards) List(ctx context.Context) ([]core.Card, error) {
	cards, err := s.reader.Cards(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "list cards failed", log.FieldError, err.Error())
		return nil, err
	}
	return cards, nil
}

// View returns one page of a card's activity. As with accounts, a
// movement fetch failure degrades to an empty listing.
func (s *Cards) View(ctx context.Context, cardID string, criteria core.Criteria, page int) (CardView, error) {
	if !criteria.Range.IsValid() {
		criteria.Range = core.RangeAll
	}
	page = s.resetPageOnCriteriaChange(cardID, criteria, page)

	key := viewKey(cardID, criteria, page)
	if view, ok := s.views.Get(key); ok {
		return view, nil
	}

	card, err := s.reader.Card(ctx, cardID)
	if err != nil {
		s.logger.ErrorContext(ctx, "card fetch failed",
			log.FieldCardID, cardID, log.FieldError, err.Error())
		return CardView{}, err
	}

	movements, err := s.lister.CardMovements(ctx, cardID, 1, maxMovementFetch)
	if err != nil {
		s.logger.WarnContext(ctx, "movement fetch failed, rendering empty listing",
			log.FieldCardID, cardID, log.FieldError, err.Error())
		movements = nil
	}

	view := s.buildView(card, movements, criteria, page)
	s.views.Set(key, view)
	return view, nil
}

func (s *Cards) buildView(card core.Card, movements []core.Movement, criteria core.Criteria, page int) CardView {
	withBalances := core.WithRunningBalances(movements)
	filtered := core.Filter(withBalances, criteria, s.now())

	rows := make([]MovementRow, len(filtered))
	for i, m := range filtered {
		rows[i] = newMovementRow(m, card.Currency, s.now())
	}

	p := core.Paginate(rows, core.PageSize, page)
	return CardView{
		Card:            card,
		AvailableLabel:  format.Currency(card.Available(), card.Currency),
		ConsumedLabel:   format.Currency(card.Consumed, card.Currency),
		LimitLabel:      format.Currency(card.CreditLimit, card.Currency),
		UsagePercent:    card.UsagePercent(),
		Page:            p,
		ResultsLabel:    format.ResultsLabel(p),
		ControlsVisible: p.ControlsVisible(),
	}
}

func (s *Cards) resetPageOnCriteriaChange(cardID string, criteria core.Criteria, page int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.last[cardID]; ok && prev != criteria {
		page = 1
	}
	s.last[cardID] = criteria
	return page
}

// RequestOTP asks the backend to send a one-time code for revealing
// the card's CVV and PIN.
func (s *Cards) RequestOTP(ctx context.Context, cardID string) error {
	if err := s.secrets.RequestOTP(ctx, cardID); err != nil {
		s.logger.ErrorContext(ctx, "OTP request failed",
			log.FieldCardID, cardID, log.FieldError, err.Error())
		return err
	}
	s.logger.InfoContext(ctx, "OTP requested", log.FieldCardID, cardID)
	return nil
}

// Reveal exchanges a valid OTP code for the card's secrets.
func (s *Cards) Reveal(ctx context.Context, cardID, otpCode string) (fetch.CardSecrets, error) {
	secrets, err := s.secrets.CardSecrets(ctx, cardID, otpCode)
	if err != nil {
		s.logger.WarnContext(ctx, "card secret reveal refused",
			log.FieldCardID, cardID, log.FieldError, err.Error())
		return fetch.CardSecrets{}, err
	}
	return secrets, nil
}
