package core

import "github.com/shopspring/decimal"

// WithRunningBalances annotates an ordered movement sequence (oldest first)
// with the balance after applying each movement, starting from zero. Credits
// add their magnitude, debits subtract it. Movements with an unrecognized
// kind leave the accumulator untouched but still carry the prior balance, so
// an odd backend label never corrupts the running total.
//
// The input slice is not modified; the returned slice has the same length and
// order.
func WithRunningBalances(movements []Movement) []Movement {
	if len(movements) == 0 {
		return nil
	}

	out := make([]Movement, len(movements))
	balance := decimal.Zero
	for i, m := range movements {
		switch m.Kind {
		case KindCredit:
			balance = balance.Add(m.Amount)
		case KindDebit:
			balance = balance.Sub(m.Amount)
		}
		m.RunningBalance = balance
		out[i] = m
	}
	return out
}

// FinalBalance recomputes the closing balance from a full movement list, the
// way the account header does instead of trusting the stale owner snapshot.
func FinalBalance(movements []Movement) decimal.Decimal {
	balance := decimal.Zero
	for _, m := range movements {
		switch m.Kind {
		case KindCredit:
			balance = balance.Add(m.Amount)
		case KindDebit:
			balance = balance.Sub(m.Amount)
		}
	}
	return balance
}
