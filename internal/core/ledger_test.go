package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func mov(kind Kind, amount string) Movement {
	return Movement{
		ID:        "m",
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Kind:      kind,
		Amount:    decimal.RequireFromString(amount),
	}
}

func TestWithRunningBalances(t *testing.T) {
	in := []Movement{
		mov(KindCredit, "100"),
		mov(KindDebit, "30"),
		mov(KindCredit, "20"),
	}
	out := WithRunningBalances(in)

	want := []string{"100", "70", "90"}
	if len(out) != len(in) {
		t.Fatalf("expected %d movements, got %d", len(in), len(out))
	}
	for i, w := range want {
		if !out[i].RunningBalance.Equal(decimal.RequireFromString(w)) {
			t.Fatalf("balance[%d]: expected %s, got %s", i, w, out[i].RunningBalance)
		}
	}
	// input untouched
	if !in[0].RunningBalance.IsZero() {
		t.Fatalf("input slice was mutated")
	}
}

func TestWithRunningBalancesUnknownKindIsNoOp(t *testing.T) {
	in := []Movement{
		mov(KindCredit, "50"),
		mov(KindUnknown, "999"),
		mov(KindDebit, "10"),
	}
	out := WithRunningBalances(in)

	want := []string{"50", "50", "40"}
	for i, w := range want {
		if !out[i].RunningBalance.Equal(decimal.RequireFromString(w)) {
			t.Fatalf("balance[%d]: expected %s, got %s", i, w, out[i].RunningBalance)
		}
	}
}

func TestWithRunningBalancesEmpty(t *testing.T) {
	if out := WithRunningBalances(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}

func TestWithRunningBalancesStepConsistency(t *testing.T) {
	in := []Movement{
		mov(KindCredit, "12.25"),
		mov(KindDebit, "0.75"),
		mov(KindDebit, "4"),
		mov(KindCredit, "8.50"),
	}
	out := WithRunningBalances(in)
	prev := decimal.Zero
	for i, m := range out {
		step := m.Amount
		if m.Kind == KindDebit {
			step = step.Neg()
		}
		if !m.RunningBalance.Equal(prev.Add(step)) {
			t.Fatalf("balance[%d] inconsistent: prev=%s amount=%s got=%s", i, prev, m.Amount, m.RunningBalance)
		}
		prev = m.RunningBalance
	}
}

func TestFinalBalanceMatchesCreditsMinusDebits(t *testing.T) {
	in := []Movement{
		mov(KindCredit, "100"),
		mov(KindCredit, "25.50"),
		mov(KindDebit, "40"),
		mov(KindDebit, "0.50"),
	}
	if got := FinalBalance(in); !got.Equal(decimal.RequireFromString("85")) {
		t.Fatalf("expected 85, got %s", got)
	}
	if !FinalBalance(nil).IsZero() {
		t.Fatalf("expected zero balance for no movements")
	}
}
