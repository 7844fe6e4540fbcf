package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		label string
		want  Kind
	}{
		{"credito", KindCredit},
		{"CREDITO", KindCredit},
		{"Crédito", KindCredit},
		{" crédito ", KindCredit},
		{"debito", KindDebit},
		{"Débito", KindDebit},
		{"DEBITO", KindDebit},
		{"compra", KindUnknown},
		{"", KindUnknown},
		{"ajuste manual", KindUnknown},
	}
	for _, tc := range cases {
		if got := ParseKind(tc.label); got != tc.want {
			t.Fatalf("ParseKind(%q): expected %s, got %s", tc.label, tc.want, got)
		}
	}
}

func TestParseKindIsIdempotent(t *testing.T) {
	for _, label := range []string{"Crédito", "débito", "otra cosa"} {
		first := ParseKind(label)
		if second := ParseKind(label); second != first {
			t.Fatalf("ParseKind(%q) not stable: %s then %s", label, first, second)
		}
	}
}

func TestMovementValidate(t *testing.T) {
	ok := Movement{Timestamp: time.Now(), Amount: decimal.NewFromInt(10)}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Movement{Amount: decimal.NewFromInt(1)}).Validate(); err == nil {
		t.Fatalf("expected error for zero timestamp")
	}
	bad := Movement{Timestamp: time.Now(), Amount: decimal.NewFromInt(-1)}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestCardUsage(t *testing.T) {
	c := Card{
		CreditLimit: decimal.NewFromInt(1000),
		Consumed:    decimal.NewFromInt(250),
	}
	if !c.Available().Equal(decimal.NewFromInt(750)) {
		t.Fatalf("expected available 750, got %s", c.Available())
	}
	if got := c.UsagePercent(); got != 25 {
		t.Fatalf("expected 25%%, got %v", got)
	}
	if got := (Card{}).UsagePercent(); got != 0 {
		t.Fatalf("expected 0%% for zero limit, got %v", got)
	}
}
