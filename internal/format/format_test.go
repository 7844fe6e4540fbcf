package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bankdg/internal/core"
)

func TestCurrencySymbol(t *testing.T) {
	cases := []struct {
		code, want string
	}{
		{"USD", "$"},
		{"CRC", "₡"},
		{"EUR", "₡"}, // unknown codes fall back to the default symbol
		{"", "₡"},
	}
	for _, tc := range cases {
		if got := CurrencySymbol(tc.code); got != tc.want {
			t.Fatalf("symbol for %q: expected %q, got %q", tc.code, tc.want, got)
		}
	}
}

func TestCurrencyTwoDecimals(t *testing.T) {
	got := Currency(decimal.RequireFromString("5"), "USD")
	if got != "$5,00" {
		t.Fatalf("expected $5,00, got %q", got)
	}
}

func TestRelativeDateTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	cases := []struct {
		ts   time.Time
		want string
	}{
		{time.Date(2025, 6, 15, 9, 5, 0, 0, time.UTC), "Hoy, 09:05"},
		{time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC), "Ayer, 23:59"},
		{time.Date(2025, 6, 13, 23, 59, 0, 0, time.UTC), "13/06/2025, 23:59"},
		{time.Date(2024, 12, 31, 8, 30, 0, 0, time.UTC), "31/12/2024, 08:30"},
	}
	for _, tc := range cases {
		if got := RelativeDateTime(tc.ts, now); got != tc.want {
			t.Fatalf("RelativeDateTime(%v): expected %q, got %q", tc.ts, tc.want, got)
		}
	}
}

func TestMaskIBAN(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"CR05B01000000012345678", "**** **** **** 5678"},
		{"", "****"},
		{"123", "****"},
	}
	for _, tc := range cases {
		if got := MaskIBAN(tc.in); got != tc.want {
			t.Fatalf("MaskIBAN(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestResultsLabel(t *testing.T) {
	items := func(n int) []int {
		out := make([]int, n)
		return out
	}
	cases := []struct {
		total, page int
		want        string
	}{
		{0, 1, "No hay movimientos"},
		{1, 1, "1 movimiento encontrado"},
		{7, 1, "7 movimientos encontrados"},
		{25, 3, "Mostrando 21-25 de 25 movimientos"},
	}
	for _, tc := range cases {
		p := core.Paginate(items(tc.total), core.PageSize, tc.page)
		if got := ResultsLabel(p); got != tc.want {
			t.Fatalf("total=%d page=%d: expected %q, got %q", tc.total, tc.page, tc.want, got)
		}
	}
}
