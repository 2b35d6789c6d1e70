// ABOUTME: Tests for pricing aggregation and currency formatting
// ABOUTME: Covers the thousands rule, recurring phase detection, and tag sets
package models

import "testing"

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{500, "$500"},
		{999, "$999"},
		{99.5, "$99.5"},
		{1000, "$1K"},
		{1499, "$1K"},
		{1500, "$2K"},
		{25000, "$25K"},
		{1234567, "$1235K"},
	}

	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatRange(t *testing.T) {
	if got := FormatRange(8000, 12000); got != "$8K - $12K" {
		t.Errorf("unexpected range %q", got)
	}
}

func TestInitialAndOngoingTotals(t *testing.T) {
	phases := []Phase{
		{PhaseNumber: 1, PhaseTotalLow: 5000, PhaseTotalHigh: 8000},
		{PhaseNumber: 2, PhaseTotalLow: 15000, PhaseTotalHigh: 25000},
		{PhaseNumber: 3, PhaseTotalLow: 2000, PhaseTotalHigh: 3000, PricingNote: "per month, ongoing"},
		{PhaseNumber: 4, PhaseTotalLow: 4000, PhaseTotalHigh: 6000, PricingNote: "monthly retainer"},
		{PhaseNumber: 5, PhaseTotalLow: 9000, PhaseTotalHigh: 9000, PricingNote: "optional add-on"},
	}

	initial := InitialInvestment(phases)
	if initial.Low != 20000 || initial.High != 33000 {
		t.Errorf("unexpected initial investment %+v", initial)
	}

	ongoing, ok := OngoingMonthly(phases)
	if !ok {
		t.Fatal("expected an ongoing phase")
	}
	if ongoing.Low != 2000 || ongoing.High != 3000 {
		t.Errorf("expected first monthly phase to win, got %+v", ongoing)
	}
}

func TestRecurringFlagOverridesNote(t *testing.T) {
	yes, no := true, false
	phases := []Phase{
		{PhaseNumber: 1, PhaseTotalLow: 1000, PhaseTotalHigh: 2000, PricingNote: "billed per month", Recurring: &no},
		{PhaseNumber: 2, PhaseTotalLow: 3000, PhaseTotalHigh: 4000, Recurring: &yes},
	}

	ongoing, ok := OngoingMonthly(phases)
	if !ok || ongoing.Low != 3000 {
		t.Errorf("expected explicit recurring phase, got %+v (%v)", ongoing, ok)
	}

	initial := InitialInvestment(phases)
	if initial.Low != 0 || initial.High != 0 {
		t.Errorf("expected no initial investment, got %+v", initial)
	}
}

func TestOngoingMonthlyAbsent(t *testing.T) {
	if _, ok := OngoingMonthly([]Phase{{PhaseNumber: 1}}); ok {
		t.Error("expected no ongoing phase")
	}
}

func TestTagSet(t *testing.T) {
	ts := NewTagSet("fast-roi", " fast-roi ", "", "Fast-ROI", "quick-win")

	got := ts.Slice()
	want := []string{"fast-roi", "Fast-ROI", "quick-win"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tag %d: expected %q, got %q", i, want[i], got[i])
		}
	}

	ts.Remove("Fast-ROI")
	if ts.Contains("Fast-ROI") || ts.Len() != 2 {
		t.Errorf("expected Fast-ROI removed, got %v", ts.Slice())
	}

	if NewTagSet().Slice() != nil {
		t.Error("expected nil slice for empty set")
	}
}
