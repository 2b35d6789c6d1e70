// ABOUTME: Pricing aggregation and currency formatting for proposals
// ABOUTME: Computes initial investment and ongoing monthly ranges from phases
package models

import (
	"math"
	"strconv"
	"strings"
)

// Range is a low/high dollar estimate.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

func (r Range) String() string {
	return FormatCurrency(r.Low) + " - " + FormatCurrency(r.High)
}

// IsRecurring reports whether the phase is billed monthly. An explicit
// Recurring flag wins; otherwise a pricing note mentioning "month" marks it.
func (p Phase) IsRecurring() bool {
	if p.Recurring != nil {
		return *p.Recurring
	}
	return strings.Contains(p.PricingNote, "month")
}

// InitialInvestment sums phases that carry no pricing note and are not recurring.
func InitialInvestment(phases []Phase) Range {
	var total Range
	for _, p := range phases {
		if p.PricingNote != "" || p.IsRecurring() {
			continue
		}
		total.Low += p.PhaseTotalLow
		total.High += p.PhaseTotalHigh
	}
	return total
}

// OngoingMonthly returns the totals of the first recurring phase in phase order.
func OngoingMonthly(phases []Phase) (Range, bool) {
	for _, p := range phases {
		if p.IsRecurring() {
			return Range{Low: p.PhaseTotalLow, High: p.PhaseTotalHigh}, true
		}
	}
	return Range{}, false
}

// FormatCurrency renders values of 1000 or more as "$<thousands>K" rounded to
// whole thousands, and anything smaller verbatim.
func FormatCurrency(v float64) string {
	if v >= 1000 {
		return "$" + strconv.FormatFloat(math.Round(v/1000), 'f', 0, 64) + "K"
	}
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatRange renders "low - high".
func FormatRange(low, high float64) string {
	return Range{Low: low, High: high}.String()
}
