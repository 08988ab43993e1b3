package domain

import "math"

// TaxMode selects the totals policy. The two modes come from the two invoice
// layouts the product supports: a generic flat-tax invoice and a GST invoice
// with round-off reconciliation.
type TaxMode string

const (
	// TaxModeFlat applies the configured tax rate on the discounted base and
	// shows discount/tax rows only when their rates are non-zero.
	TaxModeFlat TaxMode = "flat"

	// TaxModeGST applies a GST rate uniformly and rounds the grand total to
	// the nearest unit, carrying the signed round-off as its own line.
	TaxModeGST TaxMode = "gst"
)

// DefaultGSTRate is the GST percentage applied when the integrator has not
// configured one.
const DefaultGSTRate = 5.0

// Totals is the derived money breakdown of a draft. It is recomputed on every
// change and never cached across edits.
type Totals struct {
	Mode TaxMode `json:"mode"`

	Subtotal       float64 `json:"subtotal"`
	DiscountRate   float64 `json:"discount_rate"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxableBase    float64 `json:"taxable_base"`
	TaxRate        float64 `json:"tax_rate"`
	TaxAmount      float64 `json:"tax_amount"`
	Total          float64 `json:"total"`

	// GST mode only. RoundedTotal - RoundOff == Total holds exactly, and
	// RoundOff lies in [-0.5, 0.5].
	RoundedTotal  float64 `json:"rounded_total,omitempty"`
	RoundOff      float64 `json:"round_off,omitempty"`
	AmountPaid    float64 `json:"amount_paid,omitempty"`
	AmountPayable float64 `json:"amount_payable,omitempty"`
}

// CalculateTotals derives the money breakdown from the current line items and
// rates. It is a pure function: inputs are read, never mutated, and identical
// inputs always produce identical output. Negative rates are clamped to zero
// so a malformed draft still yields a usable breakdown.
//
// Discount applies to the subtotal before tax; tax is computed on the
// discounted base.
func CalculateTotals(items []LineItem, taxRate, discountRate float64, mode TaxMode) Totals {
	if taxRate < 0 {
		taxRate = 0
	}
	if discountRate < 0 {
		discountRate = 0
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.Amount()
	}

	discountAmount := subtotal * (discountRate / 100)
	taxableBase := subtotal - discountAmount
	taxAmount := taxableBase * (taxRate / 100)
	total := taxableBase + taxAmount

	t := Totals{
		Mode:           mode,
		Subtotal:       subtotal,
		DiscountRate:   discountRate,
		DiscountAmount: discountAmount,
		TaxableBase:    taxableBase,
		TaxRate:        taxRate,
		TaxAmount:      taxAmount,
		Total:          total,
	}

	if mode == TaxModeGST {
		// Round half up to the nearest unit; the round-off line reconciles
		// the rounded figure with the exact one and can be negative.
		t.RoundedTotal = math.Floor(total + 0.5)
		t.RoundOff = t.RoundedTotal - total
		t.AmountPayable = t.RoundedTotal - t.AmountPaid
	}

	return t
}

// ShowDiscountRow reports whether the discount breakdown row is visible.
// A row hides only when its rate is exactly zero, not when it is merely small.
func (t Totals) ShowDiscountRow() bool {
	return t.DiscountRate > 0
}

// ShowTaxRow reports whether the tax breakdown row is visible.
func (t Totals) ShowTaxRow() bool {
	return t.TaxRate > 0
}
