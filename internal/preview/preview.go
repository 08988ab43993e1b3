// Package preview projects a draft and its computed totals into a read-only
// render model. The model carries formatted strings and visibility flags only;
// markup and styling belong to the client consuming it.
package preview

import (
	"fmt"
	"strings"

	"github.com/quickinvoice/invoice-builder-service/internal/currency"
	"github.com/quickinvoice/invoice-builder-service/internal/domain"
)

// Fallback strings shown while the corresponding form fields are still empty.
const (
	PlaceholderBusinessName    = "Your Business Name"
	PlaceholderBusinessAddress = "Your Business Address"
	PlaceholderClientName      = "Client Name"
	PlaceholderClientAddress   = "Client Address"
	PlaceholderInvoiceNumber   = "INV-001"
	PlaceholderNoItems         = "No items added yet"
)

// Party is one side of the invoice (seller or client).
type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// ItemRow is a rendered line item.
type ItemRow struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        string  `json:"rate"`
	Amount      string  `json:"amount"`
}

// TotalRow is one line of the totals breakdown. Rows for zero rates are not
// emitted at all.
type TotalRow struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// Model is the full read-only projection of a draft.
type Model struct {
	Business Party `json:"business"`
	Client   Party `json:"client"`

	InvoiceNumber string `json:"invoice_number"`
	InvoiceDate   string `json:"invoice_date"`
	DueDate       string `json:"due_date"`

	HasItems    bool      `json:"has_items"`
	Placeholder string    `json:"placeholder,omitempty"`
	Items       []ItemRow `json:"items"`

	Subtotal      string     `json:"subtotal"`
	Breakdown     []TotalRow `json:"breakdown"`
	Total         string     `json:"total"`
	AmountPayable string     `json:"amount_payable,omitempty"`

	Notes        string `json:"notes,omitempty"`
	SignatureURL string `json:"signature_url,omitempty"`
}

// Render builds the preview model for a draft and its totals. It is a pure
// projection: the draft is only read.
func Render(d *domain.InvoiceDraft, totals domain.Totals) *Model {
	m := &Model{
		Business: Party{
			Name:    fallback(d.BusinessName, PlaceholderBusinessName),
			Address: fallback(d.BusinessAddress, PlaceholderBusinessAddress),
			Email:   d.BusinessEmail,
			Phone:   d.BusinessPhone,
		},
		Client: Party{
			Name:    fallback(d.ClientName, PlaceholderClientName),
			Address: fallback(d.ClientAddress, PlaceholderClientAddress),
			Email:   d.ClientEmail,
			Phone:   d.ClientPhone,
		},
		InvoiceNumber: fallback(d.InvoiceNumber, PlaceholderInvoiceNumber),
		InvoiceDate:   formatDate(d.InvoiceDate),
		DueDate:       formatDate(d.DueDate),
		Notes:         d.Notes,
		SignatureURL:  d.SignatureURL,
	}

	code := d.Currency
	m.HasItems = d.HasVisibleItems()
	if m.HasItems {
		for _, item := range d.LineItems {
			if strings.TrimSpace(item.Description) == "" {
				continue
			}
			m.Items = append(m.Items, ItemRow{
				Description: item.Description,
				Quantity:    item.Quantity,
				Rate:        currency.Format(item.Rate, code),
				Amount:      currency.Format(item.Amount(), code),
			})
		}
	} else {
		m.Placeholder = PlaceholderNoItems
	}

	m.Subtotal = currency.Format(totals.Subtotal, code)

	if totals.ShowDiscountRow() {
		m.Breakdown = append(m.Breakdown, TotalRow{
			Label:  fmt.Sprintf("Discount (%.2f%%)", totals.DiscountRate),
			Amount: "-" + currency.Format(totals.DiscountAmount, code),
		})
	}
	if totals.ShowTaxRow() {
		label := fmt.Sprintf("Tax (%.2f%%)", totals.TaxRate)
		if totals.Mode == domain.TaxModeGST {
			label = fmt.Sprintf("GST (%.2f%%)", totals.TaxRate)
		}
		m.Breakdown = append(m.Breakdown, TotalRow{
			Label:  label,
			Amount: currency.Format(totals.TaxAmount, code),
		})
	}

	if totals.Mode == domain.TaxModeGST {
		m.Breakdown = append(m.Breakdown, TotalRow{
			Label:  "Round Off",
			Amount: currency.Format(totals.RoundOff, code),
		})
		m.Total = currency.Format(totals.RoundedTotal, code)
		m.AmountPayable = currency.Format(totals.AmountPayable, code)
	} else {
		m.Total = currency.Format(totals.Total, code)
	}

	return m
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func formatDate(d domain.DateOnly) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("January 2, 2006")
}
