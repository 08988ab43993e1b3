package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when a numeric field arrives unparsable. The draft must
// always stay computable, so bad input is normalized instead of rejected.
const (
	DefaultQuantity = 1.0
	DefaultRate     = 0.0
)

// DateOnly is a custom type for handling date-only strings from JSON
type DateOnly struct {
	time.Time
}

// UnmarshalJSON implements custom unmarshaling for date-only strings
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	// Handle null/empty dates
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}

	// Parse date-only format
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements custom marshaling for date-only strings
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format("2006-01-02"))
}

// LineItem is one billable row of an invoice draft. The ID is generated when
// the item is added and stays stable across edits; it is the only handle used
// for updates and removal.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	HSN         string  `json:"hsn,omitempty"`
}

// Amount is the derived row total. It is never stored.
func (li LineItem) Amount() float64 {
	return li.Quantity * li.Rate
}

// InvoiceDraft is the in-memory aggregate the builder edits. The draft is the
// source of truth until a successful save; loading a template replaces it
// wholesale.
type InvoiceDraft struct {
	UserID        string `json:"user_id"`
	InvoiceNumber string `json:"invoice_number"`

	BusinessName    string `json:"business_name"`
	BusinessAddress string `json:"business_address"`
	BusinessEmail   string `json:"business_email"`
	BusinessPhone   string `json:"business_phone"`

	ClientName    string `json:"client_name"`
	ClientAddress string `json:"client_address"`
	ClientEmail   string `json:"client_email"`
	ClientPhone   string `json:"client_phone"`

	InvoiceDate DateOnly `json:"invoice_date"`
	DueDate     DateOnly `json:"due_date"`

	Currency     string     `json:"currency"`
	LineItems    []LineItem `json:"line_items"`
	TaxRate      float64    `json:"tax_rate"`
	DiscountRate float64    `json:"discount_rate"`

	Notes        string `json:"notes"`
	SignatureURL string `json:"signature_url,omitempty"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// AddLineItem appends a new item with the given identifier and the default
// quantity/rate. Insertion order is the display order.
func (d *InvoiceDraft) AddLineItem(id string) *LineItem {
	d.LineItems = append(d.LineItems, LineItem{
		ID:       id,
		Quantity: DefaultQuantity,
		Rate:     DefaultRate,
	})
	return &d.LineItems[len(d.LineItems)-1]
}

// RemoveLineItem deletes the item matching id. Unknown ids are a no-op.
func (d *InvoiceDraft) RemoveLineItem(id string) {
	items := d.LineItems[:0]
	for _, item := range d.LineItems {
		if item.ID != id {
			items = append(items, item)
		}
	}
	d.LineItems = items
}

// FindLineItem returns the item matching id, or nil when absent.
func (d *InvoiceDraft) FindLineItem(id string) *LineItem {
	for i := range d.LineItems {
		if d.LineItems[i].ID == id {
			return &d.LineItems[i]
		}
	}
	return nil
}

// HasVisibleItems reports whether any item carries a non-blank description.
// A draft whose rows are all blank renders as "no items" in the preview.
func (d *InvoiceDraft) HasVisibleItems() bool {
	for _, item := range d.LineItems {
		if strings.TrimSpace(item.Description) != "" {
			return true
		}
	}
	return false
}

// ParseQuantity normalizes free-form quantity input. Unparsable or negative
// values fall back to the default quantity of one.
func ParseQuantity(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return DefaultQuantity
	}
	return v
}

// ParseRate normalizes free-form rate input. Unparsable or negative values
// fall back to zero.
func ParseRate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return DefaultRate
	}
	return v
}

// ParsePercent normalizes a tax or discount percentage. Absent, unparsable or
// negative values all read as zero.
func ParsePercent(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
