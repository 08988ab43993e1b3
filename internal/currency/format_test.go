package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbol(t *testing.T) {
	assert.Equal(t, "$", Symbol("USD"))
	assert.Equal(t, "€", Symbol("EUR"))
	assert.Equal(t, "£", Symbol("GBP"))
	assert.Equal(t, "₹", Symbol("INR"))
	assert.Equal(t, "¥", Symbol("JPY"))
	assert.Equal(t, "A$", Symbol("AUD"))
	assert.Equal(t, "C$", Symbol("CAD"))

	// Unknown codes fall back instead of erroring
	assert.Equal(t, "$", Symbol("XYZ"))
	assert.Equal(t, "$", Symbol(""))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₹250.00", Format(250, "INR"))
	assert.Equal(t, "$262.50", Format(262.5, "USD"))
	assert.Equal(t, "€0.00", Format(0, "EUR"))
	assert.Equal(t, "$19.99", Format(19.994, "ZZZ"))
}

func TestFormatNegative(t *testing.T) {
	// Round-off can be negative; the sign stays with the number
	assert.Equal(t, "₹-0.50", Format(-0.5, "INR"))
}
