// Package currency converts store amounts between BGN and EUR at the fixed
// euro peg used by the bank.
package currency

import (
	"github.com/shopspring/decimal"
)

const (
	EUR = "EUR"
	BGN = "BGN"
)

// Mode is the merchant's conversion direction as reported by the bank.
type Mode int

const (
	ModeNone     Mode = 0
	ModeEURToBGN Mode = 1
	ModeBGNToEUR Mode = 2
)

// Rate is the number of BGN per EUR.
var Rate = decimal.RequireFromString("1.95583")

// Supported reports whether the bank can quote in this store currency.
func Supported(code string) bool {
	return code == EUR || code == BGN
}

// Convert applies mode to amount and rounds to two places. Mode 1 touches
// EUR amounts only, mode 2 BGN amounts only; anything else passes through.
func Convert(amount decimal.Decimal, mode Mode, code string) decimal.Decimal {
	switch {
	case mode == ModeEURToBGN && code == EUR:
		amount = amount.Mul(Rate)
	case mode == ModeBGNToEUR && code == BGN:
		amount = amount.Div(Rate)
	}
	return amount.Round(2)
}

// Target returns the currency an amount is denominated in after Convert.
func Target(mode Mode, code string) string {
	switch mode {
	case ModeEURToBGN:
		return BGN
	case ModeBGNToEUR:
		return EUR
	}
	return code
}

// Flag is the currency marker sent with an application: 1 when the bank
// receives euro amounts, 0 otherwise.
func Flag(mode Mode) int {
	if mode == ModeBGNToEUR {
		return 1
	}
	return 0
}
