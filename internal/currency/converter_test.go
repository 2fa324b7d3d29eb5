package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		mode   Mode
		code   string
		want   string
	}{
		{name: "none keeps EUR", amount: "100", mode: ModeNone, code: EUR, want: "100"},
		{name: "none keeps BGN", amount: "499.99", mode: ModeNone, code: BGN, want: "499.99"},
		{name: "none keeps other currency", amount: "10", mode: ModeNone, code: "USD", want: "10"},
		{name: "eur to bgn converts EUR", amount: "100", mode: ModeEURToBGN, code: EUR, want: "195.58"},
		{name: "eur to bgn rounds half up", amount: "1", mode: ModeEURToBGN, code: EUR, want: "1.96"},
		{name: "eur to bgn ignores BGN", amount: "100", mode: ModeEURToBGN, code: BGN, want: "100"},
		{name: "bgn to eur converts BGN", amount: "195.583", mode: ModeBGNToEUR, code: BGN, want: "100"},
		{name: "bgn to eur rounds", amount: "500", mode: ModeBGNToEUR, code: BGN, want: "255.65"},
		{name: "bgn to eur ignores EUR", amount: "500", mode: ModeBGNToEUR, code: EUR, want: "500"},
		{name: "unknown mode is a no-op", amount: "12.345", mode: Mode(7), code: EUR, want: "12.35"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(d(tt.amount), tt.mode, tt.code)
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestConvertMatchesRate(t *testing.T) {
	for _, amount := range []string{"0", "1", "150", "10000", "2.5"} {
		in := d(amount)
		assert.True(t, in.Mul(Rate).Round(2).Equal(Convert(in, ModeEURToBGN, EUR)))
		assert.True(t, in.Div(Rate).Round(2).Equal(Convert(in, ModeBGNToEUR, BGN)))
		assert.True(t, in.Equal(Convert(in, ModeNone, BGN)))
	}
}

func TestTargetAndFlag(t *testing.T) {
	assert.Equal(t, EUR, Target(ModeNone, EUR))
	assert.Equal(t, BGN, Target(ModeEURToBGN, EUR))
	assert.Equal(t, EUR, Target(ModeBGNToEUR, BGN))

	assert.Equal(t, 0, Flag(ModeNone))
	assert.Equal(t, 0, Flag(ModeEURToBGN))
	assert.Equal(t, 1, Flag(ModeBGNToEUR))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(EUR))
	assert.True(t, Supported(BGN))
	assert.False(t, Supported("USD"))
	assert.False(t, Supported(""))
}
