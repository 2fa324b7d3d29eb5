package installment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibilityAlwaysHas46Months(t *testing.T) {
	for _, mask := range []int64{0, 1, -1, 1<<45 | 1, 1 << 50} {
		v := Visibility(mask, 0)
		assert.Len(t, v, 46)
		for month := 3; month <= 48; month++ {
			_, ok := v[month]
			assert.True(t, ok, "month %d missing", month)
		}
	}
}

func TestVisibilityDefaultMonthOnly(t *testing.T) {
	v := Visibility(0, 12)

	for month, visible := range v {
		assert.Equal(t, month == 12, visible, "month %d", month)
	}
}

func TestVisibilityBits(t *testing.T) {
	tests := []struct {
		name         string
		mask         int64
		defaultMonth int
		want         []int
	}{
		{name: "bit 0 is month 3", mask: 1, want: []int{3}},
		{name: "bit 45 is month 48", mask: 1 << 45, want: []int{48}},
		{name: "bits 3 and 9", mask: 1<<3 | 1<<9, want: []int{6, 12}},
		{name: "default merges with mask", mask: 1 << 3, defaultMonth: 24, want: []int{6, 24}},
		{name: "default outside range ignored", mask: 0, defaultMonth: 60, want: []int{}},
		{name: "bits above 45 ignored", mask: 1 << 46, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VisibleMonths(tt.mask, tt.defaultMonth))
		})
	}
}
