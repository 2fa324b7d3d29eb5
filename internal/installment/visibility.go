package installment

const (
	MinMonth = 3
	MaxMonth = 48
)

// Visibility expands the bank's plan mask. Bit N stands for month N+3; the
// default month is always shown so the preselected plan never disappears.
func Visibility(bitmask int64, defaultMonth int) map[int]bool {
	result := make(map[int]bool, MaxMonth-MinMonth+1)
	for month := MinMonth; month <= MaxMonth; month++ {
		bit := int64(1) << (month - MinMonth)
		result[month] = bitmask&bit != 0 || month == defaultMonth
	}
	return result
}

// VisibleMonths lists the visible months in ascending order.
func VisibleMonths(bitmask int64, defaultMonth int) []int {
	visible := Visibility(bitmask, defaultMonth)
	months := make([]int, 0, len(visible))
	for month := MinMonth; month <= MaxMonth; month++ {
		if visible[month] {
			months = append(months, month)
		}
	}
	return months
}
