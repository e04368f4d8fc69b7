package exchange

import (
	"strconv"
	"strings"
)

// DefaultLookbackDays is the fallback window when a lookback spec cannot be
// parsed.
const DefaultLookbackDays = 365

// ParseLookbackDays extracts the leading integer from a lookback spec such
// as "30 days ago UTC" and treats it as a day count. Any parse failure falls
// back to DefaultLookbackDays.
func ParseLookbackDays(lookback string) int {
	fields := strings.Fields(lookback)
	if len(fields) == 0 {
		return DefaultLookbackDays
	}
	days, err := strconv.Atoi(fields[0])
	if err != nil || days <= 0 {
		return DefaultLookbackDays
	}
	return days
}
