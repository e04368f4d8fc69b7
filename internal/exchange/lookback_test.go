package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLookbackDays(t *testing.T) {
	testCases := []struct {
		name     string
		lookback string
		expected int
	}{
		{name: "Standard format", lookback: "30 days ago UTC", expected: 30},
		{name: "Two days", lookback: "2 days ago UTC", expected: 2},
		{name: "Leading integer only counts", lookback: "12 hours ago UTC", expected: 12},
		{name: "Empty string", lookback: "", expected: 365},
		{name: "Non-numeric", lookback: "forever ago", expected: 365},
		{name: "Negative", lookback: "-3 days ago UTC", expected: 365},
		{name: "Zero", lookback: "0 days ago UTC", expected: 365},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLookbackDays(tc.lookback))
		})
	}
}
