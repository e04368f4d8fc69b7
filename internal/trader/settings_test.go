package trader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validWeights() map[string]float64 {
	return map[string]float64{
		"dca": 0.3, "grid": 0.2, "scalping": 0.2, "trend": 0.2, "sentiment": 0.1,
	}
}

func TestNewSettings_InvalidInitialFallsBackToEqualSplit(t *testing.T) {
	s := NewSettings(nil, 0)

	vector := s.Weights()
	assert.Len(t, vector, 5)
	for name, weight := range vector {
		assert.InDelta(t, 0.2, weight, 1e-9, "weight for %s", name)
	}
	assert.Equal(t, 1.0, s.Risk())
}

func TestNewSettings_ValidInitial(t *testing.T) {
	s := NewSettings(validWeights(), 0.5)
	assert.InDelta(t, 0.3, s.Weight("dca"), 1e-9)
	assert.Equal(t, 0.5, s.Risk())
}

func TestSetWeights(t *testing.T) {
	testCases := []struct {
		name        string
		weights     map[string]float64
		expectError bool
	}{
		{name: "Valid vector", weights: validWeights(), expectError: false},
		{
			name:        "Sum above one",
			weights:     map[string]float64{"dca": 0.5, "grid": 0.5, "scalping": 0.5, "trend": 0.2, "sentiment": 0.1},
			expectError: true,
		},
		{
			name:        "Missing strategy",
			weights:     map[string]float64{"dca": 0.5, "grid": 0.5, "scalping": 0.0, "trend": 0.0},
			expectError: true,
		},
		{
			name:        "Unknown strategy name",
			weights:     map[string]float64{"dca": 0.5, "grid": 0.5, "scalping": 0.0, "trend": 0.0, "arbitrage": 0.0},
			expectError: true,
		},
		{
			name:        "Negative weight",
			weights:     map[string]float64{"dca": 1.2, "grid": -0.2, "scalping": 0.0, "trend": 0.0, "sentiment": 0.0},
			expectError: true,
		},
		{
			name:        "Within tolerance of one",
			weights:     map[string]float64{"dca": 0.2 + 1e-9, "grid": 0.2, "scalping": 0.2, "trend": 0.2, "sentiment": 0.2},
			expectError: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSettings(nil, 1.0)
			err := s.SetWeights(tc.weights)
			if tc.expectError {
				assert.Error(t, err)
				// rejected vectors must leave the store unchanged
				assert.InDelta(t, 0.2, s.Weight("dca"), 1e-9)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWeights_ReturnsCopy(t *testing.T) {
	s := NewSettings(validWeights(), 1.0)

	snapshot := s.Weights()
	snapshot["dca"] = 99.0

	assert.InDelta(t, 0.3, s.Weight("dca"), 1e-9)
}

func TestSetRisk(t *testing.T) {
	s := NewSettings(nil, 1.0)

	assert.NoError(t, s.SetRisk(2.5))
	assert.Equal(t, 2.5, s.Risk())

	assert.Error(t, s.SetRisk(0))
	assert.Error(t, s.SetRisk(-1))
	assert.Equal(t, 2.5, s.Risk(), "rejected risk must leave the store unchanged")
}
