package trader

import (
	"fmt"
	"math"
	"sync"

	"binance-multi-strategy-bot/internal/weights"
)

// weightSumTolerance bounds how far a weight vector may drift from summing
// to one before a setter rejects it.
const weightSumTolerance = 1e-6

// Settings is the live trading configuration shared between the strategy
// loops and the chat surface. Loops read snapshots; all mutation goes
// through the validated setters, so there is exactly one write path.
type Settings struct {
	mu      sync.RWMutex
	weights map[string]float64
	risk    float64
}

// NewSettings creates a Settings store. An empty or invalid initial weight
// vector falls back to an equal split; a non-positive risk falls back to 1.
func NewSettings(initial map[string]float64, risk float64) *Settings {
	s := &Settings{
		weights: equalWeights(),
		risk:    1.0,
	}
	_ = s.SetWeights(initial) // invalid initial vectors keep the equal split
	if risk > 0 {
		s.risk = risk
	}
	return s
}

func equalWeights() map[string]float64 {
	w := make(map[string]float64, len(weights.Names))
	for _, name := range weights.Names {
		w[name] = 1.0 / float64(len(weights.Names))
	}
	return w
}

// Weights returns a snapshot copy of the current weight vector.
func (s *Settings) Weights() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]float64, len(s.weights))
	for name, w := range s.weights {
		snapshot[name] = w
	}
	return snapshot
}

// Weight returns the current weight for one strategy.
func (s *Settings) Weight(name string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weights[name]
}

// Risk returns the global risk multiplier applied to every order size.
func (s *Settings) Risk() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.risk
}

// SetRisk replaces the risk multiplier. It must be positive.
func (s *Settings) SetRisk(risk float64) error {
	if risk <= 0 || math.IsNaN(risk) || math.IsInf(risk, 0) {
		return fmt.Errorf("risk multiplier must be positive, got %v", risk)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.risk = risk
	return nil
}

// SetWeights replaces the weight vector. Every known strategy must be
// present, no weight may be negative, and the vector must sum to 1 within
// tolerance.
func (s *Settings) SetWeights(w map[string]float64) error {
	if len(w) != len(weights.Names) {
		return fmt.Errorf("expected %d weights, got %d", len(weights.Names), len(w))
	}

	var sum float64
	for _, name := range weights.Names {
		value, ok := w[name]
		if !ok {
			return fmt.Errorf("missing weight for strategy %q", name)
		}
		if value < 0 || math.IsNaN(value) {
			return fmt.Errorf("weight for %q must be non-negative, got %v", name, value)
		}
		sum += value
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1, got %v", sum)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights = make(map[string]float64, len(w))
	for _, name := range weights.Names {
		s.weights[name] = w[name]
	}
	return nil
}
