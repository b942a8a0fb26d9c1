package domain

import (
	"fmt"
	"math"
)

const (
	DefaultRate          = 45.0
	DefaultBufferPercent = 20.0
)

// RatePresets are the hourly rates offered as quick picks. Any finite
// positive value may be used as a free-form override.
var RatePresets = []float64{35, 45, 60}

// PricingConfig converts hours into currency.
type PricingConfig struct {
	Rate          float64 `json:"rate"`
	BufferPercent float64 `json:"buffer"`
}

func DefaultPricing() PricingConfig {
	return PricingConfig{Rate: DefaultRate, BufferPercent: DefaultBufferPercent}
}

// WithRate returns a copy with the rate replaced. Non-positive and infinite
// rates are rejected.
func (p PricingConfig) WithRate(rate float64) (PricingConfig, error) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return p, fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}
	p.Rate = rate
	return p, nil
}

// WithBuffer returns a copy with the buffer replaced, clamping negatives to
// zero. NaN and infinite values leave the buffer unchanged.
func (p PricingConfig) WithBuffer(percent float64) PricingConfig {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return p
	}
	if percent < 0 {
		percent = 0
	}
	p.BufferPercent = percent
	return p
}

// BufferFactor is the multiplier applied to hours for the buffered totals.
func (p PricingConfig) BufferFactor() float64 {
	return 1 + p.BufferPercent/100
}
