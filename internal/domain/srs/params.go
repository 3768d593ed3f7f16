// Package srs implements the spaced-repetition scheduling engine: a pure
// SM-2-family grading algorithm and the due-item selection rules. All
// functions take an explicit "now" so the engine is testable without
// mocking clocks.
package srs

import "github.com/lexigo-app/lexigo-api/internal/domain"

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// MinEase is the floor below which ease never drops.
	MinEase float64

	// Ease deltas applied per rating. Good leaves ease unchanged.
	AgainEaseDelta float64
	HardEaseDelta  float64
	EasyEaseDelta  float64

	// HardIntervalFactor multiplies the current interval on a Hard rating,
	// with a floor of one day.
	HardIntervalFactor float64

	// EasyIntervalFactor is the extra growth multiplier applied on top of
	// ease for an Easy rating.
	EasyIntervalFactor float64

	// Graduating intervals for the first two successful steps.
	// An item at interval 0 graduates to GoodGraduatingInterval (or
	// EasyGraduatingInterval); an item at interval 1 jumps to
	// GoodSecondInterval (or EasySecondInterval).
	GoodGraduatingInterval float64
	GoodSecondInterval     float64
	EasyGraduatingInterval float64
	EasySecondInterval     float64

	// RelearnMinutes is how soon an item with interval 0 becomes due again.
	RelearnMinutes int
}

// DefaultParams returns the standard scheduling parameters.
func DefaultParams() *Params {
	return &Params{
		MinEase: domain.MinEase,

		AgainEaseDelta: -0.20,
		HardEaseDelta:  -0.15,
		EasyEaseDelta:  0.15,

		HardIntervalFactor: 1.2,
		EasyIntervalFactor: 1.3,

		GoodGraduatingInterval: 1,
		GoodSecondInterval:     6,
		EasyGraduatingInterval: 4,
		EasySecondInterval:     10,

		RelearnMinutes: 1,
	}
}
