// Package regime manages the time-indexed fraud configuration: which
// typologies are active at a given simulated minute and how severe their
// mutations are.
package regime

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/opensource-finance/shrike/internal/domain"
)

// Params describes one regime: the active typology set and the severity
// ranges its mutations draw from.
type Params struct {
	// ActiveTypologies are the fraud labels eligible while this regime
	// is current.
	ActiveTypologies []string

	// AmountMultiplierLow/High bound the multiplier applied to a sender's
	// average transaction value.
	AmountMultiplierLow  float64
	AmountMultiplierHigh float64

	// GeoJumpLow/High bound the geographic jump in km.
	GeoJumpLow  int
	GeoJumpHigh int
}

// Schedule is an ordered set of regimes keyed by activation minute.
// At any instant exactly one regime is current: the one with the largest
// activation time not after the instant.
type Schedule struct {
	keys    []int
	regimes map[int]Params
}

// NewSchedule builds a schedule from activation-minute keyed params.
// Minute 0 must be present; it is the fallback for any time preceding all
// other keys.
func NewSchedule(entries map[int]Params) (*Schedule, error) {
	if _, ok := entries[0]; !ok {
		return nil, fmt.Errorf("schedule requires a regime at minute 0")
	}
	keys := make([]int, 0, len(entries))
	for k := range entries {
		if k < 0 {
			return nil, fmt.Errorf("negative activation minute %d", k)
		}
		keys = append(keys, k)
	}
	sort.Ints(keys)

	regimes := make(map[int]Params, len(entries))
	for k, p := range entries {
		if len(p.ActiveTypologies) == 0 {
			return nil, fmt.Errorf("regime at minute %d has no active typologies", k)
		}
		regimes[k] = p
	}
	return &Schedule{keys: keys, regimes: regimes}, nil
}

// Current returns the regime whose activation minute is the greatest key
// not after t. Times preceding all keys fall back to the minute-0 regime.
func (s *Schedule) Current(t int) Params {
	idx := sort.SearchInts(s.keys, t+1) - 1
	if idx < 0 {
		return s.regimes[0]
	}
	return s.regimes[s.keys[idx]]
}

// Seasonal period and noise band of the fraud-wave texture.
const (
	seasonalPeriod = 1500.0
	noiseBand      = 0.3
)

// SeasonalProbability is the deterministic part of the fraud probability:
// the base rate modulated by a sine wave over simulated minutes.
func SeasonalProbability(t int, baseRate float64) float64 {
	return baseRate * (1 + 0.5*math.Sin(float64(t)/seasonalPeriod))
}

// FraudProbability adds uniform noise in [-0.3, 0.3] of the base rate to
// the seasonal probability, clamped at zero. Each call draws fresh noise,
// producing fraud waves superimposed on randomness.
func FraudProbability(t int, baseRate float64, rng *rand.Rand) float64 {
	noise := rng.Float64()*2*noiseBand - noiseBand
	return math.Max(0, SeasonalProbability(t, baseRate)+baseRate*noise)
}

// DefaultSchedule returns the built-in fraud evolution: four phases that
// shift from broad phishing toward stealthy account takeover.
func DefaultSchedule() *Schedule {
	s, err := NewSchedule(map[int]Params{
		0: {
			ActiveTypologies:     []string{domain.TypologyPhishing, domain.TypologyQRScam},
			AmountMultiplierLow:  5,
			AmountMultiplierHigh: 15,
			GeoJumpLow:           100,
			GeoJumpHigh:          2000,
		},
		3000: {
			ActiveTypologies:     []string{domain.TypologyPhishing, domain.TypologyQRScam, domain.TypologyCollectRequestScam},
			AmountMultiplierLow:  8,
			AmountMultiplierHigh: 20,
			GeoJumpLow:           500,
			GeoJumpHigh:          2500,
		},
		6000: {
			ActiveTypologies:     []string{domain.TypologyPhishing, domain.TypologyCollectRequestScam, domain.TypologyIdentityTheft, domain.TypologySIMSwapATO},
			AmountMultiplierLow:  10,
			AmountMultiplierHigh: 30,
			GeoJumpLow:           800,
			GeoJumpHigh:          4000,
		},
		// Adaptive phase: low amounts and short jumps mimic legit behavior.
		9000: {
			ActiveTypologies:     []string{domain.TypologyVPAMimicry, domain.TypologySIMSwapATO},
			AmountMultiplierLow:  2,
			AmountMultiplierHigh: 6,
			GeoJumpLow:           50,
			GeoJumpHigh:          300,
		},
	})
	if err != nil {
		panic(err) // built-in schedule is statically valid
	}
	return s
}
