// Package wait estimates facility wait times from static base waits and a
// stack of time-of-day, day-of-week, facility, capacity, and seasonal
// multipliers.
package wait

import (
	"math/rand"
	"sync"
	"time"

	"github.com/okian/triago/internal/domain/model"
)

// Base wait minutes per severity. These encode clinical policy: a critical
// case is never modeled as waiting longer than its floor regardless of load.
const (
	baseWaitRed    = 5.0
	baseWaitYellow = 30.0
	baseWaitGreen  = 120.0

	// Applied when severity is not one of the three codes. Unreachable
	// through the typed API, kept so the estimator stays total.
	baseWaitUnknown = 60.0
)

// Time-of-day multipliers over exhaustive, non-overlapping 24h buckets.
const (
	morningPeakMultiplier   = 1.8 // [8,12)
	afternoonPeakMultiplier = 1.5 // [14,18)
	eveningMultiplier       = 1.2 // [18,22)
	nightMultiplier         = 0.6 // [22,24) and [0,6)
	offPeakMultiplier       = 0.8 // [6,8) and [12,14)
)

// Capacity utilization step thresholds.
const (
	utilizationCritical = 0.9
	utilizationHigh     = 0.75
	utilizationModerate = 0.5
	utilizationElevated = 0.25

	capacityUnknownMultiplier = 2.0
)

// Confidence interval variance per severity and the reported level.
const (
	varianceRed     = 0.1
	varianceYellow  = 0.2
	varianceGreen   = 0.3
	confidenceLevel = 0.85
)

// Jitter bounds for the default randomness source.
const (
	jitterMin = 0.9
	jitterMax = 1.1

	defaultRandomSeed = 42
)

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithFacilityMultipliers sets per-facility load multipliers keyed by
// facility id. Unknown facilities use 1.0.
func WithFacilityMultipliers(multipliers map[string]float64) Option {
	return func(e *Estimator) {
		e.facilityMultipliers = make(map[string]float64, len(multipliers))
		for id, m := range multipliers {
			if m > 0 {
				e.facilityMultipliers[id] = m
			}
		}
	}
}

// WithJitter replaces the randomness source. Tests pin it to 1.0 for
// deterministic estimates.
func WithJitter(jitter func() float64) Option {
	return func(e *Estimator) {
		if jitter != nil {
			e.jitter = jitter
		}
	}
}

// WithRandomSeed seeds the default jitter source.
func WithRandomSeed(seed int64) Option {
	return func(e *Estimator) {
		e.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // jitter only, not security sensitive
	}
}

// Estimator computes wait estimates. It holds only read-only tables plus a
// guarded randomness source, so it is safe for concurrent use.
type Estimator struct {
	baseWait            map[model.Severity]float64
	facilityMultipliers map[string]float64

	mu     sync.Mutex
	rng    *rand.Rand
	jitter func() float64
}

// NewEstimator creates an estimator with the default multiplier tables.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		baseWait: map[model.Severity]float64{
			model.SeverityRed:    baseWaitRed,
			model.SeverityYellow: baseWaitYellow,
			model.SeverityGreen:  baseWaitGreen,
		},
		facilityMultipliers: defaultFacilityMultipliers(),
		rng:                 rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // jitter only
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.jitter == nil {
		e.jitter = e.uniformJitter
	}

	return e
}

// defaultFacilityMultipliers carries the known referral hospitals; every
// other facility gets 1.0.
func defaultFacilityMultipliers() map[string]float64 {
	return map[string]float64{
		"MTRH":     1.0,
		"KNH":      1.2,
		"Mbagathi": 0.9,
		"Kenyatta": 1.1,
	}
}

// Estimate computes the expected wait for severity at facility as of now.
// The result is floored at the severity's base wait and carries the applied
// multipliers for auditability.
func (e *Estimator) Estimate(facility model.Facility, severity model.Severity, now time.Time) model.WaitEstimate {
	base := e.base(severity)

	timeMult := timeOfDayMultiplier(now.Hour())
	dayMult := dayOfWeekMultiplier(now.Weekday())
	facilityMult := e.facilityMultiplier(facility.ID)
	capacityMult := capacityMultiplier(facility.CurrentQueueLength, facility.EmergencyCapacity)
	seasonalMult := seasonalMultiplier(now.Month())
	jitter := e.jitter()

	minutes := base * timeMult * dayMult * facilityMult * capacityMult * seasonalMult * jitter
	if minutes < base {
		minutes = base
	}

	variance := severityVariance(severity)

	return model.WaitEstimate{
		Minutes: minutes,
		ConfidenceInterval: model.ConfidenceInterval{
			Lower: minutes * (1 - variance),
			Upper: minutes * (1 + variance),
			Level: confidenceLevel,
		},
		Factors: map[string]float64{
			"base_wait":           base,
			"time_multiplier":     timeMult,
			"day_multiplier":      dayMult,
			"facility_multiplier": facilityMult,
			"capacity_multiplier": capacityMult,
			"seasonal_multiplier": seasonalMult,
			"random_variation":    jitter,
		},
	}
}

func (e *Estimator) base(severity model.Severity) float64 {
	if base, ok := e.baseWait[severity]; ok {
		return base
	}
	return baseWaitUnknown
}

func (e *Estimator) facilityMultiplier(id string) float64 {
	if m, ok := e.facilityMultipliers[id]; ok {
		return m
	}
	return 1.0
}

// uniformJitter draws from U(jitterMin, jitterMax) under a lock so the
// estimator stays safe for concurrent callers.
func (e *Estimator) uniformJitter() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return jitterMin + e.rng.Float64()*(jitterMax-jitterMin)
}

func timeOfDayMultiplier(hour int) float64 {
	switch {
	case hour >= 8 && hour < 12:
		return morningPeakMultiplier
	case hour >= 14 && hour < 18:
		return afternoonPeakMultiplier
	case hour >= 18 && hour < 22:
		return eveningMultiplier
	case hour >= 22 || hour < 6:
		return nightMultiplier
	default:
		return offPeakMultiplier
	}
}

func dayOfWeekMultiplier(day time.Weekday) float64 {
	switch day {
	case time.Monday:
		return 1.4
	case time.Tuesday:
		return 1.2
	case time.Wednesday:
		return 1.1
	case time.Thursday:
		return 1.2
	case time.Friday:
		return 1.5
	case time.Saturday:
		return 0.8
	case time.Sunday:
		return 0.6
	default:
		return 1.0
	}
}

// capacityMultiplier is a step function of queue_length/capacity utilization.
func capacityMultiplier(queueLength, capacity int) float64 {
	if capacity <= 0 {
		return capacityUnknownMultiplier
	}

	utilization := float64(queueLength) / float64(capacity)

	switch {
	case utilization >= utilizationCritical:
		return 2.5
	case utilization >= utilizationHigh:
		return 2.0
	case utilization >= utilizationModerate:
		return 1.5
	case utilization >= utilizationElevated:
		return 1.2
	default:
		return 1.0
	}
}

// seasonalMultiplier models flu and rainy-season load in East Africa:
// November through March 1.3, the remaining rainy months 1.2, otherwise 1.0.
func seasonalMultiplier(month time.Month) float64 {
	switch month {
	case time.November, time.December, time.January, time.February, time.March:
		return 1.3
	case time.April, time.May, time.October:
		return 1.2
	default:
		return 1.0
	}
}

func severityVariance(severity model.Severity) float64 {
	switch severity {
	case model.SeverityRed:
		return varianceRed
	case model.SeverityYellow:
		return varianceYellow
	default:
		return varianceGreen
	}
}
