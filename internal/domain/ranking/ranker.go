// Package ranking orders candidate facilities for a patient by a composite
// of normalized travel distance and estimated wait time.
package ranking

import (
	"context"
	"sort"
	"time"

	"github.com/okian/triago/internal/domain/geo"
	"github.com/okian/triago/internal/domain/model"
	"github.com/okian/triago/internal/domain/wait"
)

// Normalization caps and the default hard radius filter.
const (
	defaultMaxRadiusKM = 50.0
	distanceCapKM      = 50.0
	waitCapMinutes     = 240.0

	maxAlternatives = 3
)

// Recommendation label thresholds on the composite score.
const (
	scoreOptimal    = 0.3
	scoreGood       = 0.5
	scoreAcceptable = 0.7
)

// RankedFacility is one scored candidate. Lower score is better.
type RankedFacility struct {
	FacilityID           string                   `json:"facility_id"`
	DistanceKM           float64                  `json:"distance_km"`
	EstimatedWaitMinutes float64                  `json:"estimated_wait_minutes"`
	ConfidenceInterval   model.ConfidenceInterval `json:"confidence_interval"`
	Factors              map[string]float64       `json:"factors_applied,omitempty"`
	Score                float64                  `json:"score"`
	Recommendation       string                   `json:"recommendation"`
}

// Result is the routing answer: the best candidate plus up to three
// alternatives, in score order.
type Result struct {
	Optimal       *RankedFacility  `json:"optimal_facility,omitempty"`
	Alternatives  []RankedFacility `json:"alternatives"`
	TotalAnalyzed int              `json:"total_facilities_analyzed"`
}

// Option applies a configuration option to the Ranker.
type Option func(*Ranker)

// WithMaxRadiusKM sets the hard distance filter applied before scoring.
func WithMaxRadiusKM(km float64) Option {
	return func(r *Ranker) {
		if km > 0 {
			r.maxRadiusKM = km
		}
	}
}

// Ranker composes the distance function and the wait estimator. Stateless
// beyond its read-only configuration; safe for concurrent use.
type Ranker struct {
	estimator   *wait.Estimator
	maxRadiusKM float64
}

// NewRanker creates a ranker backed by the given estimator.
func NewRanker(estimator *wait.Estimator, opts ...Option) *Ranker {
	r := &Ranker{
		estimator:   estimator,
		maxRadiusKM: defaultMaxRadiusKM,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Rank scores every candidate within the radius and returns them best first.
// Facilities beyond the radius are excluded outright, not merely penalized.
// Zero candidates (or all out of radius) yields an empty slice, not an error.
func (r *Ranker) Rank(_ context.Context, user model.Coordinate, facilities []model.Facility, severity model.Severity, now time.Time) []RankedFacility {
	distanceWeight, waitWeight := weightsFor(severity)

	ranked := make([]RankedFacility, 0, len(facilities))
	for _, f := range facilities {
		distance := geo.Distance(user, f.Coordinates)
		if distance > r.maxRadiusKM {
			continue
		}

		estimate := r.estimator.Estimate(f, severity, now)

		score := distanceWeight*clamp01(distance/distanceCapKM) +
			waitWeight*clamp01(estimate.Minutes/waitCapMinutes)

		ranked = append(ranked, RankedFacility{
			FacilityID:           f.ID,
			DistanceKM:           distance,
			EstimatedWaitMinutes: estimate.Minutes,
			ConfidenceInterval:   estimate.ConfidenceInterval,
			Factors:              estimate.Factors,
			Score:                score,
			Recommendation:       recommendationFor(score),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})

	return ranked
}

// Route runs Rank and splits the ordering into the optimal pick and up to
// three alternatives.
func (r *Ranker) Route(ctx context.Context, user model.Coordinate, facilities []model.Facility, severity model.Severity, now time.Time) Result {
	ranked := r.Rank(ctx, user, facilities, severity, now)

	result := Result{
		Alternatives:  []RankedFacility{},
		TotalAnalyzed: len(ranked),
	}
	if len(ranked) == 0 {
		return result
	}

	result.Optimal = &ranked[0]
	rest := ranked[1:]
	if len(rest) > maxAlternatives {
		rest = rest[:maxAlternatives]
	}
	result.Alternatives = append(result.Alternatives, rest...)

	return result
}

// weightsFor returns (distance, wait) weights: critical patients minimize
// wait over distance, routine care minimizes distance.
func weightsFor(severity model.Severity) (float64, float64) {
	switch severity {
	case model.SeverityRed:
		return 0.3, 0.7
	case model.SeverityYellow:
		return 0.5, 0.5
	default:
		return 0.7, 0.3
	}
}

func recommendationFor(score float64) string {
	switch {
	case score <= scoreOptimal:
		return "Highly Recommended - Optimal choice"
	case score <= scoreGood:
		return "Recommended - Good option"
	case score <= scoreAcceptable:
		return "Acceptable - Consider alternatives"
	default:
		return "Not Recommended - Look for better options"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
