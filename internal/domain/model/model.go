// Package model contains domain models passed between layers.
package model

// Severity is the triage urgency classification.
// Ordinal priority: RED > YELLOW > GREEN.
type Severity string

const (
	// SeverityRed marks immediate, life-threatening presentations.
	SeverityRed Severity = "RED"

	// SeverityYellow marks urgent but not immediately life-threatening presentations.
	SeverityYellow Severity = "YELLOW"

	// SeverityGreen marks routine, non-urgent presentations.
	SeverityGreen Severity = "GREEN"
)

// Valid reports whether s is one of the three triage codes.
func (s Severity) Valid() bool {
	switch s {
	case SeverityRed, SeverityYellow, SeverityGreen:
		return true
	default:
		return false
	}
}

// Method tags the provenance of a verdict.
type Method string

const (
	// MethodRuleBased means the keyword rule engine produced the verdict.
	MethodRuleBased Method = "rule_based"

	// MethodRemoteModel means a remote inference endpoint overrode the rule verdict.
	MethodRemoteModel Method = "remote_model"

	// MethodRemoteModelFallback means the remote endpoint was tried and failed;
	// the rule verdict stands unmodified.
	MethodRemoteModelFallback Method = "remote_model_fallback"
)

// TriageRequest describes a patient presentation submitted for classification.
type TriageRequest struct {
	Symptoms string            `json:"symptoms"`
	Age      int               `json:"age"`
	Pregnant bool              `json:"pregnant"`
	Context  map[string]string `json:"context,omitempty"` // e.g. facility name, timestamp
}

// TriageVerdict is the structured result of a classification.
type TriageVerdict struct {
	ID              string   `json:"id"`
	Severity        Severity `json:"severity"`
	Reason          string   `json:"reason"`
	Confidence      float64  `json:"confidence"`
	Recommendations []string `json:"recommendations"`
	Method          Method   `json:"method"`
}

// ClampConfidence bounds confidence to [0,1].
func (v *TriageVerdict) ClampConfidence() {
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 1 {
		v.Confidence = 1
	}
}

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the coordinate lies within valid ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// Facility is a care facility known to the routing layer.
type Facility struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name,omitempty"`
	Coordinates        Coordinate `json:"coordinates"`
	BaseWaitMinutes    float64    `json:"base_wait_minutes,omitempty"`
	EmergencyCapacity  int        `json:"emergency_capacity"`
	CurrentQueueLength int        `json:"current_queue_length"`
}

// ConfidenceInterval bounds a wait estimate, centered on the point estimate.
type ConfidenceInterval struct {
	Lower float64 `json:"lower_bound"`
	Upper float64 `json:"upper_bound"`
	Level float64 `json:"confidence_level"`
}

// WaitEstimate is the output of the wait-time estimator. Factors records every
// multiplier that was applied so estimates stay auditable.
type WaitEstimate struct {
	Minutes            float64            `json:"estimated_wait_minutes"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	Factors            map[string]float64 `json:"factors_applied"`
}
