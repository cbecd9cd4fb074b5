package triage

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/triago/internal/domain/model"
)

// Default classification constants.
const (
	redBaseConfidence     = 0.85
	redConfidenceBoost    = 0.10
	redMaxConfidence      = 0.95
	yellowBaseConfidence  = 0.85
	yellowConfidenceBoost = 0.05
	yellowMaxConfidence   = 0.90

	escalationConfidence = 0.80
	mildConfidence       = 0.70
	noSymptomConfidence  = 0.60

	elderlyAgeThreshold   = 65 // exclusive: escalation applies to age > 65
	pediatricAgeThreshold = 12 // exclusive: escalation applies to age < 12
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRedRules replaces the RED-tier rule table. Order is preserved.
func WithRedRules(rules []KeywordRule) Option {
	return func(e *Engine) {
		if len(rules) > 0 {
			e.redRules = rules
		}
	}
}

// WithYellowRules replaces the YELLOW-tier rule table. Order is preserved.
func WithYellowRules(rules []KeywordRule) Option {
	return func(e *Engine) {
		if len(rules) > 0 {
			e.yellowRules = rules
		}
	}
}

// WithIDGenerator sets the verdict id source, used to pin ids in tests.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// Engine implements Classifier with priority-ordered keyword rules.
// All tables are built once at construction and never mutated, so a single
// Engine is safe for concurrent use without synchronization.
type Engine struct {
	redRules        []KeywordRule
	yellowRules     []KeywordRule
	recommendations map[model.Severity][]string
	newID           func() string
}

// NewEngine creates a rule engine with the canonical tables.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		redRules:        defaultRedRules(),
		yellowRules:     defaultYellowRules(),
		recommendations: defaultRecommendations(),
		newID:           uuid.NewString,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Classify resolves a presentation to a verdict. Tie-break order is fixed:
// RED tiers, then YELLOW tiers, then pregnancy escalation, then age
// escalation, then the GREEN defaults. Pregnancy and age escalation only run
// when no keyword category matched, and pregnancy escalation requires
// non-empty symptom text: an empty presentation is always GREEN regardless of
// the pregnancy flag.
func (e *Engine) Classify(_ context.Context, req model.TriageRequest) model.TriageVerdict {
	text := strings.ToLower(strings.TrimSpace(req.Symptoms))

	// RED tiers are checked to exhaustion before any YELLOW rule, so a RED
	// match always outranks a coexisting YELLOW match.
	for _, rule := range e.redRules {
		if n := matchCount(text, rule.Keywords); n > 0 {
			conf := redBaseConfidence
			if n > 1 {
				conf = minFloat(redMaxConfidence, conf+redConfidenceBoost)
			}
			return e.verdict(model.SeverityRed, rule.Reason, conf)
		}
	}

	for _, rule := range e.yellowRules {
		if n := matchCount(text, rule.Keywords); n > 0 {
			conf := yellowBaseConfidence
			if n > 1 {
				conf = minFloat(yellowMaxConfidence, conf+yellowConfidenceBoost)
			}
			return e.verdict(model.SeverityYellow, rule.Reason, conf)
		}
	}

	if req.Pregnant && text != "" {
		if matchCount(text, pregnancyKeywords) > 0 {
			return e.verdict(model.SeverityYellow,
				"Pregnancy-related symptoms require medical evaluation", escalationConfidence)
		}
		// Any reported symptom in a pregnant patient escalates to YELLOW.
		return e.verdict(model.SeverityYellow,
			"Pregnant patient with symptoms - medical evaluation recommended", escalationConfidence)
	}

	if req.Age > elderlyAgeThreshold && matchCount(text, elderlyKeywords) > 0 {
		return e.verdict(model.SeverityYellow,
			"Elderly patient with concerning symptoms - medical evaluation needed", escalationConfidence)
	}

	if req.Age < pediatricAgeThreshold && matchCount(text, pediatricKeywords) > 0 {
		return e.verdict(model.SeverityYellow,
			"Pediatric patient with concerning symptoms - medical evaluation needed", escalationConfidence)
	}

	if text != "" {
		return e.verdict(model.SeverityGreen,
			"Mild symptoms detected - routine care acceptable", mildConfidence)
	}

	return e.verdict(model.SeverityGreen,
		"No specific symptoms reported - routine care if needed", noSymptomConfidence)
}

func (e *Engine) verdict(severity model.Severity, reason string, confidence float64) model.TriageVerdict {
	v := model.TriageVerdict{
		ID:              e.newID(),
		Severity:        severity,
		Reason:          reason,
		Confidence:      confidence,
		Recommendations: e.recommendationsFor(severity),
		Method:          model.MethodRuleBased,
	}
	v.ClampConfidence()
	return v
}

// recommendationsFor copies the lookup entry so callers cannot mutate the
// shared table.
func (e *Engine) recommendationsFor(severity model.Severity) []string {
	recs := e.recommendations[severity]
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}

// matchCount returns how many keywords occur as substrings of text.
func matchCount(text string, keywords []string) int {
	if text == "" {
		return 0
	}
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			matches++
		}
	}
	return matches
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
