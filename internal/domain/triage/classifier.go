// Package triage classifies patient presentations into RED/YELLOW/GREEN
// severity using ordered keyword-category rules with demographic overrides.
package triage

import (
	"context"

	"github.com/okian/triago/internal/domain/model"
)

// Classifier assigns a triage severity to a patient presentation.
// Implementations must be total: every well-formed request resolves to a
// verdict, and missing or empty symptom text is a valid case, not an error.
type Classifier interface {
	Classify(ctx context.Context, req model.TriageRequest) model.TriageVerdict
}
