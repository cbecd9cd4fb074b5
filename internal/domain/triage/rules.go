package triage

import "github.com/okian/triago/internal/domain/model"

// KeywordRule maps a named symptom cluster to a severity tier.
// Keywords are lowercase phrases matched by substring against normalized input.
type KeywordRule struct {
	Category string
	Severity model.Severity
	Keywords []string
	Reason   string
}

// defaultRedRules returns the RED-tier rules. Slice order is load-bearing:
// categories are scanned in order and the first matching category wins, so two
// engines built from the same tables always agree on the reported category.
func defaultRedRules() []KeywordRule {
	return []KeywordRule{
		{
			Category: "cardiac",
			Severity: model.SeverityRed,
			Keywords: []string{"chest pain", "chest pressure", "chest tightness", "heart attack", "palpitations", "rapid heartbeat"},
			Reason:   "Cardiac emergency detected - immediate medical intervention required",
		},
		{
			Category: "respiratory",
			Severity: model.SeverityRed,
			Keywords: []string{"difficulty breathing", "shortness of breath", "can't breathe", "wheezing", "choking"},
			Reason:   "Respiratory distress detected - airway compromise possible",
		},
		{
			Category: "neurological",
			Severity: model.SeverityRed,
			Keywords: []string{"unconscious", "fainting", "loss of consciousness", "confusion", "seizure", "stroke"},
			Reason:   "Neurological emergency detected - potential brain injury",
		},
		{
			Category: "trauma",
			Severity: model.SeverityRed,
			Keywords: []string{"severe bleeding", "major injury", "broken bone", "head injury", "spinal injury"},
			Reason:   "Major trauma detected - uncontrolled bleeding or injury",
		},
		{
			Category: "abdominal_critical",
			Severity: model.SeverityRed,
			Keywords: []string{"severe abdominal pain", "rupture", "perforation", "obstruction"},
			Reason:   "Acute abdominal emergency detected - possible organ rupture",
		},
	}
}

// defaultYellowRules returns the YELLOW-tier rules, scanned only after every
// RED rule has been checked to exhaustion.
func defaultYellowRules() []KeywordRule {
	return []KeywordRule{
		{
			Category: "pain",
			Severity: model.SeverityYellow,
			Keywords: []string{"moderate pain", "mild pain", "headache", "migraine", "back pain", "joint pain"},
			Reason:   "Pain symptoms detected - medical evaluation needed for pain management",
		},
		{
			Category: "infection",
			Severity: model.SeverityYellow,
			Keywords: []string{"fever", "chills", "sweats", "infection", "abscess"},
			Reason:   "Infection symptoms detected - may require antibiotics or treatment",
		},
		{
			Category: "gastrointestinal",
			Severity: model.SeverityYellow,
			Keywords: []string{"nausea", "vomiting", "diarrhea", "stomach pain", "constipation"},
			Reason:   "GI symptoms detected - dehydration risk possible",
		},
		{
			Category: "respiratory_moderate",
			Severity: model.SeverityYellow,
			Keywords: []string{"cough", "sore throat", "runny nose", "congestion"},
			Reason:   "Respiratory infection detected - may need medication",
		},
		{
			Category: "other_urgent",
			Severity: model.SeverityYellow,
			Keywords: []string{"dizziness", "lightheaded", "fatigue", "weakness", "rash"},
			Reason:   "Urgent symptoms detected - timely medical evaluation needed",
		},
	}
}

// Demographic escalation keyword sets. These only apply when no keyword
// category matched; they never downgrade a keyword-derived verdict.
var (
	pregnancyKeywords = []string{"pregnancy", "pregnant", "baby", "fetal"}
	elderlyKeywords   = []string{"confusion", "weakness", "fall", "dizziness", "pain"}
	pediatricKeywords = []string{"fever", "difficulty breathing", "lethargic", "not eating", "crying"}
)

// defaultRecommendations maps each severity to its fixed guidance list.
func defaultRecommendations() map[model.Severity][]string {
	return map[model.Severity][]string{
		model.SeverityRed: {
			"Call emergency services immediately (999/911)",
			"Go to nearest emergency department",
			"Do not wait - time is critical",
			"Have someone drive you if possible",
		},
		model.SeverityYellow: {
			"Visit urgent care or emergency department within 2-4 hours",
			"Call your doctor for immediate appointment",
			"Have someone available to drive you",
			"Bring current medications list",
		},
		model.SeverityGreen: {
			"Schedule regular doctor appointment",
			"Monitor symptoms at home",
			"Stay hydrated and rest",
			"Call doctor if symptoms worsen",
		},
	}
}

// RecommendationsFor returns a copy of the default guidance list for severity.
func RecommendationsFor(severity model.Severity) []string {
	recs := defaultRecommendations()[severity]
	out := make([]string, len(recs))
	copy(out, recs)
	return out
}
