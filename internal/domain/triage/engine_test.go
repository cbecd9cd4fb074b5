package triage

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/triago/internal/domain/model"
)

func TestEngineRedClassification(t *testing.T) {
	Convey("Given the rule engine", t, func() {
		engine := NewEngine()
		ctx := context.Background()

		Convey("When symptoms match a cardiac keyword", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "severe chest pain", Age: 55})

			Convey("Then the verdict should be RED with the cardiac reason", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityRed)
				So(verdict.Reason, ShouldContainSubstring, "Cardiac emergency")
				So(verdict.Confidence, ShouldEqual, 0.85)
				So(verdict.Method, ShouldEqual, model.MethodRuleBased)
				So(verdict.ID, ShouldNotBeEmpty)
			})
		})

		Convey("When two keywords in one category match", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "chest pain and palpitations", Age: 40})

			Convey("Then confidence should be boosted but capped", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityRed)
				So(verdict.Confidence, ShouldEqual, 0.95)
			})
		})

		Convey("When symptoms span two RED categories", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "chest pain and difficulty breathing"})

			Convey("Then the first category in scan order should win", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityRed)
				So(verdict.Reason, ShouldContainSubstring, "Cardiac emergency")
			})
		})

		Convey("When a RED and a YELLOW keyword coexist", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "headache and seizure"})

			Convey("Then RED should outrank YELLOW", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityRed)
				So(verdict.Reason, ShouldContainSubstring, "Neurological emergency")
			})
		})

		Convey("When keyword casing and padding vary", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "  CHEST PAIN  "})

			Convey("Then normalization should still match", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityRed)
			})
		})
	})
}

func TestEngineYellowClassification(t *testing.T) {
	Convey("Given the rule engine", t, func() {
		engine := NewEngine()
		ctx := context.Background()

		Convey("When symptoms match a pain keyword", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "mild headache", Age: 30})

			Convey("Then the verdict should be YELLOW", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityYellow)
				So(verdict.Reason, ShouldContainSubstring, "Pain symptoms")
				So(verdict.Confidence, ShouldEqual, 0.85)
			})
		})

		Convey("When two keywords in one YELLOW category match", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "fever and chills"})

			Convey("Then the smaller boost should apply with its own cap", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityYellow)
				So(verdict.Confidence, ShouldEqual, 0.90)
			})
		})

		Convey("When an elderly patient reports a concerning symptom", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "had a fall at home", Age: 70})

			Convey("Then age escalation should produce YELLOW", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityYellow)
				So(verdict.Reason, ShouldContainSubstring, "Elderly patient")
				So(verdict.Confidence, ShouldEqual, 0.80)
			})
		})

		Convey("When a patient is exactly at the elderly threshold", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "had a fall at home", Age: 65})

			Convey("Then escalation should not apply", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityGreen)
			})
		})

		Convey("When a pediatric patient reports a concerning symptom", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "lethargic and not eating", Age: 4})

			Convey("Then age escalation should produce YELLOW", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityYellow)
				So(verdict.Reason, ShouldContainSubstring, "Pediatric patient")
			})
		})
	})
}

func TestEnginePregnancyEscalation(t *testing.T) {
	Convey("Given the rule engine", t, func() {
		engine := NewEngine()
		ctx := context.Background()

		Convey("When a pregnant patient reports pregnancy-related symptoms", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "worried about the baby", Age: 28, Pregnant: true})

			Convey("Then the pregnancy reason should be used", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityYellow)
				So(verdict.Reason, ShouldContainSubstring, "Pregnancy-related")
				So(verdict.Confidence, ShouldEqual, 0.80)
			})
		})

		Convey("When a pregnant patient reports any other symptom", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "feeling a bit off", Age: 28, Pregnant: true})

			Convey("Then the generic pregnancy escalation should apply", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityYellow)
				So(verdict.Reason, ShouldContainSubstring, "Pregnant patient")
			})
		})

		Convey("When a pregnant patient reports no symptoms", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Age: 28, Pregnant: true})

			Convey("Then the verdict should stay GREEN", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityGreen)
				So(verdict.Confidence, ShouldEqual, 0.60)
			})
		})

		Convey("When a pregnant patient reports a RED symptom", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "severe bleeding", Age: 28, Pregnant: true})

			Convey("Then the keyword verdict should not be downgraded", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityRed)
			})
		})
	})
}

func TestEngineGreenClassification(t *testing.T) {
	Convey("Given the rule engine", t, func() {
		engine := NewEngine()
		ctx := context.Background()

		Convey("When no symptoms are reported", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{})

			Convey("Then the no-symptom default should apply", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityGreen)
				So(verdict.Confidence, ShouldEqual, 0.60)
				So(verdict.Reason, ShouldContainSubstring, "No specific symptoms")
			})
		})

		Convey("When symptoms match no rule", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "small paper cut on finger", Age: 30})

			Convey("Then the mild default should apply", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityGreen)
				So(verdict.Confidence, ShouldEqual, 0.70)
				So(verdict.Reason, ShouldContainSubstring, "Mild symptoms")
			})
		})

		Convey("When whitespace-only symptoms are submitted", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "   "})

			Convey("Then it should be treated as empty", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityGreen)
				So(verdict.Confidence, ShouldEqual, 0.60)
			})
		})
	})
}

func TestEngineVerdictShape(t *testing.T) {
	Convey("Given the rule engine with a pinned id source", t, func() {
		engine := NewEngine(WithIDGenerator(func() string { return "fixed-id" }))
		ctx := context.Background()

		Convey("When classifying any presentation", func() {
			verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: "cough"})

			Convey("Then the verdict should carry id, recommendations, and method", func() {
				So(verdict.ID, ShouldEqual, "fixed-id")
				So(len(verdict.Recommendations), ShouldEqual, 4)
				So(verdict.Method, ShouldEqual, model.MethodRuleBased)
			})

			Convey("And mutating the returned recommendations should not leak", func() {
				verdict.Recommendations[0] = "mutated"
				again := engine.Classify(ctx, model.TriageRequest{Symptoms: "cough"})
				So(again.Recommendations[0], ShouldNotEqual, "mutated")
			})
		})

		Convey("When every severity is produced", func() {
			cases := map[string]model.Severity{
				"chest pain": model.SeverityRed,
				"fever":      model.SeverityYellow,
				"":           model.SeverityGreen,
			}

			Convey("Then confidence should stay within [0,1] and recommendations non-empty", func() {
				for symptoms, want := range cases {
					verdict := engine.Classify(ctx, model.TriageRequest{Symptoms: symptoms})
					So(verdict.Severity, ShouldEqual, want)
					So(verdict.Confidence, ShouldBeBetweenOrEqual, 0, 1)
					So(verdict.Recommendations, ShouldNotBeEmpty)
				}
			})
		})
	})
}

func TestEngineCustomRules(t *testing.T) {
	Convey("Given an engine with replacement rule tables", t, func() {
		engine := NewEngine(
			WithRedRules([]KeywordRule{{
				Category: "custom",
				Severity: model.SeverityRed,
				Keywords: []string{"code blue"},
				Reason:   "Custom critical rule",
			}}),
		)

		Convey("When the custom keyword matches", func() {
			verdict := engine.Classify(context.Background(), model.TriageRequest{Symptoms: "code blue in ward 3"})

			Convey("Then the custom table should drive the verdict", func() {
				So(verdict.Severity, ShouldEqual, model.SeverityRed)
				So(verdict.Reason, ShouldEqual, "Custom critical rule")
			})
		})

		Convey("When a default RED keyword is used", func() {
			verdict := engine.Classify(context.Background(), model.TriageRequest{Symptoms: "chest pain"})

			Convey("Then the replaced table should no longer match", func() {
				So(verdict.Severity, ShouldNotEqual, model.SeverityRed)
			})
		})
	})
}
