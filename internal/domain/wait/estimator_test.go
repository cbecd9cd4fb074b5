package wait

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/triago/internal/domain/model"
)

func pinnedEstimator(opts ...Option) *Estimator {
	base := []Option{WithJitter(func() float64 { return 1.0 })}
	return NewEstimator(append(base, opts...)...)
}

func facilityWith(queue, capacity int) model.Facility {
	return model.Facility{
		ID:                 "test_001",
		Coordinates:        model.Coordinate{Lat: -1.29, Lng: 36.82},
		EmergencyCapacity:  capacity,
		CurrentQueueLength: queue,
	}
}

func TestEstimateMultiplierStack(t *testing.T) {
	Convey("Given an estimator with pinned jitter", t, func() {
		est := pinnedEstimator()

		Convey("When estimating a YELLOW wait on a Monday morning in June", func() {
			// Monday 2025-06-09 10:00: time 1.8, day 1.4, seasonal 1.0.
			now := time.Date(2025, time.June, 9, 10, 0, 0, 0, time.UTC)
			estimate := est.Estimate(facilityWith(0, 20), model.SeverityYellow, now)

			Convey("Then the multiplier product should be exact", func() {
				// 30 * 1.8 * 1.4 * 1.0 * 1.0 * 1.0 * 1.0
				So(estimate.Minutes, ShouldAlmostEqual, 75.6, 1e-9)
			})

			Convey("And every applied factor should be reported", func() {
				So(estimate.Factors["base_wait"], ShouldEqual, 30.0)
				So(estimate.Factors["time_multiplier"], ShouldEqual, 1.8)
				So(estimate.Factors["day_multiplier"], ShouldEqual, 1.4)
				So(estimate.Factors["facility_multiplier"], ShouldEqual, 1.0)
				So(estimate.Factors["capacity_multiplier"], ShouldEqual, 1.0)
				So(estimate.Factors["seasonal_multiplier"], ShouldEqual, 1.0)
				So(estimate.Factors["random_variation"], ShouldEqual, 1.0)
			})

			Convey("And the confidence interval should use the YELLOW variance", func() {
				So(estimate.ConfidenceInterval.Lower, ShouldAlmostEqual, 75.6*0.8, 1e-9)
				So(estimate.ConfidenceInterval.Upper, ShouldAlmostEqual, 75.6*1.2, 1e-9)
				So(estimate.ConfidenceInterval.Level, ShouldEqual, 0.85)
			})
		})

		Convey("When estimating on a Sunday night", func() {
			// Sunday 2025-06-08 23:00: time 0.6, day 0.6.
			now := time.Date(2025, time.June, 8, 23, 0, 0, 0, time.UTC)
			estimate := est.Estimate(facilityWith(0, 20), model.SeverityGreen, now)

			Convey("Then the floor should hold at the base wait", func() {
				// 120 * 0.6 * 0.6 = 43.2, floored back to 120.
				So(estimate.Minutes, ShouldEqual, 120.0)
			})
		})

		Convey("When estimating a RED wait", func() {
			now := time.Date(2025, time.June, 9, 10, 0, 0, 0, time.UTC)
			estimate := est.Estimate(facilityWith(0, 20), model.SeverityRed, now)

			Convey("Then the base should be the RED floor with the tight variance", func() {
				So(estimate.Factors["base_wait"], ShouldEqual, 5.0)
				So(estimate.ConfidenceInterval.Lower, ShouldAlmostEqual, estimate.Minutes*0.9, 1e-9)
				So(estimate.ConfidenceInterval.Upper, ShouldAlmostEqual, estimate.Minutes*1.1, 1e-9)
			})
		})

		Convey("When the severity is unknown", func() {
			now := time.Date(2025, time.June, 9, 10, 0, 0, 0, time.UTC)
			estimate := est.Estimate(facilityWith(0, 20), model.Severity("PURPLE"), now)

			Convey("Then the unknown base should apply", func() {
				So(estimate.Factors["base_wait"], ShouldEqual, 60.0)
			})
		})
	})
}

func TestEstimateFloorInvariant(t *testing.T) {
	Convey("Given an estimator with default jitter", t, func() {
		est := NewEstimator()

		Convey("When estimating across many time and load combinations", func() {
			severities := []model.Severity{model.SeverityRed, model.SeverityYellow, model.SeverityGreen}
			bases := map[model.Severity]float64{
				model.SeverityRed:    5,
				model.SeverityYellow: 30,
				model.SeverityGreen:  120,
			}

			Convey("Then the estimate should never drop below the base wait", func() {
				for hour := 0; hour < 24; hour++ {
					for day := 0; day < 7; day++ {
						now := time.Date(2025, time.January, 5+day, hour, 0, 0, 0, time.UTC)
						for _, sev := range severities {
							estimate := est.Estimate(facilityWith(3, 20), sev, now)
							So(estimate.Minutes, ShouldBeGreaterThanOrEqualTo, bases[sev])
						}
					}
				}
			})
		})
	})
}

func TestCapacityMultiplierSteps(t *testing.T) {
	Convey("Given an estimator with pinned jitter", t, func() {
		est := pinnedEstimator()
		// Tuesday 2025-06-10 12:00: time 0.8, day 1.2, seasonal 1.0.
		now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

		cases := []struct {
			queue    int
			capacity int
			want     float64
		}{
			{18, 20, 2.5}, // 0.90 critical
			{15, 20, 2.0}, // 0.75 high
			{10, 20, 1.5}, // 0.50 moderate
			{5, 20, 1.2},  // 0.25 elevated
			{2, 20, 1.0},  // light load
			{0, 0, 2.0},   // unknown capacity
		}

		Convey("When utilization crosses each threshold", func() {
			Convey("Then the step multiplier should match", func() {
				for _, tc := range cases {
					estimate := est.Estimate(facilityWith(tc.queue, tc.capacity), model.SeverityYellow, now)
					So(estimate.Factors["capacity_multiplier"], ShouldEqual, tc.want)
				}
			})
		})
	})
}

func TestSeasonalAndDailyPatterns(t *testing.T) {
	Convey("Given an estimator with pinned jitter", t, func() {
		est := pinnedEstimator()

		Convey("When estimating across the year at a fixed hour", func() {
			Convey("Then flu season months should carry the 1.3 multiplier", func() {
				for _, month := range []time.Month{time.November, time.December, time.January, time.February, time.March} {
					now := time.Date(2025, month, 10, 10, 0, 0, 0, time.UTC)
					estimate := est.Estimate(facilityWith(0, 20), model.SeverityGreen, now)
					So(estimate.Factors["seasonal_multiplier"], ShouldEqual, 1.3)
				}
			})

			Convey("And rainy months should carry the 1.2 multiplier", func() {
				for _, month := range []time.Month{time.April, time.May, time.October} {
					now := time.Date(2025, month, 10, 10, 0, 0, 0, time.UTC)
					estimate := est.Estimate(facilityWith(0, 20), model.SeverityGreen, now)
					So(estimate.Factors["seasonal_multiplier"], ShouldEqual, 1.2)
				}
			})
		})

		Convey("When estimating across hours of the day", func() {
			cases := map[int]float64{
				9:  1.8, // morning peak
				15: 1.5, // afternoon peak
				19: 1.2, // evening
				23: 0.6, // night
				3:  0.6, // night
				7:  0.8, // off-peak
				13: 0.8, // off-peak
			}

			Convey("Then each bucket should report its multiplier", func() {
				for hour, want := range cases {
					now := time.Date(2025, time.June, 11, hour, 0, 0, 0, time.UTC)
					estimate := est.Estimate(facilityWith(0, 20), model.SeverityGreen, now)
					So(estimate.Factors["time_multiplier"], ShouldEqual, want)
				}
			})
		})
	})
}

func TestFacilityMultipliers(t *testing.T) {
	Convey("Given an estimator with custom facility multipliers", t, func() {
		est := pinnedEstimator(WithFacilityMultipliers(map[string]float64{
			"busy_001":  2.0,
			"quiet_001": 0.5,
		}))
		now := time.Date(2025, time.June, 9, 10, 0, 0, 0, time.UTC)

		Convey("When estimating at a configured facility", func() {
			f := facilityWith(0, 20)
			f.ID = "busy_001"
			estimate := est.Estimate(f, model.SeverityGreen, now)

			Convey("Then the configured multiplier should apply", func() {
				So(estimate.Factors["facility_multiplier"], ShouldEqual, 2.0)
			})
		})

		Convey("When estimating at an unknown facility", func() {
			f := facilityWith(0, 20)
			f.ID = "unlisted_001"
			estimate := est.Estimate(f, model.SeverityGreen, now)

			Convey("Then the neutral multiplier should apply", func() {
				So(estimate.Factors["facility_multiplier"], ShouldEqual, 1.0)
			})
		})
	})
}

func TestJitterBounds(t *testing.T) {
	Convey("Given an estimator with a fixed seed", t, func() {
		est := NewEstimator(WithRandomSeed(42))
		now := time.Date(2025, time.June, 9, 10, 0, 0, 0, time.UTC)

		Convey("When drawing many estimates", func() {
			Convey("Then the recorded jitter should stay inside its bounds", func() {
				for i := 0; i < 200; i++ {
					estimate := est.Estimate(facilityWith(0, 20), model.SeverityYellow, now)
					jitter := estimate.Factors["random_variation"]
					So(jitter, ShouldBeGreaterThanOrEqualTo, 0.9)
					So(jitter, ShouldBeLessThan, 1.1)
				}
			})
		})

		Convey("When two estimators share a seed", func() {
			a := NewEstimator(WithRandomSeed(7))
			b := NewEstimator(WithRandomSeed(7))

			Convey("Then their jitter sequences should match", func() {
				for i := 0; i < 10; i++ {
					ea := a.Estimate(facilityWith(0, 20), model.SeverityYellow, now)
					eb := b.Estimate(facilityWith(0, 20), model.SeverityYellow, now)
					So(ea.Factors["random_variation"], ShouldEqual, eb.Factors["random_variation"])
				}
			})
		})
	})
}
