package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSeverityValid(t *testing.T) {
	Convey("Given the severity codes", t, func() {
		Convey("Then the three triage codes should be valid", func() {
			So(SeverityRed.Valid(), ShouldBeTrue)
			So(SeverityYellow.Valid(), ShouldBeTrue)
			So(SeverityGreen.Valid(), ShouldBeTrue)
		})

		Convey("Then anything else should be invalid", func() {
			So(Severity("").Valid(), ShouldBeFalse)
			So(Severity("red").Valid(), ShouldBeFalse)
			So(Severity("PURPLE").Valid(), ShouldBeFalse)
		})
	})
}

func TestCoordinateValid(t *testing.T) {
	Convey("Given coordinate range checks", t, func() {
		Convey("Then in-range coordinates should be valid", func() {
			So(Coordinate{Lat: 0, Lng: 0}.Valid(), ShouldBeTrue)
			So(Coordinate{Lat: 90, Lng: 180}.Valid(), ShouldBeTrue)
			So(Coordinate{Lat: -90, Lng: -180}.Valid(), ShouldBeTrue)
		})

		Convey("Then out-of-range coordinates should be invalid", func() {
			So(Coordinate{Lat: 90.01, Lng: 0}.Valid(), ShouldBeFalse)
			So(Coordinate{Lat: -90.01, Lng: 0}.Valid(), ShouldBeFalse)
			So(Coordinate{Lat: 0, Lng: 180.01}.Valid(), ShouldBeFalse)
			So(Coordinate{Lat: 0, Lng: -180.01}.Valid(), ShouldBeFalse)
		})
	})
}

func TestClampConfidence(t *testing.T) {
	Convey("Given verdicts with out-of-range confidence", t, func() {
		Convey("When clamping a high value", func() {
			v := TriageVerdict{Confidence: 1.2}
			v.ClampConfidence()
			So(v.Confidence, ShouldEqual, 1.0)
		})

		Convey("When clamping a negative value", func() {
			v := TriageVerdict{Confidence: -0.3}
			v.ClampConfidence()
			So(v.Confidence, ShouldEqual, 0.0)
		})

		Convey("When the value is already in range", func() {
			v := TriageVerdict{Confidence: 0.85}
			v.ClampConfidence()
			So(v.Confidence, ShouldEqual, 0.85)
		})
	})
}
