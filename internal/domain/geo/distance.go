// Package geo computes distances between WGS84 coordinates.
package geo

import (
	"math"

	"github.com/okian/triago/internal/domain/model"
)

// WGS84 ellipsoid parameters and iteration bounds.
const (
	semiMajorAxisM = 6378137.0
	flattening     = 1 / 298.257223563

	earthRadiusKM = 6371.0

	maxIterations        = 100
	convergenceTolerance = 1e-12

	metersPerKilometer = 1000.0
)

// Distance returns the ellipsoidal distance in kilometers between two
// coordinates. The iterative solution converges for all non-degenerate point
// pairs; for the nearly antipodal inputs where it does not, the spherical
// formula is used instead, trading ~0.5% precision for totality. Every
// distance in the system goes through this function so ranking order stays
// internally consistent.
func Distance(a, b model.Coordinate) float64 {
	return DistanceKM(a.Lat, a.Lng, b.Lat, b.Lng)
}

// DistanceKM is Distance over raw latitude/longitude pairs in degrees.
func DistanceKM(lat1, lng1, lat2, lng2 float64) float64 {
	if d, ok := vincentyKM(lat1, lng1, lat2, lng2); ok {
		return d
	}
	return haversineKM(lat1, lng1, lat2, lng2)
}

// vincentyKM solves the inverse geodesic problem on the WGS84 ellipsoid.
// Returns ok=false when the lambda iteration fails to converge within
// maxIterations.
func vincentyKM(lat1, lng1, lat2, lng2 float64) (float64, bool) {
	a := semiMajorAxisM
	f := flattening
	b := (1 - f) * a

	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)
	l := toRadians(lng2) - toRadians(lng1)

	// Reduced latitudes.
	u1 := math.Atan((1 - f) * math.Tan(lat1Rad))
	u2 := math.Atan((1 - f) * math.Tan(lat2Rad))

	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := l
	var sinSigma, cosSigma, sigma, cos2Alpha, cos2SigmaM float64
	converged := false

	for i := 0; i < maxIterations; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)

		sinSigma = math.Sqrt(
			(cosU2*sinLambda)*(cosU2*sinLambda) +
				(cosU1*sinU2-sinU1*cosU2*cosLambda)*(cosU1*sinU2-sinU1*cosU2*cosLambda))
		if sinSigma == 0 {
			return 0, true // coincident points
		}

		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cos2Alpha = 1 - sinAlpha*sinAlpha

		if cos2Alpha == 0 {
			// Equatorial line: cos2SigmaM is indeterminate, take 0.
			cos2SigmaM = 0
		} else {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cos2Alpha
		}

		c := f / 16 * cos2Alpha * (4 + f*(4-3*cos2Alpha))

		lambdaPrev := lambda
		lambda = l + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-lambdaPrev) < convergenceTolerance {
			converged = true
			break
		}
	}

	if !converged {
		return 0, false
	}

	uSquared := cos2Alpha * (a*a - b*b) / (b * b)
	bigA := 1 + uSquared/16384*(4096+uSquared*(-768+uSquared*(320-175*uSquared)))
	bigB := uSquared / 1024 * (256 + uSquared*(-128+uSquared*(74-47*uSquared)))

	deltaSigma := bigB * sinSigma *
		(cos2SigmaM + bigB/4*
			(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
				bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	return b * bigA * (sigma - deltaSigma) / metersPerKilometer, true
}

// haversineKM is the spherical great-circle distance in kilometers.
func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*sinDLng*sinDLng

	return earthRadiusKM * 2 * math.Asin(math.Min(1, math.Sqrt(h)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
