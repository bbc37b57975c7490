// Package units holds the canonical unit convention and every conversion
// constant used by the simulation.
//
// Canonical units:
//
//	length            kpc
//	speed             km/s
//	time              yr
//	angle             rad
//	surface density   Msun/pc^2
//	energy            (km/s)^2 per unit mass
//	acceleration      km/s^2
package units

import "math"

const (
	// KmPerKpc converts kiloparsecs to kilometres.
	KmPerKpc = 3.0856775814913673e16

	// KpcPerKm converts a km displacement back to kpc during the drift step.
	// Stored dumps were produced with this value; it is not exactly
	// 1/KmPerKpc.
	KpcPerKm = 3.24077928947e-17

	SecondsPerYear = 3.15576e7 // Julian year
	YearsPerGyr    = 1e9
	PcPerKpc       = 1e3

	// G is the gravitational constant in pc (km/s)^2 / Msun.
	G = 4.300917270038e-3
)

func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180 }

func GyrToYears(gyr float64) float64   { return gyr * YearsPerGyr }
func YearsToGyr(years float64) float64 { return years / YearsPerGyr }

func YearsToSeconds(years float64) float64 { return years * SecondsPerYear }

// KpcToPc converts a length in kpc to pc.
func KpcToPc(kpc float64) float64 { return kpc * PcPerKpc }

// PatternSpeed returns the angular speed in rad/yr of a pattern whose
// circular speed vc (km/s) is reached at radius r (kpc).
func PatternSpeed(vc, r float64) float64 {
	return vc / (r * KmPerKpc) * SecondsPerYear
}

// GradientToAccel converts a potential gradient in (km/s)^2/kpc to km/s^2.
func GradientToAccel(g float64) float64 { return g / KmPerKpc }

// DriftKpc converts a velocity (km/s) applied over dt seconds into a kpc displacement.
func DriftKpc(v, dtSeconds float64) float64 { return dtSeconds * v * KpcPerKm }

// LinearSpeed returns the speed in km/s of a point at radius r (kpc) turning
// at omega rad/yr. It inverts PatternSpeed.
func LinearSpeed(omega, r float64) float64 {
	return omega * r * KmPerKpc / SecondsPerYear
}
