// Package units holds the temperature conversions and derived
// measurement math shared by the reading pipeline and the decision
// engine. Ranges are authored in Fahrenheit in the UI while the
// reading pipeline stores Celsius, so conversions must be lossless
// enough not to flip boundary decisions.
package units

import "math"

func ToCelsius(fahrenheit float64) float64 {
	return (fahrenheit - 32) * 5 / 9
}

func ToFahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}

// Derived are the secondary values computed from a raw
// temperature/humidity pair at ingest time.
type Derived struct {
	DewPointC     float64 // dew point in Celsius
	AbsHumidity   float64 // absolute humidity in g/m^3
	SteamPressure float64 // steam pressure in mbar
}

// DerivedMetrics computes dew point, absolute humidity and steam
// pressure from a temperature in Celsius and a relative humidity in
// percent, using the Magnus-style approximation of the Govee H5075
// firmware (coefficients 7.45 / 235).
func DerivedMetrics(tempC, relHumidity float64) Derived {
	z1 := (7.45 * tempC) / (235 + tempC)
	es := 6.1 * math.Exp(z1*2.3025851)
	e := es * relHumidity / 100.0
	z2 := e / 6.1

	absHumidity := math.Round((216.7*e)/(273.15+tempC)*10) / 10.0

	z3 := 0.434292289 * math.Log(z2)
	dewPointC := math.Trunc((235*z3)/(7.45-z3)*10) / 10.0
	steamPressure := math.Trunc(e*10) / 10.0

	return Derived{
		DewPointC:     dewPointC,
		AbsHumidity:   absHumidity,
		SteamPressure: steamPressure,
	}
}
