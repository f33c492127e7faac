// Package sensor is the boundary to the physical Govee
// thermometer/hygrometer. Live reads can fail (scanner down, timeout,
// garbage payload); the RetryReader wrapper keeps the rest of the
// pipeline fed by retrying and, when all attempts are spent,
// substituting an explicitly flagged degraded reading.
package sensor

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrSensorUnavailable marks a failed live read. Recoverable:
	// retried, then substituted with a degraded reading.
	ErrSensorUnavailable = errors.New("sensor unavailable")

	// ErrMalformedReading marks a payload that decoded to garbage.
	// Treated like a sensor failure by the retry wrapper.
	ErrMalformedReading = errors.New("malformed sensor reading")
)

// Reading is one live measurement from the sensor boundary.
// Temperature is in Celsius, humidity in %RH.
type Reading struct {
	Temperature float64
	Humidity    float64
	Battery     int
	Timestamp   time.Time
	Degraded    bool
}

// Reader produces live readings. Implementations return
// ErrSensorUnavailable or ErrMalformedReading on failure.
type Reader interface {
	Read(ctx context.Context) (*Reading, error)
}
