package sensor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"garagemon.xyz/govee-monitor-service/pkg/common"
)

const (
	DefaultAttempts = 3
	DefaultInterval = 2 * time.Second

	// Placeholder values substituted when no last-known reading is
	// available, matching a comfortable indoor baseline.
	placeholderTempC    = 20.0
	placeholderHumidity = 50.0
)

// RetryReader wraps a live Reader with bounded retries and a
// degraded-mode fallback. Read never surfaces a sensor failure to the
// caller: after Attempts failed reads it synthesizes a reading flagged
// Degraded so the decision pipeline keeps operating.
type RetryReader struct {
	Inner    Reader
	Attempts int
	Interval time.Duration

	// LastKnown, when set, supplies the values for a synthesized
	// degraded reading (typically the most recent stored reading).
	// When it returns nil a fixed placeholder is used.
	LastKnown func() *Reading
}

func NewRetryReader(inner Reader, lastKnown func() *Reading) *RetryReader {
	return &RetryReader{
		Inner:     inner,
		Attempts:  DefaultAttempts,
		Interval:  DefaultInterval,
		LastKnown: lastKnown,
	}
}

func (r *RetryReader) Read(ctx context.Context) (*Reading, error) {
	logger := common.GetLoggerWith(common.LoggerNameSensor)

	attempts := r.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		reading, err := r.Inner.Read(ctx)
		if err == nil {
			return reading, nil
		}
		lastErr = err
		logger.Warn("Sensor read failed",
			zap.Int("attempt", attempt),
			zap.Int("attempts", attempts),
			zap.Error(err))

		if attempt == attempts {
			break
		}
		// Backoff grows linearly with the attempt number.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.Interval * time.Duration(attempt)):
		}
	}

	degraded := r.synthesize()
	logger.Warn("Substituting degraded reading after exhausting retries",
		zap.Int("attempts", attempts),
		zap.Float64("temperature", degraded.Temperature),
		zap.Float64("humidity", degraded.Humidity),
		zap.Error(lastErr))
	return degraded, nil
}

func (r *RetryReader) synthesize() *Reading {
	if r.LastKnown != nil {
		if last := r.LastKnown(); last != nil {
			return &Reading{
				Temperature: last.Temperature,
				Humidity:    last.Humidity,
				Battery:     last.Battery,
				Timestamp:   time.Now(),
				Degraded:    true,
			}
		}
	}
	return &Reading{
		Temperature: placeholderTempC,
		Humidity:    placeholderHumidity,
		Timestamp:   time.Now(),
		Degraded:    true,
	}
}
