// Package poller drives the monitoring loop: read the sensors, pull
// the outdoor observation, store everything, then run the decision
// engine for each controlled plug.
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"garagemon.xyz/govee-monitor-service/pkg/common"
	"garagemon.xyz/govee-monitor-service/pkg/models"
	"garagemon.xyz/govee-monitor-service/pkg/monitor"
	"garagemon.xyz/govee-monitor-service/pkg/sensor"
	"garagemon.xyz/govee-monitor-service/pkg/weather"
)

const (
	DefaultInterval     = 5 * time.Minute
	DefaultCycleTimeout = 2 * time.Minute
)

// SensorTarget binds a reader to the source id its readings are stored
// under.
type SensorTarget struct {
	DeviceName string
	SourceID   string
	Reader     sensor.Reader
}

type Poller struct {
	Mon     *monitor.Monitor
	Weather *weather.Client

	Targets []SensorTarget

	// Plug device ids evaluated every cycle.
	Devices []string

	Interval     time.Duration
	CycleTimeout time.Duration

	// Broadcast, when set, receives every stored reading.
	Broadcast func(v any)
}

func (p *Poller) interval() time.Duration {
	if p.Interval <= 0 {
		return DefaultInterval
	}
	return p.Interval
}

func (p *Poller) cycleTimeout() time.Duration {
	if p.CycleTimeout <= 0 {
		return DefaultCycleTimeout
	}
	return p.CycleTimeout
}

// Run executes one cycle immediately, then one per interval until ctx
// is cancelled.
func (p *Poller) Run(ctx context.Context) {
	logger := common.GetLoggerWith(common.LoggerNamePoller)
	logger.Info("Poller started",
		zap.Duration("interval", p.interval()),
		zap.Int("sensors", len(p.Targets)),
		zap.Int("devices", len(p.Devices)))

	ticker := time.NewTicker(p.interval())
	defer ticker.Stop()

	p.RunCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Poller stopped", zap.Error(ctx.Err()))
			return
		case <-ticker.C:
			p.RunCycle(ctx)
		}
	}
}

// RunCycle performs one full pass under the cycle deadline. A cycle
// that overruns is abandoned; the next tick starts fresh.
func (p *Poller) RunCycle(ctx context.Context) {
	logger := common.GetLoggerWith(common.LoggerNamePoller)

	cctx, cancel := context.WithTimeout(ctx, p.cycleTimeout())
	defer cancel()

	for _, target := range p.Targets {
		p.pollSensor(cctx, target)
	}

	if p.Weather != nil {
		p.pollWeather(cctx)
	}

	// Plug cycles are independent, run them concurrently.
	var wg sync.WaitGroup
	for _, deviceID := range p.Devices {
		wg.Add(1)
		go func(deviceID string) {
			defer wg.Done()
			if _, err := p.Mon.Decision.EvaluateDevice(cctx, deviceID); err != nil {
				logger.Error("Device evaluation failed",
					zap.String("device_id", deviceID), zap.Error(err))
			}
		}(deviceID)
	}
	wg.Wait()
}

func (p *Poller) pollSensor(ctx context.Context, target SensorTarget) {
	logger := common.GetLoggerWith(common.LoggerNamePoller,
		zap.String("source_id", target.SourceID))

	read, err := target.Reader.Read(ctx)
	if err != nil {
		// Only context failures get past a retrying reader. Record the
		// outage so history shows the gap explicitly.
		logger.Warn("Sensor read failed, recording offline row", zap.Error(err))
		if _, err := p.Mon.Reading.RecordReading(&models.Reading{
			DeviceName: target.DeviceName,
			SourceID:   target.SourceID,
		}); err != nil {
			logger.Error("Failed to record offline row", zap.Error(err))
		}
		return
	}

	stored, err := p.Mon.Reading.RecordReading(&models.Reading{
		DeviceName:  target.DeviceName,
		SourceID:    target.SourceID,
		Temperature: &read.Temperature,
		Humidity:    &read.Humidity,
		Battery:     read.Battery,
		Timestamp:   read.Timestamp,
		Degraded:    read.Degraded,
	})
	if err != nil {
		logger.Error("Failed to record reading", zap.Error(err))
		return
	}

	if p.Broadcast != nil {
		p.Broadcast(stored)
	}
}

func (p *Poller) pollWeather(ctx context.Context) {
	logger := common.GetLoggerWith(common.LoggerNamePoller,
		zap.String("source_id", models.SourceOutside))

	obs, err := p.Weather.Current(ctx)
	if err != nil {
		logger.Warn("Weather fetch failed, skipping outdoor reading", zap.Error(err))
		return
	}

	stored, err := p.Mon.Reading.RecordReading(&models.Reading{
		DeviceName:  obs.StationID,
		SourceID:    models.SourceOutside,
		Temperature: &obs.TempC,
		Humidity:    &obs.Humidity,
		Timestamp:   obs.ObsTime,
	})
	if err != nil {
		logger.Error("Failed to record outdoor reading", zap.Error(err))
		return
	}

	if p.Broadcast != nil {
		p.Broadcast(stored)
	}
}
