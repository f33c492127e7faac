package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"garagemon.xyz/govee-monitor-service/pkg/common"
	"garagemon.xyz/govee-monitor-service/pkg/models"
	"garagemon.xyz/govee-monitor-service/pkg/units"
)

// evaluateRange reports whether reading satisfies the configured
// condition. Both bounds are part of the inside interval; outside is
// its strict complement.
func evaluateRange(reading, min, max float64, mode models.RangeType) (bool, error) {
	if min > max {
		return false, fmt.Errorf("%w: [%.4f, %.4f]", ErrInvalidRange, min, max)
	}
	inside := reading >= min && reading <= max
	switch mode {
	case models.RangeInside:
		return inside, nil
	case models.RangeOutside:
		return !inside, nil
	default:
		return false, fmt.Errorf("unknown range type %q", mode)
	}
}

// evaluateDevice runs one decision cycle for a plug: per enabled
// dimension, fetch the latest reading for the configured source,
// convert units, range-evaluate, then OR-combine the votes. A command
// goes out only when the decision differs from the last commanded
// state. An expired ctx aborts the cycle before any command is issued.
func (m *Monitor) evaluateDevice(ctx context.Context, deviceID string) (*models.DecisionResult, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryMonDecision),
		zap.String("device_id", deviceID),
	)

	settings, err := m.Settings.GetDeviceSettings(deviceID)
	if err != nil {
		return nil, err
	}

	result := &models.DecisionResult{DeviceID: deviceID}

	if settings.TempControlEnabled {
		vote, err := m.temperatureVote(settings)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("No reading for temperature source, dimension casts no vote",
					zap.String("source_id", settings.TempSource))
			} else {
				logger.Error("Temperature evaluation failed", zap.Error(err))
				return nil, err
			}
		} else {
			result.Temperature = vote
		}
	}

	if settings.HumidityControlEnabled {
		vote, err := m.humidityVote(settings)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("No reading for humidity source, dimension casts no vote",
					zap.String("source_id", settings.HumiditySource))
			} else {
				logger.Error("Humidity evaluation failed", zap.Error(err))
				return nil, err
			}
		} else {
			result.Humidity = vote
		}
	}

	// Either enabled dimension alone can justify turning the plug on.
	for _, vote := range []*models.DimensionVote{result.Temperature, result.Humidity} {
		if vote == nil {
			continue
		}
		result.Voted = true
		result.ShouldBeOn = result.ShouldBeOn || vote.Satisfied
		result.Degraded = result.Degraded || vote.Degraded
	}

	if !result.Voted {
		logger.Info("No enabled dimension voted, no command this cycle")
		return result, nil
	}

	want := models.CommandOff
	if result.ShouldBeOn {
		want = models.CommandOn
	}
	result.Command = want

	if last, known := m.stateStore().Get(deviceID); known && last == want {
		logger.Info("Decision unchanged, suppressing redundant command",
			zap.String("command", string(want)))
		return result, nil
	}

	// A cycle past its deadline must abort without a partial command.
	if err := ctx.Err(); err != nil {
		logger.Warn("Cycle expired before command could be issued", zap.Error(err))
		return result, err
	}

	reason := decisionReason(result)
	if err := m.commandDevice(ctx, deviceID, want, reason, result.Degraded); err != nil {
		logger.Warn("Plug command failed, state unchanged for retry next cycle",
			zap.String("command", string(want)), zap.Error(err))
		return result, nil
	}

	result.Commanded = true
	logger.Info("Decision applied",
		zap.String("command", string(want)),
		zap.Bool("degraded", result.Degraded),
		zap.String("reason", reason))
	return result, nil
}

func (m *Monitor) temperatureVote(settings *models.DeviceSettings) (*models.DimensionVote, error) {
	reading, err := m.Reading.LatestReading(settings.TempSource)
	if err != nil {
		return nil, err
	}
	if reading.Temperature == nil {
		return nil, gorm.ErrRecordNotFound
	}

	// Ranges may be authored in Fahrenheit; readings are Celsius.
	// Convert the range rather than the reading so boundary decisions
	// only move by conversion rounding.
	min, max := settings.TargetTempMin, settings.TargetTempMax
	if settings.TempUnit == models.UnitFahrenheit {
		min = units.ToCelsius(min)
		max = units.ToCelsius(max)
	}

	satisfied, err := evaluateRange(*reading.Temperature, min, max, settings.TempRangeType)
	if err != nil {
		return nil, err
	}
	return &models.DimensionVote{
		Satisfied: satisfied,
		Reading:   *reading.Temperature,
		Degraded:  reading.Degraded,
		SourceID:  settings.TempSource,
	}, nil
}

func (m *Monitor) humidityVote(settings *models.DeviceSettings) (*models.DimensionVote, error) {
	reading, err := m.Reading.LatestReading(settings.HumiditySource)
	if err != nil {
		return nil, err
	}
	if reading.Humidity == nil {
		return nil, gorm.ErrRecordNotFound
	}

	satisfied, err := evaluateRange(*reading.Humidity,
		settings.TargetHumidityMin, settings.TargetHumidityMax, settings.HumidityRangeType)
	if err != nil {
		return nil, err
	}
	return &models.DimensionVote{
		Satisfied: satisfied,
		Reading:   *reading.Humidity,
		Degraded:  reading.Degraded,
		SourceID:  settings.HumiditySource,
	}, nil
}

func decisionReason(result *models.DecisionResult) string {
	switch {
	case result.Temperature != nil && result.Temperature.Satisfied:
		return "temperature condition"
	case result.Humidity != nil && result.Humidity.Satisfied:
		return "humidity condition"
	default:
		return "no condition satisfied"
	}
}

// CommandDevice issues a plug command with bounded retries, records it
// in the command log and updates the last-commanded state. Used by the
// decision engine and the manual control endpoint.
func (m *Monitor) CommandDevice(ctx context.Context, deviceID string, cmd models.Command, reason string, degraded bool) error {
	return m.commandDevice(ctx, deviceID, cmd, reason, degraded)
}

func (m *Monitor) commandDevice(ctx context.Context, deviceID string, cmd models.Command, reason string, degraded bool) error {
	if m.Plug == nil {
		return fmt.Errorf("plug controller not available")
	}

	logger := common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryMonCommand),
		zap.String("device_id", deviceID),
	)

	retries := m.commandRetries()

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := m.Plug.Control(ctx, deviceID, cmd == models.CommandOn); err != nil {
			lastErr = err
			logger.Warn("Plug command attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("retries", retries),
				zap.Error(err))

			if attempt == retries {
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.commandBackoff() * time.Duration(attempt)):
			}
			continue
		}

		m.stateStore().Set(deviceID, cmd)

		entry := models.CommandLog{
			DeviceID:  deviceID,
			Command:   cmd,
			Reason:    reason,
			Degraded:  degraded,
			Timestamp: time.Now(),
		}
		if err := m.Db.Conn.Create(&entry).Error; err != nil {
			logger.Warn("Failed to append command log", zap.Error(err))
		}
		return nil
	}

	return fmt.Errorf("command %s for device %s failed after %d attempts: %w",
		cmd, deviceID, retries, lastErr)
}

type IDecisionImpl struct {
	mon *Monitor
}

func (id *IDecisionImpl) EvaluateDevice(ctx context.Context, deviceID string) (*models.DecisionResult, error) {
	return id.mon.evaluateDevice(ctx, deviceID)
}

func (m *Monitor) GetIDecision() IDecision {
	return &IDecisionImpl{mon: m}
}
