package monitor

import (
	"time"

	"go.uber.org/zap"

	"garagemon.xyz/govee-monitor-service/pkg/common"
	"garagemon.xyz/govee-monitor-service/pkg/models"
	"garagemon.xyz/govee-monitor-service/pkg/units"
)

// recordReading stores one measurement, filling in the derived metrics
// and status. Rows are immutable once created.
func (m *Monitor) recordReading(input *models.Reading) (*models.Reading, error) {
	logger := common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryMonReading),
	)

	reading := *input
	reading.ID = 0
	if reading.Timestamp.IsZero() {
		reading.Timestamp = time.Now()
	}

	switch {
	case reading.Temperature == nil || reading.Humidity == nil:
		reading.Status = models.StatusOffline
	case reading.Degraded:
		reading.Status = models.StatusDegraded
	default:
		reading.Status = models.StatusOnline
	}

	if reading.Temperature != nil && reading.Humidity != nil {
		derived := units.DerivedMetrics(*reading.Temperature, *reading.Humidity)
		reading.DewPointC = &derived.DewPointC
		reading.AbsHumidity = &derived.AbsHumidity
		reading.SteamPressure = &derived.SteamPressure
	}

	logger.Info("Received reading", zap.Reflect("reading", reading))

	if err := m.Db.Conn.Create(&reading).Error; err != nil {
		return nil, err
	}

	logger.Info("Stored reading", zap.Reflect("reading", reading))
	return &reading, nil
}

func (m *Monitor) latestReading(sourceID string) (*models.Reading, error) {
	var reading models.Reading
	err := m.Db.Conn.
		Where("source_id = ?", sourceID).
		Order("timestamp desc").
		First(&reading).Error
	if err != nil {
		return nil, err
	}
	return &reading, nil
}

func (m *Monitor) readingsSince(sourceID string, since time.Time) ([]models.Reading, error) {
	var readings []models.Reading
	err := m.Db.Conn.
		Where("source_id = ? AND timestamp >= ?", sourceID, since).
		Order("timestamp asc").
		Find(&readings).Error
	return readings, err
}

type IReadingImpl struct {
	mon *Monitor
}

func (ir *IReadingImpl) RecordReading(input *models.Reading) (*models.Reading, error) {
	return ir.mon.recordReading(input)
}

func (ir *IReadingImpl) LatestReading(sourceID string) (*models.Reading, error) {
	return ir.mon.latestReading(sourceID)
}

func (ir *IReadingImpl) ReadingsSince(sourceID string, since time.Time) ([]models.Reading, error) {
	return ir.mon.readingsSince(sourceID, since)
}

func (m *Monitor) GetIReading() IReading {
	return &IReadingImpl{mon: m}
}
