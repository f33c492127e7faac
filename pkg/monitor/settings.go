package monitor

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"garagemon.xyz/govee-monitor-service/pkg/common"
	"garagemon.xyz/govee-monitor-service/pkg/models"
)

// ErrInvalidRange rejects settings whose min exceeds max. A device
// with a broken range is fatal for that device's cycle: it is logged
// and left in its last commanded state.
var ErrInvalidRange = errors.New("invalid range: min exceeds max")

func validateSettings(s *models.DeviceSettings) error {
	if s.TargetTempMin > s.TargetTempMax {
		return fmt.Errorf("%w: temperature %.2f > %.2f", ErrInvalidRange, s.TargetTempMin, s.TargetTempMax)
	}
	if s.TargetHumidityMin > s.TargetHumidityMax {
		return fmt.Errorf("%w: humidity %.2f > %.2f", ErrInvalidRange, s.TargetHumidityMin, s.TargetHumidityMax)
	}
	for _, rt := range []models.RangeType{s.TempRangeType, s.HumidityRangeType} {
		if rt != models.RangeInside && rt != models.RangeOutside {
			return fmt.Errorf("unknown range type %q", rt)
		}
	}
	if s.TempUnit != models.UnitCelsius && s.TempUnit != models.UnitFahrenheit {
		return fmt.Errorf("unknown temperature unit %q", s.TempUnit)
	}
	return nil
}

func (m *Monitor) upsertSettings(deviceID string, input *models.DeviceSettings) error {
	logger := common.GetLoggerWith(
		common.LoggerNameMonitorCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryMonSettings),
	)

	settings := *input
	settings.DeviceID = deviceID
	if settings.TempRangeType == "" {
		settings.TempRangeType = models.RangeInside
	}
	if settings.HumidityRangeType == "" {
		settings.HumidityRangeType = models.RangeInside
	}
	if settings.TempUnit == "" {
		settings.TempUnit = models.UnitCelsius
	}

	if err := validateSettings(&settings); err != nil {
		logger.Error("Rejected settings for device",
			zap.String("device_id", deviceID), zap.Error(err))
		return err
	}

	logger.Info("Received settings for device", zap.Reflect("settings", settings))

	err := m.Db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		UpdateAll: true,
	}).Create(&settings).Error

	if err == nil {
		logger.Info("Upserted settings for device", zap.Reflect("settings", settings))
	}

	return err
}

// getDeviceSettings returns stored settings, or the defaults when the
// device has never been configured.
func (m *Monitor) getDeviceSettings(deviceID string) (*models.DeviceSettings, error) {
	var settings models.DeviceSettings
	err := m.Db.Conn.First(&settings, "device_id = ?", deviceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(deviceID), nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

type ISettingsImpl struct {
	mon *Monitor
}

func (is *ISettingsImpl) UpsertSettings(deviceID string, input *models.DeviceSettings) error {
	return is.mon.upsertSettings(deviceID, input)
}

func (is *ISettingsImpl) GetDeviceSettings(deviceID string) (*models.DeviceSettings, error) {
	return is.mon.getDeviceSettings(deviceID)
}

func (m *Monitor) GetISettings() ISettings {
	return &ISettingsImpl{mon: m}
}
