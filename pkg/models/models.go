package models

import "time"

// RangeType selects the actuation polarity of a controlled dimension:
// "inside" keeps the device on while the reading sits within the
// dead-band, "outside" energizes it only once the reading has drifted
// past the comfort range.
type RangeType string

const (
	RangeInside  RangeType = "inside"
	RangeOutside RangeType = "outside"
)

// TempUnit tags the unit the temperature range was authored in. The
// reading pipeline always stores Celsius.
type TempUnit string

const (
	UnitCelsius    TempUnit = "celsius"
	UnitFahrenheit TempUnit = "fahrenheit"
)

type Command string

const (
	CommandOn  Command = "on"
	CommandOff Command = "off"
)

// Reading source identifiers. A source may also be a sensor device id.
const (
	SourceInside  string = "inside"
	SourceOutside string = "outside"
)

// Reading status values.
const (
	StatusOnline   string = "online"
	StatusDegraded string = "degraded"
	StatusOffline  string = "offline"
)

// Reading is one timestamped sensor measurement. Temperature is in
// Celsius, humidity in %RH. Nil values mark offline rows that only
// record the outage. Rows are immutable once created.
type Reading struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	DeviceName    string   `gorm:"index" json:"device_name"`
	SourceID      string   `gorm:"index" json:"source_id"`
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity"`
	Battery       int      `json:"battery"`
	Timestamp     time.Time `json:"timestamp"`
	Degraded      bool     `json:"degraded"`
	Status        string   `gorm:"type:varchar(20)" json:"status"`
	DewPointC     *float64 `json:"dew_point"`
	AbsHumidity   *float64 `json:"abs_humidity"`
	SteamPressure *float64 `json:"steam_pressure"`
}

// DeviceSettings is the per-plug control configuration. The JSON field
// names are the external contract of the settings store and must not
// change. Invariant: min <= max per dimension.
type DeviceSettings struct {
	DeviceID string `gorm:"primaryKey" json:"device_id"`

	TempControlEnabled bool      `json:"temp_control_enabled"`
	TempSource         string    `json:"temp_source"`
	TargetTempMin      float64   `json:"target_temp_min"`
	TargetTempMax      float64   `json:"target_temp_max"`
	TempRangeType      RangeType `gorm:"type:varchar(10)" json:"temp_range_type"`
	TempUnit           TempUnit  `gorm:"type:varchar(10)" json:"temp_unit"`

	HumidityControlEnabled bool      `json:"humidity_control_enabled"`
	HumiditySource         string    `json:"humidity_source"`
	TargetHumidityMin      float64   `json:"target_humidity_min"`
	TargetHumidityMax      float64   `json:"target_humidity_max"`
	HumidityRangeType      RangeType `gorm:"type:varchar(10)" json:"humidity_range_type"`

	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}

// DefaultSettings mirrors what the settings store hands out before a
// user has saved anything for a device: both controls disabled,
// readings taken from the inside sensor, 25-30 C and 50-60 %RH bands.
func DefaultSettings(deviceID string) *DeviceSettings {
	return &DeviceSettings{
		DeviceID:               deviceID,
		TempControlEnabled:     false,
		TempSource:             SourceInside,
		TargetTempMin:          25.0,
		TargetTempMax:          30.0,
		TempRangeType:          RangeInside,
		TempUnit:               UnitCelsius,
		HumidityControlEnabled: false,
		HumiditySource:         SourceInside,
		TargetHumidityMin:      50.0,
		TargetHumidityMax:      60.0,
		HumidityRangeType:      RangeInside,
	}
}

// DimensionVote is one control dimension's contribution to a decision.
type DimensionVote struct {
	Satisfied bool    `json:"satisfied"`
	Reading   float64 `json:"reading"`
	Degraded  bool    `json:"degraded"`
	SourceID  string  `json:"source_id"`
}

// DecisionResult is the outcome of one evaluation cycle. It is never
// persisted; only issued commands land in the command log.
type DecisionResult struct {
	DeviceID    string         `json:"device_id"`
	Temperature *DimensionVote `json:"temperature,omitempty"`
	Humidity    *DimensionVote `json:"humidity,omitempty"`
	ShouldBeOn  bool           `json:"should_be_on"`
	Voted       bool           `json:"voted"`
	Degraded    bool           `json:"degraded"`
	Commanded   bool           `json:"commanded"`
	Command     Command        `json:"command,omitempty"`
}

// CommandLog is the audit trail of plug commands actually issued.
type CommandLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DeviceID  string    `gorm:"index" json:"device_id"`
	Command   Command   `gorm:"type:varchar(10)" json:"command"`
	Reason    string    `json:"reason"`
	Degraded  bool      `json:"degraded"`
	Timestamp time.Time `json:"timestamp"`
}
