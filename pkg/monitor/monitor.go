package monitor

import (
	"context"
	"sync"
	"time"

	"garagemon.xyz/govee-monitor-service/pkg/db"
	"garagemon.xyz/govee-monitor-service/pkg/models"
)

type ISettings interface {
	UpsertSettings(deviceID string, input *models.DeviceSettings) error
	GetDeviceSettings(deviceID string) (*models.DeviceSettings, error)
}

type IReading interface {
	RecordReading(input *models.Reading) (*models.Reading, error)
	LatestReading(sourceID string) (*models.Reading, error)
	ReadingsSince(sourceID string, since time.Time) ([]models.Reading, error)
}

type IDecision interface {
	EvaluateDevice(ctx context.Context, deviceID string) (*models.DecisionResult, error)
}

// PlugController actuates a smart plug. Satisfied by *govee.Client.
type PlugController interface {
	Control(ctx context.Context, deviceID string, on bool) error
}

// Monitor is the core of the service: settings store, reading store
// and the threshold decision engine, glued to the plug controller.
type Monitor struct {
	Db   db.DB
	Plug PlugController

	Settings ISettings
	Reading  IReading
	Decision IDecision

	// Command retry policy at the plug boundary.
	CommandRetries int
	CommandBackoff time.Duration

	statesOnce sync.Once
	states     *CommandStateStore
}

type ServiceOpts struct {
	Settings ISettings
	Reading  IReading
	Decision IDecision
}

func (m *Monitor) WithServices(opts ServiceOpts) *Monitor {
	if opts.Settings != nil {
		m.Settings = opts.Settings
	}
	if opts.Reading != nil {
		m.Reading = opts.Reading
	}
	if opts.Decision != nil {
		m.Decision = opts.Decision
	}
	return m
}

func (m *Monitor) stateStore() *CommandStateStore {
	m.statesOnce.Do(func() {
		m.states = NewCommandStateStore()
	})
	return m.states
}

func (m *Monitor) commandRetries() int {
	if m.CommandRetries <= 0 {
		return 3
	}
	return m.CommandRetries
}

func (m *Monitor) commandBackoff() time.Duration {
	if m.CommandBackoff <= 0 {
		return 2 * time.Second
	}
	return m.CommandBackoff
}
