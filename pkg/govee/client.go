// Package govee is a client for the Govee OpenAPI
// (https://openapi.api.govee.com). It lists the account's devices,
// reads smart-plug power state and switches plugs on/off. Device
// lookups are cached because the device inventory changes rarely and
// the API is rate limited.
package govee

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"garagemon.xyz/govee-monitor-service/pkg/common"
)

const (
	DefaultBaseURL  = "https://openapi.api.govee.com/router/api/v1"
	DefaultSKU      = "H5080" // smart plug model assumed when the inventory has no entry
	DefaultCacheTTL = 30 * time.Minute
)

// ErrDeviceCommand marks a failed actuation. The caller retries a
// bounded number of times before surfacing it as a warning.
var ErrDeviceCommand = errors.New("device command failed")

type Config struct {
	APIKey   string
	BaseURL  string
	CacheTTL time.Duration
	Timeout  time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client

	mu        sync.Mutex
	devices   []Device
	fetchedAt time.Time
}

// Device is one entry of the account inventory.
type Device struct {
	Device     string `json:"device"`
	SKU        string `json:"sku"`
	DeviceName string `json:"deviceName"`
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("govee: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Payload json.RawMessage `json:"payload"`
}

// Devices returns the account inventory, refreshing the cache when its
// TTL has expired. A refresh failure falls back to the stale cache
// when one exists.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.devices != nil && time.Since(c.fetchedAt) < c.cfg.CacheTTL {
		return c.devices, nil
	}

	logger := common.GetLoggerWith(common.LoggerNameGoveeClient)

	env, err := c.do(ctx, http.MethodGet, "/user/devices", nil)
	if err != nil {
		if c.devices != nil {
			logger.Warn("Device list refresh failed, serving stale cache", zap.Error(err))
			return c.devices, nil
		}
		return nil, err
	}

	var devices []Device
	if err := json.Unmarshal(env.Data, &devices); err != nil {
		return nil, fmt.Errorf("govee: decoding device list: %w", err)
	}

	c.devices = devices
	c.fetchedAt = time.Now()
	logger.Info("Cached device inventory", zap.Int("devices", len(devices)))
	return devices, nil
}

type statePayload struct {
	Capabilities []struct {
		Type     string `json:"type"`
		Instance string `json:"instance"`
		State    struct {
			Value json.Number `json:"value"`
		} `json:"state"`
	} `json:"capabilities"`
}

// DeviceState reports whether the plug is currently powered.
func (c *Client) DeviceState(ctx context.Context, deviceID string) (bool, error) {
	body := map[string]any{
		"requestId": uuid.NewString(),
		"payload": map[string]any{
			"sku":    c.skuFor(ctx, deviceID),
			"device": deviceID,
		},
	}

	env, err := c.do(ctx, http.MethodPost, "/device/state", body)
	if err != nil {
		return false, err
	}

	var payload statePayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return false, fmt.Errorf("govee: decoding device state: %w", err)
	}

	for _, capability := range payload.Capabilities {
		if capability.Type == "devices.capabilities.on_off" && capability.Instance == "powerSwitch" {
			v, err := capability.State.Value.Int64()
			if err != nil {
				return false, fmt.Errorf("govee: power state value: %w", err)
			}
			return v == 1, nil
		}
	}
	return false, fmt.Errorf("govee: device %s reports no power switch capability", deviceID)
}

// Control switches the plug on or off. Failures wrap ErrDeviceCommand
// so callers can retry on it.
func (c *Client) Control(ctx context.Context, deviceID string, on bool) error {
	value := 0
	if on {
		value = 1
	}

	body := map[string]any{
		"requestId": uuid.NewString(),
		"payload": map[string]any{
			"sku":    c.skuFor(ctx, deviceID),
			"device": deviceID,
			"capability": map[string]any{
				"type":     "devices.capabilities.on_off",
				"instance": "powerSwitch",
				"value":    value,
			},
		},
	}

	if _, err := c.do(ctx, http.MethodPost, "/device/control", body); err != nil {
		return fmt.Errorf("%w: device %s: %v", ErrDeviceCommand, deviceID, err)
	}

	common.GetLoggerWith(common.LoggerNameGoveeClient).Info("Issued plug command",
		zap.String("device_id", deviceID),
		zap.Bool("on", on))
	return nil
}

// skuFor resolves a device id to its model through the cached
// inventory; unknown devices fall back to the smart-plug default.
func (c *Client) skuFor(ctx context.Context, deviceID string) string {
	// Devices takes the same lock; read the cache without refreshing
	// to keep command latency bounded.
	c.mu.Lock()
	devices := c.devices
	c.mu.Unlock()

	for _, d := range devices {
		if d.Device == deviceID {
			return d.SKU
		}
	}
	return DefaultSKU
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*apiEnvelope, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Govee-API-Key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("govee: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("govee: %s %s: status %d", method, path, resp.StatusCode)
	}

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("govee: %s %s: decoding response: %w", method, path, err)
	}
	if env.Code != 200 {
		return nil, fmt.Errorf("govee: %s %s: api code %d: %s", method, path, env.Code, env.Message)
	}
	return &env, nil
}
