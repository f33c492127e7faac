package govee

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagemon.xyz/govee-monitor-service/pkg/common"
	_ "garagemon.xyz/govee-monitor-service/pkg/testing"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return client, srv
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestDevicesCaching(t *testing.T) {
	common.SetTestLoggerNop()

	var hits atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "test-key", r.Header.Get("Govee-API-Key"))
		assert.Equal(t, "/user/devices", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"code": 200,
			"data": []map[string]string{
				{"device": "AA:BB", "sku": "H5080", "deviceName": "Garage Plug"},
			},
		})
	}))

	devices, err := client.Devices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "Garage Plug", devices[0].DeviceName)

	// Second call inside the TTL must not hit the API again.
	_, err = client.Devices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestDeviceStateParsesPowerSwitch(t *testing.T) {
	common.SetTestLoggerNop()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/device/state", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req["requestId"])

		json.NewEncoder(w).Encode(map[string]any{
			"code": 200,
			"payload": map[string]any{
				"capabilities": []map[string]any{
					{
						"type":     "devices.capabilities.on_off",
						"instance": "powerSwitch",
						"state":    map[string]any{"value": 1},
					},
				},
			},
		})
	}))

	on, err := client.DeviceState(context.Background(), "AA:BB")
	require.NoError(t, err)
	assert.True(t, on)
}

func TestControlSendsOnOffCapability(t *testing.T) {
	common.SetTestLoggerNop()

	var captured map[string]any
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/device/control", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]any{"code": 200})
	}))

	err := client.Control(context.Background(), "AA:BB", true)
	require.NoError(t, err)

	payload := captured["payload"].(map[string]any)
	assert.Equal(t, "AA:BB", payload["device"])
	assert.Equal(t, DefaultSKU, payload["sku"])

	capability := payload["capability"].(map[string]any)
	assert.Equal(t, "devices.capabilities.on_off", capability["type"])
	assert.Equal(t, "powerSwitch", capability["instance"])
	assert.Equal(t, float64(1), capability["value"])
}

func TestControlFailureWrapsDeviceCommandError(t *testing.T) {
	common.SetTestLoggerNop()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	err := client.Control(context.Background(), "AA:BB", false)
	assert.ErrorIs(t, err, ErrDeviceCommand)
}

func TestControlAPIErrorCode(t *testing.T) {
	common.SetTestLoggerNop()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"code": 429, "message": "too many requests"})
	}))

	err := client.Control(context.Background(), "AA:BB", true)
	assert.ErrorIs(t, err, ErrDeviceCommand)
}
