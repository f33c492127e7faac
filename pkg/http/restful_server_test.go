package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"garagemon.xyz/govee-monitor-service/pkg/monitor/mocks"
	_ "garagemon.xyz/govee-monitor-service/pkg/testing"

	"garagemon.xyz/govee-monitor-service/pkg/common"
	"garagemon.xyz/govee-monitor-service/pkg/db"
	"garagemon.xyz/govee-monitor-service/pkg/models"
	"garagemon.xyz/govee-monitor-service/pkg/monitor"
)

func setupTestServer() *RestfulServer {
	mon := &monitor.Monitor{
		Db:             *db.GetInstance(db.UseMemorySqliteDialector()),
		CommandBackoff: time.Nanosecond,
	}
	mon.WithServices(monitor.ServiceOpts{
		Settings: mon.GetISettings(),
		Reading:  mon.GetIReading(),
		Decision: mon.GetIDecision(),
	})

	rs := &RestfulServer{
		Server: gin.Default(),
		Mon:    mon,
		Hub:    NewLiveHub(),
		// default we use no limiter, if need, later assign rs.RateLimiterStore
	}

	rs.Setup()

	return rs
}

func postJSON(rs *RestfulServer, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	rs := setupTestServer()

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestPostReadingAndGetLatest(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	sourceID := uuid.NewString()

	w := postJSON(rs, "/devices/"+sourceID+"/readings", ReadingRequest{
		Timestamp:   time.Now(),
		Temperature: 21.3,
		Humidity:    55.2,
		Battery:     87,
		Name:        "garage",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest("GET", "/sensor/latest?source_id="+sourceID, nil)
	latestW := httptest.NewRecorder()
	rs.Server.ServeHTTP(latestW, req)

	assert.Equal(t, http.StatusOK, latestW.Code)

	var resp ReadingResponse
	require.NoError(t, json.Unmarshal(latestW.Body.Bytes(), &resp))
	require.NotNil(t, resp.Temperature)
	assert.InDelta(t, 21.3, *resp.Temperature, 1e-9)
	require.NotNil(t, resp.TemperatureF)
	assert.InDelta(t, 70.34, *resp.TemperatureF, 0.01)
	assert.Equal(t, models.StatusOnline, resp.Status)
	require.NotNil(t, resp.DewPointC)
}

func TestPostReading_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	sourceID := uuid.NewString()

	// empty payload should be rejected
	req := httptest.NewRequest("POST", "/devices/"+sourceID+"/readings", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLatest_NoReadings(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()

	req := httptest.NewRequest("GET", "/sensor/latest?source_id="+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReadingHistory(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	sourceID := uuid.NewString()

	for _, temp := range []float64{18.0, 19.5} {
		w := postJSON(rs, "/devices/"+sourceID+"/readings", ReadingRequest{
			Timestamp:   time.Now(),
			Temperature: temp,
			Humidity:    50.0,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	req := httptest.NewRequest("GET", "/sensor/history?source_id="+sourceID+"&hours=24", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var rows []ReadingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.InDelta(t, 18.0, *rows[0].Temperature, 1e-9)
	assert.InDelta(t, 19.5, *rows[1].Temperature, 1e-9)

	badReq := httptest.NewRequest("GET", "/sensor/history?source_id="+sourceID+"&hours=zero", nil)
	badW := httptest.NewRecorder()
	rs.Server.ServeHTTP(badW, badReq)
	assert.Equal(t, http.StatusBadRequest, badW.Code)
}

func TestUpdateAndGetSettings(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	w := postJSON(rs, "/devices/"+deviceID+"/settings", models.DeviceSettings{
		TempControlEnabled: true,
		TempSource:         models.SourceInside,
		TargetTempMin:      65,
		TargetTempMax:      75,
		TempRangeType:      models.RangeInside,
		TempUnit:           models.UnitFahrenheit,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest("GET", "/devices/"+deviceID+"/settings", nil)
	getW := httptest.NewRecorder()
	rs.Server.ServeHTTP(getW, req)

	assert.Equal(t, http.StatusOK, getW.Code)

	var settings models.DeviceSettings
	require.NoError(t, json.Unmarshal(getW.Body.Bytes(), &settings))
	assert.Equal(t, deviceID, settings.DeviceID)
	assert.True(t, settings.TempControlEnabled)
	assert.Equal(t, 65.0, settings.TargetTempMin)
	assert.Equal(t, models.UnitFahrenheit, settings.TempUnit)
	// Unset enums take their defaults on the way in.
	assert.Equal(t, models.RangeInside, settings.HumidityRangeType)
}

func TestUpdateSettings_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	{
		// min above max is rejected
		rs := setupTestServer()
		deviceID := uuid.NewString()

		w := postJSON(rs, "/devices/"+deviceID+"/settings", models.DeviceSettings{
			TempControlEnabled: true,
			TargetTempMin:      30,
			TargetTempMax:      20,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), "invalid range"))
	}

	{
		// malformed body is rejected
		rs := setupTestServer()
		deviceID := uuid.NewString()

		req := httptest.NewRequest("POST", "/devices/"+deviceID+"/settings", bytes.NewReader([]byte("not json")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		rs.Server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		rs := setupTestServer()
		deviceID := uuid.NewString()
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockISettings := mocks.NewMockISettings(ctrl)
		rs.Mon.Settings = mockISettings
		mockISettings.EXPECT().
			UpsertSettings(gomock.Eq(deviceID), gomock.Any()).
			Return(fmt.Errorf("just causing error")).
			Times(1)

		w := postJSON(rs, "/devices/"+deviceID+"/settings", models.DeviceSettings{})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	}
}

func TestGetSettings_Defaults(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	req := httptest.NewRequest("GET", "/devices/"+deviceID+"/settings", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var settings models.DeviceSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, deviceID, settings.DeviceID)
	assert.False(t, settings.TempControlEnabled)
	assert.Equal(t, 25.0, settings.TargetTempMin)
	assert.Equal(t, models.UnitCelsius, settings.TempUnit)
}

func TestPostControl(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPlug := mocks.NewMockPlugController(ctrl)
	rs.Mon.Plug = mockPlug
	mockPlug.EXPECT().
		Control(gomock.Any(), gomock.Eq(deviceID), gomock.Eq(true)).
		Return(nil).
		Times(1)

	w := postJSON(rs, "/devices/"+deviceID+"/control", ControlRequest{Command: "on"})
	assert.Equal(t, http.StatusOK, w.Code)

	// The manual path writes the audit trail too.
	var entry models.CommandLog
	err := rs.Mon.Db.Conn.Where("device_id = ?", deviceID).First(&entry).Error
	require.NoError(t, err)
	assert.Equal(t, models.CommandOn, entry.Command)
	assert.Equal(t, "manual request", entry.Reason)
}

func TestPostControl_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	{
		// unknown command verb
		rs := setupTestServer()
		deviceID := uuid.NewString()

		w := postJSON(rs, "/devices/"+deviceID+"/control", ControlRequest{Command: "toggle"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	{
		// plug unreachable after all retries
		rs := setupTestServer()
		deviceID := uuid.NewString()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		mockPlug := mocks.NewMockPlugController(ctrl)
		rs.Mon.Plug = mockPlug
		mockPlug.EXPECT().
			Control(gomock.Any(), gomock.Eq(deviceID), gomock.Eq(false)).
			Return(fmt.Errorf("plug offline")).
			Times(3)

		w := postJSON(rs, "/devices/"+deviceID+"/control", ControlRequest{Command: "off"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	}
}

func TestPostEvaluate(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	deviceID := uuid.NewString()
	sourceID := uuid.NewString()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockPlug := mocks.NewMockPlugController(ctrl)
	rs.Mon.Plug = mockPlug
	mockPlug.EXPECT().
		Control(gomock.Any(), gomock.Eq(deviceID), gomock.Eq(true)).
		Return(nil).
		Times(1)

	w := postJSON(rs, "/devices/"+sourceID+"/readings", ReadingRequest{
		Timestamp:   time.Now(),
		Temperature: 25.0,
		Humidity:    55.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(rs, "/devices/"+deviceID+"/settings", models.DeviceSettings{
		TempControlEnabled: true,
		TempSource:         sourceID,
		TargetTempMin:      20,
		TargetTempMax:      30,
		TempRangeType:      models.RangeInside,
		TempUnit:           models.UnitCelsius,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(rs, "/devices/"+deviceID+"/evaluate", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var result models.DecisionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.ShouldBeOn)
	assert.True(t, result.Commanded)
	assert.Equal(t, models.CommandOn, result.Command)
}

func TestDevicesAndOutdoor_NotConfigured(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer() // no Govee or Weather clients wired

	req := httptest.NewRequest("GET", "/devices", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	req = httptest.NewRequest("GET", "/outdoor", nil)
	w = httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	req = httptest.NewRequest("GET", "/devices/"+uuid.NewString()+"/state", nil)
	w = httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func setupTestServerWithLimiter(limiter *monitor.RateLimiterStore) *RestfulServer {
	rs := setupTestServer()
	rs.RateLimiterStore = limiter
	return rs
}

func TestPostReadingWithLimiter(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServerWithLimiter(monitor.NewRateLimiterStore(2, 2))

	sourceID := uuid.NewString()

	readingReq := ReadingRequest{
		Timestamp:   time.Now(),
		Temperature: 21.0,
		Humidity:    50.0,
	}

	// Three requests in quick succession, only the burst of two passes
	for i := 0; i < 3; i++ {
		w := postJSON(rs, "/devices/"+sourceID+"/readings", readingReq)
		if i < 2 {
			require.Equal(t, http.StatusOK, w.Code, "request %d should be allowed", i+1)
		} else {
			require.Equal(t, http.StatusTooManyRequests, w.Code, "request %d should be rate limited", i+1)
		}
	}

	// Resetting the device limiter refills the bucket
	w := postJSON(rs, "/devices/"+sourceID+"/limiter", LimiterRequest{Rate: 2, Burst: 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(rs, "/devices/"+sourceID+"/readings", readingReq)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPostLimiter_EdgeCases(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServerWithLimiter(monitor.NewRateLimiterStore(2, 2))

	deviceID := uuid.NewString()

	// empty payload should be rejected
	req := httptest.NewRequest("POST", "/devices/"+deviceID+"/limiter", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetLimiter_NoStore(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer() // default without limiter store

	deviceID := uuid.NewString()

	// without a limiter store the endpoint is a no-op that returns ok
	w := postJSON(rs, "/devices/"+deviceID+"/limiter", LimiterRequest{Rate: 2, Burst: 2})
	require.Equal(t, http.StatusOK, w.Code)

	// and ingest is not limited
	w = postJSON(rs, "/devices/"+deviceID+"/readings", ReadingRequest{
		Timestamp:   time.Now(),
		Temperature: 20.0,
		Humidity:    45.0,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLiveBroadcast(t *testing.T) {
	common.SetTestLoggerNop()

	rs := setupTestServer()
	srv := httptest.NewServer(rs.Server)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return rs.Hub.ClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	sourceID := uuid.NewString()
	w := postJSON(rs, "/devices/"+sourceID+"/readings", ReadingRequest{
		Timestamp:   time.Now(),
		Temperature: 23.4,
		Humidity:    61.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var resp ReadingResponse
	require.NoError(t, json.Unmarshal(msg, &resp))
	assert.Equal(t, sourceID, resp.SourceID)
	require.NotNil(t, resp.Temperature)
	assert.InDelta(t, 23.4, *resp.Temperature, 1e-9)
}
