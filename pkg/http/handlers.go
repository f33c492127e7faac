package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"garagemon.xyz/govee-monitor-service/pkg/common"
	"garagemon.xyz/govee-monitor-service/pkg/models"
	"garagemon.xyz/govee-monitor-service/pkg/monitor"
	"garagemon.xyz/govee-monitor-service/pkg/units"
)

type ReadingRequest struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Battery     int       `json:"battery"`
	Name        string    `json:"name"`
}

var readingRequestSchema = z.Struct(z.Shape{
	"Timestamp":   z.Time(),
	"Temperature": z.Float64().Required(),
	"Humidity":    z.Float64().Required(),
	"Battery":     z.Int(),
	"Name":        z.String(),
})

// PostReading ingests one measurement for a source. The path parameter
// is the source id: "inside" for the main sensor, or a sensor's own
// device id when several report.
func (rs *RestfulServer) PostReading(c *gin.Context) {
	sourceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(sourceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var req ReadingRequest
	if err := readingRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	stored, err := rs.Mon.Reading.RecordReading(&models.Reading{
		DeviceName:  req.Name,
		SourceID:    sourceID,
		Temperature: &req.Temperature,
		Humidity:    &req.Humidity,
		Battery:     req.Battery,
		Timestamp:   req.Timestamp,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}

	if rs.Hub != nil {
		rs.Hub.Broadcast(readingResponse(*stored))
	}

	c.JSON(http.StatusOK, readingResponse(*stored))
}

func (rs *RestfulServer) GetSettings(c *gin.Context) {
	deviceID := c.Param("device_id")

	settings, err := rs.Mon.Settings.GetDeviceSettings(deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, settings)
}

// UpdateSettings replaces the control document for a plug. The body is
// the full settings object; omitted enum fields fall back to their
// defaults, a min above its max is rejected.
func (rs *RestfulServer) UpdateSettings(c *gin.Context) {
	deviceID := c.Param("device_id")

	if !rs.CheckDeviceLimiter(deviceID) {
		c.Status(http.StatusTooManyRequests)
		return
	}

	var settings models.DeviceSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := rs.Mon.Settings.UpsertSettings(deviceID, &settings); err != nil {
		if errors.Is(err, monitor.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, err)
		return
	}

	c.Status(http.StatusOK)
}

type ControlRequest struct {
	Command string `json:"command"`
}

var controlRequestSchema = z.Struct(z.Shape{
	"Command": z.String().Required(),
})

// PostControl issues a manual plug command, bypassing the decision
// engine but going through the same retry and audit path.
func (rs *RestfulServer) PostControl(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req ControlRequest
	if err := controlRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	cmd := models.Command(req.Command)
	if cmd != models.CommandOn && cmd != models.CommandOff {
		c.JSON(http.StatusBadRequest, gin.H{"error": "command must be on or off"})
		return
	}

	if err := rs.Mon.CommandDevice(c.Request.Context(), deviceID, cmd, "manual request", false); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"device_id": deviceID, "command": cmd})
}

func (rs *RestfulServer) PostEvaluate(c *gin.Context) {
	deviceID := c.Param("device_id")

	result, err := rs.Mon.Decision.EvaluateDevice(c.Request.Context(), deviceID)
	if err != nil {
		if errors.Is(err, monitor.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ReadingResponse is a stored reading plus the Fahrenheit view clients
// render alongside the Celsius value.
type ReadingResponse struct {
	models.Reading
	TemperatureF *float64 `json:"temperature_f"`
}

func readingResponse(r models.Reading) ReadingResponse {
	resp := ReadingResponse{Reading: r}
	if r.Temperature != nil {
		f := units.ToFahrenheit(*r.Temperature)
		resp.TemperatureF = &f
	}
	return resp
}

func (rs *RestfulServer) GetLatestReading(c *gin.Context) {
	sourceID := c.DefaultQuery("source_id", models.SourceInside)

	reading, err := rs.Mon.Reading.LatestReading(sourceID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no reading for source " + sourceID})
		return
	}

	c.JSON(http.StatusOK, readingResponse(*reading))
}

func (rs *RestfulServer) GetReadingHistory(c *gin.Context) {
	sourceID := c.DefaultQuery("source_id", models.SourceInside)

	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a positive integer"})
		return
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	readings, err := rs.Mon.Reading.ReadingsSince(sourceID, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, common.Mapper(readings, readingResponse))
}

func (rs *RestfulServer) GetOutdoor(c *gin.Context) {
	if rs.Weather == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "weather station not configured"})
		return
	}

	obs, err := rs.Weather.Current(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, obs)
}

func (rs *RestfulServer) ListDevices(c *gin.Context) {
	if rs.Govee == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "govee api not configured"})
		return
	}

	devices, err := rs.Govee.Devices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, devices)
}

func (rs *RestfulServer) GetDeviceState(c *gin.Context) {
	deviceID := c.Param("device_id")

	if rs.Govee == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "govee api not configured"})
		return
	}

	on, err := rs.Govee.DeviceState(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	state := models.CommandOff
	if on {
		state = models.CommandOn
	}
	c.JSON(http.StatusOK, gin.H{"device_id": deviceID, "state": state})
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LimiterRequest
	if err := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	rs.SetLimiter(deviceID, req.Rate, req.Burst)

	c.Status(http.StatusOK)
}

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
