package http

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"garagemon.xyz/govee-monitor-service/pkg/govee"
	"garagemon.xyz/govee-monitor-service/pkg/monitor"
	"garagemon.xyz/govee-monitor-service/pkg/weather"
)

type RestfulServer struct {
	Server           *gin.Engine
	Mon              *monitor.Monitor
	Govee            *govee.Client
	Weather          *weather.Client
	RateLimiterStore *monitor.RateLimiterStore
	Hub              *LiveHub
}

func (rs *RestfulServer) GetLimiter(deviceID string) *rate.Limiter {
	if rs.RateLimiterStore == nil {
		return nil
	} else {
		return rs.RateLimiterStore.GetLimiter(deviceID)
	}
}

func (rs *RestfulServer) CheckDeviceLimiter(deviceID string) bool {
	limiter := rs.GetLimiter(deviceID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}

func (rs *RestfulServer) SetLimiter(deviceID string, deviceRate float64, deviceBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(deviceID, rate.Limit(deviceRate), deviceBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)

	rs.Server.GET("/sensor/latest", rs.GetLatestReading)
	rs.Server.GET("/sensor/history", rs.GetReadingHistory)
	rs.Server.GET("/outdoor", rs.GetOutdoor)
	rs.Server.GET("/devices", rs.ListDevices)

	if rs.Hub != nil {
		rs.Server.GET("/live", rs.Hub.Handle)
	}

	devices := rs.Server.Group("/devices/:device_id")
	{
		devices.POST("/readings", rs.PostReading)
		devices.GET("/settings", rs.GetSettings)
		devices.POST("/settings", rs.UpdateSettings)
		devices.GET("/state", rs.GetDeviceState)
		devices.POST("/control", rs.PostControl)
		devices.POST("/evaluate", rs.PostEvaluate)
		devices.POST("/limiter", rs.PostLimiter)
	}
}
