package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"garagemon.xyz/govee-monitor-service/pkg/common"
	"garagemon.xyz/govee-monitor-service/pkg/db"
	"garagemon.xyz/govee-monitor-service/pkg/govee"
	gmonHttp "garagemon.xyz/govee-monitor-service/pkg/http"
	"garagemon.xyz/govee-monitor-service/pkg/models"
	"garagemon.xyz/govee-monitor-service/pkg/monitor"
	"garagemon.xyz/govee-monitor-service/pkg/poller"
	"garagemon.xyz/govee-monitor-service/pkg/sensor"
	"garagemon.xyz/govee-monitor-service/pkg/weather"
)

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid %s: %v, should be a duration like 5m", key, err)
	}
	return d
}

func main() {
	var err error

	err = godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	gmonDbType := os.Getenv(common.EnvKeyGMonDBType)
	switch gmonDbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	default:
		log.Fatal("Unknown GMON_DB_TYPE: " + gmonDbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeyGMonHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeyGMonDefaultRate), 64); err != nil {
		log.Fatal("Invalid GMON_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeyGMonDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid GMON_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	var goveeClient *govee.Client
	if apiKey := strings.TrimSpace(os.Getenv(common.EnvKeyGMonGoveeAPIKey)); apiKey != "" {
		if goveeClient, err = govee.NewClient(govee.Config{APIKey: apiKey}); err != nil {
			log.Fatalf("govee client setup failed: %v", err)
		}
	} else {
		logger.Warn("GMON_GOVEE_API_KEY not set, plug control disabled")
	}

	var weatherClient *weather.Client
	weatherStation := strings.TrimSpace(os.Getenv(common.EnvKeyGMonWeatherStation))
	weatherAPIKey := strings.TrimSpace(os.Getenv(common.EnvKeyGMonWeatherAPIKey))
	if weatherStation != "" && weatherAPIKey != "" {
		if weatherClient, err = weather.NewClient(weather.Config{
			StationID: weatherStation,
			APIKey:    weatherAPIKey,
		}); err != nil {
			log.Fatalf("weather client setup failed: %v", err)
		}
	} else {
		logger.Warn("Weather station not configured, outdoor readings disabled")
	}

	mon := &monitor.Monitor{
		Db: *dbInstance,
	}
	if goveeClient != nil {
		mon.Plug = goveeClient
	}
	mon.WithServices(monitor.ServiceOpts{
		Settings: mon.GetISettings(),
		Reading:  mon.GetIReading(),
		Decision: mon.GetIDecision(),
	})

	hub := gmonHttp.NewLiveHub()

	var targets []poller.SensorTarget
	if sensorURL := strings.TrimSpace(os.Getenv(common.EnvKeyGMonSensorURL)); sensorURL != "" {
		sensorName := strings.TrimSpace(os.Getenv(common.EnvKeyGMonSensorName))
		if sensorName == "" {
			sensorName = models.SourceInside
		}
		// Degraded synthesis falls back to the last stored value so a
		// flaky scanner never starves the decision engine.
		lastKnown := func() *sensor.Reading {
			stored, err := mon.Reading.LatestReading(models.SourceInside)
			if err != nil || stored.Temperature == nil || stored.Humidity == nil {
				return nil
			}
			return &sensor.Reading{
				Temperature: *stored.Temperature,
				Humidity:    *stored.Humidity,
				Battery:     stored.Battery,
				Timestamp:   stored.Timestamp,
			}
		}
		targets = append(targets, poller.SensorTarget{
			DeviceName: sensorName,
			SourceID:   models.SourceInside,
			Reader:     sensor.NewRetryReader(sensor.NewHTTPReader(sensorURL), lastKnown),
		})
	} else {
		logger.Warn("GMON_SENSOR_URL not set, no live sensor polling; readings can still be ingested over HTTP")
	}

	var plugDevices []string
	for _, id := range strings.Split(os.Getenv(common.EnvKeyGMonPlugDevices), ",") {
		if id = strings.TrimSpace(id); id != "" {
			plugDevices = append(plugDevices, id)
		}
	}

	p := &poller.Poller{
		Mon:          mon,
		Weather:      weatherClient,
		Targets:      targets,
		Devices:      plugDevices,
		Interval:     parseDuration(common.EnvKeyGMonPollInterval, poller.DefaultInterval),
		CycleTimeout: parseDuration(common.EnvKeyGMonCycleTimeout, poller.DefaultCycleTimeout),
		Broadcast:    hub.Broadcast,
	}
	go p.Run(context.Background())

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &gmonHttp.RestfulServer{
		Server:           gin.Default(),
		Mon:              mon,
		Govee:            goveeClient,
		Weather:          weatherClient,
		RateLimiterStore: monitor.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
		Hub:              hub,
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)),
		zap.Int("plug_devices", len(plugDevices)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
