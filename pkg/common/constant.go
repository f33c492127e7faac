package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyGMonDBType string = "GMON_DB_TYPE"
	EnvKeyGMonDbPath string = "GMON_DB_PATH"

	EnvKeyGMonHttpHostPort string = "GMON_HTTP_HOST_PORT"

	EnvKeyGMonDefaultRate  string = "GMON_DEFAULT_RATE"
	EnvKeyGMonDefaultBurst string = "GMON_DEFAULT_BURST"

	EnvKeyGMonGoveeAPIKey    string = "GMON_GOVEE_API_KEY"
	EnvKeyGMonWeatherAPIKey  string = "GMON_WEATHER_API_KEY"
	EnvKeyGMonWeatherStation string = "GMON_WEATHER_STATION"

	EnvKeyGMonSensorURL   string = "GMON_SENSOR_URL"
	EnvKeyGMonSensorName  string = "GMON_SENSOR_NAME"
	EnvKeyGMonPlugDevices string = "GMON_PLUG_DEVICES"

	EnvKeyGMonPollInterval string = "GMON_POLL_INTERVAL"
	EnvKeyGMonCycleTimeout string = "GMON_CYCLE_TIMEOUT"

	LoggerNameMonitorCore   string = "monitor_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNamePoller        string = "poller"
	LoggerNameSensor        string = "sensor"
	LoggerNameGoveeClient   string = "govee_client"
	LoggerNameWeather       string = "weather"

	LoggerFieldCategory       string = "category"
	LoggerCategoryMonSettings string = "settings"
	LoggerCategoryMonReading  string = "reading"
	LoggerCategoryMonDecision string = "decision"
	LoggerCategoryMonCommand  string = "command"
)
