package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var maxSources int = 1000
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

func main() {
	sourceIDs := make([]string, maxSources)
	for i := 0; i < maxSources; i++ {
		sourceIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v source IDs\n", maxSources)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := 0; i < maxSources; i++ {
		i := i
		wg.Add(1)
		go func() {
			insertSettings(sourceIDs[i])
			fmt.Printf("\rinserted settings for device %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rinserted settings for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxSources, usedTime.Seconds(), float64(maxSources)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := 0; i < maxSources; i++ {
		i := i
		wg.Add(1)
		go func() {
			doAction(sourceIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxSources, usedTime.Seconds(), float64(maxSources*3)/usedTime.Seconds(),
	)
}

func rndFloat64(min, max float64, decimal int) float64 {
	val := min + rnd.Float64()*(max-min)
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(float64(val)*float64(multiplier))) / multiplier
}

func postJSON(path string, payload any) {
	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(fmt.Sprintf("http://%s%s", httpHostPort, path), "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		fmt.Printf("\nerror: %v\n", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("\nresponse status code != 200: %v\n", resp)
	}
}

func insertSettings(deviceID string) {
	min := rndFloat64(10.0, 25.0, 2)
	payload := map[string]any{
		"temp_control_enabled":     true,
		"temp_source":              deviceID,
		"target_temp_min":          min,
		"target_temp_max":          min + rndFloat64(1.0, 15.0, 2),
		"temp_range_type":          "inside",
		"temp_unit":                "celsius",
		"humidity_control_enabled": false,
	}
	postJSON(fmt.Sprintf("/devices/%s/settings", deviceID), payload)
}

func doAction(deviceID string) {
	actions := []func(){
		genUpsertSettingsAction(deviceID),
		genPostReadingAction(deviceID),
		genGetHistoryAction(deviceID),
	}
	actionNames := []string{
		"UpsertSettings",
		"PostReading",
		"GetHistory",
	}
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for device %v", actionNames[index], deviceID)
		time.Sleep(time.Duration(100+rnd.Int31n(1000)) * time.Millisecond)
	}
}

func genUpsertSettingsAction(deviceID string) func() {
	return func() {
		insertSettings(deviceID)
	}
}

func genPostReadingAction(deviceID string) func() {
	return func() {
		payload := map[string]any{
			"timestamp":   time.Now().Format(time.RFC3339),
			"temperature": rndFloat64(-10.0, 40.0, 2),
			"humidity":    rndFloat64(20.0, 95.0, 2),
			"battery":     int(rndFloat64(5.0, 100.0, 0)),
		}
		postJSON(fmt.Sprintf("/devices/%s/readings", deviceID), payload)
	}
}

func genGetHistoryAction(deviceID string) func() {
	return func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/sensor/history?source_id=%s&hours=1", httpHostPort, deviceID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp)
		}
	}
}
