package sensor

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPReader pulls the latest measurement from a local scanner bridge
// (the BLE scanner runs out of process and exposes its most recent
// advertisement over HTTP). The bridge answers with either a raw
// advertisement payload or already-decoded values:
//
//	{"payload": "03d61e", "battery": 87}
//	{"temperature": 25.1, "humidity": 42.2, "battery": 87}
type HTTPReader struct {
	URL    string
	Client *http.Client
}

func NewHTTPReader(url string) *HTTPReader {
	return &HTTPReader{
		URL:    url,
		Client: &http.Client{Timeout: 20 * time.Second},
	}
}

type bridgeResponse struct {
	Payload     string     `json:"payload"`
	Temperature *float64   `json:"temperature"`
	Humidity    *float64   `json:"humidity"`
	Battery     int        `json:"battery"`
	Timestamp   *time.Time `json:"timestamp"`
}

func (r *HTTPReader) Read(ctx context.Context) (*Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSensorUnavailable, err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSensorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: scanner bridge returned %d", ErrSensorUnavailable, resp.StatusCode)
	}

	var body bridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReading, err)
	}

	reading := &Reading{Battery: body.Battery, Timestamp: time.Now()}
	if body.Timestamp != nil {
		reading.Timestamp = *body.Timestamp
	}

	switch {
	case body.Payload != "":
		raw, err := hex.DecodeString(body.Payload)
		if err != nil {
			return nil, fmt.Errorf("%w: payload is not hex: %v", ErrMalformedReading, err)
		}
		reading.Temperature, reading.Humidity, err = DecodeMeasurement(raw)
		if err != nil {
			return nil, err
		}
	case body.Temperature != nil && body.Humidity != nil:
		reading.Temperature = *body.Temperature
		reading.Humidity = *body.Humidity
	default:
		return nil, fmt.Errorf("%w: bridge response has neither payload nor values", ErrMalformedReading)
	}

	return reading, nil
}
