package sensor

import (
	"encoding/binary"
	"fmt"
)

// DecodeMeasurement decodes a Govee H5075 measurement payload into a
// temperature (Celsius) and relative humidity (%RH).
//
// Two wire forms exist:
//   - 4 bytes: two big-endian int16 values, each scaled by 100
//   - 3 bytes: one packed big-endian uint24 where bit 23 is the
//     temperature sign, temp = (raw/1000)/10 and humidity = (raw%1000)/10
func DecodeMeasurement(payload []byte) (tempC float64, relHumidity float64, err error) {
	switch len(payload) {
	case 4:
		t := int16(binary.BigEndian.Uint16(payload[0:2]))
		h := int16(binary.BigEndian.Uint16(payload[2:4]))
		tempC = float64(t) / 100
		relHumidity = float64(h) / 100
	case 3:
		raw := uint32(payload[0])<<16 | uint32(payload[1])<<8 | uint32(payload[2])
		negative := raw&0x800000 != 0
		if negative {
			raw ^= 0x800000
		}
		tempC = float64(raw/1000) / 10.0
		if negative {
			tempC = -tempC
		}
		relHumidity = float64(raw%1000) / 10.0
	default:
		return 0, 0, fmt.Errorf("%w: payload of %d bytes", ErrMalformedReading, len(payload))
	}

	if relHumidity < 0 || relHumidity > 100 {
		return 0, 0, fmt.Errorf("%w: humidity %.2f out of range", ErrMalformedReading, relHumidity)
	}
	if tempC < -50 || tempC > 80 {
		return 0, 0, fmt.Errorf("%w: temperature %.2f out of range", ErrMalformedReading, tempC)
	}

	return tempC, relHumidity, nil
}
