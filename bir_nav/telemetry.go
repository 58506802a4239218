package bir_nav

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// telemetryFields is the field count of a telemetry line without timestamp:
// eight sensor readings followed by x, y, z.
const telemetryFields = SensorCount + 3

// Telemetry is one robot snapshot received from a driver transport.
type Telemetry struct {
	T        float64
	HasT     bool
	Readings Readings
	Position Position
}

// ParseTelemetry parses "s0,...,s7,x,y,z" with an optional leading timestamp.
func ParseTelemetry(b []byte) (Telemetry, error) {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return Telemetry{}, errors.New("empty payload")
	}

	parts := strings.Split(s, ",")
	if len(parts) != telemetryFields && len(parts) != telemetryFields+1 {
		return Telemetry{}, fmt.Errorf("expected %d or %d fields, got %d", telemetryFields, telemetryFields+1, len(parts))
	}

	var tel Telemetry
	if len(parts) == telemetryFields+1 {
		t, err := parseF64(parts[0])
		if err != nil {
			return Telemetry{}, fmt.Errorf("timestamp: %w", err)
		}
		tel.T = t
		tel.HasT = true
		parts = parts[1:]
	}

	for i := 0; i < SensorCount; i++ {
		v, err := parseF64(parts[i])
		if err != nil {
			return Telemetry{}, fmt.Errorf("sensor %d: %w", i, err)
		}
		if v < 0 {
			return Telemetry{}, fmt.Errorf("sensor %d: negative reading %v", i, v)
		}
		tel.Readings[i] = v
	}

	var pos [3]float64
	for i := range pos {
		v, err := parseF64(parts[SensorCount+i])
		if err != nil {
			return Telemetry{}, fmt.Errorf("position %d: %w", i, err)
		}
		pos[i] = v
	}
	tel.Position = Position{X: pos[0], Y: pos[1], Z: pos[2]}
	return tel, nil
}

// FormatCommand writes "left,right" as a CSV payload.
func FormatCommand(cmd WheelCommand) string {
	return fmt.Sprintf("%.4f,%.4f", cmd.Left, cmd.Right)
}

// parseF64 parses a float from a CSV field.
func parseF64(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}
