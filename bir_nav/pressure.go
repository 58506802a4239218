package bir_nav

import "gonum.org/v1/gonum/floats"

// PressureConfig holds the constants of the reading-to-pressure mapping.
type PressureConfig struct {
	MaxRange       float64 `json:"max_range"`
	MaxSensorValue float64 `json:"max_sensor_value"`
	MinDistance    float64 `json:"min_distance"`
}

// DefaultPressureConfig returns the tuned reference constants.
func DefaultPressureConfig() PressureConfig {
	return PressureConfig{MaxRange: 5.0, MaxSensorValue: 1024, MinDistance: 1.0}
}

// DefaultWeights returns the reference weight table. Frontal sensors weigh
// more than peripheral ones and each side pushes only its own wheel.
func DefaultWeights() [SensorCount]SensorWeight {
	return [SensorCount]SensorWeight{
		{Left: 150}, {Left: 200}, {Left: 300}, {Left: 600},
		{Right: 600}, {Right: 300}, {Right: 200}, {Right: 150},
	}
}

// DefaultSensorNames returns the device names of the sensor ring.
func DefaultSensorNames() [SensorCount]string {
	return [SensorCount]string{"so0", "so1", "so2", "so3", "so4", "so5", "so6", "so7"}
}

// EstimateDistance maps a raw reading to an obstacle distance with the
// inverse linear lookup. A saturated reading maps to 0.
func EstimateDistance(reading float64, cfg PressureConfig) float64 {
	return cfg.MaxRange * (1 - reading/cfg.MaxSensorValue)
}

// SensorPressure converts one raw reading into a pressure in [0, 1].
func SensorPressure(reading float64, cfg PressureConfig) float64 {
	if reading == 0 {
		return 0
	}
	distance := EstimateDistance(reading, cfg)
	if distance < cfg.MinDistance {
		return 1 - distance/cfg.MinDistance
	}
	return 0
}

// ComputePressure accumulates the weighted per-sensor pressure for each wheel.
func ComputePressure(readings Readings, weights [SensorCount]SensorWeight, cfg PressureConfig) WheelPressure {
	var contrib, left, right [SensorCount]float64
	for i, r := range readings {
		contrib[i] = SensorPressure(r, cfg)
		left[i] = weights[i].Left
		right[i] = weights[i].Right
	}
	return WheelPressure{
		Left:  floats.Dot(left[:], contrib[:]),
		Right: floats.Dot(right[:], contrib[:]),
	}
}
