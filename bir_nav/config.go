package bir_nav

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Driver names accepted in AppConfig.Driver.
const (
	DriverUDP    = "udp"
	DriverSerial = "serial"
)

// SensorsConfig names the sensor ring devices and their wheel weights.
type SensorsConfig struct {
	Names   []string       `json:"names"`
	Weights []SensorWeight `json:"weights"`
}

// ControllerConfig bundles everything the decision pipeline needs.
type ControllerConfig struct {
	Sensors  SensorsConfig  `json:"sensors"`
	Pressure PressureConfig `json:"pressure"`
	Steering SteeringConfig `json:"steering"`
	Goal     GoalConfig     `json:"goal"`
}

// LiveConfig controls UDP input settings for robot telemetry.
type LiveConfig struct {
	UDPAddr    string `json:"udp_addr"`
	ReadBuffer int    `json:"read_buffer"`
}

// OutputConfig controls UDP output settings for wheel commands.
type OutputConfig struct {
	UDPAddr string `json:"udp_addr"`
}

// SerialConfig selects the serial port used by the serial driver.
type SerialConfig struct {
	Port    string      `json:"port"`
	Options PortOptions `json:"options"`
}

// RecorderConfig controls the optional sqlite cycle recorder.
type RecorderConfig struct {
	Path string `json:"path"`
}

// LogConfig controls console logging.
type LogConfig struct {
	Enabled bool `json:"enabled"`
}

// AppConfig aggregates all configuration sections.
type AppConfig struct {
	TimeStepMS int              `json:"time_step_ms"`
	Driver     string           `json:"driver"`
	Controller ControllerConfig `json:"controller"`
	Live       LiveConfig       `json:"live"`
	Output     OutputConfig     `json:"output"`
	Serial     SerialConfig     `json:"serial"`
	Viz        VizConfig        `json:"viz"`
	Recorder   RecorderConfig   `json:"recorder"`
	Log        LogConfig        `json:"log"`
}

// DefaultControllerConfig returns the reference controller tuning.
func DefaultControllerConfig() ControllerConfig {
	names := DefaultSensorNames()
	weights := DefaultWeights()
	return ControllerConfig{
		Sensors: SensorsConfig{
			Names:   names[:],
			Weights: weights[:],
		},
		Pressure: DefaultPressureConfig(),
		Steering: DefaultSteeringConfig(),
		Goal:     DefaultGoalConfig(),
	}
}

// DefaultConfig returns a complete configuration with reference values.
func DefaultConfig() AppConfig {
	return AppConfig{
		TimeStepMS: 8,
		Driver:     DriverUDP,
		Controller: DefaultControllerConfig(),
		Live:       LiveConfig{UDPAddr: "127.0.0.1:9870", ReadBuffer: 2048},
		Output:     OutputConfig{UDPAddr: "127.0.0.1:9871"},
	}
}

// TimeStep returns the control cycle period.
func (c AppConfig) TimeStep() time.Duration {
	return time.Duration(c.TimeStepMS) * time.Millisecond
}

// LoadConfig reads the JSON config from disk. Fields missing from the file
// keep their DefaultConfig values. The sensor tables are replaced as a whole,
// never merged entry by entry with the defaults.
func LoadConfig(path string) (AppConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	defaults := cfg.Controller.Sensors
	cfg.Controller.Sensors = SensorsConfig{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Controller.Sensors.Weights == nil {
		cfg.Controller.Sensors.Weights = defaults.Weights
	}
	if cfg.Controller.Sensors.Names == nil {
		cfg.Controller.Sensors.Names = defaults.Names
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the controller cannot run with.
func (c AppConfig) Validate() error {
	if c.TimeStepMS <= 0 {
		return errors.New("time_step_ms must be > 0")
	}
	switch c.Driver {
	case DriverUDP:
		if c.Live.UDPAddr == "" {
			return errors.New("live.udp_addr must be set for the udp driver")
		}
		if c.Output.UDPAddr == "" {
			return errors.New("output.udp_addr must be set for the udp driver")
		}
	case DriverSerial:
		if c.Serial.Port == "" {
			return errors.New("serial.port must be set for the serial driver")
		}
		if _, err := c.Serial.Options.Normalize(); err != nil {
			return fmt.Errorf("serial.options: %w", err)
		}
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	return c.Controller.Validate()
}

// Validate checks the controller tuning.
func (c ControllerConfig) Validate() error {
	if n := len(c.Sensors.Weights); n != SensorCount {
		return fmt.Errorf("sensors.weights: expected %d entries, got %d", SensorCount, n)
	}
	if n := len(c.Sensors.Names); n != 0 && n != SensorCount {
		return fmt.Errorf("sensors.names: expected %d entries, got %d", SensorCount, n)
	}
	for i, w := range c.Sensors.Weights {
		if w.Left < 0 || w.Right < 0 {
			return fmt.Errorf("sensors.weights[%d]: weights must be >= 0", i)
		}
	}
	if c.Pressure.MaxSensorValue <= 0 {
		return errors.New("pressure.max_sensor_value must be > 0")
	}
	if c.Pressure.MinDistance <= 0 {
		return errors.New("pressure.min_distance must be > 0")
	}
	if c.Steering.MaxSpeed <= 0 {
		return errors.New("steering.max_speed must be > 0")
	}
	if c.Goal.Tolerance <= 0 {
		return errors.New("goal.tolerance must be > 0")
	}
	return nil
}

// ParseState converts a state name into a SteeringState.
func ParseState(value string) (SteeringState, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "FORWARD":
		return StateForward, nil
	case "LEFT":
		return StateLeft, nil
	case "RIGHT":
		return StateRight, nil
	default:
		return StateForward, fmt.Errorf("unknown steering state %q", value)
	}
}

// UnmarshalJSON allows steering states to be loaded from JSON strings.
func (s *SteeringState) UnmarshalJSON(b []byte) error {
	var raw *string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	parsed, err := ParseState(*raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalJSON writes the state name.
func (s SteeringState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}
