package bir_nav

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8*time.Millisecond, cfg.TimeStep())
	assert.Equal(t, 5.24, cfg.Controller.Steering.MaxSpeed)
	assert.Equal(t, 0.7, cfg.Controller.Steering.TurnRatio)
	assert.Equal(t, 100.0, cfg.Controller.Steering.Threshold)
	assert.Equal(t, -4.51866, cfg.Controller.Goal.TargetX)
	assert.Equal(t, 2.36419, cfg.Controller.Goal.TargetZ)
	assert.Equal(t, 0.6, cfg.Controller.Goal.Tolerance)
	assert.Len(t, cfg.Controller.Sensors.Weights, SensorCount)
	assert.Equal(t, "so0", cfg.Controller.Sensors.Names[0])
}

func TestLoadConfigPartial(t *testing.T) {
	path := writeConfig(t, `{
		"time_step_ms": 16,
		"controller": {"steering": {"threshold": 250, "initial_state": "LEFT"}},
		"log": {"enabled": true}
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.TimeStepMS)
	assert.Equal(t, 250.0, cfg.Controller.Steering.Threshold)
	assert.Equal(t, StateLeft, cfg.Controller.Steering.InitialState)
	assert.Equal(t, 5.24, cfg.Controller.Steering.MaxSpeed)
	assert.Equal(t, DefaultGoalConfig(), cfg.Controller.Goal)
	assert.True(t, cfg.Log.Enabled)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"short weight table", `{"controller": {"sensors": {"weights": [{"left": 1}]}}}`},
		{"negative weight", `{"controller": {"sensors": {"weights": [
			{"left": -1}, {}, {}, {}, {}, {}, {}, {}]}}}`},
		{"unknown driver", `{"driver": "can"}`},
		{"serial without port", `{"driver": "serial"}`},
		{"bad parity", `{"driver": "serial", "serial": {"port": "/dev/ttyUSB0", "options": {"parity": "X"}}}`},
		{"zero time step", `{"time_step_ms": 0}`},
		{"bad state", `{"controller": {"steering": {"initial_state": "UP"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseState(t *testing.T) {
	for in, want := range map[string]SteeringState{
		"forward": StateForward,
		" LEFT ":  StateLeft,
		"Right":   StateRight,
	} {
		got, err := ParseState(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseState("reverse")
	assert.Error(t, err)
}

func TestLoadConfigReplacesWeightTable(t *testing.T) {
	path := writeConfig(t, `{"controller": {"sensors": {"weights": [
		{"left": 1}, {"left": 1}, {"left": 1}, {"left": 1},
		{"left": 1}, {"left": 1}, {"left": 1}, {"left": 1}
	]}}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	for i, w := range cfg.Controller.Sensors.Weights {
		assert.Equal(t, SensorWeight{Left: 1}, w, "sensor %d", i)
	}
	assert.Equal(t, "so7", cfg.Controller.Sensors.Names[7], "names keep defaults")

	nav := NewNavigator(cfg.Controller)
	res := nav.Cycle(CycleInput{Readings: Readings{7: 1024}})
	assert.Equal(t, WheelPressure{Left: 1}, res.Pressure)
	assert.Equal(t, StateForward, res.State)

	cfg, err = LoadConfig(writeConfig(t, `{}`))
	require.NoError(t, err)
	assert.Equal(t, SensorWeight{Right: 150}, cfg.Controller.Sensors.Weights[7])
}

func TestUDPDriverRequiresOutputAddr(t *testing.T) {
	cfg := DefaultConfig()
	assert.NotEmpty(t, cfg.Output.UDPAddr)
	require.NoError(t, cfg.Validate())

	cfg.Output.UDPAddr = ""
	assert.ErrorContains(t, cfg.Validate(), "output.udp_addr")

	_, err := LoadConfig(writeConfig(t, `{"output": {"udp_addr": ""}}`))
	assert.Error(t, err)
}
