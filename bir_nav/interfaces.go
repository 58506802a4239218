package bir_nav

import (
	"context"
	"errors"
	"fmt"
)

// SensorCount is the number of ranged sensors in the front ring.
const SensorCount = 8

// Readings is one cycle of raw sensor values, index-aligned with the weight table.
//
// Conventions:
//   - values are in [0, MaxSensorValue] on the device raw scale.
//   - 0 means "no object in range", not a zero-distance measurement.
type Readings [SensorCount]float64

// SensorWeight is the influence a single sensor has on each wheel.
type SensorWeight struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// WheelPressure is the per-cycle obstacle pressure accumulated for each wheel.
type WheelPressure struct {
	Left  float64
	Right float64
}

// Position is the global position reported by the position sensor.
// Only X and Z (the ground plane) are read by the controller.
type Position struct {
	X float64
	Y float64
	Z float64
}

// SteeringState selects which steering policy produces wheel commands.
type SteeringState int

const (
	StateForward SteeringState = iota
	StateLeft
	StateRight
)

func (s SteeringState) String() string {
	switch s {
	case StateForward:
		return "FORWARD"
	case StateLeft:
		return "LEFT"
	case StateRight:
		return "RIGHT"
	default:
		return fmt.Sprintf("SteeringState(%d)", int(s))
	}
}

// WheelCommand is the pair of signed wheel velocities applied to the actuators.
type WheelCommand struct {
	Left  float64
	Right float64
}

// CycleInput is everything the driver supplies for one control cycle.
type CycleInput struct {
	Readings Readings
	Position Position
}

// CycleResult is the outcome of one control cycle.
type CycleResult struct {
	Cycle        uint64
	Pressure     WheelPressure
	State        SteeringState
	Command      WheelCommand
	GoalDistance float64
	Reached      bool
}

// ErrSimulationEnded is returned by Robot.Step when the runtime stops ticking.
var ErrSimulationEnded = errors.New("simulation ended")

// Robot is the environment binding the control loop runs against.
type Robot interface {
	// Step blocks until the next control tick.
	Step(ctx context.Context) error
	// Readings returns the latest raw sensor values.
	Readings() Readings
	// Position returns the latest global position.
	Position() Position
	// SetVelocity applies wheel velocities to the left and right motors.
	SetVelocity(left, right float64) error
}
