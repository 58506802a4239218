package bir_nav

// Navigator runs the per-cycle decision pipeline.
type Navigator struct {
	weights  [SensorCount]SensorWeight
	pressure PressureConfig
	steering *SteeringController
	goal     *GoalTracker
	cycle    uint64
}

// NewNavigator wires the pipeline from the controller configuration.
func NewNavigator(cfg ControllerConfig) *Navigator {
	n := &Navigator{
		pressure: cfg.Pressure,
		steering: NewSteeringController(cfg.Steering),
		goal:     NewGoalTracker(cfg.Goal),
	}
	copy(n.weights[:], cfg.Sensors.Weights)
	return n
}

// Cycle evaluates one control cycle. The goal check runs first; when the
// target is reached the steering step is skipped and both wheels stop.
func (n *Navigator) Cycle(in CycleInput) CycleResult {
	n.cycle++
	res := CycleResult{Cycle: n.cycle}

	reached, dist := n.goal.Reached(in.Position)
	res.GoalDistance = dist
	if reached {
		res.Reached = true
		res.State = n.steering.State()
		return res
	}

	res.Pressure = ComputePressure(in.Readings, n.weights, n.pressure)
	res.Command = n.steering.Step(res.Pressure)
	res.State = n.steering.State()
	return res
}

// State returns the persisted steering state.
func (n *Navigator) State() SteeringState {
	return n.steering.State()
}
