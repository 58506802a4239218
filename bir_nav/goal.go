package bir_nav

import "gonum.org/v1/gonum/floats"

// GoalConfig is the fixed target on the ground plane.
type GoalConfig struct {
	TargetX   float64 `json:"target_x"`
	TargetZ   float64 `json:"target_z"`
	Tolerance float64 `json:"tolerance"`
}

// DefaultGoalConfig returns the reference target.
func DefaultGoalConfig() GoalConfig {
	return GoalConfig{TargetX: -4.51866, TargetZ: 2.36419, Tolerance: 0.6}
}

// GoalTracker decides when the robot has arrived.
type GoalTracker struct {
	cfg GoalConfig
}

// NewGoalTracker constructs a tracker for the given target.
func NewGoalTracker(cfg GoalConfig) *GoalTracker {
	return &GoalTracker{cfg: cfg}
}

// Distance returns the ground-plane Euclidean distance to the target.
func (g *GoalTracker) Distance(pos Position) float64 {
	return floats.Distance(
		[]float64{g.cfg.TargetX, g.cfg.TargetZ},
		[]float64{pos.X, pos.Z},
		2,
	)
}

// Reached reports whether pos is strictly inside the goal tolerance.
func (g *GoalTracker) Reached(pos Position) (bool, float64) {
	d := g.Distance(pos)
	return d < g.cfg.Tolerance, d
}
