package bir_nav

// SteeringConfig bundles the speed scale and turn policy.
type SteeringConfig struct {
	MaxSpeed     float64       `json:"max_speed"`
	TurnRatio    float64       `json:"turn_ratio"`
	Threshold    float64       `json:"threshold"`
	InitialState SteeringState `json:"initial_state"`
}

// DefaultSteeringConfig returns the reference steering policy.
func DefaultSteeringConfig() SteeringConfig {
	return SteeringConfig{MaxSpeed: 5.24, TurnRatio: 0.7, Threshold: 100, InitialState: StateForward}
}

// Transition computes the wheel command and next state for one cycle.
//
// From FORWARD the left side wins a tie. Once turning, the robot keeps
// its turn direction while either side is above threshold, so it never
// flips straight from LEFT to RIGHT or back.
func Transition(state SteeringState, p WheelPressure, cfg SteeringConfig) (WheelCommand, SteeringState) {
	leftHot := p.Left > cfg.Threshold
	rightHot := p.Right > cfg.Threshold

	switch state {
	case StateLeft:
		if leftHot || rightHot {
			return turnLeft(cfg), StateLeft
		}
		return forward(cfg), StateForward
	case StateRight:
		if leftHot || rightHot {
			return turnRight(cfg), StateRight
		}
		return forward(cfg), StateForward
	default:
		if leftHot {
			return turnLeft(cfg), StateLeft
		}
		if rightHot {
			return turnRight(cfg), StateRight
		}
		return forward(cfg), StateForward
	}
}

func forward(cfg SteeringConfig) WheelCommand {
	return WheelCommand{Left: cfg.MaxSpeed, Right: cfg.MaxSpeed}
}

func turnLeft(cfg SteeringConfig) WheelCommand {
	v := cfg.TurnRatio * cfg.MaxSpeed
	return WheelCommand{Left: v, Right: -v}
}

func turnRight(cfg SteeringConfig) WheelCommand {
	v := cfg.TurnRatio * cfg.MaxSpeed
	return WheelCommand{Left: -v, Right: v}
}

// SteeringController owns the persisted steering state.
type SteeringController struct {
	Cfg   SteeringConfig
	state SteeringState
}

// NewSteeringController constructs a controller starting in the configured state.
func NewSteeringController(cfg SteeringConfig) *SteeringController {
	return &SteeringController{Cfg: cfg, state: cfg.InitialState}
}

// Step applies one transition and returns the wheel command.
func (sc *SteeringController) Step(p WheelPressure) WheelCommand {
	cmd, next := Transition(sc.state, p, sc.Cfg)
	sc.state = next
	return cmd
}

// State returns the current steering state.
func (sc *SteeringController) State() SteeringState {
	return sc.state
}

// Reset puts the controller back in its initial state.
func (sc *SteeringController) Reset() {
	sc.state = sc.Cfg.InitialState
}
