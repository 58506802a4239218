package bir_nav

import (
	"context"
	"errors"
	"fmt"
)

// Observer receives every evaluated cycle.
type Observer interface {
	ObserveCycle(in CycleInput, res CycleResult)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(in CycleInput, res CycleResult)

// ObserveCycle implements Observer.
func (f ObserverFunc) ObserveCycle(in CycleInput, res CycleResult) {
	f(in, res)
}

// Run drives the robot one cycle per tick. It returns the last cycle result
// when the target is reached (after stopping both wheels), when the runtime
// reports ErrSimulationEnded, or with ctx's error on cancellation.
func Run(ctx context.Context, robot Robot, nav *Navigator, observers ...Observer) (CycleResult, error) {
	var last CycleResult
	if err := robot.SetVelocity(0, 0); err != nil {
		return last, fmt.Errorf("stop wheels: %w", err)
	}

	for {
		if err := robot.Step(ctx); err != nil {
			if errors.Is(err, ErrSimulationEnded) {
				return last, nil
			}
			return last, err
		}

		in := CycleInput{Readings: robot.Readings(), Position: robot.Position()}
		last = nav.Cycle(in)
		for _, o := range observers {
			o.ObserveCycle(in, last)
		}

		if last.Reached {
			if err := robot.SetVelocity(0, 0); err != nil {
				return last, fmt.Errorf("stop wheels: %w", err)
			}
			Logf("target reached after %d cycles (goal distance %.3f)", last.Cycle, last.GoalDistance)
			return last, nil
		}

		if err := robot.SetVelocity(last.Command.Left, last.Command.Right); err != nil {
			return last, fmt.Errorf("set velocity: %w", err)
		}
	}
}
