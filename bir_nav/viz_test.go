package bir_nav

import (
	"expvar"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVizMetricsObserveCycle(t *testing.T) {
	v := newVizMetrics(new(expvar.Map).Init(), new(expvar.Map).Init(), func(string) *expvar.Float {
		return new(expvar.Float)
	})

	v.ObserveCycle(
		CycleInput{Readings: Readings{2: 700}, Position: Position{X: -1, Z: 2}},
		CycleResult{
			Pressure:     WheelPressure{Left: 120},
			State:        StateRight,
			Command:      WheelCommand{Left: -3.668, Right: 3.668},
			GoalDistance: 3.5,
		},
	)

	assert.Equal(t, 700.0, v.flat["input_s2"].Value())
	assert.Equal(t, -1.0, v.flat["input_x"].Value())
	assert.Equal(t, 120.0, v.flat["output_pressure_left"].Value())
	assert.Equal(t, float64(StateRight), v.flat["output_state"].Value())
	assert.Equal(t, 3.5, v.flat["output_goal_distance"].Value())

	got, ok := v.output.Get("right").(*expvar.Float)
	require.True(t, ok)
	assert.Equal(t, 3.668, got.Value())
}

func TestVizDisabled(t *testing.T) {
	v, err := StartViz(VizConfig{})
	require.NoError(t, err)
	assert.Nil(t, v)
	v.ObserveCycle(CycleInput{}, CycleResult{})
}
