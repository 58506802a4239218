package bir_nav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGoalTracker(t *testing.T) {
	g := NewGoalTracker(DefaultGoalConfig())

	t.Run("near but outside tolerance", func(t *testing.T) {
		reached, d := g.Reached(Position{X: -4.0, Y: 0.1, Z: 2.0})
		want := math.Sqrt(math.Pow(2.36419-2.0, 2) + math.Pow(-4.51866+4.0, 2))
		assert.InDelta(t, want, d, 1e-12)
		assert.InDelta(t, 0.634, d, 1e-3)
		assert.False(t, reached)
	})

	t.Run("at target", func(t *testing.T) {
		reached, d := g.Reached(Position{X: -4.51866, Y: 3, Z: 2.36419})
		assert.Zero(t, d)
		assert.True(t, reached)
	})

	t.Run("height ignored", func(t *testing.T) {
		a := g.Distance(Position{X: 1, Y: 0, Z: 1})
		b := g.Distance(Position{X: 1, Y: 42, Z: 1})
		assert.Equal(t, a, b)
	})
}

func TestGoalToleranceIsStrict(t *testing.T) {
	g := NewGoalTracker(GoalConfig{Tolerance: 0.6})

	reached, d := g.Reached(Position{X: 0.6})
	assert.Equal(t, 0.6, d)
	assert.False(t, reached)

	reached, _ = g.Reached(Position{Z: 0.59})
	assert.True(t, reached)
}
