package bir_nav

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cycles.db")

	rec, err := OpenRecorder(ctx, path, DefaultControllerConfig())
	require.NoError(t, err)
	defer rec.Close()

	_, err = uuid.Parse(rec.RunID())
	require.NoError(t, err)

	nav := NewNavigator(DefaultControllerConfig())
	inputs := []CycleInput{
		{Readings: Readings{3: 1024}, Position: Position{X: 1, Z: 1}},
		{Position: Position{X: -4.51866, Z: 2.36419}},
	}
	var last CycleResult
	for _, in := range inputs {
		last = nav.Cycle(in)
		rec.ObserveCycle(in, last)
	}
	require.NoError(t, rec.Finish(ctx, last))

	records, err := rec.Cycles(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, uint64(1), first.Cycle)
	assert.Equal(t, Readings{3: 1024}, first.Readings)
	assert.Equal(t, "LEFT", first.State)
	assert.InDelta(t, 600, first.Pressure.Left, 1e-9)
	assert.InDelta(t, 3.668, first.Command.Left, 1e-9)
	assert.False(t, first.Reached)

	assert.True(t, records[1].Reached)
	assert.Zero(t, records[1].Command)

	var cycles, reached int
	require.NoError(t, rec.db.QueryRowContext(ctx,
		`SELECT cycles, reached FROM runs WHERE run_id = ?`, rec.RunID()).Scan(&cycles, &reached))
	assert.Equal(t, 2, cycles)
	assert.Equal(t, 1, reached)
}

func TestRecorderSeparatesRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cycles.db")

	a, err := OpenRecorder(ctx, path, DefaultControllerConfig())
	require.NoError(t, err)
	require.NoError(t, a.Record(ctx, CycleInput{}, CycleResult{Cycle: 1}))
	require.NoError(t, a.Close())

	b, err := OpenRecorder(ctx, path, DefaultControllerConfig())
	require.NoError(t, err)
	defer b.Close()
	assert.NotEqual(t, a.RunID(), b.RunID())

	records, err := b.Cycles(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}
