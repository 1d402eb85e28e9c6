package roundbot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClock_Advance(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewClock(start)
	assert.Equal(t, 250*time.Millisecond, c.Advance(start.Add(250*time.Millisecond)))
	assert.Equal(t, time.Second, c.Advance(start.Add(1250*time.Millisecond)))
	assert.Equal(t, time.Second, c.Dt)
}

func TestModel_StepSplitsIntoUpdates(t *testing.T) {
	m := newTestModel(t, nil)
	addRobot(t, m, 0, 0)
	m.SetStrafe(0, 1)

	require.NoError(t, m.Step(0.4, 4))
	assert.Equal(t, uint64(4), m.Tick())
	assert.InDelta(t, 4, m.RobotPosition().X(), 1e-12)

	require.NoError(t, m.Step(0.1, 0))
	assert.Equal(t, uint64(5), m.Tick())
}

func TestModel_RunUntilCancelled(t *testing.T) {
	m := newTestModel(t, func(c *Config) {
		c.TicksPerSec = 200
		c.Substeps = 2
	})
	addRobot(t, m, 0, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := m.Run(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Positive(t, m.Tick())
	assert.Zero(t, m.Tick()%2)
}

func TestModel_RunStopsOnError(t *testing.T) {
	m := newTestModel(t, func(c *Config) { c.TicksPerSec = 500 })
	err := m.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoRobot)
}
