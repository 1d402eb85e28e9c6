package roundbot

import (
	"context"
	"time"
)

// Clock measures the wall time between two ticks.
type Clock struct {
	Time time.Time
	Dt   time.Duration
}

func NewClock(now time.Time) *Clock {
	return &Clock{Time: now}
}

// Advance records now and returns the time elapsed since the previous call.
func (c *Clock) Advance(now time.Time) time.Duration {
	c.Dt = now.Sub(c.Time)
	c.Time = now
	return c.Dt
}

// Step advances the world by dt split into n equal updates.
func (m *Model) Step(dt float64, n int) error {
	if n < 1 {
		n = 1
	}
	for i := 0; i < n; i++ {
		if err := m.Update(dt / float64(n)); err != nil {
			return err
		}
	}
	return nil
}

// Run ticks the model at Config.TicksPerSec until ctx is done. Each tick is
// fed the measured wall time, split into Config.Substeps updates.
func (m *Model) Run(ctx context.Context) error {
	period := time.Duration(float64(time.Second) / m.cfg.TicksPerSec)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	clock := NewClock(time.Now())
	m.log.Infof("running at %.0f ticks/s with %d substeps", m.cfg.TicksPerSec, m.cfg.Substeps)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := m.Step(clock.Advance(now).Seconds(), m.cfg.Substeps); err != nil {
				m.log.Errorf("stopping run loop: %v", err)
				return err
			}
		}
	}
}
