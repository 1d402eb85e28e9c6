package roundbot

import (
	"fmt"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func comps(x, y, z, w, h, d float64) Components {
	return Components{Position: mgl64.Vec3{x, y, z}, Dimensions: mgl64.Vec3{w, h, d}}
}

func newTestModel(t *testing.T, tweak func(*Config)) *Model {
	t.Helper()
	cfg := DefaultConfig()
	if tweak != nil {
		tweak(&cfg)
	}
	m, err := NewModel(cfg)
	require.NoError(t, err)
	return m
}

// addRobot adds a unit cube robot standing on the ground plane.
func addRobot(t *testing.T, m *Model, x, z float64) *Block {
	t.Helper()
	b, err := m.AddBlock(KindRobot, comps(x, 0.6, z, 1, 1, 1))
	require.NoError(t, err)
	return b
}

// buildArena builds a square arena of half width n with walls of depth 1
// worth -1 on contact.
func buildArena(t *testing.T, m *Model, n float64) (ground *Block) {
	t.Helper()
	ground, err := m.AddBlock(KindBrick, comps(0, -3, 0, 2*n, 6, 2*n))
	require.NoError(t, err)
	walls := []Components{
		comps(0, 2, -n, 2*n, 4, 1),
		comps(0, 2, n, 2*n, 4, 1),
		comps(-n, 2, 0, 1, 4, 2*n),
		comps(n, 2, 0, 1, 4, 2*n),
	}
	for _, c := range walls {
		_, err := m.AddBlock(KindBrick, c, WithCollisionReward(-1))
		require.NoError(t, err)
	}
	return ground
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) record(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, level+": "+fmt.Sprintf(format, args...))
}

func (r *recordingLogger) DebugEnabled() bool                { return true }
func (r *recordingLogger) SetDebug(enabled bool)             {}
func (r *recordingLogger) Debugf(format string, args ...any) { r.record("DEBUG", format, args...) }
func (r *recordingLogger) Infof(format string, args ...any)  { r.record("INFO", format, args...) }
func (r *recordingLogger) Warnf(format string, args ...any)  { r.record("WARN", format, args...) }
func (r *recordingLogger) Errorf(format string, args ...any) { r.record("ERROR", format, args...) }

func (r *recordingLogger) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}
