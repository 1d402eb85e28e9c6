package roundbot

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type BlockSnapshot struct {
	Id            BlockId
	Kind          BlockKind
	Visible       bool
	GlobalVisible bool
	Texture       []float32
	Vertices      []float32
}

// Snapshot is a copy of everything a renderer or an environment wrapper
// reads, taken between two ticks.
type Snapshot struct {
	Session         uuid.UUID
	Tick            uint64
	RobotPosition   mgl64.Vec3
	RobotRotation   mgl64.Vec2
	CurrentReward   float64
	CurrentFriction float64
	Collided        bool
	Blocks          []BlockSnapshot
}

func (m *Model) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		Session:         m.id,
		Tick:            m.tick,
		RobotPosition:   m.robotPosition,
		RobotRotation:   m.robotRotation,
		CurrentReward:   m.currentReward,
		CurrentFriction: m.currentFriction,
		Collided:        m.collided,
		Blocks:          make([]BlockSnapshot, 0, m.visibleBlocks.len()),
	}
	for _, id := range m.visibleBlocks.ids {
		b := m.blocks[id]
		tex := make([]float32, len(b.texture))
		copy(tex, b.texture)
		s.Blocks = append(s.Blocks, BlockSnapshot{
			Id:            b.id,
			Kind:          b.kind,
			Visible:       b.visible,
			GlobalVisible: b.globalVisible,
			Texture:       tex,
			Vertices:      b.Vertices(),
		})
	}
	return s
}

// Visible filters the snapshot down to the blocks drawn in view.
func (s Snapshot) Visible(view View) []BlockSnapshot {
	var out []BlockSnapshot
	for _, b := range s.Blocks {
		if (view == PrimaryView && b.Visible) || (view == GlobalView && b.GlobalVisible) {
			out = append(out, b)
		}
	}
	return out
}
