package roundbot

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// distractorState is a bounded random walk. offset is relative to the center
// of the bounding box so the distractor follows a box that moves.
type distractorState struct {
	box        BlockId
	speed      float64
	changeFreq float64
	velocity   mgl64.Vec3
	dof        [3]bool
	offset     mgl64.Vec3
}

// boundingBoxState links a bounding box to another block at a fixed offset.
type boundingBoxState struct {
	linked BlockId
	offset mgl64.Vec3
}

// degreesOfFreedom marks the axes on which the distractor is smaller than its box.
func degreesOfFreedom(own, box mgl64.Vec3) [3]bool {
	return [3]bool{own[0] < box[0], own[1] < box[1], own[2] < box[2]}
}

// travel is the largest |offset| allowed per axis, zero on fixed axes.
func (d *distractorState) travel(own, box mgl64.Vec3) mgl64.Vec3 {
	var t mgl64.Vec3
	for i := 0; i < 3; i++ {
		if d.dof[i] {
			t[i] = (box[i] - own[i]) / 2
		}
	}
	return t
}

// randomDirection draws a uniform unit vector restricted to the free axes.
func randomDirection(rng *rand.Rand, dof [3]bool) mgl64.Vec3 {
	if !dof[0] && !dof[1] && !dof[2] {
		return mgl64.Vec3{}
	}
	for {
		var v mgl64.Vec3
		for i := 0; i < 3; i++ {
			if dof[i] {
				v[i] = rng.NormFloat64()
			}
		}
		if l := v.Len(); l > 1e-9 {
			return v.Mul(1 / l)
		}
	}
}

// newDistractorState clamps the requested offset from the box center into the
// free range and picks a first heading.
func newDistractorState(rng *rand.Rand, box *Block, own, start mgl64.Vec3, speed, freq float64) *distractorState {
	d := &distractorState{
		box:        box.id,
		speed:      speed,
		changeFreq: freq,
		dof:        degreesOfFreedom(own, box.dimensions),
	}
	t := d.travel(own, box.dimensions)
	for i := 0; i < 3; i++ {
		d.offset[i] = math.Max(-t[i], math.Min(t[i], start[i]))
	}
	d.velocity = randomDirection(rng, d.dof).Mul(speed)
	return d
}

// step advances the walk by one tick. A move that would leave the box on a
// free axis flips the velocity on that axis and is dropped.
func (d *distractorState) step(rng *rand.Rand, own, box mgl64.Vec3) {
	if rng.Float64() < d.changeFreq {
		d.velocity = randomDirection(rng, d.dof).Mul(d.speed)
		return
	}
	t := d.travel(own, box)
	next := d.offset.Add(d.velocity)
	bounced := false
	for i := 0; i < 3; i++ {
		if d.dof[i] && math.Abs(next[i]) > t[i] {
			d.velocity[i] = -d.velocity[i]
			bounced = true
		}
	}
	if !bounced {
		d.offset = next
	}
}

func (m *Model) moveBoundingBoxes() {
	for _, id := range m.boundingBoxes.ids {
		b := m.blocks[id]
		if b.bbox == nil {
			continue
		}
		linked := m.lookup(b.bbox.linked)
		if linked == nil {
			continue
		}
		b.setPose(linked.position.Add(b.bbox.offset), b.rotation)
	}
}

func (m *Model) moveDistractors() {
	for _, id := range m.distractors.ids {
		b := m.blocks[id]
		box := m.lookup(b.distractor.box)
		if box == nil {
			continue
		}
		b.distractor.step(m.rng, b.dimensions, box.dimensions)
		b.setPose(box.position.Add(b.distractor.offset), b.rotation)
	}
}

// DistractorOffset returns the position of a distractor relative to the
// center of its bounding box.
func (b *Block) DistractorOffset() (mgl64.Vec3, bool) {
	if b.distractor == nil {
		return mgl64.Vec3{}, false
	}
	return b.distractor.offset, true
}

// BoundingBox returns the handle of the box confining a distractor.
func (b *Block) BoundingBox() (BlockId, bool) {
	if b.distractor == nil {
		return 0, false
	}
	return b.distractor.box, true
}
