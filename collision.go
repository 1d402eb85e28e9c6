package roundbot

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// correctionOvershoot pushes a corrected sub-motion slightly past the
	// contact plane so float residue does not leave the robot inside a wall.
	correctionOvershoot = 1.1
	maxSubSteps         = 1 << 16
)

// withinReach reports whether v can be resolved in at most maxSubSteps
// increments of the robot's extent.
func withinReach(v, dim mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if dim[i] > 0 && math.Abs(v[i]) > maxSubSteps*dim[i] {
			return false
		}
	}
	return true
}

// subSteps is the number of increments needed so that no increment moves
// the robot further than its own extent on any axis.
func subSteps(v, dim mgl64.Vec3) int {
	n := 1.0
	for i := 0; i < 3; i++ {
		if dim[i] > 0 {
			n = math.Max(n, math.Ceil(math.Abs(v[i])/dim[i]))
		}
	}
	if n > maxSubSteps {
		return maxSubSteps
	}
	return int(n)
}

// accrueReward applies the tick's reward combination: the most negative
// reward wins and positive rewards only add up while nothing negative was hit.
func accrueReward(current, r float64) float64 {
	if r < 0 {
		return math.Min(current, r)
	}
	if current >= 0 {
		return current + r
	}
	return current
}

// collisionCandidates lists the collision blocks the robot can reach while
// moving by v, in registration order. Movable blocks and blocks currently
// under collision are always included.
func (m *Model) collisionCandidates(v mgl64.Vec3) []*Block {
	dim := m.robot.dimensions
	swept := AABBAround(m.robotPosition, dim).Union(AABBAround(m.robotPosition.Add(v), dim))
	near := m.grid.QueryAABB(swept)

	out := make([]*Block, 0, len(near))
	for _, id := range m.collisionBlocks.ids {
		b := m.blocks[id]
		if _, ok := near[id]; ok || b.movable || m.underCollision.has(id) {
			out = append(out, b)
		}
	}
	return out
}

// collide moves the robot by v, stopping it at non-crossable blocks, and
// recomputes reward, friction and the collided flag for this tick.
func (m *Model) collide(v mgl64.Vec3) bool {
	m.currentReward = 0
	m.currentFriction = 1
	m.collided = false

	dim := m.robot.dimensions
	steps := subSteps(v, dim)
	blocks := m.collisionCandidates(v)
	rewarded := make(map[BlockId]struct{})

	var subV mgl64.Vec3
	for s := 1; s <= steps; s++ {
		subV = v.Mul(float64(s) / float64(steps))
		hit := false
		for _, b := range blocks {
			p := m.robotPosition.Add(subV)
			o := b.overlap(p, dim)
			if !overlapping(o) {
				if m.underCollision.has(b.id) {
					m.underCollision.remove(b.id)
					m.notify(b, false)
				}
				continue
			}

			m.notify(b, true)
			// a block's reward counts once per tick however many sub-steps
			// overlap it (see the reward decision in DESIGN.md)
			if _, ok := rewarded[b.id]; !ok {
				rewarded[b.id] = struct{}{}
				m.currentReward = accrueReward(m.currentReward, b.collisionReward)
			}
			m.currentFriction = math.Min(m.currentFriction, b.friction)

			if b.crossable {
				m.underCollision.add(b.id)
				continue
			}
			// pull back on the axes that were clear before this motion; a
			// block the robot already stood in has none and lets it out
			old := b.overlap(m.robotPosition, dim)
			for i := 0; i < 3; i++ {
				if old[i] >= 0 {
					continue
				}
				dir := signOf(v[i])
				subV[i] -= b.penetration(p, dim, i, dir) * dir * correctionOvershoot
				if subV[i]*dir < 0 {
					subV[i] = 0
				}
			}
			hit = true
			m.collided = true
			m.log.Debugf("robot hit %s block %d at sub-step %d/%d", b.kind, b.id, s, steps)
		}
		if hit {
			subV = m.settle(subV, blocks, dim)
			break
		}
	}

	m.robotPosition = m.robotPosition.Add(subV)
	return m.collided
}

// settle zeroes the motion on axes that still leave the robot inside a solid
// block after correction. The pose at the start of the tick is always clear,
// so zero motion is the last resort.
func (m *Model) settle(subV mgl64.Vec3, blocks []*Block, dim mgl64.Vec3) mgl64.Vec3 {
	for pass := 0; pass < 3; pass++ {
		settled := true
		for _, b := range blocks {
			if !m.traps(b, subV, dim) {
				continue
			}
			settled = false
			old := b.overlap(m.robotPosition, dim)
			for i := 0; i < 3; i++ {
				if old[i] < 0 {
					subV[i] = 0
				}
			}
		}
		if settled {
			return subV
		}
	}
	for _, b := range blocks {
		if m.traps(b, subV, dim) {
			m.log.Warnf("robot wedged against block %d, holding position", b.id)
			return mgl64.Vec3{}
		}
	}
	return subV
}

// traps reports whether moving by subV leaves the robot inside solid block b.
// Blocks the robot already overlapped at the start of the tick do not count.
func (m *Model) traps(b *Block, subV, dim mgl64.Vec3) bool {
	if b.crossable || overlapping(b.overlap(m.robotPosition, dim)) {
		return false
	}
	return overlapping(b.overlap(m.robotPosition.Add(subV), dim))
}

// notify forwards an overlap change to the block and queues any trigger
// callback until the model lock is released.
func (m *Model) notify(b *Block, in bool) {
	fired, fn := b.notify(in)
	if !fired {
		return
	}
	m.log.Infof("trigger button %d pressed", b.id)
	if fn != nil {
		m.pending = append(m.pending, fn)
	}
}
