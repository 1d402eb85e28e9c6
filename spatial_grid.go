package roundbot

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// AABBAround returns the box of full extents dim centered at center.
func AABBAround(center, dim mgl64.Vec3) AABB {
	half := dim.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Union grows the box to also cover o.
func (a AABB) Union(o AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(a.Min[0], o.Min[0]), math.Min(a.Min[1], o.Min[1]), math.Min(a.Min[2], o.Min[2])},
		Max: mgl64.Vec3{math.Max(a.Max[0], o.Max[0]), math.Max(a.Max[1], o.Max[1]), math.Max(a.Max[2], o.Max[2])},
	}
}

// SpatialHashGrid is the broadphase for blocks that never move. Results are
// candidates only; the resolver does the exact overlap test.
type SpatialHashGrid struct {
	cellSize float64
	cells    map[uint64][]BlockId
	members  map[BlockId]AABB
}

func NewSpatialHashGrid(cellSize float64) *SpatialHashGrid {
	return &SpatialHashGrid{
		cellSize: cellSize,
		cells:    make(map[uint64][]BlockId),
		members:  make(map[BlockId]AABB),
	}
}

func (grid *SpatialHashGrid) Len() int { return len(grid.members) }

func (grid *SpatialHashGrid) Insert(id BlockId, aabb AABB) {
	if _, ok := grid.members[id]; ok {
		grid.Remove(id)
	}
	grid.members[id] = aabb
	grid.eachCell(aabb, func(key uint64) {
		grid.cells[key] = append(grid.cells[key], id)
	})
}

func (grid *SpatialHashGrid) Remove(id BlockId) {
	aabb, ok := grid.members[id]
	if !ok {
		return
	}
	delete(grid.members, id)
	grid.eachCell(aabb, func(key uint64) {
		ids := grid.cells[key]
		for i, other := range ids {
			if other == id {
				ids = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(grid.cells, key)
		} else {
			grid.cells[key] = ids
		}
	})
}

// QueryAABB returns the set of blocks sharing at least one cell with aabb.
func (grid *SpatialHashGrid) QueryAABB(aabb AABB) map[BlockId]struct{} {
	results := make(map[BlockId]struct{})
	grid.eachCell(aabb, func(key uint64) {
		for _, id := range grid.cells[key] {
			results[id] = struct{}{}
		}
	})
	return results
}

func (grid *SpatialHashGrid) eachCell(aabb AABB, fn func(key uint64)) {
	lo, hi := grid.cell(aabb.Min), grid.cell(aabb.Max)
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				fn(cellKey(x, y, z))
			}
		}
	}
}

func (grid *SpatialHashGrid) cell(p mgl64.Vec3) [3]int {
	return [3]int{
		int(math.Floor(p[0] / grid.cellSize)),
		int(math.Floor(p[1] / grid.cellSize)),
		int(math.Floor(p[2] / grid.cellSize)),
	}
}

// cellKey packs the low 21 bits of each cell coordinate. Cells further than
// 2^20 apart may share a key, which only adds candidates.
func cellKey(x, y, z int) uint64 {
	const mask = 1<<21 - 1
	return uint64(x)&mask | (uint64(y)&mask)<<21 | (uint64(z)&mask)<<42
}
