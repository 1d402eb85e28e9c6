package roundbot

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// BlockId is a stable handle into the model's block arena.
type BlockId int

// Components is the pose of a block: center, full extents and rotation in degrees.
type Components struct {
	Position   mgl64.Vec3
	Dimensions mgl64.Vec3
	Rotation   mgl64.Vec3
}

// ComponentsFromSlice accepts x,y,z,w,h,d or x,y,z,w,h,d,rx,ry,rz.
func ComponentsFromSlice(c []float64) (Components, error) {
	switch len(c) {
	case 6, 9:
	default:
		return Components{}, fmt.Errorf("%w: want 6 or 9 values, got %d", ErrInvalidComponents, len(c))
	}
	comps := Components{
		Position:   mgl64.Vec3{c[0], c[1], c[2]},
		Dimensions: mgl64.Vec3{c[3], c[4], c[5]},
	}
	if len(c) == 9 {
		comps.Rotation = mgl64.Vec3{c[6], c[7], c[8]}
	}
	return comps, nil
}

func (c Components) validate() error {
	for i := 0; i < 3; i++ {
		if c.Dimensions[i] < 0 {
			return fmt.Errorf("%w: negative dimension %g on axis %d", ErrInvalidComponents, c.Dimensions[i], i)
		}
	}
	return nil
}

// Block is a rectangular prism with semantic flags. Kind-specific state lives
// in the trigger, distractor and bbox fields, only one of which is set.
type Block struct {
	id   BlockId
	kind BlockKind

	position   mgl64.Vec3
	dimensions mgl64.Vec3
	rotation   mgl64.Vec3
	vertices   []float64

	texture         []float32
	visible         bool
	globalVisible   bool
	crossable       bool
	movable         bool
	collides        bool
	friction        float64
	collisionReward float64

	trigger    *triggerState
	distractor *distractorState
	bbox       *boundingBoxState
}

type triggerState struct {
	fn        func()
	colliding bool
}

func (b *Block) Id() BlockId              { return b.id }
func (b *Block) Kind() BlockKind          { return b.kind }
func (b *Block) Position() mgl64.Vec3     { return b.position }
func (b *Block) Dimensions() mgl64.Vec3   { return b.dimensions }
func (b *Block) Rotation() mgl64.Vec3     { return b.rotation }
func (b *Block) Texture() []float32       { return b.texture }
func (b *Block) Visible() bool            { return b.visible }
func (b *Block) Crossable() bool          { return b.crossable }
func (b *Block) Movable() bool            { return b.movable }
func (b *Block) Friction() float64        { return b.friction }
func (b *Block) CollisionReward() float64 { return b.collisionReward }
func (b *Block) Flat() bool               { return isFlat(b.dimensions) }

// VisibleIn reports whether the block is drawn by the camera of the given view.
func (b *Block) VisibleIn(view View) bool {
	switch view {
	case PrimaryView:
		return b.visible
	case GlobalView:
		return b.globalVisible
	}
	return false
}

// Vertices returns a float32 copy of the vertex array, 3 floats per vertex,
// ready for a GPU buffer.
func (b *Block) Vertices() []float32 {
	out := make([]float32, len(b.vertices))
	for i, v := range b.vertices {
		out[i] = float32(v)
	}
	return out
}

func (b *Block) VertexCount() int { return len(b.vertices) / 3 }

func (b *Block) Translate(v mgl64.Vec3) error {
	if !b.movable {
		return &ImmutableBlockError{Block: b.id, Op: "translate"}
	}
	b.setPose(b.position.Add(v), b.rotation)
	return nil
}

func (b *Block) Rotate(delta mgl64.Vec3) error {
	if !b.movable {
		return &ImmutableBlockError{Block: b.id, Op: "rotate"}
	}
	b.setPose(b.position, b.rotation.Add(delta))
	return nil
}

func (b *Block) TranslateTo(pos mgl64.Vec3) error {
	if !b.movable {
		return &ImmutableBlockError{Block: b.id, Op: "translate_to"}
	}
	b.setPose(pos, b.rotation)
	return nil
}

// TranslateAndRotateTo rebuilds the geometry at an absolute pose.
func (b *Block) TranslateAndRotateTo(pos, rot mgl64.Vec3) error {
	if !b.movable {
		return &ImmutableBlockError{Block: b.id, Op: "translate_and_rotate_to"}
	}
	b.setPose(pos, rot)
	return nil
}

// setPose is the only place position, rotation and vertices change.
func (b *Block) setPose(pos, rot mgl64.Vec3) {
	rot = wrapRotation(rot)
	verts := BlockVertices(pos, b.dimensions, rot)
	b.position = pos
	b.rotation = rot
	b.vertices = verts
}

// SetTriggerFunction binds the callback of a trigger button. It is a no-op on
// other kinds.
func (b *Block) SetTriggerFunction(fn func()) {
	if b.trigger != nil {
		b.trigger.fn = fn
	}
}

// Collide is the overlap notification hook. Trigger buttons run their callback
// on the transition into collision.
func (b *Block) Collide(inCollision bool) {
	if _, fn := b.notify(inCollision); fn != nil {
		fn()
	}
}

// notify updates the overlap state. fired reports a trigger press; fn is the
// bound callback to run for it, nil when none is bound.
func (b *Block) notify(inCollision bool) (fired bool, fn func()) {
	if b.kind != KindTriggerButton {
		return false, nil
	}
	t := b.trigger
	fired = inCollision && !t.colliding
	t.colliding = inCollision
	if fired {
		fn = t.fn
	}
	return fired, fn
}

// overlap is the per-axis penetration depth of a box of dimension dim centered
// at pos into this block; all three components positive means the volumes intersect.
func (b *Block) overlap(pos, dim mgl64.Vec3) mgl64.Vec3 {
	reach := b.dimensions.Add(dim).Mul(0.5)
	return reach.Sub(absVec(pos.Sub(b.position)))
}

// penetration is how far a box at pos has entered the block on axis i when
// travelling in direction dir. It equals the overlap while the box center is
// still on the near side of the block center and keeps growing past it.
func (b *Block) penetration(pos, dim mgl64.Vec3, i int, dir float64) float64 {
	reach := (b.dimensions[i] + dim[i]) / 2
	return reach - (b.position[i]-pos[i])*dir
}

func overlapping(o mgl64.Vec3) bool {
	return o[0] > 0 && o[1] > 0 && o[2] > 0
}
