package roundbot

import "fmt"

type BlockKind int

const (
	KindBrick BlockKind = iota
	KindRobot
	KindStart
	KindReward
	KindSandBox
	KindTriggerButton
	KindDistractor
	KindBoundingBox
	kindCount
)

type View int

const (
	// PrimaryView is the robot's own camera.
	PrimaryView View = iota
	// GlobalView is the overview camera used for visualisation.
	GlobalView
)

type kindTraits struct {
	name          string
	visible       bool
	globalVisible bool
	crossable     bool
	movable       bool
	collides      bool
}

var kindTable = [kindCount]kindTraits{
	KindBrick:         {name: "brick", visible: true, globalVisible: true, collides: true},
	KindRobot:         {name: "robot", globalVisible: true, movable: true},
	KindStart:         {name: "start", globalVisible: true, crossable: true},
	KindReward:        {name: "reward", globalVisible: true, crossable: true, collides: true},
	KindSandBox:       {name: "sandbox", visible: true, globalVisible: true, crossable: true, collides: true},
	KindTriggerButton: {name: "trigger_button", visible: true, globalVisible: true, crossable: true, collides: true},
	KindDistractor:    {name: "distractor", visible: true, globalVisible: true, crossable: true, movable: true},
	KindBoundingBox:   {name: "bounding_box", crossable: true},
}

func (k BlockKind) Valid() bool { return k >= 0 && k < kindCount }

func (k BlockKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
	return kindTable[k].name
}

// ParseBlockKind maps a block type name to its kind. flat_distractor is a
// distractor whose flatness comes from a zero dimension.
func ParseBlockKind(name string) (BlockKind, error) {
	if name == "flat_distractor" {
		return KindDistractor, nil
	}
	for k := BlockKind(0); k < kindCount; k++ {
		if kindTable[k].name == name {
			return k, nil
		}
	}
	return 0, &UnknownBlockTypeError{Type: name}
}

type blockParams struct {
	texture     []float32
	reward      float64
	friction    float64
	hasFriction bool
	movable     *bool
	visible     *bool
	crossable   *bool

	boundingBox    BlockId
	hasBoundingBox bool
	linked         BlockId
	hasLinked      bool
	speed          *float64
	changeFreq     *float64

	trigger func()
}

// BlockOption customises a block at AddBlock time.
type BlockOption func(*blockParams)

func WithTexture(tex []float32) BlockOption {
	return func(p *blockParams) { p.texture = tex }
}

func WithCollisionReward(r float64) BlockOption {
	return func(p *blockParams) { p.reward = r }
}

// WithFriction sets the friction coefficient; AddBlock rejects values outside (0,1].
func WithFriction(f float64) BlockOption {
	return func(p *blockParams) {
		p.friction = f
		p.hasFriction = true
	}
}

func WithMovable(movable bool) BlockOption {
	return func(p *blockParams) { p.movable = &movable }
}

// WithVisible overrides visibility in every view.
func WithVisible(visible bool) BlockOption {
	return func(p *blockParams) { p.visible = &visible }
}

func WithCrossable(crossable bool) BlockOption {
	return func(p *blockParams) { p.crossable = &crossable }
}

// InBoundingBox confines a distractor to a bounding box block.
func InBoundingBox(box BlockId) BlockOption {
	return func(p *blockParams) {
		p.boundingBox = box
		p.hasBoundingBox = true
	}
}

func WithDistractorSpeed(speed float64) BlockOption {
	return func(p *blockParams) { p.speed = &speed }
}

func WithChangeDirectionFrequency(freq float64) BlockOption {
	return func(p *blockParams) { p.changeFreq = &freq }
}

// LinkedTo makes a bounding box follow another block at a fixed offset.
func LinkedTo(block BlockId) BlockOption {
	return func(p *blockParams) {
		p.linked = block
		p.hasLinked = true
	}
}

func OnTrigger(fn func()) BlockOption {
	return func(p *blockParams) { p.trigger = fn }
}

// newBlock validates parameters and builds the block geometry. It does not
// touch any model state.
func newBlock(id BlockId, kind BlockKind, comps Components, p blockParams, defaultFriction float64) (*Block, error) {
	if !kind.Valid() {
		return nil, &UnknownBlockTypeError{Type: kind.String()}
	}
	if err := comps.validate(); err != nil {
		return nil, err
	}
	friction := defaultFriction
	if p.hasFriction {
		friction = p.friction
	}
	if !(friction > 0 && friction <= 1) {
		return nil, &InvalidFrictionError{Friction: friction}
	}

	traits := kindTable[kind]
	b := &Block{
		id:              id,
		kind:            kind,
		dimensions:      comps.Dimensions,
		texture:         p.texture,
		visible:         traits.visible,
		globalVisible:   traits.globalVisible,
		crossable:       traits.crossable,
		movable:         traits.movable,
		collides:        traits.collides,
		friction:        friction,
		collisionReward: p.reward,
	}
	if p.visible != nil {
		b.visible = *p.visible
		b.globalVisible = *p.visible
	}
	if p.crossable != nil {
		b.crossable = *p.crossable
	}
	switch kind {
	case KindRobot, KindDistractor:
		// always movable
	case KindBoundingBox:
		b.movable = p.hasLinked
	default:
		if p.movable != nil {
			b.movable = *p.movable
		}
	}
	if kind == KindTriggerButton {
		b.trigger = &triggerState{fn: p.trigger}
	}
	b.setPose(comps.Position, comps.Rotation)
	return b, nil
}
