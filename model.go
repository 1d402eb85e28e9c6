package roundbot

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Model is the authoritative world state: a block arena, the tracking sets
// that index it, and the robot's kinematic state.
//
// All methods are safe for concurrent use. Blocks returned by Block and
// Blocks are live; readers on another goroutine should use Snapshot.
type Model struct {
	mu  sync.RWMutex
	id  uuid.UUID
	cfg Config
	log Logger
	rng *rand.Rand

	blocks          []*Block
	collisionBlocks blockSet
	visibleBlocks   blockSet
	movableBlocks   blockSet
	startAreas      blockSet
	distractors     blockSet
	boundingBoxes   blockSet
	underCollision  blockSet
	grid            *SpatialHashGrid

	robot           *Block
	robotPosition   mgl64.Vec3
	robotRotation   mgl64.Vec2 // yaw, pitch in degrees
	startPosition   mgl64.Vec3
	startRotation   mgl64.Vec2
	strafe          [2]int
	speedContinuous mgl64.Vec2 // forward, right
	acceleration    mgl64.Vec2

	currentFriction float64
	currentReward   float64
	maxReward       float64
	collided        bool
	tick            uint64

	pending []func()
}

func NewModel(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = NewDefaultLogger("roundbot", true)
		} else {
			logger = NewNopLogger()
		}
	}
	return &Model{
		id:              id,
		cfg:             cfg,
		log:             withPrefix(logger, id.String()[:8]),
		rng:             rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		collisionBlocks: newBlockSet(),
		visibleBlocks:   newBlockSet(),
		movableBlocks:   newBlockSet(),
		startAreas:      newBlockSet(),
		distractors:     newBlockSet(),
		boundingBoxes:   newBlockSet(),
		underCollision:  newBlockSet(),
		grid:            NewSpatialHashGrid(cfg.GridCellSize),
		currentFriction: 1,
	}, nil
}

func (m *Model) ID() uuid.UUID { return m.id }

func (m *Model) Config() Config { return m.cfg }

// AddBlockOfType is AddBlock keyed by block type name.
func (m *Model) AddBlockOfType(blockType string, comps Components, opts ...BlockOption) (*Block, error) {
	kind, err := ParseBlockKind(blockType)
	if err != nil {
		return nil, err
	}
	return m.AddBlock(kind, comps, opts...)
}

// AddBlock builds a block and registers it in every set its kind belongs
// to. Nothing is registered if any validation fails.
func (m *Model) AddBlock(kind BlockKind, comps Components, opts ...BlockOption) (*Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !kind.Valid() {
		return nil, &UnknownBlockTypeError{Type: kind.String()}
	}
	var p blockParams
	for _, opt := range opts {
		opt(&p)
	}
	defaultFriction := 1.0
	if kind == KindSandBox {
		defaultFriction = m.cfg.SandBoxFriction
	}

	id := BlockId(len(m.blocks))
	b, err := newBlock(id, kind, comps, p, defaultFriction)
	if err != nil {
		return nil, fmt.Errorf("add %s block: %w", kind, err)
	}

	switch kind {
	case KindRobot:
		if m.robot != nil {
			return nil, fmt.Errorf("add robot block: %w", ErrDuplicateRobot)
		}
	case KindDistractor:
		if !p.hasBoundingBox {
			return nil, fmt.Errorf("add distractor block: %w", ErrMissingBoundingBox)
		}
		box := m.lookup(p.boundingBox)
		if box == nil || box.kind != KindBoundingBox {
			return nil, fmt.Errorf("add distractor block: bounding box %d: %w", p.boundingBox, ErrUnknownBlock)
		}
		speed := m.cfg.DistractorSpeed
		if p.speed != nil {
			speed = *p.speed
		}
		freq := m.cfg.DistractorChangeDirectionFrequency
		if p.changeFreq != nil {
			freq = *p.changeFreq
		}
		b.distractor = newDistractorState(m.rng, box, b.dimensions, comps.Position.Sub(box.position), speed, freq)
		b.setPose(box.position.Add(b.distractor.offset), b.rotation)
	case KindBoundingBox:
		if p.hasLinked {
			linked := m.lookup(p.linked)
			if linked == nil {
				return nil, fmt.Errorf("add bounding_box block: linked block %d: %w", p.linked, ErrUnknownBlock)
			}
			b.bbox = &boundingBoxState{linked: linked.id, offset: b.position.Sub(linked.position)}
		}
	}

	m.register(b)
	if kind == KindRobot {
		m.robot = b
		m.robotPosition = b.position
		m.robotRotation = mgl64.Vec2{wrapSigned(-comps.Rotation[1]), 0}
		m.startPosition = m.robotPosition
		m.startRotation = m.robotRotation
		m.syncRobot()
	}
	m.log.Debugf("added %s block %d at %v", kind, id, b.position)
	return b, nil
}

func (m *Model) register(b *Block) {
	m.blocks = append(m.blocks, b)
	if b.collides {
		m.collisionBlocks.add(b.id)
		if !b.movable {
			m.grid.Insert(b.id, AABBAround(b.position, b.dimensions))
		}
	}
	if b.visible || b.globalVisible {
		m.visibleBlocks.add(b.id)
	}
	if b.movable {
		m.movableBlocks.add(b.id)
	}
	switch b.kind {
	case KindStart:
		m.startAreas.add(b.id)
	case KindDistractor:
		m.distractors.add(b.id)
	case KindBoundingBox:
		m.boundingBoxes.add(b.id)
	}
	m.maxReward = math.Max(m.maxReward, math.Abs(b.collisionReward))
}

// RemoveBlock drops a block from the arena and from every set. Removing an
// id that is not in the model returns ErrUnknownBlock.
func (m *Model) RemoveBlock(id BlockId) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.lookup(id)
	if b == nil {
		return fmt.Errorf("remove block %d: %w", id, ErrUnknownBlock)
	}
	for _, s := range []*blockSet{
		&m.collisionBlocks, &m.visibleBlocks, &m.movableBlocks,
		&m.startAreas, &m.distractors, &m.boundingBoxes, &m.underCollision,
	} {
		s.remove(id)
	}
	m.grid.Remove(id)
	m.blocks[id] = nil
	if m.robot == b {
		m.robot = nil
	}
	m.log.Debugf("removed %s block %d", b.kind, id)
	return nil
}

func (m *Model) lookup(id BlockId) *Block {
	if id < 0 || int(id) >= len(m.blocks) {
		return nil
	}
	return m.blocks[id]
}

func (m *Model) Block(id BlockId) (*Block, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b := m.lookup(id)
	return b, b != nil
}

// Blocks returns every live block in registration order.
func (m *Model) Blocks() []*Block {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Block, 0, len(m.blocks))
	for _, b := range m.blocks {
		if b != nil {
			out = append(out, b)
		}
	}
	return out
}

func (m *Model) VisibleBlocks(view View) []*Block {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Block
	for _, id := range m.visibleBlocks.ids {
		if b := m.blocks[id]; b.VisibleIn(view) {
			out = append(out, b)
		}
	}
	return out
}

func (m *Model) CollisionBlocks() []BlockId {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collisionBlocks.list()
}

func (m *Model) MovableBlocks() []BlockId {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.movableBlocks.list()
}

func (m *Model) StartAreas() []BlockId {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startAreas.list()
}

func (m *Model) Distractors() []BlockId {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.distractors.list()
}

func (m *Model) Robot() *Block {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.robot
}

func (m *Model) RobotPosition() mgl64.Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.robotPosition
}

// RobotRotation returns yaw and pitch in degrees.
func (m *Model) RobotRotation() mgl64.Vec2 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.robotRotation
}

func (m *Model) CurrentReward() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentReward
}

func (m *Model) CurrentFriction() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentFriction
}

func (m *Model) Collided() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collided
}

// MaxReward is the largest |collision reward| of any block ever added.
func (m *Model) MaxReward() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxReward
}

// NormalizedReward scales the current reward into [-1,1] by MaxReward.
func (m *Model) NormalizedReward() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.maxReward == 0 {
		return 0
	}
	return m.currentReward / m.maxReward
}

func (m *Model) Tick() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tick
}

// SetRobotPosition teleports the robot without collision checks.
func (m *Model) SetRobotPosition(pos mgl64.Vec3) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.robot == nil {
		return ErrNoRobot
	}
	m.robotPosition = pos
	m.syncRobot()
	return nil
}

// SetStrafe sets the discrete motion flags: forward is -1 ahead, 1 back;
// lateral is -1 left, 1 right.
func (m *Model) SetStrafe(forward, lateral int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strafe = [2]int{clampUnit(forward), clampUnit(lateral)}
}

func (m *Model) Strafe() [2]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.strafe
}

// SetSpeedContinuous sets the forward and right speed used by the velocity
// and acceleration control modes.
func (m *Model) SetSpeedContinuous(speed mgl64.Vec2) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speedContinuous = speed
}

func (m *Model) SpeedContinuous() mgl64.Vec2 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.speedContinuous
}

func (m *Model) SetAcceleration(acc mgl64.Vec2) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acceleration = acc
}

// ChangeRobotRotation adds to yaw and pitch, wrapping both to [-180,180).
func (m *Model) ChangeRobotRotation(dyaw, dpitch float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.robotRotation = mgl64.Vec2{
		wrapSigned(m.robotRotation[0] + dyaw),
		wrapSigned(m.robotRotation[1] + dpitch),
	}
	if m.robot != nil {
		m.syncRobot()
	}
}

// SightVector is the unit line of sight for the current yaw and pitch.
func (m *Model) SightVector() mgl64.Vec3 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	yaw, pitch := m.robotRotation[0], m.robotRotation[1]
	c := math.Cos(mgl64.DegToRad(pitch))
	return mgl64.Vec3{
		math.Cos(mgl64.DegToRad(yaw-90)) * c,
		math.Sin(mgl64.DegToRad(pitch)),
		math.Sin(mgl64.DegToRad(yaw-90)) * c,
	}
}

// Update advances the world by one tick. Trigger callbacks raised during the
// tick run after the model is unlocked.
func (m *Model) Update(dt float64) error {
	m.mu.Lock()
	err := m.update(dt)
	fired := m.takePending()
	m.mu.Unlock()

	for _, fn := range fired {
		fn()
	}
	return err
}

func (m *Model) update(dt float64) error {
	if m.robot == nil {
		return ErrNoRobot
	}
	m.tick++

	v := m.motionVector(dt)
	if !finite(v) {
		m.log.Warnf("dropping non-finite motion %v", v)
		v = mgl64.Vec3{}
	}
	if !withinReach(v, m.robot.dimensions) {
		return fmt.Errorf("tick %d motion %v: %w", m.tick, v, ErrMotionTooLarge)
	}
	if v != (mgl64.Vec3{}) {
		m.collide(v)
	} else {
		m.currentReward = 0
		m.currentFriction = 1
		m.collided = false
	}
	m.syncRobot()
	m.moveBoundingBoxes()
	m.moveDistractors()
	return nil
}

// Collide runs the resolver for a motion vector and commits the result. A
// motion longer than the sub-step limit allows is rejected with
// ErrMotionTooLarge and the robot does not move.
func (m *Model) Collide(v mgl64.Vec3) (bool, error) {
	m.mu.Lock()
	if m.robot == nil {
		m.mu.Unlock()
		return false, ErrNoRobot
	}
	if !withinReach(v, m.robot.dimensions) {
		m.mu.Unlock()
		return false, fmt.Errorf("motion %v: %w", v, ErrMotionTooLarge)
	}
	collided := m.collide(v)
	m.syncRobot()
	fired := m.takePending()
	m.mu.Unlock()

	for _, fn := range fired {
		fn()
	}
	return collided, nil
}

func (m *Model) takePending() []func() {
	fired := m.pending
	m.pending = nil
	return fired
}

// motionVector is the displacement requested by the control state for dt.
func (m *Model) motionVector(dt float64) mgl64.Vec3 {
	yaw := m.robotRotation[0]
	switch m.cfg.ControlMode {
	case ControlVelocity:
		return m.robotFrame(yaw, m.speedContinuous.Mul(dt))
	case ControlAcceleration:
		m.speedContinuous = m.speedContinuous.Add(m.acceleration.Mul(dt))
		if limit := m.cfg.MaxSpeed; limit > 0 {
			if l := m.speedContinuous.Len(); l > limit {
				m.speedContinuous = m.speedContinuous.Mul(limit / l)
			}
		}
		return m.robotFrame(yaw, m.speedContinuous.Mul(dt))
	}

	if m.strafe == [2]int{} {
		return mgl64.Vec3{}
	}
	strafe := mgl64.RadToDeg(math.Atan2(float64(m.strafe[0]), float64(m.strafe[1])))
	angle := mgl64.DegToRad(yaw + strafe)
	d := m.cfg.WalkingSpeed * dt * m.currentFriction
	return mgl64.Vec3{math.Cos(angle) * d, 0, math.Sin(angle) * d}
}

// robotFrame maps a (forward, right) displacement onto the ground plane.
func (m *Model) robotFrame(yaw float64, d mgl64.Vec2) mgl64.Vec3 {
	r := mgl64.DegToRad(yaw)
	forward := mgl64.Vec3{math.Sin(r), 0, -math.Cos(r)}
	right := mgl64.Vec3{math.Cos(r), 0, math.Sin(r)}
	return forward.Mul(d[0]).Add(right.Mul(d[1]))
}

// syncRobot rebuilds the robot block at the committed pose.
func (m *Model) syncRobot() {
	m.robot.setPose(m.robotPosition, mgl64.Vec3{0, -m.robotRotation[0], 0})
}

// Reset puts the robot back at a start pose without touching the blocks.
func (m *Model) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.robot == nil {
		return ErrNoRobot
	}

	pos := m.startPosition
	rot := m.startRotation
	if m.cfg.RandomStartPos && m.startAreas.len() > 0 {
		area := m.blocks[m.startAreas.ids[m.rng.IntN(m.startAreas.len())]]
		pos = m.sampleStart(area)
	}
	if m.cfg.RandomStartRot {
		rot[0] = -180 + 360*m.rng.Float64()
	}

	m.robotPosition = pos
	m.robotRotation = rot
	m.strafe = [2]int{}
	m.speedContinuous = mgl64.Vec2{}
	m.acceleration = mgl64.Vec2{}
	m.currentFriction = 1
	m.currentReward = 0
	m.collided = false
	m.syncRobot()
	m.log.Debugf("reset robot to %v yaw %.1f", pos, rot[0])
	return nil
}

// sampleStart draws a point strictly inside the footprint of area shrunk by
// the robot half extent. The height is the robot's start height.
func (m *Model) sampleStart(area *Block) mgl64.Vec3 {
	half := m.robot.dimensions.Mul(0.5)
	pos := m.startPosition
	for _, i := range []int{0, 2} {
		lo := area.position[i] - area.dimensions[i]/2 + half[i]
		hi := area.position[i] + area.dimensions[i]/2 - half[i]
		if hi <= lo {
			m.log.Warnf("start area %d is narrower than the robot on axis %d", area.id, i)
			pos[i] = area.position[i]
			continue
		}
		pos[i] = lo + (hi-lo)*m.openUnit()
	}
	return pos
}

// openUnit draws from (0,1).
func (m *Model) openUnit() float64 {
	for {
		if u := m.rng.Float64(); u > 0 {
			return u
		}
	}
}

func clampUnit(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
