package roundbot

import (
	"errors"
	"fmt"
)

var (
	ErrImmutableBlock     = errors.New("block is not movable")
	ErrInvalidFriction    = errors.New("friction must be in (0,1]")
	ErrUnknownBlockType   = errors.New("unknown block type")
	ErrUnknownBlock       = errors.New("unknown block")
	ErrNoRobot            = errors.New("model has no robot block")
	ErrDuplicateRobot     = errors.New("model already has a robot block")
	ErrInvalidComponents  = errors.New("invalid block components")
	ErrInvalidConfig      = errors.New("invalid config")
	ErrMissingBoundingBox = errors.New("distractor needs a bounding box")
	ErrMotionTooLarge     = errors.New("motion exceeds the sub-step limit")
)

// ImmutableBlockError is returned when a pose change is requested on a block
// built without the movable flag.
type ImmutableBlockError struct {
	Block BlockId
	Op    string
}

func (e *ImmutableBlockError) Error() string {
	return fmt.Sprintf("%s on block %d: %v", e.Op, e.Block, ErrImmutableBlock)
}

func (e *ImmutableBlockError) Is(target error) bool { return target == ErrImmutableBlock }

type InvalidFrictionError struct {
	Friction float64
}

func (e *InvalidFrictionError) Error() string {
	return fmt.Sprintf("friction %g: %v", e.Friction, ErrInvalidFriction)
}

func (e *InvalidFrictionError) Is(target error) bool { return target == ErrInvalidFriction }

type UnknownBlockTypeError struct {
	Type string
}

func (e *UnknownBlockTypeError) Error() string {
	return fmt.Sprintf("%v %q", ErrUnknownBlockType, e.Type)
}

func (e *UnknownBlockTypeError) Is(target error) bool { return target == ErrUnknownBlockType }
