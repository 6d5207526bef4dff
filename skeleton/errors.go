package skeleton

import (
	"errors"
	"fmt"
)

// Configuration errors, fatal at construction
var (
	ErrBoneNotFound       = errors.New("bone not found")
	ErrDuplicateModifier  = errors.New("bone already has a pose modifier")
	ErrMaskNotFound       = errors.New("bone mask not found")
	ErrInvalidDefinition  = errors.New("invalid skeleton definition")
	ErrDefinitionNotFound = errors.New("skeleton definition not found")
	ErrRegistryFrozen     = errors.New("skeleton registry is frozen")
)

// Topology errors, recoverable with no side effects
var (
	ErrAttachCycle      = errors.New("attachment would create a cycle")
	ErrInvalidBone      = errors.New("bone id out of range")
	ErrInvalidParent    = errors.New("invalid parent instance")
	ErrRenderOnlyParent = errors.New("logic instance cannot follow a render-only parent")
)

// Render bookkeeping errors
var ErrBatchFull = errors.New("draw batch capacity exceeded")

// Misuse kinds carried by MisuseError panics
var (
	ErrNotSeeded  = errors.New("bone resolved before the root frame was seeded")
	ErrRenderOnly = errors.New("logic query on a render-only instance")
)

// MisuseError is the panic value for programmer errors that would otherwise
// produce a plausible but wrong pose
type MisuseError struct {
	Image string
	Op    string
	Bone  int
	Err   error
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("skeleton %s: %s bone %d: %v", e.Image, e.Op, e.Bone, e.Err)
}

func (e *MisuseError) Unwrap() error { return e.Err }
