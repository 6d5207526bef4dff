package skeleton

import (
	"fmt"
	"slices"
)

// SetParent re-roots this instance onto a bone of parent
// scaleOverride of 0 keeps the instance's own scale
// Fails without side effects when parent is this instance or one of its descendants
func (in *Instance) SetParent(parent *Instance, bone int, scaleOverride int64) error {
	if parent == nil {
		return fmt.Errorf("%w: nil parent for %s", ErrInvalidParent, in.def.image)
	}
	if !parent.def.valid(bone) {
		return fmt.Errorf("%w: %d in %s", ErrInvalidBone, bone, parent.def.image)
	}
	if parent == in || in.IsAncestorOf(parent) {
		return fmt.Errorf("%w: %s onto %s", ErrAttachCycle, in.def.image, parent.def.image)
	}
	if parent.renderOnly && !in.renderOnly {
		return fmt.Errorf("%w: %s onto %s", ErrRenderOnlyParent, in.def.image, parent.def.image)
	}

	in.ReleaseFromParent()

	in.parent = parent
	in.parentBone = bone
	in.scaleOverride = scaleOverride
	parent.children = append(parent.children, in)

	// Root frame now comes from the parent bone; drop anything resolved from the old seed
	in.seeded = false
	clear(in.resolved)
	return nil
}

// ReleaseFromParent detaches from the parent, keeping the last world root
// frame so the instance does not jump; no-op when unattached
func (in *Instance) ReleaseFromParent() {
	p := in.parent
	if p == nil {
		return
	}

	if !in.seeded && p.CanResolve() {
		in.seedFromParent()
	}

	if i := slices.Index(p.children, in); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	in.parent = nil
	in.parentBone = -1
	in.scaleOverride = 0
}

// CanResolve reports whether a logic bone query would succeed without panicking
func (in *Instance) CanResolve() bool {
	for p := in; p != nil; p = p.parent {
		if p.renderOnly {
			return false
		}
		if p.seeded {
			return true
		}
	}
	return false
}

// Parent returns the parent instance, or nil for a root
func (in *Instance) Parent() *Instance { return in.parent }

// ParentBone returns the bone id on the parent, -1 for a root
func (in *Instance) ParentBone() int { return in.parentBone }

// Children returns attached instances in attach order; callers must not modify it
func (in *Instance) Children() []*Instance { return in.children }

// IsRoot reports whether the instance has no parent
func (in *Instance) IsRoot() bool { return in.parent == nil }

// IsAncestorOf reports whether other is attached below this instance at any depth
func (in *Instance) IsAncestorOf(other *Instance) bool {
	if other == nil {
		return false
	}
	for p := other.parent; p != nil; p = p.parent {
		if p == in {
			return true
		}
	}
	return false
}

// TickLogic runs the logic phase for this tree: reset, advance the pose
// source, commit modifiers and seed roots; children seed lazily from their
// parent bone on first query. No-op on a non-root unless calledByParent
func (in *Instance) TickLogic(calledByParent bool) {
	if !calledByParent && in.parent != nil {
		return
	}

	in.ResetTick()
	if in.pose != nil {
		in.pose.Tick()
	}
	in.commitModifiers()

	if in.source != nil {
		frame := in.source.RootFrame()
		in.ownScale = frame.Scale
		if in.parent == nil {
			in.setRoot(frame)
		}
	}

	for _, c := range in.children {
		c.TickLogic(true)
	}
}

// FlushPoseForDrawing packs render transforms of this tree into the batch
// No-op on a non-root unless calledByParent; returns the first packing error
func (in *Instance) FlushPoseForDrawing(b *Batch, calledByParent bool) error {
	if !calledByParent && in.parent != nil {
		return nil
	}

	var firstErr error
	if in.valid && in.renderValid {
		off, err := b.Append(in.render)
		if err != nil {
			firstErr = fmt.Errorf("skeleton %s: %w", in.def.image, err)
		} else {
			in.drawFrame = b.Frame()
			in.drawSlot = off / 4
		}
	}

	for _, c := range in.children {
		if err := c.FlushPoseForDrawing(b, true); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// DrawToken returns the instance's slot in the batch for the batch's current
// frame, or InvalidDrawToken
func (in *Instance) DrawToken(b *Batch) int {
	if b == nil || !in.valid || !in.renderValid || b.Frame() == 0 || in.drawFrame != b.Frame() {
		return InvalidDrawToken
	}
	return in.drawSlot
}
