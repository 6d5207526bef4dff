package skeleton

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/vi-rig/vmath"
)

// BoneDef describes one bone as authored; Parent is empty for root bones
type BoneDef struct {
	Name   string
	Parent string
	Rest   vmath.Transform
}

// Mask selects a subset of bones, indexed by bone id
type Mask []bool

// Has reports whether the bone is in the mask
func (m Mask) Has(id int) bool {
	return id >= 0 && id < len(m) && m[id]
}

// Definition is the immutable bone table shared by every instance of a unit image
// Bone ids are dense and every parent id is strictly smaller than its child's
type Definition struct {
	image   string
	names   []string
	parents []int
	rest    []vmath.Transform
	index   map[string]int
	masks   map[string]Mask
}

// NewDefinition validates bones in authored order and assigns ids by position
func NewDefinition(image string, bones []BoneDef, masks map[string][]string) (*Definition, error) {
	if len(bones) == 0 {
		return nil, fmt.Errorf("%w: %s has no bones", ErrInvalidDefinition, image)
	}

	d := &Definition{
		image:   image,
		names:   make([]string, len(bones)),
		parents: make([]int, len(bones)),
		rest:    make([]vmath.Transform, len(bones)),
		index:   make(map[string]int, len(bones)),
		masks:   make(map[string]Mask, len(masks)),
	}

	for i, b := range bones {
		if b.Name == "" {
			return nil, fmt.Errorf("%w: %s bone %d has no name", ErrInvalidDefinition, image, i)
		}
		if _, dup := d.index[b.Name]; dup {
			return nil, fmt.Errorf("%w: %s duplicate bone %q", ErrInvalidDefinition, image, b.Name)
		}

		parent := -1
		if b.Parent != "" {
			p, ok := d.index[b.Parent]
			if !ok {
				// Unknown or later bone: either way the table would not be topologically sorted
				return nil, fmt.Errorf("%w: %s bone %q parent %q must precede it", ErrInvalidDefinition, image, b.Name, b.Parent)
			}
			parent = p
		} else if i != 0 {
			return nil, fmt.Errorf("%w: %s bone %q has no parent, only bone 0 may be the root", ErrInvalidDefinition, image, b.Name)
		}

		rest := b.Rest
		if rest.Scale == 0 {
			rest.Scale = vmath.Scale
		}
		if rest.Rot == (vmath.Mat3{}) {
			rest.Rot = vmath.Identity3()
		}

		d.names[i] = b.Name
		d.parents[i] = parent
		d.rest[i] = rest
		d.index[b.Name] = i
	}

	for name, boneNames := range masks {
		m := make(Mask, len(bones))
		for _, bn := range boneNames {
			id, ok := d.index[bn]
			if !ok {
				return nil, fmt.Errorf("%w: %s mask %q references %q", ErrBoneNotFound, image, name, bn)
			}
			m[id] = true
		}
		d.masks[name] = m
	}

	return d, nil
}

// Image returns the unit image name the table belongs to
func (d *Definition) Image() string { return d.image }

// BoneCount returns number of bones
func (d *Definition) BoneCount() int { return len(d.names) }

// BoneID resolves a bone name
func (d *Definition) BoneID(name string) (int, error) {
	id, ok := d.index[name]
	if !ok {
		return -1, fmt.Errorf("%w: %q in %s", ErrBoneNotFound, name, d.image)
	}
	return id, nil
}

// Name returns the bone's name
func (d *Definition) Name(id int) string { return d.names[id] }

// Parent returns the parent bone id, -1 for the root
func (d *Definition) Parent(id int) int { return d.parents[id] }

// Rest returns the rest pose relative to the parent bone
func (d *Definition) Rest(id int) vmath.Transform { return d.rest[id] }

// Mask returns a named bone mask
func (d *Definition) Mask(name string) (Mask, error) {
	m, ok := d.masks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrMaskNotFound, name, d.image)
	}
	return m, nil
}

// MaskNames returns mask names in sorted order
func (d *Definition) MaskNames() []string {
	names := make([]string, 0, len(d.masks))
	for n := range d.masks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (d *Definition) valid(id int) bool {
	return id >= 0 && id < len(d.names)
}
