package skeleton

import "github.com/go-gl/mathgl/mgl32"

// floatsPerBone packs the top three rows of an affine matrix
const floatsPerBone = 12

// Batch is the per-frame buffer instances pack their render transforms into
// Offsets are in floats; draw tokens are offsets in 4-float texels
type Batch struct {
	data      []float32
	used      int
	frame     uint64
	instances int
}

// NewBatch creates a batch holding up to capacity floats
func NewBatch(capacity int) *Batch {
	return &Batch{data: make([]float32, capacity)}
}

// Begin starts a new frame, invalidating tokens from earlier frames
func (b *Batch) Begin() {
	b.frame++
	b.used = 0
	b.instances = 0
}

// Frame returns the current frame number, 0 before the first Begin
func (b *Batch) Frame() uint64 { return b.frame }

// Instances returns how many instances were packed this frame
func (b *Batch) Instances() int { return b.instances }

// Append packs matrices and returns their float offset
func (b *Batch) Append(mats []mgl32.Mat4) (int, error) {
	need := len(mats) * floatsPerBone
	if b.used+need > len(b.data) {
		return 0, ErrBatchFull
	}

	off := b.used
	o := off
	for _, m := range mats {
		for r := 0; r < 3; r++ {
			row := m.Row(r)
			copy(b.data[o:o+4], row[:])
			o += 4
		}
	}
	b.used = o
	b.instances++
	return off, nil
}

// Data returns the packed floats of the current frame
func (b *Batch) Data() []float32 { return b.data[:b.used] }
