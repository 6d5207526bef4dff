package syncreport

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/lixenwraith/vi-rig/vmath"
)

// Hasher digests raw fixed-point bits; input order is part of the result
type Hasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

// NewHasher creates an empty digest
func NewHasher() *Hasher {
	return &Hasher{d: xxhash.New()}
}

// Reset clears the digest for the next tick
func (h *Hasher) Reset() { h.d.Reset() }

func (h *Hasher) Int(v int64) {
	binary.LittleEndian.PutUint64(h.buf[:], uint64(v))
	_, _ = h.d.Write(h.buf[:])
}

func (h *Hasher) Vec3(v vmath.Vec3) {
	h.Int(v.X)
	h.Int(v.Y)
	h.Int(v.Z)
}

// Transform hashes position, rotation and scale
func (h *Hasher) Transform(t vmath.Transform) {
	h.Vec3(t.Pos)
	for _, v := range t.Rot {
		h.Int(v)
	}
	h.Int(t.Scale)
}

// Sum returns the digest
func (h *Hasher) Sum() uint64 { return h.d.Sum64() }
