package state

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"
)

// MachineState is the set of true base propositions, indexed by base index.
// X carries the polarity of the control base when one was detected.
type MachineState struct {
	bits *bitset.BitSet
	X    bool
}

func New(size int) *MachineState {
	return &MachineState{bits: bitset.New(uint(size))}
}

// Add and Remove make a MachineState usable as a propagation notifier.
func (s *MachineState) Add(index int) {
	s.bits.Set(uint(index))
}

func (s *MachineState) Remove(index int) {
	s.bits.Clear(uint(index))
}

func (s *MachineState) Contains(index int) bool {
	return s.bits.Test(uint(index))
}

// Size is the number of true base propositions.
func (s *MachineState) Size() int {
	return int(s.bits.Count())
}

func (s *MachineState) Merge(other *MachineState) {
	s.bits.InPlaceUnion(other.bits)
}

func (s *MachineState) Intersect(other *MachineState) {
	s.bits.InPlaceIntersection(other.bits)
}

func (s *MachineState) Xor(other *MachineState) {
	s.bits.InPlaceSymmetricDifference(other.bits)
}

// ContainsAll reports whether other is a subset of s.
func (s *MachineState) ContainsAll(other *MachineState) bool {
	return s.bits.IsSuperSet(other.bits)
}

func (s *MachineState) Intersects(other *MachineState) bool {
	return s.bits.IntersectionCardinality(other.bits) > 0
}

func (s *MachineState) IntersectionSize(other *MachineState) int {
	return int(s.bits.IntersectionCardinality(other.bits))
}

// Distance is |s xor other| / |s or other|, zero for two empty states.
func (s *MachineState) Distance(other *MachineState) float64 {
	union := s.bits.UnionCardinality(other.bits)
	if union == 0 {
		return 0
	}
	return float64(s.bits.SymmetricDifferenceCardinality(other.bits)) / float64(union)
}

// Copy overwrites s with the contents of other.
func (s *MachineState) Copy(other *MachineState) {
	other.bits.CopyFull(s.bits)
	s.X = other.X
}

func (s *MachineState) Clone() *MachineState {
	return &MachineState{bits: s.bits.Clone(), X: s.X}
}

func (s *MachineState) Equal(other *MachineState) bool {
	return s.X == other.X && s.bits.SymmetricDifferenceCardinality(other.bits) == 0
}

func (s *MachineState) Clear() {
	s.bits.ClearAll()
	s.X = false
}

// Each calls fn with every true base index in ascending order.
func (s *MachineState) Each(fn func(index int)) {
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		fn(int(i))
	}
}

// Hash keys the transposition table. Equal states hash equally regardless
// of the capacity of their underlying bitsets.
func (s *MachineState) Hash() uint64 {
	d := xxhash.New()
	var buf [8]byte
	s.Each(func(index int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(index))
		_, _ = d.Write(buf[:])
	})
	if s.X {
		_, _ = d.Write([]byte{1})
	}
	return d.Sum64()
}

func (s *MachineState) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	s.Each(func(index int) {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&b, "%d", index)
	})
	b.WriteByte('}')
	if s.X {
		b.WriteString("x")
	}
	return b.String()
}
