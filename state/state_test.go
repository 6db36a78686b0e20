package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func stateOf(size int, indices ...int) *MachineState {
	s := New(size)
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

func TestMachineStateAlgebra(t *testing.T) {
	t.Run("merge, intersect and xor", func(t *testing.T) {
		a := stateOf(10, 1, 2, 3)
		b := stateOf(10, 3, 4)

		union := a.Clone()
		union.Merge(b)
		inter := a.Clone()
		inter.Intersect(b)
		diff := a.Clone()
		diff.Xor(b)

		require.True(t, union.Equal(stateOf(10, 1, 2, 3, 4)), "Merge should be the union")
		require.True(t, inter.Equal(stateOf(10, 3)), "Intersect should keep common bits")
		require.True(t, diff.Equal(stateOf(10, 1, 2, 4)), "Xor should keep differing bits")
		require.True(t, a.Equal(stateOf(10, 1, 2, 3)), "Clones should not alias the original")
	})

	t.Run("subset and overlap tests", func(t *testing.T) {
		a := stateOf(70, 1, 2, 65)

		require.True(t, a.ContainsAll(stateOf(70, 2, 65)), "A subset should be contained")
		require.False(t, a.ContainsAll(stateOf(70, 2, 3)), "A non-subset should not be contained")
		require.True(t, a.Intersects(stateOf(70, 65)), "Overlapping states intersect")
		require.Equal(t, 2, a.IntersectionSize(stateOf(70, 1, 65, 66)), "Intersection size counts common bits")
		require.Equal(t, 3, a.Size(), "Size counts true bases")
	})

	t.Run("distance", func(t *testing.T) {
		a := stateOf(10, 1, 2)
		b := stateOf(10, 2, 3)

		require.InDelta(t, 2.0/3.0, a.Distance(b), 1e-9, "Distance is xor over union")
		require.Zero(t, New(10).Distance(New(10)), "Empty states are at distance zero")
	})

	t.Run("hash and equality include the control flag", func(t *testing.T) {
		a := stateOf(10, 4)
		b := stateOf(10, 4)
		b.X = true

		require.False(t, a.Equal(b), "Control flag should distinguish states")
		require.NotEqual(t, a.Hash(), b.Hash(), "Control flag should change the hash")
		b.X = false
		require.Equal(t, a.Hash(), b.Hash(), "Equal states hash equally")
	})

	t.Run("copy overwrites", func(t *testing.T) {
		a := stateOf(10, 1)
		b := stateOf(10, 5, 6)
		b.X = true

		a.Copy(b)

		require.True(t, a.Equal(b), "Copy should make states equal")
		a.Remove(5)
		require.True(t, b.Contains(5), "Copy should not alias")
	})
}

func TestLayout(t *testing.T) {
	layout := NewLayout([]string{"(cell 1 x)", "(cell 1 o)", "(control x)"}, 2)

	t.Run("round trip through fact sets", func(t *testing.T) {
		s := stateOf(3, 0, 2)
		s.X = true

		got, err := layout.State(layout.Facts(s))

		require.NoError(t, err)
		require.True(t, s.Equal(got), "Fact set translation should round trip")
	})

	t.Run("unknown fact", func(t *testing.T) {
		_, err := layout.State([]string{"(cell 9 x)"})

		require.Error(t, err, "Unknown facts should be rejected")
	})
}
