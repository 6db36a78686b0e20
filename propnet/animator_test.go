package propnet

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type indexSet map[int]bool

func (s indexSet) Add(index int)    { s[index] = true }
func (s indexSet) Remove(index int) { delete(s, index) }

// evaluate computes every component value from scratch given the driven
// proposition values.
func evaluate(t *testing.T, net *Network, driven map[int32]bool) []bool {
	order, err := net.order()
	require.NoError(t, err)

	values := make([]bool, len(net.Components))
	for _, id := range order {
		c := &net.Components[id]
		switch c.Kind {
		case KindProposition:
			if c.Driven() {
				values[id] = driven[id]
			} else {
				values[id] = values[c.Inputs[0]]
			}
		case KindTransition:
			values[id] = values[c.Inputs[0]]
		case KindNot:
			values[id] = !values[c.Inputs[0]]
		case KindAnd:
			values[id] = true
			for _, in := range c.Inputs {
				values[id] = values[id] && values[in]
			}
		case KindOr:
			for _, in := range c.Inputs {
				values[id] = values[id] || values[in]
			}
		case KindTrue:
			values[id] = true
		}
	}
	return values
}

// randomNetwork layers random gates over a handful of driven propositions.
func randomNetwork(t *testing.T, rng *rand.Rand) *Network {
	b := NewBuilder()
	role := b.Role("solo")

	refs := []Ref{}
	for i := 0; i < 6; i++ {
		refs = append(refs, b.Base(string(rune('a'+i))))
	}
	refs = append(refs, b.Input(role, "m0"), b.Input(role, "m1"), b.True(), b.False())

	pick := func() Ref { return refs[rng.Intn(len(refs))] }
	for i := 0; i < 60; i++ {
		var ref Ref
		switch rng.Intn(4) {
		case 0:
			ref = b.And(pick(), pick(), pick())
		case 1:
			ref = b.Or(pick(), pick())
		case 2:
			ref = b.Not(pick())
		case 3:
			ref = b.View("", pick())
		}
		refs = append(refs, ref)
	}

	b.Legal(role, "m0", pick())
	b.Legal(role, "m1", pick())
	for i := 0; i < 6; i++ {
		b.Next(Ref(i), pick())
	}
	b.Terminal(pick())

	net, err := b.Build()
	require.NoError(t, err)
	return net
}

func TestAnimatorPropagation(t *testing.T) {
	t.Run("incremental values match a from-scratch evaluation", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for trial := 0; trial < 20; trial++ {
			net := randomNetwork(t, rng)
			animator, err := NewAnimator(net)
			require.NoError(t, err)

			legal, next := indexSet{}, indexSet{}
			inst := animator.NewInstance(legal, next)

			driven := []int32{}
			for i := range net.Components {
				if net.Components[i].Driven() {
					driven = append(driven, int32(i))
				}
			}
			values := map[int32]bool{}

			for flip := 0; flip < 50; flip++ {
				id := driven[rng.Intn(len(driven))]
				values[id] = !values[id]
				inst.Set(id, values[id])

				want := evaluate(t, net, values)
				for i := range net.Components {
					require.Equal(t, want[i], inst.Value(int32(i)),
						"Component %d (%s) should match the oracle after flip %d", i, net.Components[i].Kind, flip)
				}
				for _, m := range net.Moves {
					require.Equal(t, want[m.Legal], legal[m.Index], "Legal notifier should track move %d", m.Index)
				}
				for b, tr := range net.Transitions {
					require.Equal(t, want[tr], next[b], "Next-state notifier should track base %d", b)
				}
			}
		}
	})

	t.Run("reset reaches equilibrium from the all-false baseline", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		net := randomNetwork(t, rng)
		animator, err := NewAnimator(net)
		require.NoError(t, err)

		inst := animator.NewInstance(nil, nil)
		want := evaluate(t, net, nil)
		for i := range net.Components {
			require.Equal(t, want[i], inst.Value(int32(i)), "Component %d should settle after reset", i)
		}
	})

	t.Run("setting an unchanged value does no work", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		net := randomNetwork(t, rng)
		animator, err := NewAnimator(net)
		require.NoError(t, err)
		inst := animator.NewInstance(nil, nil)

		base := net.Bases[0]
		inst.Set(base, true)
		before := inst.Propagations()
		snapshot := append([]uint32(nil), inst.state...)

		inst.Set(base, true)

		require.Equal(t, before, inst.Propagations(), "No propagation should happen for an unchanged input")
		require.Equal(t, snapshot, inst.state, "Evaluator state should be unchanged")
	})

	t.Run("setting a computed component panics", func(t *testing.T) {
		b := NewBuilder()
		base := b.Base("p")
		not := b.Not(base)
		net, err := b.Build()
		require.NoError(t, err)
		animator, err := NewAnimator(net)
		require.NoError(t, err)
		inst := animator.NewInstance(nil, nil)

		require.Panics(t, func() { inst.Set(int32(not), true) }, "Only driven propositions can be set")
	})
}

func TestAnimatorGates(t *testing.T) {
	b := NewBuilder()
	p := b.Base("p")
	q := b.Base("q")
	and := b.And(p, q)
	or := b.Or(p, q)
	not := b.Not(p)
	b.Next(p, not)
	net, err := b.Build()
	require.NoError(t, err)

	animator, err := NewAnimator(net)
	require.NoError(t, err)
	next := indexSet{}
	inst := animator.NewInstance(nil, next)

	cases := []struct {
		p, q          bool
		and, or, not bool
	}{
		{false, false, false, false, true},
		{true, false, false, true, false},
		{true, true, true, true, false},
		{false, true, false, true, true},
	}
	for _, c := range cases {
		inst.Set(int32(p), c.p)
		inst.Set(int32(q), c.q)
		require.Equal(t, c.and, inst.Value(int32(and)), "and(%v, %v)", c.p, c.q)
		require.Equal(t, c.or, inst.Value(int32(or)), "or(%v, %v)", c.p, c.q)
		require.Equal(t, c.not, inst.Value(int32(not)), "not(%v)", c.p)
		require.Equal(t, c.not, next[0], "Transition of p should follow not(p)")
		require.False(t, next[1], "Base q has no next rule and stays false")
	}
}
