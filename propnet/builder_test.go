package propnet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	t.Run("building a small game", func(t *testing.T) {
		b := NewBuilder()
		white := b.Role("white")
		lit := b.Base("lit")
		press := b.Input(white, "press")
		b.Next(lit, b.Or(lit, press))
		b.Legal(white, "press", b.Not(lit), InFactor(0))
		b.Legal(white, "wait", lit, AsPseudoNoOp())
		b.Input(white, "wait")
		b.Goal(white, 100, lit)
		b.Goal(white, 0, b.Not(lit))
		b.Terminal(lit)

		net, err := b.Build()

		require.NoError(t, err)
		require.Equal(t, []string{"white"}, net.Roles, "Roles should be recorded in order")
		require.Equal(t, []string{"lit"}, net.BaseLabels(), "Bases should be recorded in order")
		require.Len(t, net.Moves, 2, "Both legal moves should be recorded")
		require.Equal(t, int32(press), net.Moves[0].Input, "Legal move should be tied to its input")
		require.Equal(t, 0, net.Moves[0].Factor, "Factor tag should be kept")
		require.True(t, net.Moves[1].PseudoNoOp, "Pseudo no-op tag should be kept")
		require.Equal(t, 1, net.Factors, "Factor count should follow the highest tag")
		require.Equal(t, KindTransition, net.Components[net.Transitions[0]].Kind, "Each base should have a transition")
		require.Len(t, net.Goals, 2, "Goals should be recorded")
		require.Equal(t, "terminal", net.Components[net.Terminal].Label, "Terminal view should be labelled")
		require.Contains(t, net.Components[press].Outputs, net.Components[net.Transitions[0]].Inputs[0],
			"Fan-out should be derived from inputs")
	})

	t.Run("legal move without an input proposition", func(t *testing.T) {
		b := NewBuilder()
		r := b.Role("r")
		b.Legal(r, "jump", b.True())

		_, err := b.Build()

		require.ErrorIs(t, err, ErrMissingInput, "Build should reject a legal move that cannot be played")
	})

	t.Run("unknown role", func(t *testing.T) {
		b := NewBuilder()
		b.Input(3, "move")

		_, err := b.Build()

		require.ErrorIs(t, err, ErrUnknownRole, "Build should report the first invalid call")
	})

	t.Run("next rule on a non-base component", func(t *testing.T) {
		b := NewBuilder()
		p := b.Base("p")
		b.Next(b.Not(p), p)

		_, err := b.Build()

		require.ErrorIs(t, err, ErrBadReference, "Only bases take next rules")
	})

	t.Run("cycle that does not pass through a transition", func(t *testing.T) {
		b := NewBuilder()
		p := b.Base("p")
		or := b.Or(p)
		and := b.And(or)
		// Close the loop by hand since the builder only references earlier components.
		b.net.Components[or].Inputs = append(b.net.Components[or].Inputs, int32(and))

		_, err := b.Build()

		require.ErrorIs(t, err, ErrCycle, "Build should reject combinational loops")
	})

	t.Run("base without a next rule", func(t *testing.T) {
		b := NewBuilder()
		b.Base("p")

		net, err := b.Build()

		require.NoError(t, err)
		feed := net.Components[net.Transitions[0]].Inputs[0]
		require.Equal(t, KindFalse, net.Components[feed].Kind, "Transition should be fed by a false constant")
	})
}

func TestSpecialize(t *testing.T) {
	b := NewBuilder()
	p := b.Base("control")
	b.Next(p, b.Not(p))
	net, err := b.Build()
	require.NoError(t, err)

	x := net.Specialize(0, true)

	require.Equal(t, KindTrue, x.Components[p].Kind, "Base should become a constant in the copy")
	require.Equal(t, KindProposition, net.Components[p].Kind, "Original network should be unchanged")
	require.Equal(t, net.Size(), x.Size(), "Component ids should be stable")
}

const circuitYAML = `
roles: [robot]
bases: [a, b]
init: [a]
inputs:
  - {role: robot, move: step}
gates:
  - {name: notb, op: not, in: [b]}
  - {name: both, op: and, in: [a, b]}
  - {name: moved, op: or, in: [b, "robot:step"]}
next:
  - {base: a, when: a}
  - {base: b, when: moved}
legal:
  - {role: robot, move: step, when: notb}
goals:
  - {role: robot, value: 100, when: both}
terminal: both
`

func TestLoadYAML(t *testing.T) {
	t.Run("loading a circuit file", func(t *testing.T) {
		net, err := LoadYAML(strings.NewReader(circuitYAML))

		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, net.BaseLabels(), "Bases should keep file order")
		require.Equal(t, []int{0}, net.Initial, "Initial bases should be resolved")
		require.Len(t, net.Moves, 1, "Legal move should be loaded")
		require.Equal(t, "step", net.Moves[0].Move, "Legal move should be named")

		animator, err := NewAnimator(net)
		require.NoError(t, err)
		inst := animator.NewInstance(nil, nil)
		inst.Set(net.Bases[0], true)
		inst.Set(net.Moves[0].Input, true)
		require.True(t, inst.Value(net.Transitions[1]), "Stepping should set b on the next turn")
	})

	t.Run("undefined reference", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader("roles: [r]\nbases: [a]\nterminal: nowhere\n"))

		require.ErrorIs(t, err, ErrBadReference, "Names must be defined before use")
	})

	t.Run("unknown gate", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader("bases: [a]\ngates:\n  - {name: g, op: xor, in: [a]}\n"))

		require.ErrorIs(t, err, ErrUnknownComponent, "Unknown gate operations should be rejected")
	})
}
