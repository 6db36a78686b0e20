package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gamer/games"
	"gamer/propnet"
	"gamer/state"
)

func newTicTacToe(t *testing.T, options ...Option) *Machine {
	net, err := games.TicTacToe()
	require.NoError(t, err)
	m, err := New(net, options...)
	require.NoError(t, err)
	return m
}

func moveByLabel(t *testing.T, moves []*MoveInfo, label string) *MoveInfo {
	for _, m := range moves {
		if m.Label == label {
			return m
		}
	}
	require.Failf(t, "missing move", "no legal move %q", label)
	return nil
}

// play applies x and o marks alternately, starting with x.
func play(t *testing.T, m *Machine, cells ...string) *state.MachineState {
	s := m.InitialState()
	for i, cell := range cells {
		mover, other := i%2, 1-i%2
		joint := make([]*MoveInfo, 2)
		joint[mover] = moveByLabel(t, m.LegalMoves(s, mover), cell)
		joint[other] = moveByLabel(t, m.LegalMoves(s, other), "noop")
		s = m.NextState(s, joint)
	}
	return s
}

func TestTicTacToe(t *testing.T) {
	for _, split := range []bool{true, false} {
		m := newTicTacToe(t, WithControlSplit(split))

		t.Run("legal moves from the empty board", func(t *testing.T) {
			s := m.InitialState()

			require.Len(t, m.LegalMoves(s, 0), 9, "First role should have nine marks")
			require.Len(t, m.LegalMoves(s, 1), 1, "Second role should only wait")
			require.False(t, m.IsTerminal(s), "Empty board is not terminal")
		})

		t.Run("completed line", func(t *testing.T) {
			s := play(t, m, "(mark 1 1)", "(mark 2 1)", "(mark 1 2)", "(mark 2 2)", "(mark 1 3)")

			require.True(t, m.IsTerminal(s), "A completed row ends the game")
			x, err := m.Goal(s, 0)
			require.NoError(t, err)
			o, err := m.Goal(s, 1)
			require.NoError(t, err)
			require.Equal(t, 100, x, "Winner scores 100")
			require.Equal(t, 0, o, "Loser scores 0")
			require.Equal(t, 100, x+o, "Goals are zero-sum")
		})

		t.Run("draw", func(t *testing.T) {
			s := play(t, m,
				"(mark 1 1)", "(mark 1 2)", "(mark 1 3)",
				"(mark 2 2)", "(mark 2 1)", "(mark 2 3)",
				"(mark 3 2)", "(mark 3 1)", "(mark 3 3)")

			require.True(t, m.IsTerminal(s), "A full board ends the game")
			x, err := m.Goal(s, 0)
			require.NoError(t, err)
			o, err := m.Goal(s, 1)
			require.NoError(t, err)
			require.Equal(t, 50, x, "Draw scores 50")
			require.Equal(t, 50, o, "Draw scores 50")
		})
	}

	t.Run("control base detection", func(t *testing.T) {
		m := newTicTacToe(t)
		require.Equal(t, m.Network().BaseIndex("(control xplayer)"), m.Control(), "Alternating base should be detected")

		s := play(t, m, "(mark 2 2)")
		require.False(t, s.X, "Control polarity flips after a ply")
	})
}

func TestMachineStates(t *testing.T) {
	t.Run("fact set round trip", func(t *testing.T) {
		m := newTicTacToe(t)
		s := play(t, m, "(mark 1 1)", "(mark 3 3)", "(mark 2 1)")

		got, err := m.CreateInternalState(m.FactSet(s))

		require.NoError(t, err)
		require.True(t, s.Equal(got), "Translating through facts should round trip")
	})

	t.Run("setting the same state twice does no work", func(t *testing.T) {
		m := newTicTacToe(t)
		s := play(t, m, "(mark 1 1)", "(mark 3 3)")
		m.LegalMoves(s, 0)
		before := m.Propagations()

		m.LegalMoves(s, 0)
		m.IsTerminal(s)

		require.Equal(t, before, m.Propagations(), "Re-asserting an unchanged state should not propagate")
	})

	t.Run("next state does not leak move inputs", func(t *testing.T) {
		m := newTicTacToe(t)
		s := m.InitialState()
		first := m.NextState(s, []*MoveInfo{moveByLabel(t, m.LegalMoves(s, 0), "(mark 1 1)"), moveByLabel(t, m.LegalMoves(s, 1), "noop")})
		second := m.NextState(s, []*MoveInfo{moveByLabel(t, m.LegalMoves(s, 0), "(mark 2 2)"), moveByLabel(t, m.LegalMoves(s, 1), "noop")})

		require.False(t, first.Equal(second), "Different moves should lead to different states")
		require.Equal(t, 1, second.IntersectionSize(mustState(t, m, "(cell 2 2 x)")), "Second move should be applied")
		require.Zero(t, second.IntersectionSize(mustState(t, m, "(cell 1 1 x)")), "First move should have been retracted")
	})

	t.Run("both lines complete", func(t *testing.T) {
		m := newTicTacToe(t)
		s, err := m.CreateInternalState([]string{"(cell 1 1 x)", "(cell 1 2 x)", "(cell 1 3 x)", "(cell 2 1 o)", "(cell 2 2 o)", "(cell 2 3 o)"})
		require.NoError(t, err)

		x, err := m.Goal(s, 0)

		require.NoError(t, err, "Exactly one goal holds even when both lines are complete")
		require.Equal(t, 50, x, "Neither side wins when both lines are complete")
	})

	t.Run("undefined goal", func(t *testing.T) {
		b := propnet.NewBuilder()
		r := b.Role("solo")
		p := b.Base("p")
		b.Goal(r, 100, p)
		b.Goal(r, 0, p)
		net, err := b.Build()
		require.NoError(t, err)
		m, err := New(net)
		require.NoError(t, err)

		_, err = m.Goal(m.InitialState(), 0)
		require.ErrorIs(t, err, ErrGoalUndefined, "No true goal is undefined")

		_, err = m.Goal(mustState(t, m, "p"), 0)
		require.ErrorIs(t, err, ErrGoalUndefined, "Two true goals are undefined")
	})

	t.Run("factored terminality", func(t *testing.T) {
		b := propnet.NewBuilder()
		x := b.Role("x")
		o := b.Role("o")
		done := b.Base("done")
		blocked := b.Base("blocked")
		b.Input(x, "a")
		b.Input(x, "b")
		b.Input(o, "noop")
		b.Legal(x, "a", b.Not(done), propnet.InFactor(0))
		b.Legal(x, "b", b.And(b.Not(done), b.Not(blocked)), propnet.InFactor(1))
		b.Legal(o, "noop", b.True())
		b.Next(done, b.True())
		b.Next(blocked, blocked)
		b.Goal(x, 100, done)
		b.Goal(x, 0, b.Not(done))
		b.Goal(o, 0, done)
		b.Goal(o, 100, b.Not(done))
		b.Terminal(done)
		net, err := b.Build()
		require.NoError(t, err)
		require.Equal(t, 2, net.Factors)
		m, err := New(net)
		require.NoError(t, err)

		s := m.InitialState()
		require.Len(t, m.LegalMoves(s, 0), 2)
		require.Len(t, m.LegalMoves(s, 1), 1)
		require.False(t, m.IsTerminal(s), "An untagged move should count in every factor")
		require.True(t, m.IsTerminal(mustState(t, m, "blocked")), "A factor without a legal move ends the game")
		require.True(t, m.IsTerminal(mustState(t, m, "done")), "The terminal proposition ends the game")
	})
}

func mustState(t *testing.T, m *Machine, facts ...string) *state.MachineState {
	s, err := m.CreateInternalState(facts)
	require.NoError(t, err)
	return s
}

func TestInstances(t *testing.T) {
	t.Run("instances are bounded", func(t *testing.T) {
		m := newTicTacToe(t, WithMaxInstances(2))

		other, err := m.CreateInstance()
		require.NoError(t, err)
		require.NotEqual(t, m.ID(), other.ID(), "Instances should have distinct ids")

		_, err = m.CreateInstance()
		require.ErrorIs(t, err, ErrTooManyInstances, "A third instance exceeds the maximum")
	})

	t.Run("instances evaluate independently", func(t *testing.T) {
		m := newTicTacToe(t)
		other, err := m.CreateInstance()
		require.NoError(t, err)

		s := play(t, m, "(mark 1 1)")
		require.Len(t, other.LegalMoves(other.InitialState(), 0), 9, "Other instance should be unaffected")
		require.Len(t, m.LegalMoves(s, 1), 8, "Original instance should see its own state")
	})
}

func TestDepthCharge(t *testing.T) {
	t.Run("depth charges reach terminal states", func(t *testing.T) {
		m := newTicTacToe(t, WithSeed(42))
		var stats RolloutStats

		for i := 0; i < 50; i++ {
			final := m.DepthCharge(m.InitialState(), nil, &stats)
			require.True(t, m.IsTerminal(final), "Depth charge should end in a terminal state")
			score := m.DepthChargeResult(m.InitialState(), 0, nil, &stats)
			require.Contains(t, []int{0, 50, 100}, score, "Tic-tac-toe net scores are win, draw or loss")
		}
		require.Equal(t, 100, stats.Samples, "Every depth charge should be counted")
		require.GreaterOrEqual(t, stats.AverageDepth(), 5.0, "Tic-tac-toe lasts at least five plies")
		require.False(t, stats.Simultaneous, "Tic-tac-toe is not simultaneous")
	})

	t.Run("greedy rollouts take immediate wins", func(t *testing.T) {
		m := newTicTacToe(t, WithGreedyRollouts(true))
		// x to move with two in the top row and o unable to stop it this ply.
		s := play(t, m, "(mark 1 1)", "(mark 3 3)", "(mark 1 2)", "(mark 3 1)")

		for i := 0; i < 20; i++ {
			require.Equal(t, 100, m.DepthChargeResult(s, 0, nil, nil), "x should always complete the row")
		}
	})

	t.Run("weights learn from rollouts", func(t *testing.T) {
		m := newTicTacToe(t)
		weights := NewMoveWeights(len(m.Moves()))

		for i := 0; i < 20; i++ {
			m.DepthChargeResult(m.InitialState(), 0, weights, nil)
		}

		require.Equal(t, 21, weights.Samples(), "Every rollout should be folded in")
	})
}

func TestNetScore(t *testing.T) {
	m := newTicTacToe(t)
	won := play(t, m, "(mark 1 1)", "(mark 2 1)", "(mark 1 2)", "(mark 2 2)", "(mark 1 3)")

	require.Equal(t, 100, m.NetScore(won, 0), "Winner nets 100")
	require.Equal(t, 0, m.NetScore(won, 1), "Loser nets 0")

	m.SetScoreRange(0, 50)
	require.Equal(t, 100, m.NetScore(won, 0), "Normalised scores are clamped")

	t.Run("characterisation", func(t *testing.T) {
		m := newTicTacToe(t)
		c, err := m.Characterize(context.Background(), 0, 100)

		require.NoError(t, err)
		require.Equal(t, 100, c.Samples, "All samples should run")
		require.Equal(t, 0, c.MinRaw, "Random play loses sometimes")
		require.Equal(t, 100, c.MaxRaw, "Random play wins sometimes")
		require.False(t, c.Puzzle, "Two-role games are not puzzles")
		require.GreaterOrEqual(t, c.Control, 0, "Control base should be reported")
	})

	t.Run("cancelled characterisation", func(t *testing.T) {
		m := newTicTacToe(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := m.Characterize(ctx, 0, 10)

		require.ErrorIs(t, err, context.Canceled, "A cancelled context yields no samples")
	})
}
