package games

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gamer/statemachine"
)

func TestByName(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			net, err := ByName(name)
			require.NoError(t, err)
			require.NotEmpty(t, net.Roles, "Every game has a role")
		})
	}

	t.Run("nim heap size", func(t *testing.T) {
		net, err := ByName("nim-11")
		require.NoError(t, err)
		require.GreaterOrEqual(t, net.BaseIndex("(heap 11)"), 0, "The heap should start at eleven")
	})

	t.Run("bad nim heap", func(t *testing.T) {
		_, err := ByName("nim-x")
		require.Error(t, err)
		_, err = ByName("nim-0")
		require.Error(t, err)
	})

	t.Run("circuit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "solo.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
roles: [solo]
bases: [done]
inputs:
  - {role: solo, move: go}
gates:
  - {name: always, op: "true"}
next:
  - {base: done, when: "solo:go"}
legal:
  - {role: solo, move: go, when: always}
goals:
  - {role: solo, value: 100, when: done}
terminal: done
`), 0o644))

		net, err := ByName(path)

		require.NoError(t, err)
		require.Equal(t, []string{"solo"}, net.Roles)
	})

	t.Run("unknown game", func(t *testing.T) {
		_, err := ByName("chess")
		require.Error(t, err)
	})
}

func TestNim(t *testing.T) {
	net, err := Nim(3)
	require.NoError(t, err)
	sm, err := statemachine.New(net)
	require.NoError(t, err)

	s := sm.InitialState()
	require.Len(t, sm.LegalMoves(s, 0), 3, "First player may take one to three")
	require.Len(t, sm.LegalMoves(s, 1), 1, "Second player waits")

	var take3, noop *statemachine.MoveInfo
	for _, m := range sm.LegalMoves(s, 0) {
		if m.Label == "(take 3)" {
			take3 = m
		}
	}
	noop = sm.LegalMoves(s, 1)[0]
	s = sm.NextState(s, []*statemachine.MoveInfo{take3, noop})

	require.True(t, sm.IsTerminal(s), "Taking the whole heap ends the game")
	goal, err := sm.Goal(s, 0)
	require.NoError(t, err)
	require.Equal(t, 100, goal, "Taking the last counter wins")
}

func TestPuzzle(t *testing.T) {
	net, err := Puzzle()
	require.NoError(t, err)
	sm, err := statemachine.New(net)
	require.NoError(t, err)

	s := sm.InitialState()
	for _, step := range PuzzleSolution {
		require.False(t, sm.IsTerminal(s))
		for _, m := range sm.LegalMoves(s, 0) {
			if m.Label == step {
				s = sm.NextState(s, []*statemachine.MoveInfo{m})
			}
		}
	}

	require.True(t, sm.IsTerminal(s), "The solution ends the puzzle")
	goal, err := sm.Goal(s, 0)
	require.NoError(t, err)
	require.Equal(t, 100, goal, "The solution wins")
}
