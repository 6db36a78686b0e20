package games

import (
	"fmt"

	"gamer/propnet"
)

// PuzzleSolution is the only winning move sequence of Puzzle.
var PuzzleSolution = []string{"left", "middle", "right"}

// Puzzle builds a single-player game of three plies with one winning line.
// Any other move loses at once.
func Puzzle() (*propnet.Network, error) {
	b := propnet.NewBuilder()
	solver := b.Role("solver")
	directions := []string{"left", "middle", "right"}

	at := make([]propnet.Ref, len(PuzzleSolution))
	for i := range at {
		at[i] = b.Base(fmt.Sprintf("(at %d)", i+1))
	}
	won := b.Base("won")
	lost := b.Base("lost")
	b.Init(at[0])

	does := make(map[string]propnet.Ref, len(directions))
	for _, d := range directions {
		does[d] = b.Input(solver, d)
	}

	done := b.Or(won, lost)
	for _, d := range directions {
		b.Legal(solver, d, b.Not(done))
	}
	b.Terminal(done)

	var wrong []propnet.Ref
	for i, step := range PuzzleSolution {
		right := b.And(at[i], does[step])
		if i+1 < len(at) {
			b.Next(at[i+1], right)
		} else {
			b.Next(won, b.Or(won, right))
		}
		for _, d := range directions {
			if d != step {
				wrong = append(wrong, b.And(at[i], does[d]))
			}
		}
	}
	b.Next(lost, b.Or(append(wrong, lost)...))

	b.Goal(solver, 100, won)
	b.Goal(solver, 0, b.Not(won))
	return b.Build()
}
