package games

import (
	"fmt"

	"gamer/propnet"
)

const maxTake = 3

// Nim builds a two-player single-heap game of n counters. Players alternate
// taking one to three counters and whoever takes the last one wins.
func Nim(n int) (*propnet.Network, error) {
	if n < 1 {
		return nil, fmt.Errorf("nim heap must hold at least one counter, got %d", n)
	}

	b := propnet.NewBuilder()
	roles := [2]int{b.Role("first"), b.Role("second")}

	heap := make([]propnet.Ref, n+1)
	for k := range heap {
		heap[k] = b.Base(fmt.Sprintf("(heap %d)", k))
	}
	control := b.Base("(control first)")
	b.Init(heap[n], control)
	b.Next(control, b.Not(control))

	var takes [2][maxTake + 1]propnet.Ref
	for p, role := range roles {
		for j := 1; j <= maxTake; j++ {
			takes[p][j] = b.Input(role, takeMove(j))
		}
		b.Input(role, "noop")
	}

	toMove := [2]propnet.Ref{control, b.Not(control)}
	for p, role := range roles {
		for j := 1; j <= maxTake && j <= n; j++ {
			b.Legal(role, takeMove(j), b.And(toMove[p], b.Or(heap[j:]...)))
		}
		b.Legal(role, "noop", toMove[1-p])
	}

	for k := 0; k < n; k++ {
		var from []propnet.Ref
		for j := 1; j <= maxTake && k+j <= n; j++ {
			from = append(from, b.And(heap[k+j], b.Or(takes[0][j], takes[1][j])))
		}
		b.Next(heap[k], b.Or(from...))
	}

	over := heap[0]
	b.Terminal(over)
	// The player to move at the end did not take the last counter.
	for p, role := range roles {
		b.Goal(role, 100, b.And(over, toMove[1-p]))
		b.Goal(role, 0, b.And(over, toMove[p]))
		b.Goal(role, 50, b.Not(over))
	}
	return b.Build()
}

func takeMove(j int) string {
	return fmt.Sprintf("(take %d)", j)
}
