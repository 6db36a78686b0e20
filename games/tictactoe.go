package games

import (
	"fmt"

	"gamer/propnet"
)

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// TicTacToe builds the classic game for roles xplayer and oplayer. The
// turn is carried by a single control base that flips every ply.
func TicTacToe() (*propnet.Network, error) {
	b := propnet.NewBuilder()
	roles := [2]int{b.Role("xplayer"), b.Role("oplayer")}
	marks := [2]string{"x", "o"}

	var cells [2][9]propnet.Ref
	for p := range marks {
		for i := 0; i < 9; i++ {
			cells[p][i] = b.Base(fmt.Sprintf("(cell %d %d %s)", i/3+1, i%3+1, marks[p]))
		}
	}
	control := b.Base("(control xplayer)")
	b.Init(control)
	b.Next(control, b.Not(control))

	var marksPlayed [2][9]propnet.Ref
	var noops [2]propnet.Ref
	for p, role := range roles {
		for i := 0; i < 9; i++ {
			marksPlayed[p][i] = b.Input(role, markMove(i))
		}
		noops[p] = b.Input(role, "noop")
	}

	var blank [9]propnet.Ref
	for i := range blank {
		blank[i] = b.Not(b.Or(cells[0][i], cells[1][i]))
	}

	var line [2]propnet.Ref
	for p := range marks {
		ors := make([]propnet.Ref, 0, len(lines))
		for _, l := range lines {
			ors = append(ors, b.And(cells[p][l[0]], cells[p][l[1]], cells[p][l[2]]))
		}
		line[p] = b.Or(ors...)
	}
	open := b.Or(blank[:]...)
	b.Terminal(b.Or(line[0], line[1], b.Not(open)))

	toMove := [2]propnet.Ref{control, b.Not(control)}
	for p, role := range roles {
		for i := 0; i < 9; i++ {
			b.Legal(role, markMove(i), b.And(toMove[p], blank[i]))
			b.Next(cells[p][i], b.Or(cells[p][i], marksPlayed[p][i]))
		}
		b.Legal(role, "noop", toMove[1-p])
	}

	win := [2]propnet.Ref{
		b.And(line[0], b.Not(line[1])),
		b.And(line[1], b.Not(line[0])),
	}
	draw := b.Not(b.Or(win[0], win[1]))
	for p, role := range roles {
		b.Goal(role, 100, win[p])
		b.Goal(role, 0, win[1-p])
		b.Goal(role, 50, draw)
	}
	return b.Build()
}

func markMove(cell int) string {
	return fmt.Sprintf("(mark %d %d)", cell/3+1, cell%3+1)
}
