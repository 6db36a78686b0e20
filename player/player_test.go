package player

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"gamer/config"
	"gamer/games"
	"gamer/metrics"
	"gamer/searcher"
	"gamer/statemachine"
)

func testConfig(workers int) config.Config {
	cfg := config.Default()
	cfg.Search.Workers = workers
	cfg.Search.TableSize = 20000
	cfg.Search.Margin = 10 * time.Millisecond
	cfg.Metagame.Samples = 200
	return cfg
}

func TestPlayer(t *testing.T) {
	t.Run("solves the puzzle", func(t *testing.T) {
		net, err := games.Puzzle()
		require.NoError(t, err)
		p := New(testConfig(2), WithSeed(1))
		defer p.Stop()

		require.NoError(t, p.Initialize(context.Background(), net, "solver", time.Now().Add(200*time.Millisecond)))
		require.True(t, p.Characteristics().Puzzle, "A single role game is a puzzle")

		s := p.Machine().InitialState()
		for _, want := range games.PuzzleSolution {
			move, report, err := p.SelectMove(context.Background(), s, time.Now().Add(500*time.Millisecond))
			require.NoError(t, err)
			require.Equal(t, want, move.Label, "Player should follow the winning line")
			require.Equal(t, p.Session(), report.Session)
			s = p.Machine().NextState(s, []*statemachine.MoveInfo{move})
		}
		require.True(t, p.Machine().IsTerminal(s))
	})

	t.Run("searches for the second role", func(t *testing.T) {
		net, err := games.TicTacToe()
		require.NoError(t, err)
		reg := prometheus.NewRegistry()
		p := New(testConfig(0), WithSeed(2), WithExporter(metrics.NewExporter(reg)))
		defer p.Stop()
		require.NoError(t, p.Initialize(context.Background(), net, "oplayer", time.Now().Add(300*time.Millisecond)))

		s, err := p.StateFromFacts([]string{"(cell 2 2 x)"})
		require.NoError(t, err)
		_, report, err := p.SelectMove(context.Background(), s, time.Now().Add(100*time.Millisecond))

		require.NoError(t, err)
		require.NotEqual(t, "noop", report.Move, "o is to move")
		require.Positive(t, report.Iterations)
		families, err := reg.Gather()
		require.NoError(t, err)
		require.NotEmpty(t, families, "Searches should be exported")
	})

	t.Run("select before initialize", func(t *testing.T) {
		p := New(testConfig(0))
		_, _, err := p.SelectMove(context.Background(), nil, time.Now())
		require.ErrorIs(t, err, ErrNotInitialized)
	})

	t.Run("unknown role", func(t *testing.T) {
		net, err := games.TicTacToe()
		require.NoError(t, err)
		p := New(testConfig(0))
		require.Error(t, p.Initialize(context.Background(), net, "referee", time.Now().Add(50*time.Millisecond)))
	})
}

func TestSampling(t *testing.T) {
	visits := []searcher.MoveVisits{{Visits: 1}, {Visits: 3}, {Visits: 0}}

	t.Run("temperature one follows visits", func(t *testing.T) {
		policy := adjustTemperature(visits, 1)
		require.InDeltaSlice(t, []float64{0.25, 0.75, 0}, policy, 1e-9)
	})

	t.Run("low temperature sharpens", func(t *testing.T) {
		policy := adjustTemperature(visits, 0.5)
		require.InDelta(t, 0.9, policy[1], 1e-9, "Squared visits give 9 of 10")
	})

	t.Run("no visits", func(t *testing.T) {
		require.Nil(t, newSampler(1).sample([]searcher.MoveVisits{{}}, 1))
	})
}
