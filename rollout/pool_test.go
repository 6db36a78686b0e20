package rollout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gamer/games"
	"gamer/statemachine"
)

func newMachines(t *testing.T, n int) []*statemachine.Machine {
	net, err := games.TicTacToe()
	require.NoError(t, err)
	first, err := statemachine.New(net, statemachine.WithMaxInstances(n+1))
	require.NoError(t, err)

	machines := make([]*statemachine.Machine, n)
	for i := range machines {
		machines[i], err = first.CreateInstance()
		require.NoError(t, err)
	}
	return machines
}

func TestPool(t *testing.T) {
	t.Run("stopping with requests in flight", func(t *testing.T) {
		machines := newMachines(t, 4)
		pool := NewPool(machines, 0, 100)
		pool.Start(context.Background())

		initial := machines[0].InitialState()
		for i := 0; i < 100; i++ {
			require.True(t, pool.Submit(&Request{ID: uint64(i), State: initial, Samples: 2}), "Queue should accept every request")
		}
		time.Sleep(5 * time.Millisecond)

		require.NoError(t, pool.Stop(), "Workers should stop cleanly")
		require.Len(t, pool.Results(), pool.Completed(), "Every completed request should be in the result queue")
		require.Zero(t, pool.QueueLen(), "Abandoned requests should be discarded")
		require.NoError(t, pool.Stop(), "Stopping twice is harmless")
	})

	t.Run("draining results", func(t *testing.T) {
		machines := newMachines(t, 2)
		pool := NewPool(machines, 0, 8, WithLearnedWeights())
		pool.Start(context.Background())
		defer pool.Stop()

		initial := machines[0].InitialState()
		for i := 0; i < 4; i++ {
			require.True(t, pool.Submit(&Request{ID: uint64(i), State: initial, Samples: 3}))
		}

		var got []*Request
		for deadline := time.Now().Add(5 * time.Second); len(got) < 4 && time.Now().Before(deadline); {
			got = append(got, pool.Drain(true, 100*time.Millisecond)...)
		}

		require.Len(t, got, 4, "All requests should complete")
		for _, r := range got {
			require.NoError(t, r.Err)
			require.Equal(t, 3, r.Completed, "All samples should run")
			require.GreaterOrEqual(t, r.AverageScore, 0.0, "Scores are on [0,100]")
			require.LessOrEqual(t, r.AverageScore, 100.0, "Scores are on [0,100]")
			require.GreaterOrEqual(t, r.AverageSquaredScore, r.AverageScore*r.AverageScore-1e-6, "Mean square bounds the squared mean")
			require.GreaterOrEqual(t, r.Depth, 5.0, "Tic-tac-toe rollouts last at least five plies")
		}
		require.Equal(t, 4, pool.Completed(), "Completed count should match")
	})

	t.Run("full queue rejects without blocking", func(t *testing.T) {
		machines := newMachines(t, 1)
		pool := NewPool(machines, 0, 1)

		initial := machines[0].InitialState()
		require.True(t, pool.Submit(&Request{State: initial}), "First request fits")
		require.False(t, pool.Submit(&Request{State: initial}), "Second request should be rejected")
		require.Zero(t, pool.Utilization(), "Idle pool has no utilization")
	})
}
