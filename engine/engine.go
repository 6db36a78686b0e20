package engine

import (
	"context"
	"time"

	"gamer/metrics"
	"gamer/propnet"
)

const MaxMoves = 10000

// Agent plays one role of a match. States and moves cross the boundary as
// fact and move labels, the way a match harness delivers them.
type Agent interface {
	Initialize(ctx context.Context, net *propnet.Network, role string, deadline time.Time) error
	SelectMove(ctx context.Context, facts []string, deadline time.Time) (string, metrics.SearchMetric, error)
	Stop()
}

// Result is the outcome of a finished match.
type Result struct {
	Goals []int
	Game  metrics.GameMetric
	Moves []metrics.MoveMetric
}

type Engine interface {
	// Run plays a match until a terminal state or MaxMoves is reached.
	Run(ctx context.Context) (Result, error)
}
