package engine

import (
	"context"
	"time"

	"golang.org/x/exp/rand"

	"gamer/metrics"
	"gamer/player"
	"gamer/propnet"
	"gamer/statemachine"
)

// MCTSAdapter lets a search player take part in a local match.
type MCTSAdapter struct {
	Player *player.Player
}

func (a *MCTSAdapter) Initialize(ctx context.Context, net *propnet.Network, role string, deadline time.Time) error {
	return a.Player.Initialize(ctx, net, role, deadline)
}

func (a *MCTSAdapter) SelectMove(ctx context.Context, facts []string, deadline time.Time) (string, metrics.SearchMetric, error) {
	s, err := a.Player.StateFromFacts(facts)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}
	move, report, err := a.Player.SelectMove(ctx, s, deadline)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}
	return move.Label, report.SearchMetric, nil
}

func (a *MCTSAdapter) Stop() {
	a.Player.Stop()
}

// RandomAgent plays a uniformly random legal move.
type RandomAgent struct {
	seed uint64
	rng  *rand.Rand
	sm   *statemachine.Machine
	role int
}

func NewRandomAgent(seed uint64) *RandomAgent {
	return &RandomAgent{seed: seed}
}

func (a *RandomAgent) Initialize(ctx context.Context, net *propnet.Network, role string, deadline time.Time) error {
	sm, err := statemachine.New(net, statemachine.WithMaxInstances(1))
	if err != nil {
		return err
	}
	a.role, err = sm.RoleIndex(role)
	if err != nil {
		return err
	}
	a.sm = sm
	a.rng = rand.New(rand.NewSource(a.seed))
	return nil
}

func (a *RandomAgent) SelectMove(ctx context.Context, facts []string, deadline time.Time) (string, metrics.SearchMetric, error) {
	s, err := a.sm.CreateInternalState(facts)
	if err != nil {
		return "", metrics.SearchMetric{}, err
	}
	legal := a.sm.LegalMoves(s, a.role)
	if len(legal) == 0 {
		return "", metrics.SearchMetric{}, player.ErrNoLegalMove
	}
	return legal[a.rng.Intn(len(legal))].Label, metrics.SearchMetric{}, nil
}

func (a *RandomAgent) Stop() {}
