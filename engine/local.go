package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gamer/metrics"
	"gamer/propnet"
	"gamer/state"
	"gamer/statemachine"
)

const (
	DefaultStartClock = 2 * time.Second
	DefaultPlayClock  = time.Second
)

type Option func(e *Local)

func WithStartClock(d time.Duration) Option {
	return func(e *Local) {
		e.startClock = d
	}
}

func WithPlayClock(d time.Duration) Option {
	return func(e *Local) {
		e.playClock = d
	}
}

func WithMaxMoves(n int) Option {
	return func(e *Local) {
		e.maxMoves = n
	}
}

// Local referees a match between in-process agents, one per role.
type Local struct {
	id         string
	net        *propnet.Network
	sm         *statemachine.Machine
	agents     []Agent
	startClock time.Duration
	playClock  time.Duration
	maxMoves   int
}

func NewLocal(net *propnet.Network, agents []Agent, options ...Option) (*Local, error) {
	if len(agents) != len(net.Roles) {
		return nil, fmt.Errorf("game has %d roles but %d agents were given", len(net.Roles), len(agents))
	}
	sm, err := statemachine.New(net, statemachine.WithMaxInstances(1))
	if err != nil {
		return nil, err
	}
	e := &Local{
		id:         uuid.NewString(),
		net:        net,
		sm:         sm,
		agents:     agents,
		startClock: DefaultStartClock,
		playClock:  DefaultPlayClock,
		maxMoves:   MaxMoves,
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

func (e *Local) ID() string {
	return e.id
}

// Run initializes every agent, then asks all of them for a move each ply
// and applies the joint move. An agent that fails or answers with an
// illegal move plays its first legal move instead.
func (e *Local) Run(ctx context.Context) (Result, error) {
	roles := e.sm.Roles()
	start := time.Now()
	log.Info().Msgf("match %s starting with roles %v", e.id, roles)

	g, gctx := errgroup.WithContext(ctx)
	deadline := time.Now().Add(e.startClock)
	for i, agent := range e.agents {
		g.Go(func() error {
			if err := agent.Initialize(gctx, e.net, roles[i], deadline); err != nil {
				return fmt.Errorf("agent for %s failed to initialize: %w", roles[i], err)
			}
			return nil
		})
	}
	defer func() {
		for _, agent := range e.agents {
			agent.Stop()
		}
	}()
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var moves []metrics.MoveMetric
	s := e.sm.InitialState()
	step := 0
	for ; !e.sm.IsTerminal(s) && step < e.maxMoves; step++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		facts := e.sm.FactSet(s)
		deadline := time.Now().Add(e.playClock)

		labels := make([]string, len(e.agents))
		searches := make([]metrics.SearchMetric, len(e.agents))
		var g errgroup.Group
		for i, agent := range e.agents {
			g.Go(func() error {
				label, metric, err := agent.SelectMove(ctx, facts, deadline)
				if err != nil {
					log.Warn().Err(err).Msgf("agent for %s failed to move", roles[i])
				}
				labels[i], searches[i] = label, metric
				return nil
			})
		}
		_ = g.Wait()

		joint := make([]*statemachine.MoveInfo, len(e.agents))
		for i := range e.agents {
			joint[i] = e.resolve(s, i, labels[i])
			moves = append(moves, metrics.MoveMetric{
				Step:         step + 1,
				Role:         roles[i],
				Move:         joint[i].String(),
				SearchMetric: searches[i],
			})
		}
		log.Debug().Msgf("match %s step %d: %v", e.id, step+1, labels)
		s = e.sm.NextState(s, joint)
	}

	goals := make([]int, len(roles))
	for i := range roles {
		goal, err := e.sm.Goal(s, i)
		if err != nil {
			log.Warn().Err(err).Msgf("goal of %s is undefined, scoring 0", roles[i])
		}
		goals[i] = goal
	}
	if !e.sm.IsTerminal(s) {
		log.Warn().Msgf("match %s stopped after %d moves without reaching a terminal state", e.id, step)
	}

	end := time.Now()
	log.Info().Msgf("match %s over after %d moves with goals %v", e.id, step, goals)
	return Result{
		Goals: goals,
		Game: metrics.GameMetric{
			ID:         e.id,
			Roles:      roles,
			Goals:      goals,
			StartTime:  start,
			EndTime:    end,
			Duration:   end.Sub(start),
			TotalMoves: step,
		},
		Moves: moves,
	}, nil
}

func (e *Local) resolve(s *state.MachineState, role int, label string) *statemachine.MoveInfo {
	legal := e.sm.LegalMoves(s, role)
	for _, m := range legal {
		if m.Label == label {
			return m
		}
	}
	if len(legal) == 0 {
		return nil
	}
	log.Warn().Msgf("move %q is not legal for %s, playing %s", label, e.sm.Roles()[role], legal[0].Label)
	return legal[0]
}
