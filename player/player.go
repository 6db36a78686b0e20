package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"gamer/config"
	"gamer/metrics"
	"gamer/propnet"
	"gamer/rollout"
	"gamer/searcher"
	"gamer/state"
	"gamer/statemachine"
)

var (
	ErrNotInitialized = errors.New("player is not initialized")
	ErrNoLegalMove    = errors.New("no legal move")
)

// Report describes how a move was chosen.
type Report struct {
	Session string
	Move    string
	Reused  bool
	Visits  []searcher.MoveVisits
	metrics.SearchMetric
}

type Option func(p *Player)

// WithExporter publishes every search on e.
func WithExporter(e *metrics.Exporter) Option {
	return func(p *Player) {
		p.exporter = e
	}
}

// WithTemperature samples moves in proportion to root visits raised to
// 1/temperature instead of playing the best move.
func WithTemperature(temperature float64) Option {
	return func(p *Player) {
		p.temperature = temperature
	}
}

func WithSeed(seed uint64) Option {
	return func(p *Player) {
		p.seed = seed
	}
}

// Player plays one role of one match.
type Player struct {
	cfg         config.Config
	session     string
	exporter    *metrics.Exporter
	temperature float64
	seed        uint64
	sampler     *sampler

	sm      *statemachine.Machine
	workers []*statemachine.Machine
	role    int
	mcts    *searcher.MCTS
	pool    *rollout.Pool
	chars   statemachine.Characteristics
}

func New(cfg config.Config, options ...Option) *Player {
	p := &Player{
		cfg:     cfg,
		session: uuid.NewString(),
		seed:    uint64(time.Now().UnixNano()),
	}
	for _, option := range options {
		option(p)
	}
	p.sampler = newSampler(p.seed)
	return p
}

func (p *Player) Session() string {
	return p.session
}

func (p *Player) Role() int {
	return p.role
}

func (p *Player) Machine() *statemachine.Machine {
	return p.sm
}

func (p *Player) Characteristics() statemachine.Characteristics {
	return p.chars
}

// Initialize prepares to play role in net: it builds the state machines,
// characterises the game for part of the metagame time and spends the rest
// searching the initial state.
func (p *Player) Initialize(ctx context.Context, net *propnet.Network, role string, deadline time.Time) error {
	s := p.cfg.Search
	sm, err := statemachine.New(net,
		statemachine.WithMaxInstances(s.Workers+1),
		statemachine.WithGreedyRollouts(s.Greedy),
		statemachine.WithSeed(p.seed),
	)
	if err != nil {
		return fmt.Errorf("failed to build state machine: %w", err)
	}
	p.role, err = sm.RoleIndex(role)
	if err != nil {
		return err
	}
	p.sm = sm

	p.workers = p.workers[:0]
	for i := 0; i < s.Workers; i++ {
		w, err := sm.CreateInstance()
		if err != nil {
			return fmt.Errorf("failed to create rollout instance: %w", err)
		}
		p.workers = append(p.workers, w)
	}

	end := deadline.Add(-s.Margin)
	budget := time.Duration(float64(time.Until(end)) * p.cfg.Metagame.Share)
	cctx, cancel := context.WithTimeout(ctx, budget)
	p.chars, err = sm.Characterize(cctx, p.role, p.cfg.Metagame.Samples)
	cancel()
	if err != nil {
		log.Warn().Err(err).Msg("metagame characterisation cut short")
	}
	log.Info().
		Str("session", p.session).
		Str("role", role).
		Int("samples", p.chars.Samples).
		Int("min_raw", p.chars.MinRaw).
		Int("max_raw", p.chars.MaxRaw).
		Float64("depth", p.chars.AverageDepth).
		Float64("branching", p.chars.AverageBranching).
		Bool("simultaneous", p.chars.Simultaneous).
		Msg("game characterised")

	strategy, ok := searcher.StrategyByName(s.Strategy)
	if !ok {
		return fmt.Errorf("%w: unknown strategy %q", config.ErrInvalid, s.Strategy)
	}
	options := []searcher.Option{
		searcher.WithExplorationBias(s.ExplorationBias),
		searcher.WithTableSize(s.TableSize),
		searcher.WithHeadroom(s.Headroom),
		searcher.WithMaxOutstanding(s.MaxOutstanding),
		searcher.WithSamples(s.MinSamples, s.MaxSamples),
		searcher.WithStrategy(strategy),
		searcher.WithSeed(p.seed),
		searcher.WithMetrics(),
	}
	if s.RetainCompleted {
		options = append(options, searcher.WithRetainCompleted())
	}
	if p.chars.Simultaneous {
		options = append(options, searcher.WithSimultaneous())
	}
	p.mcts = searcher.NewMCTS(sm, p.role, options...)

	if err := p.mcts.SetRoot(sm.InitialState()); err != nil {
		return err
	}
	if time.Now().Before(end) {
		if _, err := p.search(ctx, end); err != nil {
			return err
		}
	}
	return nil
}

// StateFromFacts translates a harness state into the machine's form.
func (p *Player) StateFromFacts(facts []string) (*state.MachineState, error) {
	if p.sm == nil {
		return nil, ErrNotInitialized
	}
	return p.sm.CreateInternalState(facts)
}

// SelectMove searches s until shortly before deadline and returns the move
// to play. The tree below s is reused when s was already searched.
func (p *Player) SelectMove(ctx context.Context, s *state.MachineState, deadline time.Time) (*statemachine.MoveInfo, Report, error) {
	if p.mcts == nil {
		return nil, Report{}, ErrNotInitialized
	}
	if err := p.mcts.SetRoot(s); err != nil {
		return nil, Report{}, err
	}
	metric, err := p.search(ctx, deadline.Add(-p.cfg.Search.Margin))
	if err != nil {
		return nil, Report{}, err
	}

	visits := p.mcts.Tree().RootMoves()
	move := p.mcts.BestMove()
	if p.temperature > 0 && !metric.RootComplete {
		if sampled := p.sampler.sample(visits, p.temperature); sampled != nil {
			move = sampled
		}
	}
	if move == nil {
		legal := p.sm.LegalMoves(s, p.role)
		if len(legal) == 0 {
			return nil, Report{}, ErrNoLegalMove
		}
		move = legal[0]
	}

	report := Report{
		Session:      p.session,
		Move:         move.Label,
		Reused:       !metric.IsTreeReset,
		Visits:       visits,
		SearchMetric: metric,
	}
	log.Info().
		Str("session", p.session).
		Str("move", move.Label).
		Int("iterations", metric.Iterations).
		Int("rollouts", metric.Rollouts).
		Int("nodes", metric.NodesInUse).
		Float64("score", metric.RootScore).
		Bool("complete", metric.RootComplete).
		Msg("move selected")
	return move, report, nil
}

// search runs one bounded search on a freshly started pool.
func (p *Player) search(ctx context.Context, deadline time.Time) (metrics.SearchMetric, error) {
	if len(p.workers) > 0 {
		var options []rollout.Option
		if p.cfg.Search.LearnWeights {
			options = append(options, rollout.WithLearnedWeights())
		}
		p.pool = rollout.NewPool(p.workers, p.role, p.cfg.Search.QueueSize, options...)
		p.pool.Start(ctx)
		p.mcts.SetPool(p.pool)
		defer p.stopPool()
	}

	metric, err := p.mcts.Search(ctx, deadline)
	if err != nil {
		return metric, err
	}
	if p.exporter != nil {
		p.exporter.Observe(metric)
	}
	return metric, nil
}

func (p *Player) stopPool() {
	if p.pool == nil {
		return
	}
	if err := p.pool.Stop(); err != nil {
		log.Warn().Err(err).Msg("rollout pool stopped with error")
	}
	p.pool = nil
	p.mcts.SetPool(nil)
}

// Stop ends the session and releases the rollout workers.
func (p *Player) Stop() {
	p.stopPool()
	log.Info().Str("session", p.session).Msg("session stopped")
}
