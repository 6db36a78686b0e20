package searcher

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"gamer/metrics"
	"gamer/rollout"
	"gamer/state"
	"gamer/statemachine"
)

const (
	DefaultTableSize      = 200_000
	DefaultHeadroom       = 64
	DefaultMaxOutstanding = 64
	DefaultMinSamples     = 1
	DefaultMaxSamples     = 32

	adaptInterval = 50 * time.Millisecond
	idleThreshold = 0.7
	busyThreshold = 0.95
	sampleFactor  = 1.1
)

var ErrNoRoot = errors.New("search has no root state")

// Pool is the rollout service the search hands leaves to.
type Pool interface {
	Submit(r *rollout.Request) bool
	Drain(wait bool, timeout time.Duration) []*rollout.Request
	Utilization() float64
	Workers() int
}

type MCTS struct {
	sm   *statemachine.Machine
	role int
	tree *Tree
	pool Pool

	tableSize      int
	headroom       int
	maxOutstanding int
	minSamples     int
	maxSamples     int
	bias           float64
	strategy       Strategy
	retain         bool
	simultaneous   bool
	seed           uint64
	metrics        metrics.Collector

	sampleSize  float64
	outstanding int
	epoch       uint64
	nextID      uint64
	stats       statemachine.RolloutStats
}

type Option func(m *MCTS)

func WithExplorationBias(bias float64) Option {
	return func(m *MCTS) {
		m.bias = bias
	}
}

// WithTableSize sets the node capacity of the transposition table.
func WithTableSize(n int) Option {
	return func(m *MCTS) {
		m.tableSize = n
	}
}

// WithHeadroom sets how many free nodes are kept available before each
// expansion.
func WithHeadroom(n int) Option {
	return func(m *MCTS) {
		m.headroom = n
	}
}

func WithPool(p Pool) Option {
	return func(m *MCTS) {
		m.pool = p
	}
}

func WithMaxOutstanding(n int) Option {
	return func(m *MCTS) {
		m.maxOutstanding = n
	}
}

// WithSamples bounds the number of depth charges per rollout request.
func WithSamples(min, max int) Option {
	return func(m *MCTS) {
		m.minSamples, m.maxSamples = min, max
	}
}

func WithStrategy(s Strategy) Option {
	return func(m *MCTS) {
		m.strategy = s
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

// WithRetainCompleted keeps the children of complete nodes.
func WithRetainCompleted() Option {
	return func(m *MCTS) {
		m.retain = true
	}
}

// WithSimultaneous disables early completion at move nodes from the start
// instead of when simultaneous choices are first seen.
func WithSimultaneous() Option {
	return func(m *MCTS) {
		m.simultaneous = true
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.seed = seed
	}
}

// NewMCTS creates a search for role on sm. The search goroutine owns sm;
// pooled rollouts run on other instances.
func NewMCTS(sm *statemachine.Machine, role int, options ...Option) *MCTS {
	m := &MCTS{
		sm:             sm,
		role:           role,
		tableSize:      DefaultTableSize,
		headroom:       DefaultHeadroom,
		maxOutstanding: DefaultMaxOutstanding,
		minSamples:     DefaultMinSamples,
		maxSamples:     DefaultMaxSamples,
		bias:           DefaultExplorationBias,
		strategy:       ConfidenceUCT{},
		seed:           uint64(time.Now().UnixNano()),
		metrics:        metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.tableSize < 2 || m.headroom >= m.tableSize {
		panic("table size must exceed the eviction headroom")
	}
	if m.minSamples < 1 || m.maxSamples < m.minSamples {
		panic("invalid rollout sample bounds")
	}

	m.sampleSize = float64(m.minSamples)
	m.tree = newTree(sm, role, m.tableSize, m.strategy, m.bias, m.seed, m.metrics)
	m.tree.retain = m.retain
	m.tree.simultaneous = m.simultaneous
	return m
}

func (m *MCTS) Tree() *Tree {
	return m.tree
}

// SetPool swaps the rollout pool. Results still owed by the previous pool
// are dropped.
func (m *MCTS) SetPool(p Pool) {
	m.pool = p
	m.epoch++
	m.outstanding = 0
	m.tree.clearPending()
}

// SetRoot moves the search to s, keeping the subtree below it when s is
// already in the table.
func (m *MCTS) SetRoot(s *state.MachineState) error {
	m.epoch++
	m.outstanding = 0
	reused, err := m.tree.SetRoot(s)
	if err != nil {
		return err
	}
	m.metrics.SetTreeReset(!reused)
	log.Debug().Msgf("search root set, reused=%t nodes=%d", reused, m.tree.Live())
	return nil
}

// Search runs iterations until the deadline, ctx is done or the root is
// solved.
func (m *MCTS) Search(ctx context.Context, deadline time.Time) (metrics.SearchMetric, error) {
	if m.tree.arena.get(m.tree.root) == nil {
		return metrics.SearchMetric{}, ErrNoRoot
	}

	workers := 0
	if m.pool != nil {
		workers = m.pool.Workers()
	}
	m.metrics.Start(workers)
	utilization := 0.0
	lastAdapt := time.Now()

	for ctx.Err() == nil && time.Now().Before(deadline) {
		if m.pool != nil {
			m.merge(m.outstanding >= m.maxOutstanding, deadline)
		}
		if m.solved() {
			break
		}
		m.tree.ensureHeadroom(m.headroom)
		if err := m.iterate(ctx); err != nil {
			return metrics.SearchMetric{}, err
		}
		if m.pool != nil && time.Since(lastAdapt) > adaptInterval {
			utilization = m.adapt()
			lastAdapt = time.Now()
		}
	}
	if m.pool != nil {
		m.merge(false, deadline)
	}

	metric := m.metrics.Complete()
	metric.Workers = workers
	metric.SampleSize = m.samples()
	metric.Utilization = utilization
	metric.NodesInUse = m.tree.Live()
	if root := m.tree.arena.get(m.tree.root); root != nil {
		metric.RootVisits = root.visits
		metric.RootScore = m.tree.RootScore()
		metric.RootComplete = root.complete
	}
	return metric, nil
}

func (m *MCTS) solved() bool {
	root := m.tree.arena.get(m.tree.root)
	return root == nil || root.complete
}

// iterate runs one selection and either backs up a complete leaf at once,
// hands the leaf to the pool, or rolls it out inline when the pool is
// absent or its queue is full.
func (m *MCTS) iterate(ctx context.Context) error {
	l, err := m.tree.descend()
	if err != nil {
		return err
	}
	m.metrics.AddIteration()

	if l.complete {
		score := m.tree.leafScore(l.index)
		m.tree.backup(m.tree.path, 1, score, score*score, 0)
		m.tree.flush()
		return nil
	}

	m.nextID++
	if m.pool != nil {
		r := &rollout.Request{
			ID:      m.nextID,
			Epoch:   m.epoch,
			Path:    m.tree.Path(),
			State:   l.state,
			Samples: m.samples(),
		}
		if m.pool.Submit(r) {
			m.tree.applyPending(r.Path, r.Samples)
			m.outstanding++
			m.tree.flush()
			return nil
		}
	}

	r := &rollout.Request{ID: m.nextID, Epoch: m.epoch, State: l.state, Samples: 1}
	rollout.Run(ctx, m.sm, m.role, nil, r, &m.stats)
	m.tree.backup(m.tree.path, r.Completed, r.AverageScore, r.AverageSquaredScore, 0)
	m.metrics.AddRollouts(r.Completed)
	m.tree.flush()
	return nil
}

// merge folds finished rollouts into the tree, blocking for the first one
// when wait is set.
func (m *MCTS) merge(wait bool, deadline time.Time) {
	for _, r := range m.pool.Drain(wait, time.Until(deadline)) {
		if r.Epoch != m.epoch {
			m.metrics.AddStaleResult()
			continue
		}
		m.outstanding--
		if r.Err != nil {
			log.Warn().Err(r.Err).Msgf("rollout %d failed", r.ID)
			m.tree.backup(r.Path, 0, 0, 0, r.Samples)
			continue
		}
		if !m.tree.backup(r.Path, r.Completed, r.AverageScore, r.AverageSquaredScore, r.Samples) {
			m.metrics.AddStaleResult()
			continue
		}
		m.metrics.AddRollouts(r.Completed)
	}
	m.tree.flush()
}

func (m *MCTS) samples() int {
	return int(math.Round(m.sampleSize))
}

// adapt grows the batch size while workers sit idle and shrinks it when
// they are saturated.
func (m *MCTS) adapt() float64 {
	u := m.pool.Utilization()
	switch {
	case u < idleThreshold:
		m.sampleSize = math.Min(float64(m.maxSamples), m.sampleSize*sampleFactor)
	case u > busyThreshold:
		m.sampleSize = math.Max(float64(m.minSamples), m.sampleSize/sampleFactor)
	}
	return u
}

// BestMove is our most promising move at the root.
func (m *MCTS) BestMove() *statemachine.MoveInfo {
	return m.tree.BestMove()
}
