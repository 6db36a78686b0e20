package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Workers      int
	Duration     time.Duration
	Iterations   int
	Rollouts     int
	Expansions   int
	Evictions    int
	StaleResults int
	SampleSize   int
	Utilization  float64
	NodesInUse   int
	RootVisits   int
	RootScore    float64
	RootComplete bool
	IsTreeReset  bool
}

type MoveMetric struct {
	Step int
	Role string
	Move string
	SearchMetric
}

type GameMetric struct {
	ID         string
	Roles      []string
	Goals      []int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

// Collector gathers the counters of one search. Counters may be bumped
// from any goroutine.
type Collector interface {
	Start(workers int)
	SetTreeReset(value bool)
	AddIteration()
	AddRollouts(n int)
	AddExpansion()
	AddEviction()
	AddStaleResult()
	Complete() SearchMetric
}

type collector struct {
	workers      int
	startTime    time.Time
	iterations   atomic.Int64
	rollouts     atomic.Int64
	expansions   atomic.Int64
	evictions    atomic.Int64
	staleResults atomic.Int64
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

// Start resets the counters for a new search.
func (m *collector) Start(workers int) {
	m.startTime = time.Now()
	m.workers = workers
	m.iterations.Store(0)
	m.rollouts.Store(0)
	m.expansions.Store(0)
	m.evictions.Store(0)
	m.staleResults.Store(0)
}

func (m *collector) AddIteration() {
	m.iterations.Add(1)
}

func (m *collector) AddRollouts(n int) {
	m.rollouts.Add(int64(n))
}

func (m *collector) AddExpansion() {
	m.expansions.Add(1)
}

func (m *collector) AddEviction() {
	m.evictions.Add(1)
}

func (m *collector) AddStaleResult() {
	m.staleResults.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Workers:      m.workers,
		Duration:     time.Since(m.startTime),
		Iterations:   int(m.iterations.Load()),
		Rollouts:     int(m.rollouts.Load()),
		Expansions:   int(m.expansions.Load()),
		Evictions:    int(m.evictions.Load()),
		StaleResults: int(m.staleResults.Load()),
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(workers int)       {}
func (m *dummyCollector) SetTreeReset(value bool) {}
func (m *dummyCollector) AddIteration()           {}
func (m *dummyCollector) AddRollouts(n int)       {}
func (m *dummyCollector) AddExpansion()           {}
func (m *dummyCollector) AddEviction()            {}
func (m *dummyCollector) AddStaleResult()         {}
func (m *dummyCollector) Complete() SearchMetric  { return SearchMetric{} }
