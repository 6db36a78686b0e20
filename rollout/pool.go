package rollout

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"gamer/state"
	"gamer/statemachine"
)

// Ref addresses a tree node by arena slot and allocation sequence, with the
// edge taken out of it on the way down.
type Ref struct {
	Index int32
	Seq   uint32
	Edge  int32
}

// Request is a batch of depth charges from one leaf. Workers fill in the
// score fields; the path is only read by the search goroutine.
type Request struct {
	ID      uint64
	Epoch   uint64
	Path    []Ref
	State   *state.MachineState
	Samples int

	Completed           int
	AverageScore        float64
	AverageSquaredScore float64
	Depth               float64
	Err                 error
}

type Option func(p *Pool)

// WithLearnedWeights gives every worker its own move weights, learned from
// its rollouts and used to bias later ones.
func WithLearnedWeights() Option {
	return func(p *Pool) {
		p.learn = true
	}
}

// Pool runs depth charges on worker goroutines, each bound to its own state
// machine instance.
type Pool struct {
	machines []*statemachine.Machine
	role     int
	learn    bool
	requests chan *Request
	results  chan *Request

	completed atomic.Int64
	busy      atomic.Int64

	mu         sync.Mutex
	group      *errgroup.Group
	cancel     context.CancelFunc
	windowFrom time.Time
	windowBusy int64
}

// NewPool sizes the request queue to queueSize. The result queue also holds
// one result per worker so that finished work never blocks shutdown.
func NewPool(machines []*statemachine.Machine, role, queueSize int, options ...Option) *Pool {
	p := &Pool{
		machines: machines,
		role:     role,
		requests: make(chan *Request, queueSize),
		results:  make(chan *Request, queueSize+len(machines)),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (p *Pool) Workers() int {
	return len(p.machines)
}

// Start launches one worker per machine. Workers run until Stop or until
// ctx is done.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	p.group = group
	p.cancel = cancel
	p.windowFrom = time.Now()
	p.windowBusy = p.busy.Load()

	for _, m := range p.machines {
		m := m
		var weights *statemachine.MoveWeights
		if p.learn {
			weights = statemachine.NewMoveWeights(len(m.Moves()))
		}
		group.Go(func() error {
			return p.work(ctx, m, weights)
		})
	}
	log.Debug().Msgf("started %d rollout workers", len(p.machines))
}

func (p *Pool) work(ctx context.Context, m *statemachine.Machine, weights *statemachine.MoveWeights) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case r := <-p.requests:
			start := time.Now()
			p.run(ctx, m, weights, r)
			p.busy.Add(int64(time.Since(start)))

			select {
			case p.results <- r:
				p.completed.Add(1)
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (p *Pool) run(ctx context.Context, m *statemachine.Machine, weights *statemachine.MoveWeights, r *Request) {
	defer func() {
		if v := recover(); v != nil {
			r.Err = fmt.Errorf("rollout %d panicked: %v", r.ID, v)
		}
	}()

	var stats statemachine.RolloutStats
	Run(ctx, m, p.role, weights, r, &stats)
}

// Run performs the depth charges of r on m, stopping early when ctx is done.
func Run(ctx context.Context, m *statemachine.Machine, role int, weights *statemachine.MoveWeights, r *Request, stats *statemachine.RolloutStats) {
	samples := r.Samples
	if samples < 1 {
		samples = 1
	}
	sum, sumSq := 0.0, 0.0
	before := stats.Plies
	done := 0
	for ; done < samples; done++ {
		if done > 0 && ctx.Err() != nil {
			break
		}
		score := float64(m.DepthChargeResult(r.State, role, weights, stats))
		sum += score
		sumSq += score * score
	}
	r.Completed = done
	r.AverageScore = sum / float64(done)
	r.AverageSquaredScore = sumSq / float64(done)
	r.Depth = float64(stats.Plies-before) / float64(done)
}

// Submit enqueues r without blocking and reports whether it was accepted.
func (p *Pool) Submit(r *Request) bool {
	select {
	case p.requests <- r:
		return true
	default:
		return false
	}
}

func (p *Pool) Results() <-chan *Request {
	return p.results
}

// Drain collects the results available now. With wait set it first blocks
// for up to timeout until at least one result arrives.
func (p *Pool) Drain(wait bool, timeout time.Duration) []*Request {
	var out []*Request
	if wait && timeout > 0 {
		timer := time.NewTimer(timeout)
		select {
		case r := <-p.results:
			out = append(out, r)
		case <-timer.C:
		}
		timer.Stop()
	}
	for {
		select {
		case r := <-p.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Stop interrupts the workers and waits for them. Queued requests are
// abandoned; completed results stay readable.
func (p *Pool) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.group == nil {
		return nil
	}
	p.cancel()
	err := p.group.Wait()
	p.group = nil
	for {
		select {
		case <-p.requests:
		default:
			return err
		}
	}
}

// Completed counts the results handed to the result queue.
func (p *Pool) Completed() int {
	return int(p.completed.Load())
}

func (p *Pool) QueueLen() int {
	return len(p.requests)
}

// Utilization is the fraction of worker time spent on rollouts since the
// previous call.
func (p *Pool) Utilization() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	busy := p.busy.Load()
	elapsed := now.Sub(p.windowFrom)
	used := busy - p.windowBusy
	p.windowFrom, p.windowBusy = now, busy
	if elapsed <= 0 || len(p.machines) == 0 {
		return 0
	}
	u := float64(used) / (float64(elapsed) * float64(len(p.machines)))
	if u > 1 {
		u = 1
	}
	return u
}
