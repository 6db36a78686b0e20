package statemachine

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/exp/rand"

	"gamer/propnet"
	"gamer/state"
)

var (
	ErrGoalUndefined    = errors.New("goal is not uniquely defined")
	ErrTooManyInstances = errors.New("maximum number of state machine instances reached")
)

const (
	DefaultMaxInstances = 16
	maxDepthChargePlies = 1 << 16
)

type Option func(c *shared)

// WithMaxInstances bounds the number of evaluator instances, including the
// one owned by the first machine.
func WithMaxInstances(n int) Option {
	return func(c *shared) {
		if n > 0 {
			c.maxInstances = n
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(c *shared) {
		c.seed = seed
	}
}

// WithGreedyRollouts enables the one-ply immediate-win lookahead in depth
// charges of games with at most two roles.
func WithGreedyRollouts(enabled bool) Option {
	return func(c *shared) {
		c.greedy = enabled
	}
}

// WithControlSplit toggles evaluation on networks specialised for each
// polarity of a detected control base.
func WithControlSplit(enabled bool) Option {
	return func(c *shared) {
		c.split = enabled
	}
}

// shared is the read-only part of a state machine, common to all instances.
type shared struct {
	net       *propnet.Network
	animators [3]*propnet.Animator // full, control true, control false
	layout    *state.Layout
	moves     []*MoveInfo
	roleMoves [][]*MoveInfo
	goals     [][]propnet.Goal
	control   int
	initial   *state.MachineState

	maxInstances int
	seed         uint64
	greedy       bool
	split        bool

	minRaw, maxRaw int
	puzzle         bool

	mu        sync.Mutex
	instances int
}

// netInstance is one evaluator instance over one of the animators, with the
// bookkeeping needed to set base propositions incrementally.
type netInstance struct {
	inst  *propnet.Instance
	legal *LegalMoveSet
	next  *state.MachineState
	last  *state.MachineState
	diff  *state.MachineState
	skip  int
}

// Machine answers game queries against its own evaluator instances. A
// Machine must be confined to one goroutine; use CreateInstance for others.
type Machine struct {
	*shared
	id    int
	nets  [3]*netInstance
	rng   *rand.Rand
	stats Stats

	cur, nxt, lookahead *state.MachineState
	joint               []*MoveInfo
	played              []*MoveInfo
	scores              []int
}

// Stats are per-instance diagnostic counters.
type Stats struct {
	Transitions  uint64
	DepthCharges uint64
	Plies        uint64
}

// New crystallizes net and returns the first instance.
func New(net *propnet.Network, options ...Option) (*Machine, error) {
	c := &shared{
		net:          net,
		maxInstances: DefaultMaxInstances,
		seed:         1,
		split:        true,
		control:      -1,
		maxRaw:       100,
	}
	for _, option := range options {
		option(c)
	}

	c.moves = make([]*MoveInfo, len(net.Moves))
	c.roleMoves = make([][]*MoveInfo, len(net.Roles))
	for i, m := range net.Moves {
		info := &MoveInfo{
			Index:      m.Index,
			Role:       m.Role,
			Label:      m.Move,
			Input:      m.Input,
			Legal:      m.Legal,
			Factor:     m.Factor,
			PseudoNoOp: m.PseudoNoOp,
		}
		c.moves[i] = info
		c.roleMoves[m.Role] = append(c.roleMoves[m.Role], info)
	}
	c.goals = make([][]propnet.Goal, len(net.Roles))
	for _, g := range net.Goals {
		c.goals[g.Role] = append(c.goals[g.Role], g)
	}
	c.puzzle = len(net.Roles) == 1

	full, err := propnet.NewAnimator(net)
	if err != nil {
		return nil, fmt.Errorf("crystallizing network: %w", err)
	}
	c.animators[0] = full
	if c.split {
		c.control = detectControl(net)
	}
	if c.control >= 0 {
		for i, value := range []bool{true, false} {
			a, err := propnet.NewAnimator(net.Specialize(c.control, value))
			if err != nil {
				return nil, fmt.Errorf("crystallizing specialised network: %w", err)
			}
			c.animators[i+1] = a
		}
	}

	c.layout = state.NewLayout(net.BaseLabels(), c.control)
	c.initial = state.New(len(net.Bases))
	for _, i := range net.Initial {
		c.initial.Add(i)
	}
	if c.control >= 0 {
		c.initial.X = c.initial.Contains(c.control)
	}

	return c.newMachine()
}

// detectControl finds a base whose next value is always its own negation.
func detectControl(net *propnet.Network) int {
	for i, base := range net.Bases {
		feed := net.Components[net.Transitions[i]].Inputs[0]
		c := net.Components[feed]
		if c.Kind == propnet.KindNot && c.Inputs[0] == base {
			return i
		}
	}
	return -1
}

func (c *shared) newMachine() (*Machine, error) {
	c.mu.Lock()
	if c.instances >= c.maxInstances {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrTooManyInstances, c.maxInstances)
	}
	id := c.instances
	c.instances++
	c.mu.Unlock()

	size := len(c.net.Bases)
	m := &Machine{
		shared:    c,
		id:        id,
		rng:       rand.New(rand.NewSource(c.seed + uint64(id)*0x9E3779B97F4A7C15)),
		cur:       state.New(size),
		nxt:       state.New(size),
		lookahead: state.New(size),
		joint:     make([]*MoveInfo, len(c.net.Roles)),
		scores:    make([]int, len(c.net.Roles)),
	}
	for i, a := range c.animators {
		if a == nil {
			continue
		}
		ni := &netInstance{
			legal: newLegalMoveSet(c.moves, len(c.net.Roles)),
			next:  state.New(size),
			last:  state.New(size),
			diff:  state.New(size),
			skip:  -1,
		}
		if i > 0 {
			ni.skip = c.control
		}
		ni.inst = a.NewInstance(ni.legal, ni.next)
		m.nets[i] = ni
	}
	return m, nil
}

// CreateInstance returns an independent machine sharing this one's
// read-only network tables.
func (m *Machine) CreateInstance() (*Machine, error) {
	return m.shared.newMachine()
}

func (m *Machine) ID() int {
	return m.id
}

func (m *Machine) Network() *propnet.Network {
	return m.net
}

func (m *Machine) Layout() *state.Layout {
	return m.layout
}

func (m *Machine) Roles() []string {
	return m.net.Roles
}

func (m *Machine) RoleIndex(name string) (int, error) {
	return m.net.RoleIndex(name)
}

// Moves lists every move of the network by global index.
func (m *Machine) Moves() []*MoveInfo {
	return m.moves
}

func (m *Machine) RoleMoves(role int) []*MoveInfo {
	return m.roleMoves[role]
}

// Control is the base index of the detected control base, or -1.
func (m *Machine) Control() int {
	return m.control
}

func (m *Machine) InitialState() *state.MachineState {
	return m.initial.Clone()
}

func (m *Machine) CreateInternalState(facts []string) (*state.MachineState, error) {
	return m.layout.State(facts)
}

func (m *Machine) FactSet(s *state.MachineState) []string {
	return m.layout.Facts(s)
}

// Propagations sums the component updates of every evaluator instance of
// this machine.
func (m *Machine) Propagations() uint64 {
	var total uint64
	for _, ni := range m.nets {
		if ni != nil {
			total += ni.inst.Propagations()
		}
	}
	return total
}

func (m *Machine) Stats() Stats {
	return m.stats
}

func (m *Machine) netFor(s *state.MachineState) *netInstance {
	if m.control < 0 {
		return m.nets[0]
	}
	if s.X {
		return m.nets[1]
	}
	return m.nets[2]
}

// set drives the base propositions to match s, flipping only those that
// differ from the previously asserted state.
func (ni *netInstance) set(bases []int32, s *state.MachineState) {
	ni.diff.Copy(ni.last)
	ni.diff.Xor(s)
	ni.diff.Each(func(index int) {
		if index == ni.skip {
			return
		}
		ni.inst.Set(bases[index], s.Contains(index))
	})
	ni.last.Copy(s)
}

// setState selects the evaluator for s and asserts it.
func (m *Machine) setState(s *state.MachineState) *netInstance {
	ni := m.netFor(s)
	ni.set(m.net.Bases, s)
	return ni
}

// LegalMoves lists the legal moves of role in s.
func (m *Machine) LegalMoves(s *state.MachineState, role int) []*MoveInfo {
	return m.setState(s).legal.List(role)
}

// Legal exposes the live legal move set of s. It is only valid until the
// next query on this machine.
func (m *Machine) Legal(s *state.MachineState) *LegalMoveSet {
	return m.setState(s).legal
}

// NextState applies a joint move, one move per role, and returns the
// successor. The move inputs are retracted before returning.
func (m *Machine) NextState(s *state.MachineState, joint []*MoveInfo) *state.MachineState {
	next := state.New(len(m.net.Bases))
	m.advance(s, joint, next)
	return next
}

func (m *Machine) advance(s *state.MachineState, joint []*MoveInfo, dst *state.MachineState) {
	ni := m.setState(s)
	for _, move := range joint {
		if move != nil {
			ni.inst.Set(move.Input, true)
		}
	}
	dst.Copy(ni.next)
	if m.control >= 0 {
		dst.X = dst.Contains(m.control)
	} else {
		dst.X = false
	}
	for _, move := range joint {
		if move != nil {
			ni.inst.Set(move.Input, false)
		}
	}
	m.stats.Transitions++
}

// IsTerminal reports whether s ends the game. Factored games are also
// terminal once any role has no legal move left in some factor. Untagged
// moves belong to every factor.
func (m *Machine) IsTerminal(s *state.MachineState) bool {
	ni := m.setState(s)
	if ni.inst.Value(m.net.Terminal) {
		return true
	}
	if m.net.Factors == 0 {
		return false
	}
	for role := range m.net.Roles {
		var seen uint64
		ni.legal.Each(role, func(mv *MoveInfo) {
			switch {
			case mv.Factor < 0:
				seen = ^uint64(0)
			case mv.Factor < 64:
				seen |= 1 << uint(mv.Factor)
			}
		})
		for f := 0; f < m.net.Factors && f < 64; f++ {
			if seen&(1<<uint(f)) == 0 {
				return true
			}
		}
	}
	return false
}

// Goal returns the value of the single true goal proposition of role.
func (m *Machine) Goal(s *state.MachineState, role int) (int, error) {
	ni := m.setState(s)
	value, count := 0, 0
	for _, g := range m.goals[role] {
		if ni.inst.Value(g.Prop) {
			value = g.Value
			count++
		}
	}
	if count != 1 {
		return 0, fmt.Errorf("%w: role %s has %d true goals", ErrGoalUndefined, m.net.Roles[role], count)
	}
	return value, nil
}
