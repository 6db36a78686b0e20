package propnet

import (
	"errors"
	"fmt"
)

// Ref identifies a component while a network is being built.
type Ref int32

type inputKey struct {
	role int
	move string
}

type pendingLegal struct {
	role       int
	move       string
	prop       int32
	factor     int
	pseudoNoOp bool
}

// LegalOption tags a legal move with optional analysis results.
type LegalOption func(l *pendingLegal)

// InFactor tags the move as belonging to an independent game partition.
func InFactor(factor int) LegalOption {
	return func(l *pendingLegal) {
		l.factor = factor
	}
}

// AsPseudoNoOp marks a move that has no effect within its factor.
func AsPseudoNoOp() LegalOption {
	return func(l *pendingLegal) {
		l.pseudoNoOp = true
	}
}

// Builder assembles a Network. The first invalid call is remembered and
// reported by Build.
type Builder struct {
	net      Network
	labels   map[string]int32
	inputs   map[inputKey]int32
	legals   []pendingLegal
	next     map[int]int32
	initial  []int
	terminal int32
	err      error
}

func NewBuilder() *Builder {
	return &Builder{
		labels:   make(map[string]int32),
		inputs:   make(map[inputKey]int32),
		next:     make(map[int]int32),
		terminal: -1,
	}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) add(kind Kind, label string, inputs ...Ref) Ref {
	id := int32(len(b.net.Components))
	c := Component{ID: id, Kind: kind, Label: label}
	for _, in := range inputs {
		if in < 0 || int(in) >= len(b.net.Components) {
			b.fail(fmt.Errorf("%w: %d", ErrBadReference, in))
			continue
		}
		c.Inputs = append(c.Inputs, int32(in))
	}
	b.net.Components = append(b.net.Components, c)
	if label != "" {
		b.labels[label] = id
	}
	return Ref(id)
}

// Role declares a role and returns its index.
func (b *Builder) Role(name string) int {
	b.net.Roles = append(b.net.Roles, name)
	return len(b.net.Roles) - 1
}

// Base declares a base proposition. Bases are indexed in declaration order.
func (b *Builder) Base(label string) Ref {
	ref := b.add(KindProposition, label)
	b.net.Bases = append(b.net.Bases, int32(ref))
	return ref
}

// Input declares the proposition asserted when role plays move.
func (b *Builder) Input(role int, move string) Ref {
	if role < 0 || role >= len(b.net.Roles) {
		b.fail(fmt.Errorf("%w: index %d", ErrUnknownRole, role))
		return -1
	}
	ref := b.add(KindProposition, fmt.Sprintf("(does %s %s)", b.net.Roles[role], move))
	b.inputs[inputKey{role: role, move: move}] = int32(ref)
	return ref
}

func (b *Builder) And(inputs ...Ref) Ref {
	return b.add(KindAnd, "", inputs...)
}

func (b *Builder) Or(inputs ...Ref) Ref {
	return b.add(KindOr, "", inputs...)
}

func (b *Builder) Not(input Ref) Ref {
	return b.add(KindNot, "", input)
}

func (b *Builder) True() Ref {
	return b.add(KindTrue, "")
}

func (b *Builder) False() Ref {
	return b.add(KindFalse, "")
}

// View declares a labelled proposition computed from a single input.
func (b *Builder) View(label string, input Ref) Ref {
	return b.add(KindProposition, label, input)
}

// Next sets the expression whose value the base takes on the next turn.
func (b *Builder) Next(base Ref, expr Ref) {
	index := b.baseIndex(base)
	if index < 0 {
		b.fail(fmt.Errorf("%w: %d is not a base proposition", ErrBadReference, base))
		return
	}
	b.next[index] = int32(expr)
}

// Legal declares that move is legal for role whenever expr holds.
func (b *Builder) Legal(role int, move string, expr Ref, options ...LegalOption) Ref {
	if role < 0 || role >= len(b.net.Roles) {
		b.fail(fmt.Errorf("%w: index %d", ErrUnknownRole, role))
		return -1
	}
	ref := b.View(fmt.Sprintf("(legal %s %s)", b.net.Roles[role], move), expr)
	l := pendingLegal{role: role, move: move, prop: int32(ref), factor: -1}
	for _, option := range options {
		option(&l)
	}
	b.legals = append(b.legals, l)
	return ref
}

func (b *Builder) Goal(role int, value int, expr Ref) Ref {
	if role < 0 || role >= len(b.net.Roles) {
		b.fail(fmt.Errorf("%w: index %d", ErrUnknownRole, role))
		return -1
	}
	ref := b.View(fmt.Sprintf("(goal %s %d)", b.net.Roles[role], value), expr)
	b.net.Goals = append(b.net.Goals, Goal{Role: role, Value: value, Prop: int32(ref)})
	return ref
}

func (b *Builder) Terminal(expr Ref) Ref {
	ref := b.View("terminal", expr)
	b.terminal = int32(ref)
	return ref
}

// Init marks bases as true in the initial state.
func (b *Builder) Init(bases ...Ref) {
	for _, base := range bases {
		index := b.baseIndex(base)
		if index < 0 {
			b.fail(fmt.Errorf("%w: %d is not a base proposition", ErrBadReference, base))
			continue
		}
		b.initial = append(b.initial, index)
	}
}

// Lookup finds a labelled component.
func (b *Builder) Lookup(label string) (Ref, bool) {
	id, ok := b.labels[label]
	return Ref(id), ok
}

func (b *Builder) baseIndex(ref Ref) int {
	for i, id := range b.net.Bases {
		if id == int32(ref) {
			return i
		}
	}
	return -1
}

// Build wires transitions and fan-out and validates the result.
func (b *Builder) Build() (*Network, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.terminal < 0 {
		b.Terminal(b.False())
	}

	transitions := make([]int32, len(b.net.Bases))
	for i, base := range b.net.Bases {
		expr, ok := b.next[i]
		if !ok {
			expr = int32(b.False())
		}
		label := "(next " + b.net.Components[base].Label + ")"
		transitions[i] = int32(b.add(KindTransition, label, Ref(expr)))
	}
	if b.err != nil {
		return nil, b.err
	}

	net := b.net
	net.Terminal = b.terminal
	net.Initial = append([]int(nil), b.initial...)
	net.Transitions = transitions

	maxFactor := -1
	for _, l := range b.legals {
		input, ok := b.inputs[inputKey{role: l.role, move: l.move}]
		if !ok {
			return nil, fmt.Errorf("%w: %s %s", ErrMissingInput, net.Roles[l.role], l.move)
		}
		net.Moves = append(net.Moves, LegalMove{
			Index:      len(net.Moves),
			Role:       l.role,
			Move:       l.move,
			Legal:      l.prop,
			Input:      input,
			Factor:     l.factor,
			PseudoNoOp: l.pseudoNoOp,
		})
		if l.factor > maxFactor {
			maxFactor = l.factor
		}
	}
	net.Factors = maxFactor + 1

	for i := range net.Components {
		c := &net.Components[i]
		switch c.Kind {
		case KindNot, KindTransition:
			if len(c.Inputs) != 1 {
				return nil, fmt.Errorf("%s component %d must have exactly one input, has %d", c.Kind, i, len(c.Inputs))
			}
		case KindProposition:
			if len(c.Inputs) > 1 {
				return nil, fmt.Errorf("proposition %q has %d inputs", c.Label, len(c.Inputs))
			}
		}
		for _, in := range c.Inputs {
			net.Components[in].Outputs = append(net.Components[in].Outputs, int32(i))
		}
	}

	if _, err := net.order(); err != nil {
		return nil, err
	}
	b.err = errors.New("builder already built")
	return &net, nil
}
