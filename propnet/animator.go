package propnet

import (
	"fmt"
)

const (
	valueBit   uint32 = 0x80000000
	orInit     uint32 = 0x7FFFFFFF
	notInit    uint32 = 0xFFFFFFFF
	kindShift         = 24
	recordSize        = 4
	noTrigger  int32  = -1
)

// Record field offsets within the flat record table.
const (
	fieldMeta = iota
	fieldOutOffset
	fieldOutCount
	fieldTrigger
)

// Notifier tracks the indices of triggered propositions or transitions
// that are currently true.
type Notifier interface {
	Add(index int)
	Remove(index int)
}

// Animator holds the immutable, shareable tables of a crystallized network.
// Per-instance mutable state lives in Instance.
type Animator struct {
	records []int32
	outputs []int32
	initial []uint32
	size    int
}

// NewAnimator crystallizes net. Legal propositions trigger with their global
// move index and transitions with their base index.
func NewAnimator(net *Network) (*Animator, error) {
	if _, err := net.order(); err != nil {
		return nil, err
	}

	n := len(net.Components)
	a := &Animator{
		records: make([]int32, n*recordSize),
		initial: make([]uint32, n),
		size:    n,
	}

	triggers := make([]int32, n)
	for i := range triggers {
		triggers[i] = noTrigger
	}
	for _, m := range net.Moves {
		triggers[m.Legal] = int32(m.Index)
	}
	for i, t := range net.Transitions {
		triggers[t] = int32(i)
	}

	for i := range net.Components {
		c := &net.Components[i]
		r := a.records[i*recordSize : (i+1)*recordSize]
		r[fieldMeta] = int32(c.Kind)<<kindShift | int32(len(c.Inputs))
		r[fieldOutOffset] = int32(len(a.outputs))
		r[fieldTrigger] = triggers[i]

		if c.Kind != KindTransition {
			a.outputs = append(a.outputs, c.Outputs...)
			r[fieldOutCount] = int32(len(c.Outputs))
		}

		switch c.Kind {
		case KindAnd:
			a.initial[i] = valueBit - uint32(len(c.Inputs))
		case KindOr, KindTransition:
			a.initial[i] = orInit
		case KindProposition:
			if c.Driven() {
				a.initial[i] = 0
			} else {
				a.initial[i] = orInit
			}
		case KindNot:
			a.initial[i] = notInit
		case KindTrue:
			a.initial[i] = valueBit
		case KindFalse:
			a.initial[i] = 0
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, c.Kind)
		}
	}
	return a, nil
}

func (a *Animator) Size() int {
	return a.size
}

func (a *Animator) kind(id int32) Kind {
	return Kind(a.records[int(id)*recordSize+fieldMeta] >> kindShift)
}

// Instance is one evaluator's mutable state. It is not safe for concurrent
// use; each goroutine owns its own instance.
type Instance struct {
	*Animator
	state        []uint32
	legal        Notifier
	next         Notifier
	watermark    int32
	propagations uint64
}

// NewInstance allocates evaluator state. The notifiers may be nil.
func (a *Animator) NewInstance(legal, next Notifier) *Instance {
	inst := &Instance{
		Animator:  a,
		state:     make([]uint32, a.size),
		legal:     legal,
		next:      next,
		watermark: int32(a.size),
	}
	inst.Reset()
	return inst
}

// Reset restores the all-inputs-false baseline and propagates it to
// equilibrium. Callers are expected to clear their notifier sets first.
func (inst *Instance) Reset() {
	copy(inst.state, inst.initial)
	for i := 0; i < inst.size; i++ {
		inst.watermark = int32(i)
		if inst.state[i]&valueBit != 0 {
			inst.notify(int32(i), true)
			inst.propagate(int32(i), true)
		}
	}
	inst.watermark = int32(inst.size)
}

// Value reports the cached value of a component.
func (inst *Instance) Value(id int32) bool {
	return inst.state[id]&valueBit != 0
}

// Set assigns a driven proposition and propagates the change.
func (inst *Instance) Set(id int32, value bool) {
	r := inst.records[int(id)*recordSize:]
	if Kind(r[fieldMeta]>>kindShift) != KindProposition || r[fieldMeta]&0xFFFFFF != 0 {
		panic(fmt.Sprintf("component %d is not a driven proposition", id))
	}
	if inst.Value(id) == value {
		return
	}
	if value {
		inst.state[id] = valueBit
	} else {
		inst.state[id] = 0
	}
	inst.notify(id, value)
	inst.propagate(id, value)
}

// Propagations counts component updates performed by this instance.
func (inst *Instance) Propagations() uint64 {
	return inst.propagations
}

func (inst *Instance) notify(id int32, value bool) {
	r := inst.records[int(id)*recordSize:]
	trigger := r[fieldTrigger]
	if trigger == noTrigger {
		return
	}

	var target Notifier
	switch Kind(r[fieldMeta] >> kindShift) {
	case KindProposition:
		target = inst.legal
	case KindTransition:
		target = inst.next
	}
	if target == nil {
		return
	}
	if value {
		target.Add(int(trigger))
	} else {
		target.Remove(int(trigger))
	}
}

// propagate pushes a value change of id into its fan-out. Every gate kind
// counts true inputs, so an increment that lands on the value bit or a
// decrement that leaves it is a flip.
func (inst *Instance) propagate(id int32, value bool) {
	r := inst.records[int(id)*recordSize:]
	offset := r[fieldOutOffset]
	outputs := inst.outputs[offset : offset+r[fieldOutCount]]

	for _, out := range outputs {
		inst.propagations++
		kind := inst.kind(out)
		var flipped, now bool

		switch kind {
		case KindAnd, KindOr, KindProposition, KindTransition:
			if value {
				inst.state[out]++
				flipped = inst.state[out] == valueBit
			} else {
				flipped = inst.state[out] == valueBit
				inst.state[out]--
			}
			now = value
		case KindNot:
			if value {
				inst.state[out]++
				flipped = inst.state[out] == 0
			} else {
				flipped = inst.state[out] == 0
				inst.state[out]--
			}
			now = !value
		default:
			panic(fmt.Errorf("%w: %s at component %d", ErrUnknownComponent, kind, out))
		}

		if !flipped || out > inst.watermark {
			continue
		}
		inst.notify(out, now)
		if kind != KindTransition {
			inst.propagate(out, now)
		}
	}
}
