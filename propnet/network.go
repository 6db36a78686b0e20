package propnet

import (
	"errors"
	"fmt"
)

type Kind uint8

// Kinds fit in the 3-bit type tag of a component record
const (
	KindTransition Kind = iota
	KindProposition
	KindOr
	KindAnd
	KindNot
	KindTrue
	KindFalse
)

var (
	ErrCycle            = errors.New("circuit has a cycle that does not pass through a transition")
	ErrUnknownComponent = errors.New("unknown component kind")
	ErrUnknownRole      = errors.New("unknown role")
	ErrMissingInput     = errors.New("legal proposition has no matching input proposition")
	ErrBadReference     = errors.New("reference to undefined component")
)

func (k Kind) String() string {
	switch k {
	case KindTransition:
		return "transition"
	case KindProposition:
		return "proposition"
	case KindOr:
		return "or"
	case KindAnd:
		return "and"
	case KindNot:
		return "not"
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Component is a node of the circuit. Inputs and outputs hold component ids.
type Component struct {
	ID      int32
	Kind    Kind
	Label   string
	Inputs  []int32
	Outputs []int32
}

// Driven reports whether the component's value is assigned from outside
// the circuit (base and input propositions).
func (c *Component) Driven() bool {
	return c.Kind == KindProposition && len(c.Inputs) == 0
}

// LegalMove ties a legal proposition to the input proposition that plays it.
type LegalMove struct {
	Index      int
	Role       int
	Move       string
	Legal      int32
	Input      int32
	Factor     int
	PseudoNoOp bool
}

type Goal struct {
	Role  int
	Value int
	Prop  int32
}

// Network is a crystallized circuit. Topology is read-only once built.
type Network struct {
	Components  []Component
	Roles       []string
	Bases       []int32 // base index -> base proposition
	Transitions []int32 // base index -> transition feeding it
	Moves       []LegalMove
	Goals       []Goal
	Terminal    int32
	Initial     []int
	Factors     int
}

func (n *Network) Size() int {
	return len(n.Components)
}

func (n *Network) Component(id int32) *Component {
	return &n.Components[id]
}

// RoleIndex returns the index of the named role or ErrUnknownRole.
func (n *Network) RoleIndex(name string) (int, error) {
	for i, r := range n.Roles {
		if r == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownRole, name)
}

// BaseIndex returns the base index of a labelled base proposition, or -1.
func (n *Network) BaseIndex(label string) int {
	for i, id := range n.Bases {
		if n.Components[id].Label == label {
			return i
		}
	}
	return -1
}

// BaseLabels returns the ordered base proposition labels.
func (n *Network) BaseLabels() []string {
	labels := make([]string, len(n.Bases))
	for i, id := range n.Bases {
		labels[i] = n.Components[id].Label
	}
	return labels
}

// Specialize returns a copy of the network in which the given base
// proposition is replaced by a constant. Component ids are preserved so
// that base and input ids stay valid in the copy.
func (n *Network) Specialize(base int, value bool) *Network {
	out := *n
	out.Components = make([]Component, len(n.Components))
	for i, c := range n.Components {
		c.Inputs = append([]int32(nil), c.Inputs...)
		c.Outputs = append([]int32(nil), c.Outputs...)
		out.Components[i] = c
	}

	id := n.Bases[base]
	if value {
		out.Components[id].Kind = KindTrue
	} else {
		out.Components[id].Kind = KindFalse
	}
	return &out
}

// order returns the component ids in dependency order. Transitions close
// the only loops a network may contain, so edges into them are ignored and
// they are placed last.
func (n *Network) order() ([]int32, error) {
	indegree := make([]int, len(n.Components))
	for i := range n.Components {
		for _, out := range n.Components[i].Outputs {
			if n.Components[out].Kind != KindTransition {
				indegree[out]++
			}
		}
	}

	queue := make([]int32, 0, len(n.Components))
	transitions := []int32{}
	for i := range n.Components {
		if n.Components[i].Kind == KindTransition {
			transitions = append(transitions, int32(i))
		} else if indegree[i] == 0 {
			queue = append(queue, int32(i))
		}
	}

	order := make([]int32, 0, len(n.Components))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, out := range n.Components[id].Outputs {
			if n.Components[out].Kind == KindTransition {
				continue
			}
			indegree[out]--
			if indegree[out] == 0 {
				queue = append(queue, out)
			}
		}
	}
	order = append(order, transitions...)

	if len(order) != len(n.Components) {
		return nil, fmt.Errorf("%w: %d of %d components ordered", ErrCycle, len(order), len(n.Components))
	}
	return order, nil
}
