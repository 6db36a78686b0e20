package searcher

import (
	"errors"
	"fmt"

	"gamer/state"
	"gamer/statemachine"
)

var ErrTableFull = errors.New("transposition table is full")

// NodeRef is a generation handle: a slot index plus the sequence number the
// slot had when the reference was taken.
type NodeRef struct {
	Index int32
	Seq   uint32
}

var nilRef = NodeRef{Index: -1}

func (r NodeRef) IsNil() bool {
	return r.Index < 0
}

type nodeKind uint8

const (
	// stateKind nodes are positions where we choose our move.
	stateKind nodeKind = iota
	// moveKind nodes hold our chosen move while the other roles choose.
	moveKind
)

type edge struct {
	child   NodeRef
	visits  int
	move    *statemachine.MoveInfo   // our move, out of state nodes
	joint   []*statemachine.MoveInfo // the full joint move, out of move nodes
	average float64                  // child's last known average
	noise   float64
}

type node struct {
	seq      uint32
	live     bool
	kind     nodeKind
	state    *state.MachineState
	hash     uint64
	inTable  bool
	move     *statemachine.MoveInfo
	ours     bool
	terminal bool
	complete bool
	expanded bool

	visits  int
	pending int
	average float64
	avgSq   float64

	// descendants approximates the subtree size: it counts nodes created
	// below this one, less the subtrees freed from its direct children.
	descendants int
	// trimmed counts visited edges whose child was freed.
	trimmed int

	edges   []edge
	parents []int32
	best    int // our move at the root
	choice  int // last selected edge, -1 once any score it depends on moves
	mark    uint32
	walk    uint32
}

func (n *node) reset() {
	*n = node{seq: n.seq, mark: n.mark, walk: n.walk, edges: n.edges[:0], parents: n.parents[:0], best: -1, choice: -1}
}

func (n *node) invalidate() {
	n.best = -1
	n.choice = -1
}

func (n *node) removeParent(index int32) {
	for i, p := range n.parents {
		if p == index {
			n.parents[i] = n.parents[len(n.parents)-1]
			n.parents = n.parents[:len(n.parents)-1]
			return
		}
	}
}

func (n *node) hasParent(index int32) bool {
	for _, p := range n.parents {
		if p == index {
			return true
		}
	}
	return false
}

// arena is the fixed-capacity node store with its free list and the
// transposition table over state nodes.
type arena struct {
	nodes     []node
	free      []int32
	used      int
	seq       uint32
	table     map[uint64][]int32
	allocated uint64
	freed     uint64
	live      int
}

func newArena(size int) *arena {
	return &arena{
		nodes: make([]node, size),
		table: make(map[uint64][]int32),
	}
}

func (a *arena) capacity() int {
	return len(a.nodes)
}

// available counts slots that can be claimed without eviction.
func (a *arena) available() int {
	return len(a.free) + len(a.nodes) - a.used
}

func (a *arena) alloc() (int32, error) {
	var index int32
	switch {
	case len(a.free) > 0:
		index = a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
	case a.used < len(a.nodes):
		index = int32(a.used)
		a.used++
	default:
		return -1, fmt.Errorf("%w: %d nodes", ErrTableFull, len(a.nodes))
	}

	a.seq++
	n := &a.nodes[index]
	n.reset()
	n.seq = a.seq
	n.live = true
	a.allocated++
	a.live++
	return index, nil
}

// release returns a slot to the free list. Releasing a free slot is an
// internal consistency failure.
func (a *arena) release(index int32) {
	n := &a.nodes[index]
	if !n.live {
		panic(fmt.Sprintf("double free of node %d", index))
	}
	if n.inTable {
		a.untable(index)
	}
	n.live = false
	n.state = nil
	a.free = append(a.free, index)
	a.freed++
	a.live--
}

func (a *arena) ref(index int32) NodeRef {
	return NodeRef{Index: index, Seq: a.nodes[index].seq}
}

// get dereferences r, returning nil when the slot was freed or reused.
func (a *arena) get(r NodeRef) *node {
	if r.Index < 0 || int(r.Index) >= len(a.nodes) {
		return nil
	}
	n := &a.nodes[r.Index]
	if !n.live || n.seq != r.Seq {
		return nil
	}
	return n
}

func (a *arena) lookup(s *state.MachineState, hash uint64) int32 {
	for _, index := range a.table[hash] {
		if a.nodes[index].state.Equal(s) {
			return index
		}
	}
	return -1
}

func (a *arena) insert(index int32) {
	n := &a.nodes[index]
	a.table[n.hash] = append(a.table[n.hash], index)
	n.inTable = true
}

func (a *arena) untable(index int32) {
	n := &a.nodes[index]
	bucket := a.table[n.hash]
	for i, other := range bucket {
		if other == index {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(a.table, n.hash)
	} else {
		a.table[n.hash] = bucket
	}
	n.inTable = false
}
