package searcher

import (
	"errors"
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"gamer/metrics"
	"gamer/rollout"
	"gamer/state"
	"gamer/statemachine"
)

const (
	// adjustmentDepth bounds how far a completion's score change is pushed
	// into ancestors that were not on the sampled path.
	adjustmentDepth = 3
	maxWalkDepth    = 4096
	noiseScale      = 1e-3
)

// Tree is the search graph. Transpositions make it a DAG: state nodes are
// shared through the transposition table and freed by reference count. It
// is owned by the search goroutine.
type Tree struct {
	arena    *arena
	sm       *statemachine.Machine
	role     int
	numRoles int
	strategy Strategy
	bias     float64
	rng      *rand.Rand
	metrics  metrics.Collector

	root         NodeRef
	simultaneous bool
	retain       bool

	path     []rollout.Ref
	worklist []int32
	trims    []int32
	stack    []int32
	markGen  uint32
	walkGen  uint32
}

// NodeStats is a read-only view of a node. Average is from the perspective
// of the role that chose the move leading to the node.
type NodeStats struct {
	Visits   int
	Pending  int
	Average  float64
	Ours     bool
	Complete bool
	Terminal bool
	IsMove   bool
	Parents  int
	Edges    int

	Descendants int
	Trimmed     int
}

func newTree(sm *statemachine.Machine, role, size int, strategy Strategy, bias float64, seed uint64, collector metrics.Collector) *Tree {
	return &Tree{
		arena:    newArena(size),
		sm:       sm,
		role:     role,
		numRoles: len(sm.Roles()),
		strategy: strategy,
		bias:     bias,
		rng:      rand.New(rand.NewSource(seed)),
		metrics:  collector,
		root:     nilRef,
	}
}

func (t *Tree) Root() NodeRef {
	return t.root
}

func (t *Tree) Allocated() uint64 {
	return t.arena.allocated
}

func (t *Tree) Freed() uint64 {
	return t.arena.freed
}

// Live counts allocated nodes.
func (t *Tree) Live() int {
	return t.arena.live
}

func (t *Tree) Capacity() int {
	return t.arena.capacity()
}

func (t *Tree) Stats(r NodeRef) (NodeStats, bool) {
	n := t.arena.get(r)
	if n == nil {
		return NodeStats{}, false
	}
	return NodeStats{
		Visits:   n.visits,
		Pending:  n.pending,
		Average:  n.average,
		Ours:     n.ours,
		Complete: n.complete,
		Terminal: n.terminal,
		IsMove:   n.kind == moveKind,
		Parents:  len(n.parents),
		Edges:    len(n.edges),

		Descendants: n.descendants,
		Trimmed:     n.trimmed,
	}, true
}

// Children lists the live children of r.
func (t *Tree) Children(r NodeRef) []NodeRef {
	n := t.arena.get(r)
	if n == nil {
		return nil
	}
	var out []NodeRef
	for _, e := range n.edges {
		if t.arena.get(e.child) != nil {
			out = append(out, e.child)
		}
	}
	return out
}

// Each visits every live node.
func (t *Tree) Each(fn func(r NodeRef, s NodeStats)) {
	for i := 0; i < t.arena.used; i++ {
		if t.arena.nodes[i].live {
			r := t.arena.ref(int32(i))
			s, _ := t.Stats(r)
			fn(r, s)
		}
	}
}

// RootScore is the root's average from our perspective.
func (t *Tree) RootScore() float64 {
	n := t.arena.get(t.root)
	if n == nil {
		return 0
	}
	return n.toOurs(n.average)
}

func (n *node) toOurs(v float64) float64 {
	if n.ours {
		return v
	}
	return WIN - v
}

// SetRoot makes the node for s the root. A node already in the table is
// kept with everything below it; otherwise the tree starts over. It reports
// whether the tree was reused.
func (t *Tree) SetRoot(s *state.MachineState) (bool, error) {
	index := t.arena.lookup(s, s.Hash())
	if index >= 0 {
		ref := t.arena.ref(index)
		t.FreeAllBut(ref)
		t.arena.nodes[index].parents = t.arena.nodes[index].parents[:0]
		t.root = ref
		t.clearPending()
		return true, nil
	}

	t.FreeAllBut(nilRef)
	t.path = t.path[:0]
	index, _, err := t.createStateNode(s.Clone(), -1)
	if err != nil {
		return false, err
	}
	t.root = t.arena.ref(index)
	t.flush()
	return false, nil
}

func (t *Tree) clearPending() {
	for i := 0; i < t.arena.used; i++ {
		t.arena.nodes[i].pending = 0
		t.arena.nodes[i].choice = -1
	}
}

// allocate claims a slot, evicting once when the table is full. The new
// node counts as a descendant of every node on the current path.
func (t *Tree) allocate() (int32, error) {
	index, err := t.arena.alloc()
	if errors.Is(err, ErrTableFull) && t.evictOne() {
		index, err = t.arena.alloc()
	}
	if err != nil {
		return index, err
	}
	for _, step := range t.path {
		if n := t.nodeAt(step); n != nil {
			n.descendants++
		}
	}
	return index, nil
}

// touch drops the cached choices that depend on index's statistics.
func (t *Tree) touch(index int32) {
	n := &t.arena.nodes[index]
	n.invalidate()
	for _, p := range n.parents {
		t.arena.nodes[p].choice = -1
	}
}

// createStateNode finds or allocates the state node for s and links it
// under parent. s must not be modified afterwards.
func (t *Tree) createStateNode(s *state.MachineState, parent int32) (int32, bool, error) {
	hash := s.Hash()
	shared := true
	if index := t.arena.lookup(s, hash); index >= 0 {
		if !t.onPath(index) {
			t.link(parent, index)
			return index, false, nil
		}
		// A repeated position on the current line gets its own node so
		// that the graph stays acyclic.
		shared = false
	}

	index, err := t.allocate()
	if err != nil {
		return -1, false, err
	}
	n := &t.arena.nodes[index]
	n.kind = stateKind
	n.state = s
	n.hash = hash
	n.ours = t.numRoles == 1
	if shared {
		t.arena.insert(index)
	}
	t.link(parent, index)

	if t.sm.IsTerminal(s) {
		n.terminal = true
		n.expanded = true
		score := n.toOurs(float64(t.sm.NetScore(s, t.role)))
		t.markComplete(index, score)
	}
	return index, true, nil
}

func (t *Tree) createMoveNode(parent int32, move *statemachine.MoveInfo) (int32, error) {
	index, err := t.allocate()
	if err != nil {
		return -1, err
	}
	n := &t.arena.nodes[index]
	n.kind = moveKind
	n.state = t.arena.nodes[parent].state
	n.move = move
	n.ours = true
	t.link(parent, index)
	return index, nil
}

func (t *Tree) link(parent, child int32) {
	if parent < 0 {
		return
	}
	c := &t.arena.nodes[child]
	if !c.hasParent(parent) {
		c.parents = append(c.parents, parent)
	}
}

func (t *Tree) onPath(index int32) bool {
	for _, step := range t.path {
		if step.Index == index {
			return true
		}
	}
	return false
}

// expand creates the edges of a node: our legal moves at state nodes, the
// joint moves of the other roles at move nodes.
func (t *Tree) expand(index int32) {
	n := &t.arena.nodes[index]
	n.expanded = true
	n.invalidate()

	if n.kind == stateKind {
		for _, m := range t.sm.LegalMoves(n.state, t.role) {
			n.edges = append(n.edges, edge{child: nilRef, move: m, noise: t.rng.Float64() * noiseScale})
		}
		if len(n.edges) == 0 {
			log.Warn().Msgf("non-terminal state %s has no legal move for role %d", n.state, t.role)
			n.terminal = true
			t.markComplete(index, n.toOurs(float64(t.sm.NetScore(n.state, t.role))))
			t.propagateCompletion()
		}
		t.metrics.AddExpansion()
		return
	}

	choices := make([][]*statemachine.MoveInfo, t.numRoles)
	for r := range choices {
		if r == t.role {
			choices[r] = []*statemachine.MoveInfo{n.move}
			continue
		}
		choices[r] = t.sm.LegalMoves(n.state, r)
		if len(choices[r]) == 0 {
			choices[r] = []*statemachine.MoveInfo{nil}
		}
		if len(choices[r]) > 1 && t.sm.Legal(n.state).Count(t.role) > 1 {
			t.simultaneous = true
		}
	}

	joint := make([]*statemachine.MoveInfo, t.numRoles)
	var product func(r int)
	product = func(r int) {
		if r == t.numRoles {
			n.edges = append(n.edges, edge{
				child: nilRef,
				joint: append([]*statemachine.MoveInfo(nil), joint...),
				noise: t.rng.Float64() * noiseScale,
			})
			return
		}
		for _, m := range choices[r] {
			joint[r] = m
			product(r + 1)
		}
	}
	product(0)
	t.metrics.AddExpansion()
}

func (t *Tree) candidate(e *edge) Candidate {
	c := Candidate{Visits: e.visits, Average: e.average}
	if child := t.arena.get(e.child); child != nil {
		c.Pending = child.pending
		c.Complete = child.complete
		if child.visits > 0 || child.complete {
			c.Average = child.average
		}
	}
	return c
}

// selectEdge returns the edge to descend from index. The choice is cached
// until a backup, virtual loss or completion touches the node or a child.
func (t *Tree) selectEdge(index int32) int {
	n := &t.arena.nodes[index]
	if n.choice >= 0 && n.choice < len(n.edges) {
		return n.choice
	}
	parent := Parent{Visits: n.visits + n.pending, Average: n.average, AverageSquared: n.avgSq}

	best, bestScore := -1, math.Inf(-1)
	for i := range n.edges {
		e := &n.edges[i]
		c := t.candidate(e)
		var score float64
		if c.Visits == 0 && c.Pending == 0 && !c.Complete {
			score = unvisitedScore + e.noise
		} else {
			score = t.strategy.Score(parent, c, t.bias)
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	n.choice = best
	return best
}

// resolve dereferences edge e of node index, recreating a missing or
// recycled child. It reports whether a new node was allocated.
func (t *Tree) resolve(index int32, e int) (int32, bool, error) {
	n := &t.arena.nodes[index]
	ed := &n.edges[e]
	if child := t.arena.get(ed.child); child != nil {
		return ed.child.Index, false, nil
	}
	if !ed.child.IsNil() {
		log.Debug().Msgf("re-expanding recycled child of node %d", index)
	}

	var child int32
	var created bool
	var err error
	if n.kind == stateKind {
		child, err = t.createMoveNode(index, ed.move)
		created = true
	} else {
		child, created, err = t.createStateNode(t.sm.NextState(n.state, ed.joint), index)
	}
	if err != nil {
		return -1, false, err
	}
	ed.child = t.arena.ref(child)
	if ed.visits > 0 && n.trimmed > 0 {
		n.trimmed--
	}
	// The parent can only see a complete child once the edge points at it.
	if t.arena.nodes[child].complete {
		t.worklist = append(t.worklist, index)
		t.propagateCompletion()
	}
	return child, created, nil
}

// leaf is where a descent stopped.
type leaf struct {
	index    int32
	state    *state.MachineState
	complete bool
}

// descend walks from the root to a new state node or a complete node,
// recording the path in t.path.
func (t *Tree) descend() (leaf, error) {
	t.path = t.path[:0]
	t.walkGen++
	index := t.root.Index
	for depth := 0; depth < maxWalkDepth; depth++ {
		n := &t.arena.nodes[index]
		n.walk = t.walkGen
		if !n.complete && !n.expanded {
			t.expand(index)
		}
		if n.complete {
			t.path = append(t.path, t.step(index, -1))
			return leaf{index: index, state: n.state, complete: true}, nil
		}
		if depth >= maxWalkDepth-2 && n.kind == stateKind {
			t.path = append(t.path, t.step(index, -1))
			return leaf{index: index, state: n.state}, nil
		}

		e := t.selectEdge(index)
		t.path = append(t.path, t.step(index, e))
		child, created, err := t.resolve(index, e)
		if errors.Is(err, ErrTableFull) {
			// Sample from here without growing the tree.
			t.path[len(t.path)-1].Edge = -1
			s := n.state
			if n.kind == moveKind {
				s = t.sm.NextState(n.state, n.edges[e].joint)
			}
			return leaf{index: index, state: s}, nil
		}
		if err != nil {
			return leaf{}, err
		}

		c := &t.arena.nodes[child]
		if created && c.kind == stateKind {
			t.path = append(t.path, t.step(child, -1))
			return leaf{index: child, state: c.state, complete: c.complete}, nil
		}
		if c.walk == t.walkGen {
			// Repeated positions linked through different lines closed a
			// loop. Sample the repeated position without walking it again.
			t.path[len(t.path)-1].Edge = -1
			return leaf{index: index, state: c.state}, nil
		}
		index = child
	}
	return leaf{}, errors.New("descent exceeded maximum depth")
}

func (t *Tree) step(index int32, e int) rollout.Ref {
	return rollout.Ref{Index: index, Seq: t.arena.nodes[index].seq, Edge: int32(e)}
}

// Path copies the most recent descent.
func (t *Tree) Path() []rollout.Ref {
	return append([]rollout.Ref(nil), t.path...)
}

func (t *Tree) nodeAt(r rollout.Ref) *node {
	return t.arena.get(NodeRef{Index: r.Index, Seq: r.Seq})
}

// applyPending adds virtual loss along path for samples in flight.
func (t *Tree) applyPending(path []rollout.Ref, samples int) {
	for _, step := range path {
		if n := t.nodeAt(step); n != nil {
			n.pending += samples
			t.touch(step.Index)
		}
	}
}

// backup folds k samples with the given mean and mean square, both from
// our perspective, into every node of path. pending is the virtual loss
// to remove. When any node of the path was recycled the samples are
// dropped and false is returned.
func (t *Tree) backup(path []rollout.Ref, k int, mean, meanSq float64, pending int) bool {
	stale := false
	for _, step := range path {
		n := t.nodeAt(step)
		if n == nil {
			stale = true
			continue
		}
		n.pending -= pending
		if n.pending < 0 {
			log.Debug().Msgf("negative pending count on node %d", step.Index)
			n.pending = 0
		}
	}
	if stale || k <= 0 {
		return !stale
	}

	for i := len(path) - 1; i >= 0; i-- {
		step := path[i]
		n := t.nodeAt(step)
		v, vSq := mean, meanSq
		if !n.ours {
			v = WIN - mean
			vSq = WIN*WIN - 2*WIN*mean + meanSq
		}
		if !n.complete {
			total := float64(n.visits + k)
			n.average = (n.average*float64(n.visits) + v*float64(k)) / total
			n.avgSq = (n.avgSq*float64(n.visits) + vSq*float64(k)) / total
		}
		n.visits += k
		t.touch(step.Index)

		if step.Edge >= 0 && int(step.Edge) < len(n.edges) {
			e := &n.edges[step.Edge]
			e.visits += k
			if child := t.arena.get(e.child); child != nil {
				e.average = child.average
			}
		}
	}
	return true
}

// leafScore is the score of a complete node from our perspective.
func (t *Tree) leafScore(index int32) float64 {
	n := &t.arena.nodes[index]
	return n.toOurs(n.average)
}

// markComplete fixes a node's score, in its own perspective, and queues its
// parents for re-evaluation.
func (t *Tree) markComplete(index int32, score float64) {
	n := &t.arena.nodes[index]
	old := n.average
	n.complete = true
	n.average = score
	n.avgSq = score * score
	t.touch(index)
	if n.visits > 0 && old != score {
		t.adjustParents(index, score-old)
	}
	if !t.retain && index != t.root.Index {
		t.trims = append(t.trims, index)
	}
	t.worklist = append(t.worklist, n.parents...)
}

// propagateCompletion drains the worklist of nodes whose children changed
// completion state.
func (t *Tree) propagateCompletion() {
	for len(t.worklist) > 0 {
		index := t.worklist[len(t.worklist)-1]
		t.worklist = t.worklist[:len(t.worklist)-1]
		n := &t.arena.nodes[index]
		if !n.live || n.complete || !n.expanded {
			continue
		}
		if score, ok := t.completionScore(index); ok {
			t.markComplete(index, score)
		}
	}
}

// completionScore decides whether all children, or one maximal child for
// the chooser, are complete. The score is in the node's perspective.
func (t *Tree) completionScore(index int32) (float64, bool) {
	n := &t.arena.nodes[index]
	if len(n.edges) == 0 {
		return 0, false
	}
	early := !(n.kind == moveKind && t.simultaneous)

	all := true
	best := math.Inf(-1)
	childOurs := n.ours
	for i := range n.edges {
		child := t.arena.get(n.edges[i].child)
		if child == nil || !child.complete {
			all = false
			continue
		}
		childOurs = child.ours
		if child.average >= WIN && early {
			return convert(n.ours, childOurs, child.average), true
		}
		best = math.Max(best, child.average)
	}
	if !all {
		return 0, false
	}
	return convert(n.ours, childOurs, best), true
}

func convert(to, from bool, v float64) float64 {
	if to == from {
		return v
	}
	return WIN - v
}

// adjustParents shifts incomplete ancestors by a completed node's score
// change, weighted by the share of their visits that went through it.
func (t *Tree) adjustParents(index int32, delta float64) {
	type adjustment struct {
		index int32
		delta float64
		depth int
	}
	queue := []adjustment{{index: index, delta: delta}}
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		child := &t.arena.nodes[a.index]
		for _, p := range child.parents {
			parent := &t.arena.nodes[p]
			if !parent.live || parent.complete || parent.visits == 0 {
				continue
			}
			d := a.delta
			if parent.ours != child.ours {
				d = -d
			}
			share := 0
			for i := range parent.edges {
				e := &parent.edges[i]
				if e.child.Index == a.index && e.child.Seq == child.seq {
					share += e.visits
					e.average = child.average
				}
			}
			if share == 0 {
				continue
			}
			shift := d * float64(share) / float64(parent.visits)
			parent.average = math.Min(WIN, math.Max(LOSS, parent.average+shift))
			t.touch(p)
			if a.depth+1 < adjustmentDepth && shift != 0 {
				queue = append(queue, adjustment{index: p, delta: shift, depth: a.depth + 1})
			}
		}
	}
}

// flush frees the subtrees below nodes completed since the last flush.
func (t *Tree) flush() {
	for _, index := range t.trims {
		n := &t.arena.nodes[index]
		if !n.live || !n.complete || index == t.root.Index {
			continue
		}
		for i := range n.edges {
			e := &n.edges[i]
			child := t.arena.get(e.child)
			if child == nil {
				continue
			}
			e.average = child.average
			child.removeParent(index)
			if len(child.parents) == 0 && e.child.Index != t.root.Index {
				n.descendants = max(0, n.descendants-child.descendants-1)
				if e.visits > 0 {
					n.trimmed++
				}
				t.freeSubtree(e.child.Index)
			}
		}
	}
	t.trims = t.trims[:0]
}

// freeSubtree releases index and every descendant left without a parent.
func (t *Tree) freeSubtree(index int32) {
	t.stack = append(t.stack[:0], index)
	for len(t.stack) > 0 {
		i := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		n := &t.arena.nodes[i]
		if !n.live {
			continue
		}
		for _, e := range n.edges {
			child := t.arena.get(e.child)
			if child == nil {
				continue
			}
			child.removeParent(i)
			if len(child.parents) == 0 && e.child.Index != t.root.Index {
				t.stack = append(t.stack, e.child.Index)
			}
		}
		t.arena.release(i)
	}
}

// detach removes index from all of its parents' edges.
func (t *Tree) detach(index int32) {
	n := &t.arena.nodes[index]
	for _, p := range n.parents {
		parent := &t.arena.nodes[p]
		for i := range parent.edges {
			e := &parent.edges[i]
			if e.child.Index == index && e.child.Seq == n.seq {
				e.average = n.average
				e.child = nilRef
				if e.visits > 0 {
					parent.trimmed++
				}
			}
		}
		parent.descendants = max(0, parent.descendants-n.descendants-1)
		parent.invalidate()
	}
	n.parents = n.parents[:0]
}

// evictOne frees the node least likely to be revisited, found by walking
// down from the root along the lowest selection scores, scaled up by
// subtree size. It reports whether anything was freed.
func (t *Tree) evictOne() bool {
	root := t.arena.get(t.root)
	if root == nil {
		return false
	}
	index := t.root.Index
	for depth := 0; depth < maxWalkDepth; depth++ {
		n := &t.arena.nodes[index]
		parent := Parent{Visits: n.visits, Average: n.average, AverageSquared: n.avgSq}
		next, lowest := int32(-1), math.Inf(1)
		for i := range n.edges {
			e := &n.edges[i]
			child := t.arena.get(e.child)
			if child == nil || child.pending > 0 || t.onPath(e.child.Index) {
				continue
			}
			score := 0.0
			if e.visits > 0 {
				score = t.strategy.Score(parent, t.candidate(e), t.bias) * (1 + math.Log1p(float64(child.descendants)))
			}
			if score < lowest {
				next, lowest = e.child.Index, score
			}
		}
		if next < 0 {
			break
		}
		index = next
	}
	if index == t.root.Index {
		return false
	}
	t.detach(index)
	t.freeSubtree(index)
	t.metrics.AddEviction()
	return true
}

// ensureHeadroom evicts until at least headroom slots are free.
func (t *Tree) ensureHeadroom(headroom int) {
	for t.arena.available() < headroom {
		if !t.evictOne() {
			return
		}
	}
}

// FreeAllBut keeps keep and everything reachable from it and releases
// every other node exactly once. A nil keep empties the tree.
func (t *Tree) FreeAllBut(keep NodeRef) {
	t.markGen++
	gen := t.markGen
	if t.arena.get(keep) != nil {
		t.stack = append(t.stack[:0], keep.Index)
		for len(t.stack) > 0 {
			i := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			n := &t.arena.nodes[i]
			if n.mark == gen {
				continue
			}
			n.mark = gen
			for _, e := range n.edges {
				if t.arena.get(e.child) != nil {
					t.stack = append(t.stack, e.child.Index)
				}
			}
		}
	}

	for i := 0; i < t.arena.used; i++ {
		n := &t.arena.nodes[i]
		if n.live && n.mark != gen {
			t.arena.release(int32(i))
		}
	}
	for i := 0; i < t.arena.used; i++ {
		n := &t.arena.nodes[i]
		if !n.live {
			continue
		}
		kept := n.parents[:0]
		for _, p := range n.parents {
			if t.arena.nodes[p].live {
				kept = append(kept, p)
			}
		}
		n.parents = kept
	}
	if t.arena.get(keep) == nil {
		t.root = nilRef
	}
	t.trims = t.trims[:0]
	t.worklist = t.worklist[:0]
}

// BestMove picks our move at the root: a proven win if there is one,
// otherwise the best average among well-sampled children. Without any
// samples it falls back to the first legal move.
func (t *Tree) BestMove() *statemachine.MoveInfo {
	root := t.arena.get(t.root)
	if root == nil {
		return nil
	}
	if !root.expanded {
		t.expand(t.root.Index)
	}
	if len(root.edges) == 0 {
		return nil
	}
	if root.best >= 0 && root.best < len(root.edges) {
		return root.edges[root.best].move
	}

	mostVisits := 0
	for i := range root.edges {
		if v := root.edges[i].visits; v > mostVisits {
			mostVisits = v
		}
	}

	best, bestScore, bestVisits := 0, math.Inf(-1), -1
	for i := range root.edges {
		e := &root.edges[i]
		c := t.candidate(e)
		if c.Complete && c.Average >= WIN {
			best = i
			break
		}
		if !c.Complete && e.visits*10 < mostVisits {
			continue
		}
		if e.visits == 0 && !c.Complete {
			continue
		}
		if c.Average > bestScore || (c.Average == bestScore && e.visits > bestVisits) {
			best, bestScore, bestVisits = i, c.Average, e.visits
		}
	}
	root.best = best
	return root.edges[best].move
}

// MoveVisits is the sampling record of one root move.
type MoveVisits struct {
	Move     *statemachine.MoveInfo
	Visits   int
	Average  float64
	Complete bool
}

// RootMoves lists the root's moves with their visit counts.
func (t *Tree) RootMoves() []MoveVisits {
	root := t.arena.get(t.root)
	if root == nil {
		return nil
	}
	out := make([]MoveVisits, 0, len(root.edges))
	for i := range root.edges {
		e := &root.edges[i]
		c := t.candidate(e)
		out = append(out, MoveVisits{Move: e.move, Visits: e.visits, Average: c.Average, Complete: c.Complete})
	}
	return out
}
