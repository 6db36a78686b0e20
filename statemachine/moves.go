package statemachine

import (
	"github.com/bits-and-blooms/bitset"
)

// MoveInfo describes one legal move of the network. Index is the global
// move index fixed by the network's ordered legal move list.
type MoveInfo struct {
	Index      int
	Role       int
	Label      string
	Input      int32
	Legal      int32
	Factor     int
	PseudoNoOp bool
}

func (m *MoveInfo) String() string {
	if m == nil {
		return "<none>"
	}
	return m.Label
}

// LegalMoveSet tracks the currently legal moves of every role. It is the
// legal notifier of one evaluator instance.
type LegalMoveSet struct {
	moves []*MoveInfo
	roles []*bitset.BitSet
}

func newLegalMoveSet(moves []*MoveInfo, numRoles int) *LegalMoveSet {
	l := &LegalMoveSet{moves: moves, roles: make([]*bitset.BitSet, numRoles)}
	for i := range l.roles {
		l.roles[i] = bitset.New(uint(len(moves)))
	}
	return l
}

func (l *LegalMoveSet) Add(index int) {
	l.roles[l.moves[index].Role].Set(uint(index))
}

func (l *LegalMoveSet) Remove(index int) {
	l.roles[l.moves[index].Role].Clear(uint(index))
}

func (l *LegalMoveSet) Contains(index int) bool {
	return l.roles[l.moves[index].Role].Test(uint(index))
}

func (l *LegalMoveSet) Count(role int) int {
	return int(l.roles[role].Count())
}

func (l *LegalMoveSet) Each(role int, fn func(m *MoveInfo)) {
	set := l.roles[role]
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		fn(l.moves[i])
	}
}

// Nth returns the k-th legal move of role in index order.
func (l *LegalMoveSet) Nth(role, k int) *MoveInfo {
	set := l.roles[role]
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		if k == 0 {
			return l.moves[i]
		}
		k--
	}
	return nil
}

func (l *LegalMoveSet) List(role int) []*MoveInfo {
	out := make([]*MoveInfo, 0, l.Count(role))
	l.Each(role, func(m *MoveInfo) {
		out = append(out, m)
	})
	return out
}

func (l *LegalMoveSet) clear() {
	for _, set := range l.roles {
		set.ClearAll()
	}
}

const initialWeight = 50

// MoveWeights is a learned per-move preference used to bias rollouts. Each
// weight is the running average score of the mover in rollouts that played
// the move. It is owned by a single goroutine.
type MoveWeights struct {
	scores  []float64
	samples int
}

func NewMoveWeights(numMoves int) *MoveWeights {
	w := &MoveWeights{scores: make([]float64, numMoves)}
	w.Clear()
	return w
}

func (w *MoveWeights) Clear() {
	for i := range w.scores {
		w.scores[i] = initialWeight
	}
	w.samples = 1
}

func (w *MoveWeights) Weight(index int) float64 {
	return w.scores[index]
}

// AddSample folds the final per-role scores of one rollout into the
// weights of the moves it played.
func (w *MoveWeights) AddSample(scores []int, played []*MoveInfo) {
	for _, m := range played {
		old := w.scores[m.Index]
		w.scores[m.Index] = (old*float64(w.samples) + float64(scores[m.Role])) / float64(w.samples+1)
	}
	w.samples++
}

// Samples counts folded rollouts, starting at one for the prior.
func (w *MoveWeights) Samples() int {
	return w.samples
}
