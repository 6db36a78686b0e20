package statemachine

import (
	"gamer/state"
)

// greedyBudget bounds the candidate moves tried per ply by the greedy
// immediate-win lookahead.
const greedyBudget = 16

// RolloutStats accumulates what depth charges observed.
type RolloutStats struct {
	Samples      int
	Plies        int
	Branching    int
	Simultaneous bool
	Greedy       int
}

func (r *RolloutStats) AverageDepth() float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.Plies) / float64(r.Samples)
}

func (r *RolloutStats) AverageBranching() float64 {
	if r.Plies == 0 {
		return 0
	}
	return float64(r.Branching) / float64(r.Plies)
}

// DepthCharge plays from s to a terminal state choosing joint moves at
// random, weighted by weights when given. It returns the terminal state,
// which stays valid until the next depth charge on this machine.
func (m *Machine) DepthCharge(s *state.MachineState, weights *MoveWeights, stats *RolloutStats) *state.MachineState {
	m.cur.Copy(s)
	m.played = m.played[:0]
	m.stats.DepthCharges++

	for ply := 0; ply < maxDepthChargePlies; ply++ {
		if m.IsTerminal(m.cur) {
			break
		}
		m.chooseJoint(m.cur, weights, stats)
		if weights != nil {
			for _, mv := range m.joint {
				if mv != nil {
					m.played = append(m.played, mv)
				}
			}
		}
		m.advance(m.cur, m.joint, m.nxt)
		m.cur, m.nxt = m.nxt, m.cur
		m.stats.Plies++
		if stats != nil {
			stats.Plies++
		}
	}
	if stats != nil {
		stats.Samples++
	}
	return m.cur
}

// DepthChargeResult runs one depth charge from s and returns the net score
// of role in the terminal state reached. Weights, when given, learn from
// the rollout.
func (m *Machine) DepthChargeResult(s *state.MachineState, role int, weights *MoveWeights, stats *RolloutStats) int {
	final := m.DepthCharge(s, weights, stats)
	if weights != nil {
		for r := range m.scores {
			m.scores[r] = m.goalOrZero(final, r)
		}
		weights.AddSample(m.scores, m.played)
	}
	return m.NetScore(final, role)
}

// chooseJoint fills m.joint with one legal move per role for s.
func (m *Machine) chooseJoint(s *state.MachineState, weights *MoveWeights, stats *RolloutStats) {
	legal := m.Legal(s)

	chooser, choosers := -1, 0
	for role := range m.joint {
		n := legal.Count(role)
		if n > 1 {
			chooser = role
			choosers++
		}
		if stats != nil {
			stats.Branching += n
		}
	}
	if stats != nil && choosers > 1 {
		stats.Simultaneous = true
	}

	for role := range m.joint {
		m.joint[role] = m.pick(legal, role, weights)
	}

	if m.greedy && choosers == 1 && len(m.joint) <= 2 {
		if win := m.immediateWin(s, chooser); win != nil {
			m.joint[chooser] = win
			if stats != nil {
				stats.Greedy++
			}
		}
	}
}

func (m *Machine) pick(legal *LegalMoveSet, role int, weights *MoveWeights) *MoveInfo {
	n := legal.Count(role)
	if n == 0 {
		return nil
	}
	if n == 1 || weights == nil {
		return legal.Nth(role, m.rng.Intn(n))
	}

	total := 0.0
	legal.Each(role, func(mv *MoveInfo) {
		total += weights.Weight(mv.Index)
	})
	if total <= 0 {
		return legal.Nth(role, m.rng.Intn(n))
	}
	target := m.rng.Float64() * total
	var chosen *MoveInfo
	legal.Each(role, func(mv *MoveInfo) {
		if chosen != nil {
			return
		}
		target -= weights.Weight(mv.Index)
		if target <= 0 {
			chosen = mv
		}
	})
	if chosen == nil {
		chosen = legal.Nth(role, n-1)
	}
	return chosen
}

// immediateWin looks one ply ahead for a move of chooser that ends the game
// with chooser on the maximal goal. The other roles' moves in m.joint are
// kept.
func (m *Machine) immediateWin(s *state.MachineState, chooser int) *MoveInfo {
	candidates := m.Legal(s).List(chooser)
	n := len(candidates)
	if n > greedyBudget {
		n = greedyBudget
	}
	offset := m.rng.Intn(len(candidates))

	original := m.joint[chooser]
	lookahead := m.lookahead
	var win *MoveInfo
	for i := 0; i < n && win == nil; i++ {
		candidate := candidates[(offset+i)%len(candidates)]
		m.joint[chooser] = candidate
		m.advance(s, m.joint, lookahead)
		if m.IsTerminal(lookahead) && m.goalOrZero(lookahead, chooser) == 100 {
			win = candidate
		}
	}
	m.joint[chooser] = original
	return win
}

func (m *Machine) goalOrZero(s *state.MachineState, role int) int {
	value, err := m.Goal(s, role)
	if err != nil {
		return 0
	}
	return value
}
