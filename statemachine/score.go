package statemachine

import (
	"context"

	"gamer/state"
)

const (
	winBonus       = 5
	scoreScale     = 110
	minSampleCount = 1
)

// Characteristics summarise the game as observed by random play from the
// initial state.
type Characteristics struct {
	Samples          int
	MinRaw, MaxRaw   int
	AverageDepth     float64
	AverageBranching float64
	Puzzle           bool
	Simultaneous     bool
	Control          int
	Factors          int
}

// rawScore folds the relative standing of role into its goal: ties with the
// best opponent earn a bonus and outright leads earn twice that.
func (m *Machine) rawScore(s *state.MachineState, role int) int {
	ours := m.goalOrZero(s, role)
	if m.puzzle {
		return ours
	}

	best := -1
	for r := range m.net.Roles {
		if r == role {
			continue
		}
		if g := m.goalOrZero(s, r); g > best {
			best = g
		}
	}
	bonus := 0
	if ours >= best {
		bonus += winBonus
		if ours > best {
			bonus += winBonus
		}
	}
	return (ours + bonus) * 100 / scoreScale
}

// NetScore is the rollout score of role in s on [0,100], normalised by the
// raw score range sampled during characterisation.
func (m *Machine) NetScore(s *state.MachineState, role int) int {
	raw := m.rawScore(s, role)
	if m.puzzle {
		return raw
	}
	lo, hi := m.minRaw, m.maxRaw
	if hi <= lo {
		return raw
	}
	score := (raw - lo) * 100 / (hi - lo)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Characterize samples up to n depth charges from the initial state for
// role and adopts the observed raw score range for NetScore. It must run
// before other instances are used concurrently.
func (m *Machine) Characterize(ctx context.Context, role, n int) (Characteristics, error) {
	c := Characteristics{
		Puzzle:  m.puzzle,
		Control: m.control,
		Factors: m.net.Factors,
		MinRaw:  100,
		MaxRaw:  0,
	}
	var stats RolloutStats
	initial := m.InitialState()
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			if c.Samples >= minSampleCount {
				break
			}
			return c, err
		}
		final := m.DepthCharge(initial, nil, &stats)
		raw := m.rawScore(final, role)
		if raw < c.MinRaw {
			c.MinRaw = raw
		}
		if raw > c.MaxRaw {
			c.MaxRaw = raw
		}
		c.Samples++
	}
	if c.Samples == 0 {
		c.MinRaw, c.MaxRaw = 0, 100
	}
	c.AverageDepth = stats.AverageDepth()
	c.AverageBranching = stats.AverageBranching()
	c.Simultaneous = stats.Simultaneous

	if c.MaxRaw > c.MinRaw {
		m.SetScoreRange(c.MinRaw, c.MaxRaw)
	}
	return c, nil
}

// SetScoreRange sets the raw score range mapped onto [0,100] by NetScore.
func (m *Machine) SetScoreRange(lo, hi int) {
	m.minRaw, m.maxRaw = lo, hi
}
