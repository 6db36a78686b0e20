package searcher

import "math"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant of UCB1

const DefaultExplorationBias = 1.0

// Scores are net scores on [0,100] from the perspective of the role that
// chose the move leading to a node.
const (
	WIN  = 100.0
	LOSS = 0.0
)

// unvisitedScore ranks edges that have never been sampled above any
// statistical score.
const unvisitedScore = 1000.0

// Parent is what a strategy may know about the node being selected from.
type Parent struct {
	Visits         int
	Average        float64
	AverageSquared float64
}

// Candidate describes one edge out of the parent. Average is from the
// perspective of the role choosing at the parent.
type Candidate struct {
	Visits   int
	Pending  int
	Average  float64
	Complete bool
}

// Strategy scores candidates during selection. Higher is selected first.
type Strategy interface {
	Score(parent Parent, c Candidate, bias float64) float64
}

// ConfidenceUCT bounds the exploration term by the parent's observed score
// variance.
type ConfidenceUCT struct{}

func (ConfidenceUCT) Score(parent Parent, c Candidate, bias float64) float64 {
	visits := float64(c.Visits + c.Pending)
	lCommon := 2 * math.Log(math.Max(float64(parent.Visits), visits)+1) / visits

	variance := parent.AverageSquared - parent.Average*parent.Average
	if variance < 0 {
		variance = 0
	}
	variance = variance/10000 + math.Sqrt(lCommon)
	explore := bias * math.Sqrt(math.Min(0.5, variance)*lCommon)

	return exploitation(c) + explore
}

// UCB1 is plain UCT with a fixed exploration constant.
type UCB1 struct{}

func (UCB1) Score(parent Parent, c Candidate, bias float64) float64 {
	n := float64(c.Visits + c.Pending)
	N := math.Max(float64(parent.Visits), 1)
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return exploitation(c) + bias*math.Sqrt(CSquared*math.Log(N)/n)
}

// exploitation is the candidate's average on [0,1], with in-flight
// rollouts counted as losses.
func exploitation(c Candidate) float64 {
	if c.Pending == 0 {
		return c.Average / WIN
	}
	return c.Average * float64(c.Visits) / float64(c.Visits+c.Pending) / WIN
}

// StrategyByName resolves a configured strategy name.
func StrategyByName(name string) (Strategy, bool) {
	switch name {
	case "", "confidence", "confidence-uct":
		return ConfidenceUCT{}, true
	case "ucb1":
		return UCB1{}, true
	}
	return nil, false
}
