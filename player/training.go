package player

import (
	"math"

	"golang.org/x/exp/rand"

	"gamer/searcher"
	"gamer/statemachine"
)

// sampler draws root moves from their visit distribution, for varied
// self-play.
type sampler struct {
	rng *rand.Rand
}

func newSampler(seed uint64) *sampler {
	return &sampler{rng: rand.New(rand.NewSource(seed))}
}

// adjustTemperature turns visit counts into probabilities proportional to
// visits^(1/temperature).
func adjustTemperature(visits []searcher.MoveVisits, temperature float64) []float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	policy := make([]float64, len(visits))
	for i, v := range visits {
		policy[i] = math.Pow(float64(v.Visits), exponent)
		sum += policy[i]
	}
	if sum == 0 {
		return nil
	}
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func (s *sampler) sample(visits []searcher.MoveVisits, temperature float64) *statemachine.MoveInfo {
	policy := adjustTemperature(visits, temperature)
	if policy == nil {
		return nil
	}
	sampled := s.rng.Float64()
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return visits[i].Move
		}
	}
	return visits[len(visits)-1].Move // rounding
}
