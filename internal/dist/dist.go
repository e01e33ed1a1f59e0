// Package dist provides the seeded random source threaded through every
// generation component. All randomness in a run flows through Source
// instances derived from the configured seed, so reproducibility never
// depends on call order between components.
package dist

import (
	"math"
	"math/rand"
)

// Source wraps a deterministic PRNG with the bounded draws the generators
// need. It is not safe for concurrent use; each pipeline stage owns one.
type Source struct {
	rng *rand.Rand
}

// New returns a Source seeded deterministically.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Source) Float64() float64 {
	return s.rng.Float64()
}

// IntBetween returns a uniform integer in [lo, hi]. lo > hi is a caller bug
// and is collapsed to lo.
func (s *Source) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Normal returns a draw from N(mean, sd).
func (s *Source) Normal(mean, sd float64) float64 {
	return mean + sd*s.rng.NormFloat64()
}

// ClampedNormal returns a normal draw clamped to [lo, hi].
func (s *Source) ClampedNormal(mean, sd, lo, hi float64) float64 {
	v := s.Normal(mean, sd)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// LogNormal returns a draw from a log-normal with the given log-space
// parameters.
func (s *Source) LogNormal(mu, sigma float64) float64 {
	return math.Exp(mu + sigma*s.rng.NormFloat64())
}

// Bernoulli returns true with probability p.
func (s *Source) Bernoulli(p float64) bool {
	return s.rng.Float64() < p
}

// Binomial returns the number of successes in n Bernoulli(p) trials.
// n is small in practice (lot sizes), so the direct sum is fine.
func (s *Source) Binomial(n int, p float64) int {
	k := 0
	for i := 0; i < n; i++ {
		if s.rng.Float64() < p {
			k++
		}
	}
	return k
}

// Choice returns a uniformly chosen element. Empty input returns "".
func (s *Source) Choice(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[s.rng.Intn(len(items))]
}

// WeightedChoice returns an index drawn proportionally to weights.
// Non-positive total weight falls back to a uniform draw.
func (s *Source) WeightedChoice(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return s.rng.Intn(len(weights))
	}
	target := s.rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

// Sample returns k distinct elements chosen without replacement. If k exceeds
// the population size the whole population is returned, shuffled.
func (s *Source) Sample(items []string, k int) []string {
	if k > len(items) {
		k = len(items)
	}
	idx := s.rng.Perm(len(items))
	out := make([]string, k)
	for i := 0; i < k; i++ {
		out[i] = items[idx[i]]
	}
	return out
}
