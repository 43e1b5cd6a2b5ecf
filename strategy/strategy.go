// Package strategy defines how a game picks its next guess.
package strategy

import (
	"lukechampine.com/frand"

	"github.com/domino14/wordent/pool"
)

// Strategy picks the next guess for a candidate pool.
type Strategy interface {
	BestGuess(p *pool.Pool) (pool.Entry, error)
	Name() string
}

const (
	EntropyStrategy = "entropy"
	RandomStrategy  = "random"
)

// Random guesses a uniformly random member of the pool. It is the baseline
// the entropy ranker is measured against. A Random is not safe for
// concurrent use; give each game its own.
type Random struct {
	rng *frand.RNG
}

// NewRandom seeds a generator from seed, so the same seed replays the same
// sequence of guesses.
func NewRandom(seed [32]byte) *Random {
	return &Random{rng: frand.NewCustom(seed[:], 1024, 12)}
}

func (r *Random) BestGuess(p *pool.Pool) (pool.Entry, error) {
	if p.Len() == 0 {
		return pool.Entry{}, pool.Invariant("random-guess", pool.ErrEmptyPool)
	}
	return p.At(r.rng.Intn(p.Len())), nil
}

func (r *Random) Name() string {
	return RandomStrategy
}
