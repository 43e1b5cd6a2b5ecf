// Package entropy ranks candidate guesses by the expected information their
// response reveals about the secret.
package entropy

import (
	"math"
	"sort"

	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/pool"
	"github.com/domino14/wordent/word"
)

// Policy decides which words may be guessed.
type Policy int

const (
	// PoolOnly guesses only words still in the candidate pool.
	PoolOnly Policy = iota
	// FullVocabulary may guess any vocabulary word, even one already ruled
	// out, when it splits the pool better.
	FullVocabulary
)

func (p Policy) String() string {
	switch p {
	case PoolOnly:
		return "pool"
	case FullVocabulary:
		return "vocabulary"
	}
	return "unknown"
}

// Ranker picks the guess with the highest entropy. It holds no mutable
// state, so one Ranker can serve many concurrent games.
type Ranker struct {
	scorer pool.Scorer
	policy Policy
	vocab  []pool.Entry
}

// NewRanker returns a ranker restricted to the current pool.
func NewRanker(scorer pool.Scorer) *Ranker {
	return &Ranker{scorer: scorer, policy: PoolOnly}
}

// NewVocabularyRanker returns a ranker that draws guesses from vocab.
// Current pool members are always tried first, so a tie goes to a word that
// could still be the answer.
func NewVocabularyRanker(scorer pool.Scorer, vocab *pool.Pool) *Ranker {
	return &Ranker{scorer: scorer, policy: FullVocabulary, vocab: vocab.Entries()}
}

func (r *Ranker) Policy() Policy {
	return r.policy
}

func (r *Ranker) Name() string {
	return "entropy-" + r.policy.String()
}

// Entropy returns the expected information, in bits, of guessing candidate
// when the secret is drawn from p in proportion to the weights.
func (r *Ranker) Entropy(candidate pool.Entry, p *pool.Pool) (float64, error) {
	if p.Len() == 0 {
		return 0, pool.Invariant("entropy", pool.ErrEmptyPool)
	}
	total := p.TotalWeight()
	if total == 0 {
		return 0, pool.Invariant("entropy", pool.ErrZeroWeight)
	}
	return r.entropy(candidate, p.Entries(), float64(total)), nil
}

func (r *Ranker) entropy(candidate pool.Entry, entries []pool.Entry, total float64) float64 {
	var hist [feedback.NumPatterns]uint64
	for _, e := range entries {
		hist[r.scorer.PatternIndex(candidate, e)] += e.Weight
	}
	h := 0.0
	for _, f := range hist {
		if f == 0 {
			continue
		}
		prob := float64(f) / total
		h -= prob * math.Log2(prob)
	}
	return h
}

// Ranked is a candidate guess with its score.
type Ranked struct {
	Entry   pool.Entry
	Entropy float64
	InPool  bool
}

// BestGuess returns the candidate with the highest entropy. Ties keep the
// first candidate in iteration order. A single-entry pool is returned as is.
func (r *Ranker) BestGuess(p *pool.Pool) (pool.Entry, error) {
	if p.Len() == 0 {
		return pool.Entry{}, pool.Invariant("best-guess", pool.ErrEmptyPool)
	}
	if p.Len() == 1 {
		return p.At(0), nil
	}
	total := p.TotalWeight()
	if total == 0 {
		return pool.Entry{}, pool.Invariant("best-guess", pool.ErrZeroWeight)
	}
	entries := p.Entries()
	ftotal := float64(total)

	var best pool.Entry
	bestH := -1.0
	r.eachCandidate(p, func(c pool.Entry, _ bool) {
		if h := r.entropy(c, entries, ftotal); h > bestH {
			best, bestH = c, h
		}
	})
	return best, nil
}

// Rank scores every candidate and returns the top n, highest entropy first.
// n <= 0 returns all of them.
func (r *Ranker) Rank(p *pool.Pool, n int) ([]Ranked, error) {
	if p.Len() == 0 {
		return nil, pool.Invariant("rank", pool.ErrEmptyPool)
	}
	total := p.TotalWeight()
	if total == 0 {
		return nil, pool.Invariant("rank", pool.ErrZeroWeight)
	}
	entries := p.Entries()
	var ranked []Ranked
	r.eachCandidate(p, func(c pool.Entry, inPool bool) {
		ranked = append(ranked, Ranked{
			Entry:   c,
			Entropy: r.entropy(c, entries, float64(total)),
			InPool:  inPool,
		})
	})
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Entropy > ranked[j].Entropy
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked, nil
}

func (r *Ranker) eachCandidate(p *pool.Pool, f func(c pool.Entry, inPool bool)) {
	for _, e := range p.Entries() {
		f(e, true)
	}
	if r.policy != FullVocabulary {
		return
	}
	inPool := make(map[word.Word]struct{}, p.Len())
	for _, e := range p.Entries() {
		inPool[e.Word] = struct{}{}
	}
	for _, e := range r.vocab {
		if _, ok := inPool[e.Word]; ok {
			continue
		}
		f(e, false)
	}
}
