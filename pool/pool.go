// Package pool holds the weighted set of words still consistent with every
// response seen so far, and the reduction step that shrinks it.
package pool

import (
	"github.com/samber/lo"

	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/word"
)

// NoIndex marks an entry that does not belong to any vocabulary ordering.
const NoIndex = -1

// Entry is a word with its weight and its position in the vocabulary it was
// drawn from. Scorers backed by a precomputed matrix use Index for lookups.
type Entry struct {
	Word   word.Word
	Weight uint64
	Index  int
}

// NewEntry builds an entry that has no vocabulary position.
func NewEntry(w word.Word, weight uint64) Entry {
	return Entry{Word: w, Weight: weight, Index: NoIndex}
}

// Pool is an ordered, immutable list of entries. Reduction returns a new
// Pool and leaves the receiver untouched; order is preserved so iteration
// (and therefore tie-breaking) is deterministic.
type Pool struct {
	entries []Entry
	total   uint64
}

// New makes a pool from entries, copying the slice.
func New(entries []Entry) *Pool {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return newOwned(cp)
}

func newOwned(entries []Entry) *Pool {
	return &Pool{
		entries: entries,
		total:   lo.SumBy(entries, func(e Entry) uint64 { return e.Weight }),
	}
}

// FromWords builds an unweighted pool (every weight is 1). The i-th word gets
// vocabulary index i.
func FromWords(words []word.Word) *Pool {
	entries := make([]Entry, len(words))
	for i, w := range words {
		entries[i] = Entry{Word: w, Weight: 1, Index: i}
	}
	return newOwned(entries)
}

func (p *Pool) Len() int {
	return len(p.entries)
}

func (p *Pool) TotalWeight() uint64 {
	return p.total
}

// Entries returns the pool's backing slice. Callers must not modify it.
func (p *Pool) Entries() []Entry {
	return p.entries
}

// At returns the i-th entry.
func (p *Pool) At(i int) Entry {
	return p.entries[i]
}

// Words returns a copy of the words in pool order.
func (p *Pool) Words() []word.Word {
	return lo.Map(p.entries, func(e Entry, _ int) word.Word { return e.Word })
}

// Find returns the entry for w, if it's in the pool.
func (p *Pool) Find(w word.Word) (Entry, bool) {
	return lo.Find(p.entries, func(e Entry) bool { return e.Word == w })
}

func (p *Pool) Contains(w word.Word) bool {
	_, ok := p.Find(w)
	return ok
}

// Reduce keeps exactly the entries that would have produced observed had
// they been the secret. The result is never larger than p.
func (p *Pool) Reduce(guess Entry, observed feedback.Pattern, scorer Scorer) *Pool {
	return p.ReduceIndex(guess, observed.Index(), scorer)
}

// ReduceIndex is Reduce with the pattern already encoded.
func (p *Pool) ReduceIndex(guess Entry, observed uint8, scorer Scorer) *Pool {
	kept := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		if scorer.PatternIndex(guess, e) == observed {
			kept = append(kept, e)
		}
	}
	return newOwned(kept)
}
