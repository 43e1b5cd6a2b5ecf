package wordlist

import (
	"github.com/samber/lo"

	"github.com/domino14/wordent/pool"
	"github.com/domino14/wordent/word"
)

// Vocabulary is the ordered list of words a game may guess. Its order fixes
// the rows and columns of a score cache built from it.
type Vocabulary struct {
	entries []pool.Entry
	words   []word.Word
	index   map[word.Word]int
}

// NewVocabulary builds a vocabulary from weighted words in file order.
// Counts below weightFloor are raised to it.
func NewVocabulary(ws []Weighted, weightFloor uint64) *Vocabulary {
	v := &Vocabulary{
		entries: make([]pool.Entry, len(ws)),
		words:   make([]word.Word, len(ws)),
		index:   make(map[word.Word]int, len(ws)),
	}
	for i, w := range ws {
		v.entries[i] = pool.Entry{Word: w.Word, Weight: max(w.Count, weightFloor), Index: i}
		v.words[i] = w.Word
		v.index[w.Word] = i
	}
	return v
}

// Unweighted gives every word a count of 1.
func Unweighted(words []word.Word) []Weighted {
	return lo.Map(words, func(w word.Word, _ int) Weighted {
		return Weighted{Word: w, Count: 1}
	})
}

func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Words returns the vocabulary in order. Do not modify.
func (v *Vocabulary) Words() []word.Word {
	return v.words
}

// Entry returns w's pool entry.
func (v *Vocabulary) Entry(w word.Word) (pool.Entry, bool) {
	i, ok := v.index[w]
	if !ok {
		return pool.Entry{}, false
	}
	return v.entries[i], true
}

// EntryOrLoose returns w's pool entry, or an entry with no vocabulary index
// if w is not in the vocabulary.
func (v *Vocabulary) EntryOrLoose(w word.Word) pool.Entry {
	if e, ok := v.Entry(w); ok {
		return e
	}
	return pool.NewEntry(w, 1)
}

func (v *Vocabulary) Contains(w word.Word) bool {
	_, ok := v.index[w]
	return ok
}

// Missing returns the words in ws that are not in the vocabulary.
func (v *Vocabulary) Missing(ws []word.Word) []word.Word {
	return lo.Reject(ws, func(w word.Word, _ int) bool { return v.Contains(w) })
}

// Pool returns a fresh pool holding the whole vocabulary.
func (v *Vocabulary) Pool() *pool.Pool {
	return pool.New(v.entries)
}
