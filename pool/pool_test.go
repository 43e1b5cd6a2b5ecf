package pool

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/word"
)

func mustWords(ss ...string) []word.Word {
	words, err := word.FromStrings(ss)
	if err != nil {
		panic(err)
	}
	return words
}

func wordStrings(p *Pool) []string {
	out := []string{}
	for _, w := range p.Words() {
		out = append(out, w.String())
	}
	return out
}

var testWords = mustWords("apple", "bravo", "crane", "doubt", "eagle",
	"ample", "apply", "maple", "angle", "ankle")

func TestFromWords(t *testing.T) {
	is := is.New(t)
	p := FromWords(testWords)
	is.Equal(p.Len(), 10)
	is.Equal(p.TotalWeight(), uint64(10))
	for i, e := range p.Entries() {
		is.Equal(e.Index, i)
		is.Equal(e.Weight, uint64(1))
	}
	is.True(p.Contains(word.MustFromString("maple")))
	is.True(!p.Contains(word.MustFromString("zebra")))
}

func TestNewCopiesInput(t *testing.T) {
	is := is.New(t)
	entries := []Entry{
		NewEntry(word.MustFromString("apple"), 5),
		NewEntry(word.MustFromString("bravo"), 7),
	}
	p := New(entries)
	entries[0].Weight = 100
	is.Equal(p.TotalWeight(), uint64(12))
	is.Equal(p.At(0).Index, NoIndex)
}

func TestReduce(t *testing.T) {
	p := FromWords(testWords)
	guess := Entry{Word: word.MustFromString("apple"), Index: 0}
	secret := word.MustFromString("maple")
	observed := feedback.Score(guess.Word, secret)

	reduced := p.Reduce(guess, observed, DirectScorer{})
	assert.Equal(t, []string{"maple"}, wordStrings(reduced))
	// the input is untouched
	assert.Equal(t, 10, p.Len())

	observed = feedback.Score(word.MustFromString("angle"), word.MustFromString("ankle"))
	reduced = p.Reduce(NewEntry(word.MustFromString("angle"), 1), observed, DirectScorer{})
	assert.Equal(t, []string{"ankle"}, wordStrings(reduced))
}

func TestReduceProperties(t *testing.T) {
	is := is.New(t)
	p := FromWords(testWords)
	for _, g := range p.Entries() {
		for _, s := range p.Entries() {
			observed := feedback.Score(g.Word, s.Word)
			once := p.Reduce(g, observed, DirectScorer{})
			twice := once.Reduce(g, observed, DirectScorer{})
			is.True(once.Len() <= p.Len())                  // monotone
			is.Equal(wordStrings(once), wordStrings(twice)) // idempotent
			is.True(once.Contains(s.Word))                  // secret survives
			is.Equal(once.TotalWeight(), uint64(once.Len()))
		}
	}
}

func TestInvariantError(t *testing.T) {
	is := is.New(t)
	err := fmt.Errorf("playing: %w", Invariant("reduce", ErrEmptyPool))
	is.True(IsInvariant(err))
	is.True(errors.Is(err, ErrEmptyPool))
	is.True(!IsInvariant(ErrEmptyPool))
}
