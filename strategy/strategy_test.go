package strategy

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/wordent/pool"
	"github.com/domino14/wordent/word"
)

func TestRandomDeterministic(t *testing.T) {
	is := is.New(t)
	words, err := word.FromStrings([]string{"apple", "bravo", "crane", "doubt", "eagle"})
	is.NoErr(err)
	p := pool.FromWords(words)

	var seed [32]byte
	seed[0] = 42
	a, b := NewRandom(seed), NewRandom(seed)
	for i := 0; i < 50; i++ {
		ga, err := a.BestGuess(p)
		is.NoErr(err)
		gb, err := b.BestGuess(p)
		is.NoErr(err)
		is.Equal(ga, gb)
		is.True(p.Contains(ga.Word))
	}
	is.Equal(a.Name(), RandomStrategy)
}

func TestRandomEmptyPool(t *testing.T) {
	is := is.New(t)
	_, err := NewRandom([32]byte{}).BestGuess(pool.New(nil))
	is.True(errors.Is(err, pool.ErrEmptyPool))
}
