package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/domino14/wordent/entropy"
	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/pool"
	"github.com/domino14/wordent/strategy"
	"github.com/domino14/wordent/word"
)

func mkpool(ss ...string) *pool.Pool {
	words, err := word.FromStrings(ss)
	if err != nil {
		panic(err)
	}
	return pool.FromWords(words)
}

var ranker = entropy.NewRanker(pool.DirectScorer{})

func TestOpeningIsSecret(t *testing.T) {
	is := is.New(t)
	p := mkpool("apple", "bravo", "crane", "doubt", "eagle")
	opening, ok := p.Find(word.MustFromString("apple"))
	is.True(ok)
	g := NewGame(word.MustFromString("apple"), p, ranker, pool.DirectScorer{},
		Options{Opening: &opening})
	res, err := g.Play(context.Background())
	is.NoErr(err)
	is.True(res.Solved)
	is.Equal(res.Guesses, 1)
	is.Equal(g.State(), Solved)
	is.Equal(res.Turns[0].Pattern, feedback.Solved)
}

func TestEverySecretSolves(t *testing.T) {
	is := is.New(t)
	p := mkpool("apple", "bravo", "crane", "doubt", "eagle", "ample",
		"maple", "angle", "ankle", "tares", "crate", "trace")
	for _, secret := range p.Words() {
		g := NewGame(secret, p, ranker, pool.DirectScorer{}, Options{})
		res, err := g.Play(context.Background())
		is.NoErr(err)
		is.True(res.Solved)
		is.True(res.Guesses <= DefaultMaxGuesses)
		is.Equal(res.Turns[len(res.Turns)-1].Guess, secret)
		// the pool never grows and always keeps the secret
		prev := p.Len()
		for _, turn := range res.Turns {
			is.True(turn.Remaining <= prev)
			prev = turn.Remaining
		}
	}
	// the starting pool is untouched
	is.Equal(p.Len(), 12)
}

func TestBudgetBoundary(t *testing.T) {
	is := is.New(t)
	// every guess splits this pool evenly, so the ranker takes them in
	// order and ccccc is found on the third guess.
	p := mkpool("aaaaa", "bbbbb", "ccccc")
	secret := word.MustFromString("ccccc")
	type testcase struct {
		maxGuesses int
		playOut    bool
		solved     bool
		guesses    int
	}
	cases := []testcase{
		{3, false, true, 3},
		{2, false, false, 3},
		{1, false, false, 2},
		{1, true, false, 3},
	}
	for _, tc := range cases {
		g := NewGame(secret, p, ranker, pool.DirectScorer{},
			Options{MaxGuesses: tc.maxGuesses, PlayOut: tc.playOut})
		res, err := g.Play(context.Background())
		is.NoErr(err)
		is.Equal(res.Solved, tc.solved)
		is.Equal(res.Guesses, tc.guesses)
		if !tc.solved {
			is.Equal(g.State(), Exhausted)
		}
	}
}

func TestPlayTurnAfterEnd(t *testing.T) {
	is := is.New(t)
	p := mkpool("crane")
	g := NewGame(word.MustFromString("crane"), p, ranker, pool.DirectScorer{}, Options{})
	is.Equal(g.State(), Init)
	turn, err := g.PlayTurn()
	is.NoErr(err)
	is.Equal(turn.Number, 1)
	is.Equal(g.State(), Solved)
	_, err = g.PlayTurn()
	is.True(errors.Is(err, ErrGameOver))
}

func TestSecretOutsidePool(t *testing.T) {
	is := is.New(t)
	p := mkpool("aaaaa", "bbbbb")
	g := NewGame(word.MustFromString("zzzzz"), p, ranker, pool.DirectScorer{}, Options{})
	_, err := g.Play(context.Background())
	is.True(errors.Is(err, pool.ErrEmptyPool))
	is.True(pool.IsInvariant(err))
}

func TestTimeout(t *testing.T) {
	is := is.New(t)
	p := mkpool("aaaaa", "bbbbb", "ccccc")
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	g := NewGame(word.MustFromString("ccccc"), p, ranker, pool.DirectScorer{}, Options{})
	res, err := g.Play(ctx)
	is.True(errors.Is(err, context.DeadlineExceeded))
	is.True(res.TimedOut)
	is.True(!res.Solved)
	is.Equal(g.State(), Exhausted)
}

func TestRandomStrategySolves(t *testing.T) {
	is := is.New(t)
	p := mkpool("apple", "bravo", "crane", "doubt", "eagle")
	secret := word.MustFromString("doubt")
	g := NewGame(secret, p, strategy.NewRandom([32]byte{7}), pool.DirectScorer{},
		Options{PlayOut: true})
	res, err := g.Play(context.Background())
	is.NoErr(err)
	is.Equal(res.Turns[len(res.Turns)-1].Guess, secret)
	is.True(res.Guesses <= p.Len())
}

func BenchmarkPlay(b *testing.B) {
	p := mkpool("apple", "bravo", "crane", "doubt", "eagle", "ample",
		"maple", "angle", "ankle", "tares", "crate", "trace")
	secret := word.MustFromString("trace")
	for i := 0; i < b.N; i++ {
		g := NewGame(secret, p, ranker, pool.DirectScorer{}, Options{})
		g.Play(context.Background())
	}
}
