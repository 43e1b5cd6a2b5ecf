package entropy

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/pool"
	"github.com/domino14/wordent/stats"
	"github.com/domino14/wordent/word"
)

func mkpool(ss ...string) *pool.Pool {
	words, err := word.FromStrings(ss)
	if err != nil {
		panic(err)
	}
	return pool.FromWords(words)
}

func TestEntropyTwoEqualBuckets(t *testing.T) {
	is := is.New(t)
	p := mkpool("aaaaa", "bbbbb")
	r := NewRanker(pool.DirectScorer{})
	h, err := r.Entropy(p.At(0), p)
	is.NoErr(err)
	is.True(stats.FuzzyEqual(h, 1.0))
}

func TestEntropyUselessGuess(t *testing.T) {
	is := is.New(t)
	p := mkpool("aaaaa", "bbbbb", "ccccc")
	r := NewRanker(pool.DirectScorer{})
	// zzzzz is absent everywhere in every word: a single bucket.
	h, err := r.Entropy(pool.NewEntry(word.MustFromString("zzzzz"), 1), p)
	is.NoErr(err)
	is.Equal(h, 0.0)

	// bbbbb only tells its own secret apart from the other two.
	h, err = r.Entropy(p.At(1), p)
	is.NoErr(err)
	is.True(stats.FuzzyEqual(h, -(2.0/3*math.Log2(2.0/3) + 1.0/3*math.Log2(1.0/3))))
}

func TestEntropyFullySeparatingGuess(t *testing.T) {
	is := is.New(t)
	p := mkpool("aaaaa", "bbbbb", "ccccc")
	r := NewRanker(pool.DirectScorer{})
	// each secret lights up a different position of abcxx
	h, err := r.Entropy(pool.NewEntry(word.MustFromString("abcxx"), 1), p)
	is.NoErr(err)
	is.True(stats.FuzzyEqual(h, math.Log2(3)))
}

func TestEntropyWeighted(t *testing.T) {
	is := is.New(t)
	p := pool.New([]pool.Entry{
		{Word: word.MustFromString("aaaaa"), Weight: 3, Index: 0},
		{Word: word.MustFromString("bbbbb"), Weight: 1, Index: 1},
	})
	r := NewRanker(pool.DirectScorer{})
	h, err := r.Entropy(p.At(0), p)
	is.NoErr(err)
	expected := -(0.75*math.Log2(0.75) + 0.25*math.Log2(0.25))
	is.True(stats.FuzzyEqual(h, expected))
}

func TestEntropyNonNegative(t *testing.T) {
	is := is.New(t)
	p := mkpool("apple", "bravo", "crane", "doubt", "eagle", "ample", "maple")
	r := NewRanker(pool.DirectScorer{})
	for _, c := range p.Entries() {
		h, err := r.Entropy(c, p)
		is.NoErr(err)
		is.True(h >= 0)
		buckets := map[uint8]bool{}
		for _, s := range p.Entries() {
			buckets[feedback.ScoreIndex(c.Word, s.Word)] = true
		}
		is.Equal(h == 0, len(buckets) == 1)
	}
}

func TestBestGuessSingle(t *testing.T) {
	is := is.New(t)
	p := mkpool("crane")
	g, err := NewRanker(pool.DirectScorer{}).BestGuess(p)
	is.NoErr(err)
	is.Equal(g.Word, word.MustFromString("crane"))
}

func TestBestGuessTieKeepsFirst(t *testing.T) {
	is := is.New(t)
	// every guess splits the pool into two singleton buckets.
	p := mkpool("aaaaa", "bbbbb")
	g, err := NewRanker(pool.DirectScorer{}).BestGuess(p)
	is.NoErr(err)
	is.Equal(g.Word.String(), "aaaaa")

	p = mkpool("bbbbb", "aaaaa")
	g, err = NewRanker(pool.DirectScorer{}).BestGuess(p)
	is.NoErr(err)
	is.Equal(g.Word.String(), "bbbbb")
}

type countingScorer struct {
	pool.DirectScorer
	calls int
}

func (c *countingScorer) PatternIndex(guess, secret pool.Entry) uint8 {
	c.calls++
	return c.DirectScorer.PatternIndex(guess, secret)
}

func TestBestGuessScoresEachCandidateOnce(t *testing.T) {
	is := is.New(t)
	p := mkpool("abcde", "abcdf", "abcdg", "vwxyz")
	sc := &countingScorer{}
	_, err := NewRanker(sc).BestGuess(p)
	is.NoErr(err)
	// one histogram over the pool per candidate
	is.Equal(sc.calls, p.Len()*p.Len())
}

func TestBestGuessPicksMaximum(t *testing.T) {
	is := is.New(t)
	p := mkpool("abcde", "abcdf", "abcdg", "vwxyz")
	r := NewRanker(pool.DirectScorer{})
	g, err := r.BestGuess(p)
	is.NoErr(err)
	ranked, err := r.Rank(p, 0)
	is.NoErr(err)
	is.Equal(len(ranked), 4)
	is.Equal(ranked[0].Entry, g)
	for i := 1; i < len(ranked); i++ {
		is.True(ranked[i-1].Entropy >= ranked[i].Entropy)
	}
	// vwxyz can only tell "vwxyz or not"
	is.Equal(ranked[3].Entry.Word.String(), "vwxyz")
}

func TestVocabularyRanker(t *testing.T) {
	is := is.New(t)
	vocab := mkpool("fight", "light", "might", "night", "sight", "flmns")
	p := pool.New(vocab.Entries()[:5])

	poolOnly, err := NewRanker(pool.DirectScorer{}).Rank(p, 0)
	is.NoErr(err)
	is.Equal(len(poolOnly), 5)

	r := NewVocabularyRanker(pool.DirectScorer{}, vocab)
	is.Equal(r.Policy(), FullVocabulary)
	g, err := r.BestGuess(p)
	is.NoErr(err)
	// flmns tells apart f, l, m, n and s in one go.
	is.Equal(g.Word.String(), "flmns")
	ranked, err := r.Rank(p, 2)
	is.NoErr(err)
	is.Equal(len(ranked), 2)
	is.True(!ranked[0].InPool)
	is.True(stats.FuzzyEqual(ranked[0].Entropy, math.Log2(5)))
}

func TestInvariantErrors(t *testing.T) {
	is := is.New(t)
	r := NewRanker(pool.DirectScorer{})
	_, err := r.BestGuess(pool.New(nil))
	is.True(errors.Is(err, pool.ErrEmptyPool))
	is.True(pool.IsInvariant(err))

	zero := pool.New([]pool.Entry{
		pool.NewEntry(word.MustFromString("aaaaa"), 0),
		pool.NewEntry(word.MustFromString("bbbbb"), 0),
	})
	_, err = r.BestGuess(zero)
	is.True(errors.Is(err, pool.ErrZeroWeight))
	_, err = r.Entropy(zero.At(0), zero)
	is.True(errors.Is(err, pool.ErrZeroWeight))
}

func BenchmarkBestGuess(b *testing.B) {
	words := []string{}
	for c1 := 'a'; c1 <= 'j'; c1++ {
		for c2 := 'k'; c2 <= 't'; c2++ {
			words = append(words, string([]rune{c1, c2, 'a', c1, c2}))
		}
	}
	p := mkpool(words...)
	r := NewRanker(pool.DirectScorer{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.BestGuess(p)
	}
}
