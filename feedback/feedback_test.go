package feedback

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/wordent/word"
)

func p(marks ...Mark) Pattern {
	var pat Pattern
	copy(pat[:], marks)
	return pat
}

func TestScore(t *testing.T) {
	is := is.New(t)
	type testcase struct {
		guess, secret string
		expected      Pattern
	}
	cases := []testcase{
		{"apple", "apple", Solved},
		{"apple", "bravo", p(Present, Absent, Absent, Absent, Absent)},
		{"apple", "apric", p(Correct, Correct, Absent, Absent, Absent)},
		{"apple", "plape", p(Present, Present, Present, Present, Correct)},
		{"apple", "ppppp", p(Absent, Correct, Correct, Absent, Absent)},
		{"abcde", "fghij", p(Absent, Absent, Absent, Absent, Absent)},
		{"aaabc", "aabbb", p(Correct, Correct, Absent, Correct, Absent)},
		// only one e in the secret; the exact match consumes it.
		{"geese", "those", p(Absent, Absent, Absent, Correct, Correct)},
		{"speed", "abide", p(Absent, Absent, Present, Absent, Present)},
	}
	for _, tc := range cases {
		got := Score(word.MustFromString(tc.guess), word.MustFromString(tc.secret))
		is.Equal(got, tc.expected) // tc.guess vs tc.secret
	}
}

func TestScoreSelfIsSolved(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"tares", "eerie", "mamma", "fuzzy", "crane"} {
		w := word.MustFromString(s)
		is.True(Score(w, w).IsSolved())
		is.Equal(ScoreIndex(w, w), uint8(SolvedIndex))
	}
}

func TestIndexRoundTrip(t *testing.T) {
	is := is.New(t)
	seen := map[uint8]bool{}
	for i := 0; i < NumPatterns; i++ {
		pat := FromIndex(uint8(i))
		is.Equal(pat.Index(), uint8(i))
		seen[pat.Index()] = true
	}
	is.Equal(len(seen), NumPatterns)
	// position 0 is the least significant digit
	is.Equal(p(Present, Absent, Absent, Absent, Absent).Index(), uint8(1))
	is.Equal(p(Absent, Absent, Absent, Absent, Correct).Index(), uint8(162))
	is.Equal(Solved.Index(), uint8(SolvedIndex))
}

func TestParse(t *testing.T) {
	is := is.New(t)
	pat, err := Parse("gy-.x")
	is.NoErr(err)
	is.Equal(pat, p(Correct, Present, Absent, Absent, Absent))

	pat, err = Parse("21002")
	is.NoErr(err)
	is.Equal(pat, p(Correct, Present, Absent, Absent, Correct))
	is.Equal(pat.String(), "gy--g")

	_, err = Parse("gyy")
	is.True(errors.Is(err, ErrBadPattern))
	_, err = Parse("gyyzz")
	is.True(errors.Is(err, ErrBadPattern))
}

func BenchmarkScore(b *testing.B) {
	guess := word.MustFromString("tares")
	secret := word.MustFromString("eerie")
	for i := 0; i < b.N; i++ {
		Score(guess, secret)
	}
}
