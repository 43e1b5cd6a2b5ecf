package wordlist

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/wordent/word"
)

func TestReadWords(t *testing.T) {
	is := is.New(t)
	words, err := ReadWords(strings.NewReader("apple\n  BRAVO \r\n\ncrane\n"), "test")
	is.NoErr(err)
	is.Equal(len(words), 3)
	is.Equal(words[1], word.MustFromString("bravo"))
}

func TestReadWordsErrors(t *testing.T) {
	type testcase struct {
		input  string
		line   int
		expErr error
	}
	cases := []testcase{
		{"apple\nbrav\n", 2, word.ErrWordLength},
		{"apple\nbravos\n", 2, word.ErrWordLength},
		{"apple\nbr4vo\n", 2, word.ErrWordChar},
		{"apple\nbravo crane\n", 2, ErrMalformedLine},
		{"apple\ncrane\nApple\n", 3, ErrDuplicateWord},
	}
	for _, tc := range cases {
		_, err := ReadWords(strings.NewReader(tc.input), "words.txt")
		assert.ErrorIs(t, err, tc.expErr, tc.input)
		var le *LoadError
		if assert.True(t, errors.As(err, &le)) {
			assert.Equal(t, tc.line, le.Line)
			assert.Equal(t, "words.txt", le.Path)
		}
	}
}

func TestReadWeighted(t *testing.T) {
	is := is.New(t)
	entries, err := ReadWeighted(strings.NewReader("tares 100\nCRANE\t25\nzzzzz 0\n"), "dict")
	is.NoErr(err)
	is.Equal(entries, []Weighted{
		{word.MustFromString("tares"), 100},
		{word.MustFromString("crane"), 25},
		{word.MustFromString("zzzzz"), 0},
	})
}

func TestReadWeightedErrors(t *testing.T) {
	type testcase struct {
		input  string
		expErr error
	}
	cases := []testcase{
		{"tares\n", ErrMalformedLine},
		{"tares 10 20\n", ErrMalformedLine},
		{"tares ten\n", ErrBadCount},
		{"tares -3\n", ErrBadCount},
		{"tare 3\n", word.ErrWordLength},
	}
	for _, tc := range cases {
		_, err := ReadWeighted(strings.NewReader(tc.input), "dict")
		assert.ErrorIs(t, err, tc.expErr, tc.input)
	}
}

func TestLoadMissingFile(t *testing.T) {
	is := is.New(t)
	_, err := LoadWords(filepath.Join(t.TempDir(), "nope.txt"))
	is.True(errors.Is(err, os.ErrNotExist))
	var le *LoadError
	is.True(errors.As(err, &le))
}

func TestLoadFiles(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	is.NoErr(os.WriteFile(filepath.Join(dir, "p.txt"), []byte("apple\neagle\n"), 0o644))
	is.NoErr(os.WriteFile(filepath.Join(dir, "d.txt"), []byte("apple 3\neagle 4\n"), 0o644))
	words, err := LoadWords(filepath.Join(dir, "p.txt"))
	is.NoErr(err)
	is.Equal(len(words), 2)
	ws, err := LoadWeighted(filepath.Join(dir, "d.txt"))
	is.NoErr(err)
	is.Equal(ws[1].Count, uint64(4))
}

func TestVocabulary(t *testing.T) {
	is := is.New(t)
	ws := []Weighted{
		{word.MustFromString("tares"), 100},
		{word.MustFromString("crane"), 0},
		{word.MustFromString("eagle"), 7},
	}
	v := NewVocabulary(ws, 1)
	is.Equal(v.Len(), 3)

	e, ok := v.Entry(word.MustFromString("crane"))
	is.True(ok)
	is.Equal(e.Index, 1)
	is.Equal(e.Weight, uint64(1)) // raised to the floor

	p := v.Pool()
	is.Equal(p.Len(), 3)
	is.Equal(p.TotalWeight(), uint64(108))

	loose := v.EntryOrLoose(word.MustFromString("zebra"))
	is.Equal(loose.Index, -1)

	missing := v.Missing([]word.Word{word.MustFromString("eagle"), word.MustFromString("zebra")})
	is.Equal(missing, []word.Word{word.MustFromString("zebra")})

	uv := NewVocabulary(Unweighted(v.Words()), 1)
	is.Equal(uv.Pool().TotalWeight(), uint64(3))
}
