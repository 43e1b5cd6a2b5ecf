// Package feedback computes the per-letter response a guess receives against
// a secret word, and the base-3 integer encoding used for table lookups.
package feedback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/wordent/word"
)

// Mark is the response for a single position.
type Mark uint8

const (
	Absent Mark = iota
	Present
	Correct
)

// NumPatterns is the number of distinct patterns, 3^5.
const NumPatterns = 243

// SolvedIndex is the index of the all-Correct pattern.
const SolvedIndex = NumPatterns - 1

var ErrBadPattern = errors.New("pattern must be 5 marks made of g/y/- or 2/1/0")

var powers = [word.Length]uint8{1, 3, 9, 27, 81}

// Pattern is a full response, one mark per position.
type Pattern [word.Length]Mark

// Solved is the all-Correct pattern.
var Solved = Pattern{Correct, Correct, Correct, Correct, Correct}

// Score returns the pattern guess receives against secret. Exact matches are
// resolved first and consume their letter, so a letter is never marked
// Present more times than it remains unmatched in the secret.
func Score(guess, secret word.Word) Pattern {
	var p Pattern
	var freq [26]uint8
	for _, s := range secret {
		freq[s-'a']++
	}
	for i := range guess {
		if guess[i] == secret[i] {
			p[i] = Correct
			freq[guess[i]-'a']--
		}
	}
	for i, g := range guess {
		if p[i] == Correct {
			continue
		}
		if freq[g-'a'] > 0 {
			p[i] = Present
			freq[g-'a']--
		}
	}
	return p
}

// ScoreIndex is Score(guess, secret).Index().
func ScoreIndex(guess, secret word.Word) uint8 {
	return Score(guess, secret).Index()
}

// Index encodes the pattern in base 3, position 0 being the least
// significant digit.
func (p Pattern) Index() uint8 {
	var idx uint8
	for i, m := range p {
		idx += uint8(m) * powers[i]
	}
	return idx
}

// FromIndex is the inverse of Index. idx must be below NumPatterns.
func FromIndex(idx uint8) Pattern {
	var p Pattern
	for i := range p {
		p[i] = Mark(idx % 3)
		idx /= 3
	}
	return p
}

// IsSolved reports whether every position is Correct.
func (p Pattern) IsSolved() bool {
	return p == Solved
}

// Parse reads a pattern written either with letters (g = Correct,
// y = Present, and any of - . b x for Absent) or with the digits 2/1/0.
func Parse(s string) (Pattern, error) {
	var p Pattern
	s = strings.TrimSpace(s)
	if len(s) != word.Length {
		return p, fmt.Errorf("%q: %w", s, ErrBadPattern)
	}
	for i := 0; i < word.Length; i++ {
		switch s[i] {
		case 'g', 'G', '2':
			p[i] = Correct
		case 'y', 'Y', '1':
			p[i] = Present
		case '-', '.', 'b', 'B', 'x', 'X', '0':
			p[i] = Absent
		default:
			return p, fmt.Errorf("%q: %w", s, ErrBadPattern)
		}
	}
	return p, nil
}

func (p Pattern) String() string {
	var sb strings.Builder
	for _, m := range p {
		switch m {
		case Correct:
			sb.WriteByte('g')
		case Present:
			sb.WriteByte('y')
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}
