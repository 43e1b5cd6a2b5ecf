// Package word holds the fixed-length word representation shared by every
// other package. A Word is a plain byte array so it can be compared with ==,
// used as a map key, and copied cheaply.
package word

import (
	"errors"
	"fmt"
)

// Length is the only supported word length.
const Length = 5

var (
	ErrWordLength = errors.New("word must be exactly 5 letters")
	ErrWordChar   = errors.New("word may only contain the letters a-z")
)

// Word is a lowercase 5-letter word. Every byte is in 'a'..'z'.
type Word [Length]byte

// FromString converts s into a Word. Upper-case ASCII letters are folded to
// lower case; anything else outside a-z is rejected.
func FromString(s string) (Word, error) {
	var w Word
	if len(s) != Length {
		return w, fmt.Errorf("%q: %w", s, ErrWordLength)
	}
	for i := 0; i < Length; i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c < 'a' || c > 'z' {
			return w, fmt.Errorf("%q: %w", s, ErrWordChar)
		}
		w[i] = c
	}
	return w, nil
}

// MustFromString is like FromString but panics on error. Meant for tests and
// constants.
func MustFromString(s string) Word {
	w, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return w
}

// FromStrings converts a list of strings, stopping at the first bad one.
func FromStrings(ss []string) ([]Word, error) {
	words := make([]Word, len(ss))
	for i, s := range ss {
		w, err := FromString(s)
		if err != nil {
			return nil, err
		}
		words[i] = w
	}
	return words, nil
}

func (w Word) String() string {
	return string(w[:])
}
