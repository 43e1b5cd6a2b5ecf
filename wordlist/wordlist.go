// Package wordlist reads the plain and weighted word list files and turns
// them into an ordered vocabulary.
package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/domino14/wordent/word"
)

var (
	ErrMalformedLine = errors.New("malformed line")
	ErrBadCount      = errors.New("count must be a non-negative integer")
	ErrDuplicateWord = errors.New("duplicate word")
)

// LoadError pins a load failure to a file and line.
type LoadError struct {
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Weighted is a word with its usage count.
type Weighted struct {
	Word  word.Word
	Count uint64
}

// ReadWords reads one word per line. Blank lines are skipped; case is
// folded. name is only used in error messages.
func ReadWords(r io.Reader, name string) ([]word.Word, error) {
	var words []word.Word
	err := scan(r, name, func(fields []string) error {
		if len(fields) != 1 {
			return fmt.Errorf("%w: expected a single word, got %d fields", ErrMalformedLine, len(fields))
		}
		w, err := word.FromString(fields[0])
		if err != nil {
			return err
		}
		words = append(words, w)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}

// ReadWeighted reads "word count" lines.
func ReadWeighted(r io.Reader, name string) ([]Weighted, error) {
	var entries []Weighted
	err := scan(r, name, func(fields []string) error {
		if len(fields) != 2 {
			return fmt.Errorf("%w: expected word and count, got %d fields", ErrMalformedLine, len(fields))
		}
		w, err := word.FromString(fields[0])
		if err != nil {
			return err
		}
		ct, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrBadCount, fields[1])
		}
		entries = append(entries, Weighted{Word: w, Count: ct})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func scan(r io.Reader, name string, parse func(fields []string) error) error {
	lower := cases.Lower(language.Und)
	seen := make(map[string]int)
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := lower.String(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if first, ok := seen[fields[0]]; ok {
			return &LoadError{Path: name, Line: lineNum,
				Err: fmt.Errorf("%w: %q first seen on line %d", ErrDuplicateWord, fields[0], first)}
		}
		seen[fields[0]] = lineNum
		if err := parse(fields); err != nil {
			return &LoadError{Path: name, Line: lineNum, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return &LoadError{Path: name, Err: err}
	}
	return nil
}

// LoadWords reads a plain word list from path.
func LoadWords(path string) ([]word.Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	return ReadWords(f, path)
}

// LoadWeighted reads a weighted word list from path.
func LoadWeighted(path string) ([]Weighted, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	return ReadWeighted(f, path)
}
