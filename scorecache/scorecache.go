// Package scorecache precomputes the response pattern for every
// (guess, secret) pair over a fixed vocabulary. Once built a Cache is never
// modified, so it can be shared freely between goroutines.
package scorecache

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/pool"
	"github.com/domino14/wordent/word"
)

var (
	ErrCorrupt  = errors.New("score cache is corrupt")
	ErrStale    = errors.New("score cache does not match the vocabulary")
	ErrTooLarge = errors.New("score cache would not fit in the allowed memory")
)

// ProgressFunc is called after each completed row. It may be called from
// several goroutines at once.
type ProgressFunc func(done, total int)

// Cache is a square matrix of encoded patterns. Row is the guess index,
// column the secret index.
type Cache struct {
	dim         int
	words       []word.Word
	fingerprint uint64
	matrix      []uint8
}

// BuildOptions tunes Build.
type BuildOptions struct {
	// Threads is the number of rows computed concurrently; <= 0 means NumCPU.
	Threads int
	// MaxMemoryFraction caps the matrix size as a fraction of total system
	// memory. Zero disables the check.
	MaxMemoryFraction float64
	Progress          ProgressFunc
}

// CheckSize returns ErrTooLarge if a dim x dim matrix would take more than
// fraction of the machine's memory.
func CheckSize(dim int, fraction float64) error {
	if fraction <= 0 {
		return nil
	}
	totalMem := memory.TotalMemory()
	if totalMem == 0 {
		// unknown platform; nothing to compare against.
		return nil
	}
	need := uint64(dim) * uint64(dim)
	if float64(need) > fraction*float64(totalMem) {
		return fmt.Errorf("%w: need %d bytes, allowed %.0f of %d",
			ErrTooLarge, need, fraction*float64(totalMem), totalMem)
	}
	return nil
}

// Build computes the full matrix for words. Rows are spread across worker
// goroutines; each row is written by exactly one of them.
func Build(ctx context.Context, words []word.Word, opts BuildOptions) (*Cache, error) {
	dim := len(words)
	if err := CheckSize(dim, opts.MaxMemoryFraction); err != nil {
		return nil, err
	}
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	c := &Cache{
		dim:         dim,
		words:       append([]word.Word(nil), words...),
		fingerprint: Fingerprint(words),
		matrix:      make([]uint8, dim*dim),
	}
	log.Info().Int("dim", dim).Int("threads", threads).Msg("building-score-cache")

	rows := make(chan int)
	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(rows)
		for i := 0; i < dim; i++ {
			select {
			case rows <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for t := 0; t < threads; t++ {
		g.Go(func() error {
			for i := range rows {
				guess := c.words[i]
				row := c.matrix[i*dim : (i+1)*dim]
				for j, secret := range c.words {
					row[j] = feedback.ScoreIndex(guess, secret)
				}
				n := done.Add(1)
				if opts.Progress != nil {
					opts.Progress(int(n), dim)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info().Int("dim", dim).Uint64("fingerprint", c.fingerprint).Msg("built-score-cache")
	return c, nil
}

// Dim is the vocabulary size the cache was built for.
func (c *Cache) Dim() int {
	return c.dim
}

func (c *Cache) Fingerprint() uint64 {
	return c.fingerprint
}

// Words is the vocabulary ordering the cache was built with. Do not modify.
func (c *Cache) Words() []word.Word {
	return c.words
}

// Lookup returns the pattern for the guess at row gi against the secret at
// column si.
func (c *Cache) Lookup(gi, si int) feedback.Pattern {
	return feedback.FromIndex(c.LookupIndex(gi, si))
}

func (c *Cache) LookupIndex(gi, si int) uint8 {
	return c.matrix[gi*c.dim+si]
}

// PatternIndex implements pool.Scorer. Entries whose index does not point at
// the same word in this cache's vocabulary are scored directly.
func (c *Cache) PatternIndex(guess, secret pool.Entry) uint8 {
	if c.owns(guess) && c.owns(secret) {
		return c.matrix[guess.Index*c.dim+secret.Index]
	}
	return feedback.ScoreIndex(guess.Word, secret.Word)
}

func (c *Cache) owns(e pool.Entry) bool {
	return e.Index >= 0 && e.Index < c.dim && c.words[e.Index] == e.Word
}

// Validate returns ErrStale unless the cache was built for exactly words, in
// this order.
func (c *Cache) Validate(words []word.Word) error {
	if len(words) != c.dim {
		return fmt.Errorf("%w: cache has dimension %d, vocabulary has %d words",
			ErrStale, c.dim, len(words))
	}
	if fp := Fingerprint(words); fp != c.fingerprint {
		return fmt.Errorf("%w: fingerprint %x, vocabulary %x", ErrStale, c.fingerprint, fp)
	}
	return nil
}
