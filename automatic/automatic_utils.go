package automatic

// Batch simulation: one game per secret, spread over worker goroutines.

import (
	"context"
	"expvar"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/wordent/game"
	"github.com/domino14/wordent/word"
)

var (
	GamesPlayed *expvar.Int
	IsPlaying   *expvar.Int

	playing atomic.Bool
)

func init() {
	GamesPlayed = expvar.NewInt("gamesPlayed")
	IsPlaying = expvar.NewInt("isPlaying")
}

// ProgressFunc is told after every finished game. Calls are serialized.
type ProgressFunc func(done, total int)

const gameLogHeader = "secret,turn,guess,pattern,remaining\n"

// RunOptions are the per-run knobs that are not part of the shared setup.
type RunOptions struct {
	// Seeds holds one seed per secret for the random strategy. If nil they
	// are derived from RunSeed.
	Seeds   [][32]byte
	RunSeed [32]byte
	// GameLog, if set, receives a CSV line for every turn of every game.
	GameLog  io.Writer
	Progress ProgressFunc
}

// Run plays one game per secret. Results are stored by secret position, so
// the output order does not depend on scheduling. The first game error
// stops the run.
func (r *GameRunner) Run(ctx context.Context, secrets []word.Word, opts RunOptions) (*Summary, []game.Result, error) {
	if !playing.CompareAndSwap(false, true) {
		return nil, nil, ErrAlreadyPlaying
	}
	IsPlaying.Set(1)
	defer func() {
		IsPlaying.Set(0)
		playing.Store(false)
	}()

	if missing := r.data.Vocab.Missing(secrets); len(missing) > 0 {
		shown := missing[:min(len(missing), 10)]
		strs := make([]string, len(shown))
		for i, w := range shown {
			strs[i] = w.String()
		}
		return nil, nil, fmt.Errorf("%w: %d secrets, including %s",
			ErrSecretNotInVocab, len(missing), strings.Join(strs, ", "))
	}
	seeds := opts.Seeds
	if seeds == nil {
		seeds = DeriveSeeds(opts.RunSeed, len(secrets))
	}
	if len(seeds) != len(secrets) {
		return nil, nil, fmt.Errorf("%w: %d seeds, %d secrets",
			ErrSeedCountMismatch, len(seeds), len(secrets))
	}

	log.Info().Int("games", len(secrets)).Int("threads", r.threads).
		Str("strategy", r.strategy).Str("policy", r.ranker.Policy().String()).
		Msg("starting-games")

	writer := errgroup.Group{}
	var logchan chan string
	if opts.GameLog != nil {
		logchan = make(chan string, 100)
		writer.Go(func() error {
			if _, err := io.WriteString(opts.GameLog, gameLogHeader); err != nil {
				// keep draining so the games don't block
				for range logchan {
				}
				return err
			}
			var werr error
			for msg := range logchan {
				if werr != nil {
					continue
				}
				_, werr = io.WriteString(opts.GameLog, msg)
			}
			return werr
		})
	}

	results := make([]game.Result, len(secrets))
	jobs := make(chan int)
	var mu sync.Mutex
	done := 0

	tstart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range secrets {
			select {
			case jobs <- i:
			case <-gctx.Done():
				log.Info().Msg("got stop signal, exiting soon...")
				return gctx.Err()
			}
		}
		return nil
	})
	for t := 0; t < r.threads; t++ {
		g.Go(func() error {
			for i := range jobs {
				res, err := r.playGame(gctx, secrets[i], seeds[i], logchan)
				if err != nil {
					return err
				}
				results[i] = res
				GamesPlayed.Add(1)
				if opts.Progress != nil {
					mu.Lock()
					done++
					opts.Progress(done, len(secrets))
					mu.Unlock()
				}
			}
			return nil
		})
	}
	err := g.Wait()

	if logchan != nil {
		close(logchan)
		if werr := writer.Wait(); werr != nil && err == nil {
			err = fmt.Errorf("writing game log: %w", werr)
		}
	}
	if err != nil {
		return nil, nil, err
	}

	summary := Summarize(results, r.opts.MaxGuesses)
	summary.Elapsed = time.Since(tstart)
	log.Info().Int("games", summary.Games).Int("wins", summary.Wins).
		Float64("average-guesses", summary.Guesses.Mean()).
		Dur("elapsed", summary.Elapsed).Msg("all-games-finished")
	return summary, results, nil
}
