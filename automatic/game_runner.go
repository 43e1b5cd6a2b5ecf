// Package automatic runs simulated games in bulk: one game per secret, the
// same strategy throughout, and a summary at the end.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordent/config"
	"github.com/domino14/wordent/entropy"
	"github.com/domino14/wordent/game"
	"github.com/domino14/wordent/pool"
	"github.com/domino14/wordent/strategy"
	"github.com/domino14/wordent/word"
)

var (
	ErrUnknownStrategy   = errors.New("unknown strategy")
	ErrUnknownPolicy     = errors.New("unknown guess policy")
	ErrPolicyNeedsCache  = errors.New("the vocabulary guess policy requires the score cache")
	ErrSecretNotInVocab  = errors.New("secret is not in the vocabulary")
	ErrAlreadyPlaying    = errors.New("games are already being played, please wait till complete")
	ErrSeedCountMismatch = errors.New("number of seeds does not match number of secrets")
	ErrWeightFloor       = errors.New("the entropy strategy needs a weight floor of at least 1")
)

// GameRunner holds everything shared by the games of a run. All of it is
// read-only once built, so one runner serves every worker goroutine.
type GameRunner struct {
	data     *Data
	scorer   pool.Scorer
	ranker   *entropy.Ranker
	start    *pool.Pool
	opts     game.Options
	strategy string
	timeout  time.Duration
	threads  int
}

// NewGameRunner validates the configured strategy and policy against the
// loaded data and prepares the shared ranker and opening guess.
func NewGameRunner(cfg *config.Config, data *Data) (*GameRunner, error) {
	r := &GameRunner{
		data:     data,
		scorer:   pool.DirectScorer{},
		start:    data.Vocab.Pool(),
		strategy: cfg.GetString(config.ConfigStrategy),
		timeout:  cfg.GetDuration(config.ConfigGameTimeout),
		threads:  cfg.GetInt(config.ConfigThreads),
		opts: game.Options{
			MaxGuesses: cfg.GetInt(config.ConfigMaxGuesses),
			PlayOut:    cfg.GetBool(config.ConfigPlayOut),
		},
	}
	if r.opts.MaxGuesses <= 0 {
		r.opts.MaxGuesses = game.DefaultMaxGuesses
	}
	if r.threads <= 0 {
		r.threads = 1
	}
	if data.Cache != nil {
		r.scorer = data.Cache
	}

	switch policy := cfg.GetString(config.ConfigGuessPolicy); policy {
	case entropy.PoolOnly.String():
		r.ranker = entropy.NewRanker(r.scorer)
	case entropy.FullVocabulary.String():
		if data.Cache == nil {
			return nil, ErrPolicyNeedsCache
		}
		r.ranker = entropy.NewVocabularyRanker(r.scorer, r.start)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}

	switch r.strategy {
	case strategy.EntropyStrategy:
		// zero-weight words could leave a pool with nothing to rank by
		if floor := cfg.GetUint64(config.ConfigWeightFloor); floor < 1 {
			return nil, fmt.Errorf("%w: got %d", ErrWeightFloor, floor)
		}
	case strategy.RandomStrategy:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, r.strategy)
	}

	opening := strings.TrimSpace(cfg.GetString(config.ConfigOpeningGuess))
	switch {
	case opening != "":
		w, err := word.FromString(opening)
		if err != nil {
			return nil, fmt.Errorf("opening guess: %w", err)
		}
		e := data.Vocab.EntryOrLoose(w)
		r.opts.Opening = &e
	case r.strategy == strategy.EntropyStrategy:
		// The first guess doesn't depend on the secret, so rank it once.
		e, err := r.ranker.BestGuess(r.start)
		if err != nil {
			return nil, err
		}
		log.Info().Str("opening", e.Word.String()).Msg("ranked-opening-guess")
		r.opts.Opening = &e
	}
	return r, nil
}

// Opening is the guess every game starts with, if any.
func (r *GameRunner) Opening() (word.Word, bool) {
	if r.opts.Opening == nil {
		return word.Word{}, false
	}
	return r.opts.Opening.Word, true
}

func (r *GameRunner) Ranker() *entropy.Ranker {
	return r.ranker
}

// Scorer is the score cache when one is loaded, else direct scoring.
func (r *GameRunner) Scorer() pool.Scorer {
	return r.scorer
}

func (r *GameRunner) newStrategy(seed [32]byte) strategy.Strategy {
	if r.strategy == strategy.RandomStrategy {
		return strategy.NewRandom(seed)
	}
	return r.ranker
}

// NewGame sets up, but does not play, a game against secret.
func (r *GameRunner) NewGame(secret word.Word, seed [32]byte) *game.Game {
	return game.NewGame(secret, r.start, r.newStrategy(seed), r.scorer, r.opts)
}

// PlayGame plays one game to the end. A game that runs past the per-game
// timeout comes back as a lost result, not an error; cancelling ctx itself
// is an error.
func (r *GameRunner) PlayGame(ctx context.Context, secret word.Word, seed [32]byte) (game.Result, error) {
	return r.playGame(ctx, secret, seed, nil)
}

// playGame is PlayGame that also sends the game's log rows to logchan when
// it is non-nil.
func (r *GameRunner) playGame(ctx context.Context, secret word.Word, seed [32]byte,
	logchan chan<- string) (game.Result, error) {

	gctx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	g := r.NewGame(secret, seed)
	res, err := g.Play(gctx)
	if err != nil {
		if res.TimedOut && ctx.Err() == nil {
			log.Debug().Str("secret", secret.String()).Int("guesses", res.Guesses).Msg("game-timed-out")
			err = nil
		} else {
			return res, fmt.Errorf("playing %s: %w", secret, err)
		}
	}
	if logchan != nil {
		logchan <- r.logRows(res)
	}
	return res, nil
}

// logRows renders one game as game log rows, a single string so games don't
// interleave in the log. A timed-out game ends with a marker row carrying the
// turns played and the candidates left.
func (r *GameRunner) logRows(res game.Result) string {
	var sb strings.Builder
	remaining := r.start.Len()
	for _, t := range res.Turns {
		fmt.Fprintf(&sb, "%v,%v,%v,%v,%v\n",
			res.Secret, t.Number, t.Guess, t.Pattern, t.Remaining)
		remaining = t.Remaining
	}
	if res.TimedOut {
		fmt.Fprintf(&sb, "%v,%v,,%v,%v\n", res.Secret, res.Guesses, timeoutMarker, remaining)
	}
	return sb.String()
}
