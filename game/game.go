// Package game plays a single word-guessing game against a known secret:
// guess, score, shrink the candidate pool, repeat until the secret is found
// or the guess budget runs out.
package game

import (
	"context"
	"errors"
	"time"

	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/pool"
	"github.com/domino14/wordent/strategy"
	"github.com/domino14/wordent/word"
)

// DefaultMaxGuesses is the standard Wordle guess budget.
const DefaultMaxGuesses = 6

var ErrGameOver = errors.New("game is already over")

// State is where a game is in its lifecycle.
type State int

const (
	Init State = iota
	Guessing
	Solved
	Exhausted
)

func (s State) String() string {
	switch s {
	case Init:
		return "init"
	case Guessing:
		return "guessing"
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// Over reports whether the state is terminal.
func (s State) Over() bool {
	return s == Solved || s == Exhausted
}

// Options controls a game's rules.
type Options struct {
	// MaxGuesses is the budget; a solve counts only if it takes at most this
	// many guesses. Zero means DefaultMaxGuesses.
	MaxGuesses int
	// Opening, if set, is always the first guess.
	Opening *pool.Entry
	// PlayOut keeps guessing past the budget until the secret is found. The
	// game still ends Exhausted, but Guesses reports the full count.
	PlayOut bool
}

// Game is one secret being solved. Not safe for concurrent use.
type Game struct {
	secret   word.Word
	pool     *pool.Pool
	strategy strategy.Strategy
	scorer   pool.Scorer
	opts     Options

	state State
	turns []Turn
}

// NewGame sets up a game. start is the pool before any guess; it is never
// modified.
func NewGame(secret word.Word, start *pool.Pool, strat strategy.Strategy,
	scorer pool.Scorer, opts Options) *Game {

	if opts.MaxGuesses <= 0 {
		opts.MaxGuesses = DefaultMaxGuesses
	}
	return &Game{
		secret:   secret,
		pool:     start,
		strategy: strat,
		scorer:   scorer,
		opts:     opts,
		state:    Init,
	}
}

func (g *Game) State() State {
	return g.state
}

// Pool is the current candidate pool.
func (g *Game) Pool() *pool.Pool {
	return g.pool
}

func (g *Game) Turns() []Turn {
	return g.turns
}

func (g *Game) Guesses() int {
	return len(g.turns)
}

// PlayTurn makes one guess and advances the state machine.
func (g *Game) PlayTurn() (Turn, error) {
	if g.state.Over() {
		return Turn{}, ErrGameOver
	}
	g.state = Guessing

	var guess pool.Entry
	opening := len(g.turns) == 0 && g.opts.Opening != nil
	if opening {
		guess = *g.opts.Opening
	} else {
		var err error
		guess, err = g.strategy.BestGuess(g.pool)
		if err != nil {
			return Turn{}, err
		}
	}

	observed := feedback.Score(guess.Word, g.secret)
	next := g.pool.ReduceIndex(guess, observed.Index(), g.scorer)
	if next.Len() == 0 {
		return Turn{}, pool.Invariant("reduce", pool.ErrEmptyPool)
	}
	solved := observed.IsSolved()
	if !solved && !opening && next.Len() >= g.pool.Len() {
		return Turn{}, pool.Invariant("play-turn", pool.ErrNoProgress)
	}
	g.pool = next

	t := Turn{
		Number:    len(g.turns) + 1,
		Guess:     guess.Word,
		Pattern:   observed,
		Remaining: next.Len(),
	}
	g.turns = append(g.turns, t)

	switch {
	case solved && t.Number <= g.opts.MaxGuesses:
		g.state = Solved
	case solved:
		g.state = Exhausted
	case t.Number > g.opts.MaxGuesses && !g.opts.PlayOut:
		g.state = Exhausted
	}
	return t, nil
}

// Play runs the game to the end. If ctx ends first the game is marked
// Exhausted, the partial result is returned along with ctx's error, and
// Result.TimedOut is set when the error was a deadline.
func (g *Game) Play(ctx context.Context) (Result, error) {
	start := time.Now()
	for !g.state.Over() {
		if err := ctx.Err(); err != nil {
			g.state = Exhausted
			res := g.result(time.Since(start))
			res.TimedOut = errors.Is(err, context.DeadlineExceeded)
			return res, err
		}
		if _, err := g.PlayTurn(); err != nil {
			return g.result(time.Since(start)), err
		}
	}
	return g.result(time.Since(start)), nil
}

func (g *Game) result(elapsed time.Duration) Result {
	return Result{
		Secret:   g.secret,
		Solved:   g.state == Solved,
		Guesses:  len(g.turns),
		Duration: elapsed,
		Turns:    append([]Turn(nil), g.turns...),
	}
}
