package game

import (
	"fmt"
	"time"

	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/word"
)

// Turn records one guess and what it revealed.
type Turn struct {
	Number    int
	Guess     word.Word
	Pattern   feedback.Pattern
	Remaining int
}

func (t Turn) String() string {
	return fmt.Sprintf("%d. %s %s (%d left)", t.Number, t.Guess, t.Pattern, t.Remaining)
}

// Result is the outcome of one simulated game.
type Result struct {
	Secret   word.Word
	Solved   bool
	Guesses  int
	Duration time.Duration
	TimedOut bool
	Turns    []Turn
}
