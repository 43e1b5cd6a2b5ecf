package pool

import "github.com/domino14/wordent/feedback"

// Scorer gives the encoded pattern that guess receives against secret.
type Scorer interface {
	PatternIndex(guess, secret Entry) uint8
}

// DirectScorer computes every pattern from scratch.
type DirectScorer struct{}

func (DirectScorer) PatternIndex(guess, secret Entry) uint8 {
	return feedback.ScoreIndex(guess.Word, secret.Word)
}
