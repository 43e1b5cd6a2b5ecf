package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/word"
)

var ErrBadGameLog = errors.New("bad game log")

// timeoutMarker stands in the pattern column of the row closing a game that
// ran out of time.
const timeoutMarker = "timeout"

type loggedGame struct {
	secret   word.Word
	guesses  int
	last     feedback.Pattern
	timedOut bool
}

// AnalyzeLogFile rebuilds a run summary from a game log written by Run.
// Timings are not logged, so the time statistics come back empty. Timed-out
// games, including ones that never got a guess in, are recovered from their
// marker rows.
func AnalyzeLogFile(path string, maxGuesses int) (*Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return AnalyzeLog(file, maxGuesses)
}

// AnalyzeLog is AnalyzeLogFile on an open reader.
func AnalyzeLog(rd io.Reader, maxGuesses int) (*Summary, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = 5

	// Record looks like:
	// secret,turn,guess,pattern,remaining
	var order []word.Word
	games := make(map[word.Word]*loggedGame)
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadGameLog, err)
		}
		if record[0] == "secret" {
			// this is the header line
			continue
		}
		secret, err := word.FromString(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadGameLog, line, err)
		}
		turn, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadGameLog, line, err)
		}
		g, ok := games[secret]
		if !ok {
			g = &loggedGame{secret: secret}
			games[secret] = g
			order = append(order, secret)
		}
		if record[3] == timeoutMarker {
			g.timedOut = true
			g.guesses = max(g.guesses, turn)
			continue
		}
		pattern, err := feedback.Parse(record[3])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadGameLog, line, err)
		}
		if turn > g.guesses {
			g.guesses = turn
			g.last = pattern
		}
	}

	s := Summarize(nil, maxGuesses)
	for _, secret := range order {
		g := games[secret]
		solved := !g.timedOut && g.last.IsSolved() && g.guesses <= maxGuesses
		s.add(secret, solved, g.timedOut, g.guesses, 0)
	}
	return s, nil
}
