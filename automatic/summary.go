package automatic

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"gopkg.in/yaml.v3"

	"github.com/domino14/wordent/game"
	"github.com/domino14/wordent/stats"
	"github.com/domino14/wordent/word"
)

// Summary aggregates a run. Guess counts are over every game, won or lost.
type Summary struct {
	Games      int
	Wins       int
	TimedOut   int
	MaxGuesses int
	Guesses    stats.Statistic
	TimeMs     stats.Statistic
	TotalTime  time.Duration
	// Elapsed is the wall clock of the whole run; with several threads it is
	// less than TotalTime.
	Elapsed time.Duration
	// Distribution maps a guess count to the number of solved games.
	Distribution map[int]int
	Lost         []word.Word

	guessValues []float64
}

// Summarize aggregates results in order.
func Summarize(results []game.Result, maxGuesses int) *Summary {
	s := &Summary{
		MaxGuesses:   maxGuesses,
		Distribution: make(map[int]int),
		guessValues:  make([]float64, 0, len(results)),
	}
	for _, r := range results {
		s.add(r.Secret, r.Solved, r.TimedOut, r.Guesses, r.Duration)
	}
	return s
}

func (s *Summary) add(secret word.Word, solved, timedOut bool, guesses int, d time.Duration) {
	s.Games++
	s.Guesses.Push(float64(guesses))
	s.guessValues = append(s.guessValues, float64(guesses))
	s.TimeMs.Push(float64(d.Microseconds()) / 1000)
	s.TotalTime += d
	if timedOut {
		s.TimedOut++
	}
	if solved {
		s.Wins++
		s.Distribution[guesses]++
	} else {
		s.Lost = append(s.Lost, secret)
	}
}

// WinRate is the percentage of games won.
func (s *Summary) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return 100 * float64(s.Wins) / float64(s.Games)
}

// Text writes the human-readable report.
func (s *Summary) Text(w io.Writer) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", s.Games)
	fmt.Fprintf(&sb, "Average score: %.02f\n", s.Guesses.Mean())
	if s.Games > 1 {
		lo, hi := s.Guesses.ConfidenceInterval(95)
		fmt.Fprintf(&sb, "  95%% CI: [%.03f, %.03f]  Stdev: %.03f\n", lo, hi, s.Guesses.Stdev())
	}
	fmt.Fprintf(&sb, "Win rate: %.02f\n", s.WinRate())
	if s.TimedOut > 0 {
		fmt.Fprintf(&sb, "Timed out: %d\n", s.TimedOut)
	}
	fmt.Fprintf(&sb, "Average time: %.02f ms\n", s.TimeMs.Mean())
	fmt.Fprintf(&sb, "Total time: %d ms\n", s.TotalTime.Milliseconds())
	if s.Elapsed > 0 {
		fmt.Fprintf(&sb, "Elapsed: %d ms\n", s.Elapsed.Milliseconds())
	}

	if len(s.Distribution) > 0 {
		sb.WriteString("\nSolved in:\n")
		for _, n := range s.sortedCounts() {
			fmt.Fprintf(&sb, "  %2d: %d\n", n, s.Distribution[n])
		}
	}
	if len(s.Lost) > 0 {
		shown := s.Lost[:min(len(s.Lost), 20)]
		strs := make([]string, len(shown))
		for i, l := range shown {
			strs[i] = l.String()
		}
		fmt.Fprintf(&sb, "\nLost (%d): %s", len(s.Lost), strings.Join(strs, " "))
		if len(s.Lost) > len(shown) {
			sb.WriteString(" ...")
		}
		sb.WriteString("\n")
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}
	if len(s.guessValues) > 1 && s.Guesses.Max() > s.Guesses.Min() {
		bins := int(s.Guesses.Max()-s.Guesses.Min()) + 1
		hist := histogram.Hist(bins, s.guessValues)
		if _, err := io.WriteString(w, "\nGuess histogram:\n"); err != nil {
			return err
		}
		return histogram.Fprint(w, hist, histogram.Linear(40))
	}
	return nil
}

func (s *Summary) sortedCounts() []int {
	counts := make([]int, 0, len(s.Distribution))
	for n := range s.Distribution {
		counts = append(counts, n)
	}
	sort.Ints(counts)
	return counts
}

type yamlSummary struct {
	Games         int         `yaml:"games"`
	Wins          int         `yaml:"wins"`
	WinRate       float64     `yaml:"win_rate"`
	TimedOut      int         `yaml:"timed_out"`
	MaxGuesses    int         `yaml:"max_guesses"`
	AverageScore  float64     `yaml:"average_score"`
	ScoreStdev    float64     `yaml:"score_stdev"`
	AverageTimeMs float64     `yaml:"average_time_ms"`
	TotalTimeMs   int64       `yaml:"total_time_ms"`
	ElapsedMs     int64       `yaml:"elapsed_ms"`
	Distribution  map[int]int `yaml:"distribution"`
	Lost          []string    `yaml:"lost,omitempty"`
}

// YAML marshals the summary for machine consumption.
func (s *Summary) YAML() ([]byte, error) {
	ys := yamlSummary{
		Games:         s.Games,
		Wins:          s.Wins,
		WinRate:       s.WinRate(),
		TimedOut:      s.TimedOut,
		MaxGuesses:    s.MaxGuesses,
		AverageScore:  s.Guesses.Mean(),
		ScoreStdev:    s.Guesses.Stdev(),
		AverageTimeMs: s.TimeMs.Mean(),
		TotalTimeMs:   s.TotalTime.Milliseconds(),
		ElapsedMs:     s.Elapsed.Milliseconds(),
		Distribution:  s.Distribution,
	}
	for _, l := range s.Lost {
		ys.Lost = append(ys.Lost, l.String())
	}
	return yaml.Marshal(ys)
}
