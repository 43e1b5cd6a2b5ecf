package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"

	"github.com/domino14/wordent/automatic"
	"github.com/domino14/wordent/config"
	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/pool"
	"github.com/domino14/wordent/word"
)

const (
	defaultBest       = 10
	defaultCandidates = 20
)

var errInconsistent = errors.New("no candidate is consistent with that feedback")

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

func countArg(cmd *shellcmd, def int) (int, error) {
	if len(cmd.args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("count must be positive")
	}
	return n, nil
}

// vocabKeys are the settings that change which words exist.
var vocabKeys = map[string]bool{
	config.ConfigDataPath:    true,
	config.ConfigDictionary:  true,
	config.ConfigWeightFloor: true,
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		settings := sc.config.SanitizedSettings()
		keys := lo.Keys(settings)
		sort.Strings(keys)
		var sb strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&sb, "%-26s %v\n", k, settings[k])
		}
		return msg(strings.TrimRight(sb.String(), "\n")), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <key> <value>")
	}
	key, val := cmd.args[0], cmd.args[1]
	if !sc.config.IsSet(key) {
		return nil, fmt.Errorf("unknown setting %v", key)
	}
	sc.config.Set(key, val)
	sc.resetData(vocabKeys[key])
	if vocabKeys[key] {
		return msg("set " + key + " to " + val + "; candidates reset"), nil
	}
	return msg("set " + key + " to " + val), nil
}

func (sc *ShellController) get(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: get <key>")
	}
	if !sc.config.IsSet(cmd.args[0]) {
		return nil, fmt.Errorf("unknown setting %v", cmd.args[0])
	}
	return msg(fmt.Sprintf("%v", sc.config.Get(cmd.args[0]))), nil
}

// newGame resets the candidates. "new secrets" starts from the secret list
// instead of the whole vocabulary.
func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	sc.history = nil
	if len(cmd.args) > 0 && cmd.args[0] == "secrets" {
		entries := lo.Map(sc.data.Secrets, func(w word.Word, _ int) pool.Entry {
			return sc.data.Vocab.EntryOrLoose(w)
		})
		sc.pool = pool.New(entries)
	} else {
		sc.pool = sc.data.Vocab.Pool()
	}
	return msg(fmt.Sprintf("new game: %d candidates", sc.pool.Len())), nil
}

func (sc *ShellController) guess(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: guess <word> <pattern>, e.g. guess tares -y--g")
	}
	w, err := word.FromString(cmd.args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := feedback.Parse(cmd.args[1])
	if err != nil {
		return nil, err
	}
	entry := sc.data.Vocab.EntryOrLoose(w)
	next := sc.pool.Reduce(entry, pattern, sc.runner.Scorer())
	if next.Len() == 0 {
		return nil, fmt.Errorf("%w: %s %s", errInconsistent, w, pattern)
	}
	sc.history = append(sc.history, step{guess: w, pattern: pattern, before: sc.pool})
	sc.pool = next

	if pattern.IsSolved() {
		return msg(fmt.Sprintf("solved in %d guesses", len(sc.history))), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d candidates left", next.Len())
	if next.Len() <= defaultBest {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(lo.Map(next.Words(), func(w word.Word, _ int) string {
			return w.String()
		}), " "))
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	last := sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
	sc.pool = last.before
	return msg(fmt.Sprintf("undid %s %s; %d candidates", last.guess, last.pattern, sc.pool.Len())), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	var sb strings.Builder
	for i, s := range sc.history {
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, s.guess, s.pattern)
	}
	fmt.Fprintf(&sb, "%d candidates, total weight %d", sc.pool.Len(), sc.pool.TotalWeight())
	return msg(sb.String()), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	n, err := countArg(cmd, defaultBest)
	if err != nil {
		return nil, err
	}
	ranked, err := sc.runner.Ranker().Rank(sc.pool, n)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	sb.WriteString("     Guess  Bits   Candidate\n")
	for i, r := range ranked {
		fmt.Fprintf(&sb, "%3d: %-6s %-6.3f %v\n", i+1, r.Entry.Word, r.Entropy, r.InPool)
	}
	return msg(strings.TrimRight(sb.String(), "\n")), nil
}

func (sc *ShellController) candidates(cmd *shellcmd) (*Response, error) {
	n, err := countArg(cmd, defaultCandidates)
	if err != nil {
		return nil, err
	}
	entries := append([]pool.Entry(nil), sc.pool.Entries()...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d candidates", len(entries))
	for _, e := range entries[:min(n, len(entries))] {
		fmt.Fprintf(&sb, "\n  %s %d", e.Word, e.Weight)
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) sim(ctx context.Context, cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: sim <secret> [-seed base64]")
	}
	secret, err := word.FromString(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if !sc.data.Vocab.Contains(secret) {
		return nil, fmt.Errorf("%w: %s", automatic.ErrSecretNotInVocab, secret)
	}
	seed := automatic.NewRunSeed()
	if s := cmd.options.String("seed"); s != "" {
		if seed, err = automatic.ParseSeed(s); err != nil {
			return nil, err
		}
	}
	res, err := sc.runner.PlayGame(ctx, secret, seed)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for _, t := range res.Turns {
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}
	outcome := "lost"
	switch {
	case res.Solved:
		outcome = "solved"
	case res.TimedOut:
		outcome = "timed out"
	}
	fmt.Fprintf(&sb, "%s after %d guesses in %v", outcome, res.Guesses, res.Duration)
	return msg(sb.String()), nil
}

// autoplay plays every secret in the configured list and prints the run
// summary.
func (sc *ShellController) autoplay(ctx context.Context, cmd *shellcmd) (*Response, error) {
	opts := automatic.RunOptions{RunSeed: automatic.NewRunSeed()}
	if s := cmd.options.String("seed"); s != "" {
		seed, err := automatic.ParseSeed(s)
		if err != nil {
			return nil, err
		}
		opts.RunSeed = seed
	}
	if path := cmd.options.String("log"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		opts.GameLog = f
	}
	secrets := sc.data.Secrets
	if n, err := cmd.options.IntDefault("n", len(secrets)); err != nil {
		return nil, err
	} else if n < len(secrets) {
		secrets = secrets[:max(n, 0)]
	}
	bar := progressbar.NewOptions(len(secrets),
		progressbar.OptionSetWriter(sc.stderr()),
		progressbar.OptionSetDescription("playing"),
		progressbar.OptionShowCount())
	opts.Progress = func(done, total int) {
		bar.Set(done)
	}
	summary, _, err := sc.runner.Run(ctx, secrets, opts)
	bar.Finish()
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if err := summary.Text(&sb); err != nil {
		return nil, err
	}
	fmt.Fprintf(&sb, "run seed: %s", automatic.EncodeSeed(opts.RunSeed))
	return msg(sb.String()), nil
}
