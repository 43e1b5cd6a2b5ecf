// Package shell is the interactive solving assistant: tell it what you
// guessed and what colours came back, and it narrows the candidates and
// suggests the next guess.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/domino14/wordent/automatic"
	"github.com/domino14/wordent/config"
	"github.com/domino14/wordent/feedback"
	"github.com/domino14/wordent/pool"
	"github.com/domino14/wordent/word"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format for option")
	errQuit              = errors.New("sending quit signal")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// step is one applied guess, with the pool as it was before it.
type step struct {
	guess   word.Word
	pattern feedback.Pattern
	before  *pool.Pool
}

type ShellController struct {
	l          *readline.Instance
	config     *config.Config
	execPath   string
	gitVersion string

	data   *automatic.Data
	runner *automatic.GameRunner

	pool    *pool.Pool
	history []step
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, execPath, gitVersion string) *ShellController {
	sc := &ShellController{config: cfg, execPath: execPath, gitVersion: gitVersion}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mwordent>\033[0m ",
		HistoryFile:     "/tmp/wordent_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	return sc
}

func (sc *ShellController) stderr() io.Writer {
	if sc.l == nil {
		return os.Stderr
	}
	return sc.l.Stderr()
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func isOption(field string) bool {
	if len(field) < 2 || field[0] != '-' {
		return false
	}
	// negative numbers and feedback patterns like -y--g are arguments
	if field[1] >= '0' && field[1] <= '9' {
		return false
	}
	if _, err := feedback.Parse(field); err == nil {
		return false
	}
	return true
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if isOption(fields[i]) {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			opt := fields[i][1:]
			options[opt] = append(options[opt], fields[i+1])
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

// ensureData loads the word lists (and score cache, if enabled) and builds
// the game runner. Both are dropped whenever a setting changes.
func (sc *ShellController) ensureData(ctx context.Context) error {
	if sc.runner != nil {
		return nil
	}
	var (
		mu  sync.Mutex
		bar *progressbar.ProgressBar
	)
	progress := func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(sc.stderr()),
				progressbar.OptionSetDescription("building score cache"),
				progressbar.OptionThrottle(100_000_000))
		}
		bar.Set(done)
	}
	data, err := automatic.LoadData(ctx, sc.config, progress)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}
	runner, err := automatic.NewGameRunner(sc.config, data)
	if err != nil {
		return err
	}
	sc.data, sc.runner = data, runner
	if sc.pool == nil {
		sc.pool = data.Vocab.Pool()
	}
	return nil
}

// resetData forgets the loaded data. If vocab is set the candidate pool
// goes too, since it was built from the old vocabulary.
func (sc *ShellController) resetData(vocab bool) {
	sc.data, sc.runner = nil, nil
	if vocab {
		sc.pool, sc.history = nil, nil
	}
}

func (sc *ShellController) dispatch(ctx context.Context, cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "exit", "bye":
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "set":
		return sc.set(cmd)
	case "get":
		return sc.get(cmd)
	}
	if err := sc.ensureData(ctx); err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "guess", "g":
		return sc.guess(cmd)
	case "undo":
		return sc.undo(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "best":
		return sc.best(cmd)
	case "candidates", "c":
		return sc.candidates(cmd)
	case "sim":
		return sc.sim(ctx, cmd)
	case "autoplay":
		return sc.autoplay(ctx, cmd)
	default:
		return nil, fmt.Errorf("command %v not found", cmd.cmd)
	}
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	resp, err := sc.dispatch(context.Background(), cmd)
	if errors.Is(err, errQuit) {
		sig <- syscall.SIGINT
	}
	return resp, err
}

// Execute runs a single command line, as given on the command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if errors.Is(err, errQuit) {
		return
	}
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

func (sc *ShellController) Cleanup() {
	log.Info().Msg("cleaning up shell")
}
