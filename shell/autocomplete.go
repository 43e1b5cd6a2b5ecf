package shell

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/samber/lo"

	"github.com/domino14/wordent/word"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new":      {Args: []string{"secrets"}},
	"sim":      {Options: []string{"-seed"}},
	"autoplay": {Options: []string{"-n", "-log", "-seed"}},
	"help":     {Args: []string{"guess", "autoplay", "set"}},
}

var commandNames = []string{
	"help", "new", "guess", "undo", "show", "best", "candidates", "sim",
	"autoplay", "set", "get", "exit",
}

var settingValues = map[string][]string{
	"strategy":        {"entropy", "random"},
	"guess-policy":    {"pool", "vocabulary"},
	"report-format":   {"text", "yaml"},
	"use-score-cache": {"true", "false"},
	"play-out":        {"true", "false"},
}

// maxWordCompletions keeps tab from dumping the whole vocabulary.
const maxWordCompletions = 50

func (c *ShellCompleter) settingKeys() []string {
	keys := c.sc.config.AllKeys()
	sort.Strings(keys)
	return keys
}

// candidateWords offers the remaining candidates for guess and sim.
func (c *ShellCompleter) candidateWords(prefix string) []string {
	if c.sc.pool == nil || len(prefix) == 0 {
		return nil
	}
	words := lo.FilterMap(c.sc.pool.Words(), func(w word.Word, _ int) (string, bool) {
		s := w.String()
		return s, strings.HasPrefix(s, prefix)
	})
	return words[:min(len(words), maxWordCompletions)]
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}
		// position of the argument being completed, 1-based
		argPos := len(fields)
		if endsWithSpace {
			argPos++
		}
		argPos--

		switch {
		case (cmdName == "set" || cmdName == "get") && argPos == 1:
			completions = c.settingKeys()
		case cmdName == "set" && argPos == 2:
			completions = settingValues[fields[1]]
		case (cmdName == "guess" || cmdName == "g" || cmdName == "sim") && argPos == 1:
			completions = c.candidateWords(prefix)
		default:
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}
	return matches, len(prefix)
}
