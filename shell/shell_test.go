package shell

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/wordent/testhelpers"
)

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"autoplay -log /path/to/log.csv",
			&shellcmd{"autoplay", nil, CmdOptions{"log": {"/path/to/log.csv"}}},
			nil},
		{"best 5",
			&shellcmd{"best", []string{"5"}, CmdOptions{}},
			nil},
		{"guess tares -y--g",
			&shellcmd{"guess", []string{"tares", "-y--g"}, CmdOptions{}},
			nil},
		{"sim crane -seed abc ",
			&shellcmd{"sim", []string{"crane"}, CmdOptions{"seed": {"abc"}}},
			nil,
		},
		{"autoplay -n",
			nil, errWrongOptionSyntax},
	}
	for _, t := range cases {
		cmd, err := extractFields(t.line)
		is.Equal(cmd, t.expCmd)
		is.Equal(err, t.expErr)
	}
}

func testController(t *testing.T) *ShellController {
	return &ShellController{config: testhelpers.Config(t, "crane\nangle\nmaple\n")}
}

func run(sc *ShellController, line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	return sc.dispatch(context.Background(), cmd)
}

func TestGuessNarrowsCandidates(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	resp, err := run(sc, "new")
	is.NoErr(err)
	is.Equal(resp.message, "new game: 12 candidates")

	// tares against angle: a and e are present, both out of place
	resp, err = run(sc, "guess tares -y-y-")
	is.NoErr(err)
	is.Equal(resp.message, "4 candidates left: apple ample angle ankle")
	before := sc.pool.Len()

	resp, err = run(sc, "best 2")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Bits"))

	_, err = run(sc, "guess angle ggggg")
	is.NoErr(err)
	is.Equal(sc.pool.Len(), 1)

	resp, err = run(sc, "undo")
	is.NoErr(err)
	is.Equal(sc.pool.Len(), before)
	is.True(strings.HasPrefix(resp.message, "undid angle ggggg"))
}

func TestGuessRejectsImpossibleFeedback(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := run(sc, "new")
	is.NoErr(err)

	_, err = run(sc, "guess tares ggggy")
	is.True(errors.Is(err, errInconsistent))
	// the pool is untouched
	is.Equal(sc.pool.Len(), 12)
	is.Equal(len(sc.history), 0)

	_, err = run(sc, "guess tares gggg")
	is.True(err != nil)
}

func TestNewSecrets(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	resp, err := run(sc, "new secrets")
	is.NoErr(err)
	is.Equal(resp.message, "new game: 3 candidates")
	resp, err = run(sc, "candidates 1")
	is.NoErr(err)
	is.Equal(resp.message, "3 candidates\n  crane 40")
}

func TestSimAndAutoplay(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := run(sc, "set opening-guess crane")
	is.NoErr(err)

	resp, err := run(sc, "sim crane")
	is.NoErr(err)
	is.True(strings.HasPrefix(resp.message, "1. crane ggggg"))
	is.True(strings.Contains(resp.message, "solved after 1 guesses"))

	_, err = run(sc, "sim zebra")
	is.True(err != nil)

	resp, err = run(sc, "autoplay")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Games played: 3"))
	is.True(strings.Contains(resp.message, "Win rate: 100.00"))
}

func TestSetAndGet(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := run(sc, "new")
	is.NoErr(err)
	is.True(sc.runner != nil)

	resp, err := run(sc, "set max-guesses 4")
	is.NoErr(err)
	is.Equal(resp.message, "set max-guesses to 4")
	is.True(sc.runner == nil)
	is.True(sc.pool != nil)

	resp, err = run(sc, "get max-guesses")
	is.NoErr(err)
	is.Equal(resp.message, "4")

	_, err = run(sc, "set weight-floor 2")
	is.NoErr(err)
	is.True(sc.pool == nil)

	_, err = run(sc, "set no-such-key 1")
	is.True(err != nil)
}

func TestHelpAndQuit(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	resp, err := run(sc, "help")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "guess <word> <pattern>"))
	_, err = run(sc, "help guess")
	is.NoErr(err)
	_, err = run(sc, "help nothing")
	is.True(err != nil)
	_, err = run(sc, "exit")
	is.True(errors.Is(err, errQuit))
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	_, err := run(sc, "new")
	is.NoErr(err)
	c := NewShellCompleter(sc)

	line := []rune("gu")
	matches, n := c.Do(line, len(line))
	is.Equal(n, 2)
	is.Equal(matches, [][]rune{[]rune("ess")})

	line = []rune("guess cr")
	matches, _ = c.Do(line, len(line))
	is.Equal(len(matches), 2) // crane, crate

	line = []rune("set strategy r")
	matches, _ = c.Do(line, len(line))
	is.Equal(matches, [][]rune{[]rune("andom")})
}
