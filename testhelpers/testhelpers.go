// Package testhelpers sets up small on-disk word lists for tests.
package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/domino14/wordent/config"
)

// Dictionary is a twelve-word weighted dictionary.
const Dictionary = `apple 100
bravo 5
crane 40
doubt 12
eagle 30
ample 7
maple 9
angle 11
ankle 3
tares 50
crate 20
trace 15
`

// Config writes Dictionary and the given secret list (one word per line)
// into a fresh temporary data directory and returns a default config
// pointing at it.
func Config(t testing.TB, secrets string) *config.Config {
	t.Helper()
	return ConfigWith(t, Dictionary, secrets)
}

// ConfigWith is Config with a caller-supplied dictionary.
func ConfigWith(t testing.TB, dictionary, secrets string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dictionary.txt"), []byte(dictionary), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "possible_words.txt"), []byte(secrets), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDataPath, dir)
	cfg.Set(config.ConfigThreads, 2)
	return cfg
}
