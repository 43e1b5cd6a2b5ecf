// Package config holds the settings shared by the wordent binaries. Values
// come, in increasing priority, from defaults, an optional wordent.yaml
// file, WORDENT_* environment variables, and command-line flags.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDataPath               = "data-path"
	ConfigPossibleWords          = "possible-words"
	ConfigDictionary             = "dictionary"
	ConfigScoreCache             = "score-cache"
	ConfigUseScoreCache          = "use-score-cache"
	ConfigGuessPolicy            = "guess-policy"
	ConfigOpeningGuess           = "opening-guess"
	ConfigMaxGuesses             = "max-guesses"
	ConfigPlayOut                = "play-out"
	ConfigStrategy               = "strategy"
	ConfigSeed                   = "seed"
	ConfigSeedFile               = "seed-file"
	ConfigThreads                = "threads"
	ConfigGameTimeout            = "game-timeout"
	ConfigGameLog                = "game-log"
	ConfigWeightFloor            = "weight-floor"
	ConfigMaxCacheMemoryFraction = "max-cache-memory-fraction"
	ConfigReportFormat           = "report-format"
	ConfigProgress               = "progress"
	ConfigDebug                  = "debug"
	ConfigLogLevel               = "log-level"
	ConfigCPUProfile             = "cpu-profile"
	ConfigMemProfile             = "mem-profile"
)

// Config wraps a viper instance. Use the Get* methods with the Config*
// keys above.
type Config struct {
	*viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDataPath, "./data")
	v.SetDefault(ConfigPossibleWords, "possible_words.txt")
	v.SetDefault(ConfigDictionary, "dictionary.txt")
	v.SetDefault(ConfigScoreCache, "score_map.bin")
	v.SetDefault(ConfigUseScoreCache, false)
	v.SetDefault(ConfigGuessPolicy, "pool")
	v.SetDefault(ConfigOpeningGuess, "tares")
	v.SetDefault(ConfigMaxGuesses, 6)
	v.SetDefault(ConfigPlayOut, false)
	v.SetDefault(ConfigStrategy, "entropy")
	v.SetDefault(ConfigSeed, "")
	v.SetDefault(ConfigSeedFile, "")
	v.SetDefault(ConfigThreads, runtime.NumCPU())
	v.SetDefault(ConfigGameTimeout, time.Duration(0))
	v.SetDefault(ConfigGameLog, "")
	v.SetDefault(ConfigWeightFloor, 1)
	v.SetDefault(ConfigMaxCacheMemoryFraction, 0.5)
	v.SetDefault(ConfigReportFormat, "text")
	v.SetDefault(ConfigProgress, true)
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigLogLevel, "info")
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
}

// DefaultConfig returns a config holding only the defaults. Meant for tests.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{Viper: v}
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("wordent", pflag.ContinueOnError)
	fs.String(ConfigDataPath, "./data", "directory holding word lists and the score cache")
	fs.String(ConfigPossibleWords, "possible_words.txt", "list of secrets to simulate, relative to data-path")
	fs.String(ConfigDictionary, "dictionary.txt", "weighted list of allowed guesses, relative to data-path")
	fs.String(ConfigScoreCache, "score_map.bin", "score cache file, relative to data-path")
	fs.Bool(ConfigUseScoreCache, false, "load (or build) the precomputed score matrix")
	fs.String(ConfigGuessPolicy, "pool", "which words may be guessed: pool or vocabulary")
	fs.String(ConfigOpeningGuess, "tares", "fixed first guess; empty ranks the first guess once")
	fs.Int(ConfigMaxGuesses, 6, "guess budget for a win")
	fs.Bool(ConfigPlayOut, false, "keep guessing past the budget until the secret is found")
	fs.String(ConfigStrategy, "entropy", "guess strategy: entropy or random")
	fs.String(ConfigSeed, "", "base64 run seed for the random strategy")
	fs.String(ConfigSeedFile, "", "file of per-game seeds (read if present, written otherwise)")
	fs.Int(ConfigThreads, runtime.NumCPU(), "games simulated in parallel")
	fs.Duration(ConfigGameTimeout, 0, "wall-clock budget per game; 0 disables")
	fs.String(ConfigGameLog, "", "write a CSV log of every turn to this file")
	fs.Uint64(ConfigWeightFloor, 1, "minimum weight of a dictionary word (at least 1 for the entropy strategy)")
	fs.Float64(ConfigMaxCacheMemoryFraction, 0.5, "largest fraction of system memory the score cache may use")
	fs.String(ConfigReportFormat, "text", "run summary format: text or yaml")
	fs.Bool(ConfigProgress, true, "show a progress bar")
	fs.Bool(ConfigDebug, false, "debug logging")
	fs.String(ConfigLogLevel, "info", "log level when debug is off")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a heap profile to this file")
	return fs
}

// Load parses args and the environment. Flags that are not given fall back
// to the environment, then the config file, then the defaults.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("wordent")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigName("wordent")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	c.AddConfigPath(c.GetString(ConfigDataPath))
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// Args returns the positional arguments left after flag parsing.
func Args(args []string) []string {
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil
	}
	return fs.Args()
}

// AdjustRelativePaths resolves a relative data path against basePath (the
// executable's directory) if it does not exist relative to the working
// directory.
func (c *Config) AdjustRelativePaths(basePath string) {
	dp := c.GetString(ConfigDataPath)
	if filepath.IsAbs(dp) {
		return
	}
	if _, err := os.Stat(dp); err == nil {
		return
	}
	c.Set(ConfigDataPath, filepath.Join(basePath, dp))
}

// DataFile resolves a file key (possible-words, dictionary, score-cache)
// against the data path. Absolute names are returned unchanged.
func (c *Config) DataFile(key string) string {
	name := c.GetString(key)
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.GetString(ConfigDataPath), name)
}

// SanitizedSettings returns every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
