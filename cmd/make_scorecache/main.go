// make_scorecache precomputes the score cache for the configured dictionary
// and writes it to the configured score-cache path, so later runs with
// use-score-cache start instantly.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/domino14/wordent/config"
	"github.com/domino14/wordent/scorecache"
	"github.com/domino14/wordent/wordlist"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(filepath.Dir(ex))

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dictPath := cfg.DataFile(config.ConfigDictionary)
	weighted, err := wordlist.LoadWeighted(dictPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading-dictionary")
	}
	vocab := wordlist.NewVocabulary(weighted, cfg.GetUint64(config.ConfigWeightFloor))

	var mu sync.Mutex
	bar := progressbar.NewOptions(vocab.Len(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("building score cache"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond))
	c, err := scorecache.Build(ctx, vocab.Words(), scorecache.BuildOptions{
		Threads:           cfg.GetInt(config.ConfigThreads),
		MaxMemoryFraction: cfg.GetFloat64(config.ConfigMaxCacheMemoryFraction),
		Progress: func(done, total int) {
			mu.Lock()
			bar.Set(done)
			mu.Unlock()
		},
	})
	bar.Finish()
	if err != nil {
		log.Fatal().Err(err).Msg("building-score-cache")
	}

	out := cfg.DataFile(config.ConfigScoreCache)
	if err := c.SaveFile(out); err != nil {
		log.Fatal().Err(err).Msg("saving-score-cache")
	}
	log.Info().Str("path", out).Int("dim", c.Dim()).
		Str("fingerprint", fmt.Sprintf("%016x", c.Fingerprint())).Msg("wrote-score-cache")
}
