// wordsim plays one simulated game against every secret in the
// possible-words list and prints a summary.
//
//	wordsim [flags]                  run the batch
//	wordsim [flags] analyze <log>    summarize a game log from an earlier run
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/domino14/wordent/automatic"
	"github.com/domino14/wordent/config"
)

func setupLogging(cfg *config.Config) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}
	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	} else if l, err := zerolog.ParseLevel(cfg.GetString(config.ConfigLogLevel)); err == nil {
		level = l
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
}

func newBar(cfg *config.Config, total int, desc string) *progressbar.ProgressBar {
	if !cfg.GetBool(config.ConfigProgress) {
		return progressbar.DefaultSilent(int64(total), desc)
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish())
}

// seedsFor returns the per-game seeds. A seed file that exists is replayed;
// one that doesn't is written with the seeds derived for this run.
func seedsFor(cfg *config.Config, runSeed [32]byte, n int) ([][32]byte, error) {
	path := cfg.GetString(config.ConfigSeedFile)
	if path == "" {
		return automatic.DeriveSeeds(runSeed, n), nil
	}
	seeds, err := automatic.LoadSeeds(path)
	if err == nil {
		log.Info().Str("seed-file", path).Int("seeds", len(seeds)).Msg("loaded-seeds")
		return seeds, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	seeds = automatic.DeriveSeeds(runSeed, n)
	if err := automatic.SaveSeeds(seeds, path); err != nil {
		return nil, err
	}
	log.Info().Str("seed-file", path).Msg("saved-seeds")
	return seeds, nil
}

func report(cfg *config.Config, summary *automatic.Summary) error {
	switch f := cfg.GetString(config.ConfigReportFormat); f {
	case "yaml":
		out, err := summary.YAML()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	case "text":
		return summary.Text(os.Stdout)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

func simulate(ctx context.Context, cfg *config.Config) error {
	var (
		mu       sync.Mutex
		cacheBar *progressbar.ProgressBar
	)
	data, err := automatic.LoadData(ctx, cfg, func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if cacheBar == nil {
			cacheBar = newBar(cfg, total, "building score cache")
		}
		cacheBar.Set(done)
	})
	if err != nil {
		return err
	}
	runner, err := automatic.NewGameRunner(cfg, data)
	if err != nil {
		return err
	}

	runSeed := automatic.NewRunSeed()
	if s := cfg.GetString(config.ConfigSeed); s != "" {
		if runSeed, err = automatic.ParseSeed(s); err != nil {
			return err
		}
	}
	log.Info().Str("seed", automatic.EncodeSeed(runSeed)).Msg("run-seed")
	seeds, err := seedsFor(cfg, runSeed, len(data.Secrets))
	if err != nil {
		return err
	}

	opts := automatic.RunOptions{Seeds: seeds}
	if path := cfg.GetString(config.ConfigGameLog); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		opts.GameLog = f
	}
	bar := newBar(cfg, len(data.Secrets), "playing")
	opts.Progress = func(done, total int) {
		bar.Set(done)
	}

	summary, _, err := runner.Run(ctx, data.Secrets, opts)
	bar.Finish()
	if err != nil {
		return err
	}
	return report(cfg, summary)
}

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	args := os.Args[1:]
	if err := cfg.Load(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg.AdjustRelativePaths(exPath)
	setupLogging(cfg)
	log.Debug().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if cfg.GetString(config.ConfigCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch pos := config.Args(args); {
	case len(pos) == 2 && pos[0] == "analyze":
		summary, err := automatic.AnalyzeLogFile(pos[1], cfg.GetInt(config.ConfigMaxGuesses))
		if err == nil {
			err = report(cfg, summary)
		}
		if err != nil {
			log.Error().Err(err).Msg("analyze-failed")
			os.Exit(1)
		}
	case len(pos) == 0:
		if err := simulate(ctx, cfg); err != nil {
			log.Error().Err(err).Msg("simulation-failed")
			// deferred profile writers don't run after os.Exit
			pprof.StopCPUProfile()
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unexpected arguments: %v\n", pos)
		os.Exit(2)
	}

	if cfg.GetString(config.ConfigMemProfile) != "" {
		f, err := os.Create(cfg.GetString(config.ConfigMemProfile))
		if err != nil {
			panic("could not create memory profile: " + err.Error())
		}
		defer f.Close()
		memstats := &runtime.MemStats{}
		runtime.ReadMemStats(memstats)
		log.Info().Interface("memstats", memstats).Msg("memory-stats")
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic("could not write memory profile: " + err.Error())
		}
		log.Info().Msg("wrote memory profile")
	}
}
