package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordent/cache"
	"github.com/domino14/wordent/config"
	"github.com/domino14/wordent/scorecache"
	"github.com/domino14/wordent/word"
	"github.com/domino14/wordent/wordlist"
)

// Data is the loaded input of a run.
type Data struct {
	Vocab   *wordlist.Vocabulary
	Secrets []word.Word
	// Cache is nil unless the score cache is enabled.
	Cache *scorecache.Cache
}

func loadWeighted(cfg *config.Config, key string) ([]wordlist.Weighted, error) {
	return wordlist.LoadWeighted(key[len("dictionary:"):])
}

func loadSecrets(cfg *config.Config, key string) ([]word.Word, error) {
	return wordlist.LoadWords(key[len("secrets:"):])
}

// LoadData reads the dictionary and the secret list named in cfg and, if
// enabled, loads or builds the score cache. Everything is memoized in the
// global object cache by path.
func LoadData(ctx context.Context, cfg *config.Config, progress scorecache.ProgressFunc) (*Data, error) {
	dictPath := cfg.DataFile(config.ConfigDictionary)
	weighted, err := cache.Get(cfg, "dictionary:"+dictPath, loadWeighted)
	if err != nil {
		return nil, err
	}
	secrets, err := LoadSecrets(cfg)
	if err != nil {
		return nil, err
	}
	d := &Data{
		Vocab:   wordlist.NewVocabulary(weighted, cfg.GetUint64(config.ConfigWeightFloor)),
		Secrets: secrets,
	}
	log.Info().Str("dictionary", dictPath).Int("words", d.Vocab.Len()).
		Int("secrets", len(secrets)).Msg("loaded-word-lists")

	if !cfg.GetBool(config.ConfigUseScoreCache) {
		return d, nil
	}
	cachePath := cfg.DataFile(config.ConfigScoreCache)
	// The vocabulary is keyed in too: a different dictionary under the same
	// cache path must not reuse a stale in-memory matrix.
	key := fmt.Sprintf("scorecache:%s:%s", cachePath, dictPath)
	d.Cache, err = cache.Get(cfg, key, func(cfg *config.Config, _ string) (*scorecache.Cache, error) {
		return scorecache.LoadOrBuild(ctx, cachePath, d.Vocab.Words(), scorecache.BuildOptions{
			Threads:           cfg.GetInt(config.ConfigThreads),
			MaxMemoryFraction: cfg.GetFloat64(config.ConfigMaxCacheMemoryFraction),
			Progress:          progress,
		})
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// LoadSecrets reads the configured secret list on its own.
func LoadSecrets(cfg *config.Config) ([]word.Word, error) {
	return cache.Get(cfg, "secrets:"+cfg.DataFile(config.ConfigPossibleWords), loadSecrets)
}
