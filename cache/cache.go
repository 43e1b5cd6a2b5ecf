// Package cache memoizes large read-only objects (vocabularies, secret
// lists, score matrices) for the life of the process, so the shell can run
// many simulations without reloading data files.
package cache

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/wordent/config"
)

type cache struct {
	sync.Mutex
	objects map[string]any
}

type loadFunc func(cfg *config.Config, key string) (any, error)

// GlobalObjectCache is the process-wide cache.
var GlobalObjectCache *cache

func (c *cache) get(cfg *config.Config, key string, load loadFunc) (any, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := load(cfg, key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

func (c *cache) evict(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

func CreateGlobalObjectCache() {
	GlobalObjectCache = &cache{objects: make(map[string]any)}
}

// Load returns the object stored under key, calling load to create it the
// first time. Failed loads are not cached.
func Load(cfg *config.Config, key string, load loadFunc) (any, error) {
	if GlobalObjectCache == nil {
		CreateGlobalObjectCache()
	}
	return GlobalObjectCache.get(cfg, key, load)
}

// Get is Load with the result asserted to T.
func Get[T any](cfg *config.Config, key string, load func(cfg *config.Config, key string) (T, error)) (T, error) {
	obj, err := Load(cfg, key, func(cfg *config.Config, key string) (any, error) {
		return load(cfg, key)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return obj.(T), nil
}

// Evict drops key so the next Load reloads it.
func Evict(key string) {
	if GlobalObjectCache == nil {
		return
	}
	GlobalObjectCache.evict(key)
}
