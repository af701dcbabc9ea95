package config

import (
	"fmt"
	"time"

	"github.com/agilira/argus"
	"github.com/rs/zerolog"

	"github.com/memkv/memkv/pkg/cache"
)

// Reloadable is the subset of Cache mutated by a hot-reload: the
// entry-size and idle-lifetime limits. Capacity is intentionally
// absent — shrinking it while live entries exceed the new bound has no
// well-defined correction, so it is fixed for the process lifetime.
type Reloadable interface {
	SetItemLifetime(seconds float64)
	SetKeyMaxlen(n uint64)
	SetValueMaxlen(n uint64)
}

// HotConfig watches a config file with Argus and applies the
// hot-reloadable subset of settings to a live Cache as they change.
type HotConfig struct {
	cache   Reloadable
	watcher *argus.Watcher
	log     zerolog.Logger
}

// NewHotConfig builds an Argus watcher on path that applies changes to
// c. Call Start to make sure it is polling; Start does nothing if the
// watcher is already running.
func NewHotConfig(c Reloadable, path string, pollInterval time.Duration, log zerolog.Logger) (*HotConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is required for hot reload")
	}
	if pollInterval < 100*time.Millisecond {
		pollInterval = 100 * time.Millisecond
	}

	hc := &HotConfig{cache: c, log: log}

	watcher, err := argus.UniversalConfigWatcherWithConfig(path, hc.handleConfigChange, argus.Config{
		PollInterval: pollInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("starting config watcher: %w", err)
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins polling the watched file for changes.
func (hc *HotConfig) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops polling.
func (hc *HotConfig) Stop() error {
	return hc.watcher.Stop()
}

func (hc *HotConfig) handleConfigChange(data map[string]interface{}) {
	if lifetime, ok := parseFloat(data["item_lifetime"]); ok {
		hc.cache.SetItemLifetime(lifetime)
		hc.log.Info().Float64("item_lifetime", lifetime).Msg("hot-reloaded item_lifetime")
	}
	if maxlen, ok := parsePositiveUint(data["key_maxlen"]); ok {
		hc.cache.SetKeyMaxlen(maxlen)
		hc.log.Info().Uint64("key_maxlen", maxlen).Msg("hot-reloaded key_maxlen")
	}
	if maxlen, ok := parsePositiveUint(data["value_maxlen"]); ok {
		hc.cache.SetValueMaxlen(maxlen)
		hc.log.Info().Uint64("value_maxlen", maxlen).Msg("hot-reloaded value_maxlen")
	}
	if _, present := data["capacity"]; present {
		hc.log.Warn().Msg("capacity is not hot-reloadable; restart the server to change it")
	}
}

// parsePositiveUint extracts a positive integer from an Argus config
// value, which may surface as int or float64 depending on the source
// format.
func parsePositiveUint(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case int:
		if v > 0 {
			return uint64(v), true
		}
	case int64:
		if v > 0 {
			return uint64(v), true
		}
	case float64:
		if v > 0 {
			return uint64(v), true
		}
	}
	return 0, false
}

// parseFloat extracts a float64 from an Argus config value.
func parseFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

var _ Reloadable = (*cache.Cache)(nil)
