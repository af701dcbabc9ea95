package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/memkv/memkv/internal/metrics"
	"github.com/memkv/memkv/pkg/cache"
	"github.com/memkv/memkv/pkg/config"
	"github.com/memkv/memkv/pkg/server"
)

// app wires the cache engine, metrics, dispatcher, TCP server and
// optional hot-reload watcher together for a single process lifetime.
type app struct {
	cache     *cache.Cache
	server    *server.Server
	hotConfig *config.HotConfig
	log       zerolog.Logger
}

func newApp(cfg *config.Config, log zerolog.Logger) (*app, error) {
	c := cache.New(cfg.Capacity).
		WithItemLifetime(cfg.ItemLifetime).
		WithKeyMaxlen(cfg.KeyMaxlen).
		WithValueMaxlen(cfg.ValueMaxlen)

	m := metrics.New(prometheus.DefaultRegisterer)
	dispatcher := server.NewDispatcher(c, m)
	srv := server.New(cfg.Addr(), cfg.MaxConnections, dispatcher, log)

	a := &app{cache: c, server: srv, log: log}

	if cfg.ConfigFile != "" {
		hc, err := config.NewHotConfig(c, cfg.ConfigFile, time.Duration(cfg.HotReloadInterval)*time.Millisecond, log)
		if err != nil {
			return nil, err
		}
		if err := hc.Start(); err != nil {
			return nil, err
		}
		a.hotConfig = hc
	}

	return a, nil
}

// Stop tears down the hot-reload watcher (if any) and the TCP server.
func (a *app) Stop() {
	if a.hotConfig != nil {
		if err := a.hotConfig.Stop(); err != nil {
			a.log.Warn().Err(err).Msg("stopping hot-reload watcher")
		}
	}
	if err := a.server.Stop(); err != nil {
		a.log.Warn().Err(err).Msg("stopping server")
	}
}

func main() {
	Execute()
}
