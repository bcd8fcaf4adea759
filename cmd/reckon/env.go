package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"reckon/internal/config"
	"reckon/internal/history"
	"reckon/internal/session"
)

type runtimeEnv struct {
	Config   *config.Config
	Store    *history.Store
	Search   *history.SearchIndex
	Sessions *session.Store
	manager  *config.Manager
	watcher  *config.Watcher
}

func (r *runtimeEnv) Close() {
	if r.watcher != nil {
		if err := r.watcher.Stop(); err != nil {
			log.Printf("⚠️  Failed to stop config watcher: %v", err)
		}
	}
	if r.Search != nil {
		if err := r.Search.Close(); err != nil {
			log.Printf("⚠️  Failed to close search index: %v", err)
		}
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil {
			log.Printf("⚠️  Failed to close history store: %v", err)
		}
	}
}

func prepareRuntimeEnv(ctx context.Context, dataDirFlag string) (*runtimeEnv, error) {
	cfgManager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize config manager: %w", err)
	}
	if dataDirFlag != "" {
		cfgManager = config.NewManagerAt(dataDirFlag)
	}

	userConfig, err := cfgManager.Load()
	if err != nil {
		log.Printf("⚠️  Failed to load user config: %v", err)
		userConfig = &config.Config{}
	} else if cfgManager.Exists() {
		log.Printf("User config loaded from: %s", cfgManager.GetConfigPath())
	}

	applyConfigToEnv(userConfig)

	dataDir := cfgManager.Dir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := userConfig.HistoryDB
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "history.db")
	}
	store, err := history.NewStore(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	search, err := history.NewSearchIndex(filepath.Join(dataDir, "history.bleve"))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}

	return &runtimeEnv{
		Config:   userConfig,
		Store:    store,
		Search:   search,
		Sessions: session.NewStore(dataDir),
		manager:  cfgManager,
	}, nil
}

// WatchConfig starts hot reload of the on-disk config. Edits take
// effect without restarting the REPL.
func (r *runtimeEnv) WatchConfig(onReload func(*config.Config)) error {
	watcher, err := config.NewWatcher(r.manager, func(cfg *config.Config) {
		r.Config = cfg
		applyConfigToEnv(cfg)
		if onReload != nil {
			onReload(cfg)
		}
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		watcher.Stop()
		return err
	}
	r.watcher = watcher
	return nil
}

// applyConfigToEnv populates provider environment variables from the
// saved config. Explicit config wins over stale shell variables so a
// setup saved with `config set` takes precedence.
func applyConfigToEnv(cfg *config.Config) {
	if cfg.LLMProvider != "" {
		os.Setenv("LLM_PROVIDER", cfg.LLMProvider)
	}

	if cfg.APIKey != "" {
		switch cfg.LLMProvider {
		case "anthropic":
			os.Setenv("ANTHROPIC_API_KEY", cfg.APIKey)
			if cfg.Model != "" {
				os.Setenv("ANTHROPIC_MODEL", cfg.Model)
			}
		default:
			// openai and the OpenAI-compatible providers share the
			// same variables.
			os.Setenv("OPENAI_API_KEY", cfg.APIKey)
			if cfg.Model != "" {
				os.Setenv("OPENAI_MODEL", cfg.Model)
			}
			if cfg.BaseURL != "" {
				os.Setenv("OPENAI_BASE_URL", cfg.BaseURL)
			}
		}
	}
}
