// Package app wires configuration into a ready game manager. Both binaries
// share it.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/juuwaah/kotoba-akinator/internal/ai"
	"github.com/juuwaah/kotoba-akinator/internal/ai/ollama"
	"github.com/juuwaah/kotoba-akinator/internal/ai/openai"
	"github.com/juuwaah/kotoba-akinator/internal/akinator"
	"github.com/juuwaah/kotoba-akinator/internal/config"
	"github.com/juuwaah/kotoba-akinator/internal/game"
	"github.com/juuwaah/kotoba-akinator/internal/store"
	"github.com/juuwaah/kotoba-akinator/internal/vocab"
)

// Providers returns every completion backend the config can reach.
func Providers(cfg config.Config) map[string]ai.Provider {
	return map[string]ai.Provider{
		"openai": openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL),
		"groq":   openai.NewGroq(cfg.GroqKey),
		"ollama": ollama.New(cfg.OllamaHost),
	}
}

// VocabSource picks the configured word list, cached when read from disk.
func VocabSource(cfg config.Config) vocab.Source {
	if cfg.VocabFile == "" {
		return vocab.Embedded()
	}
	log.Info().Str("file", cfg.VocabFile).Dur("ttl", cfg.VocabCacheTTL).Msg("using vocabulary file")
	return vocab.NewCache(vocab.FileSource{Path: cfg.VocabFile}, cfg.VocabCacheTTL)
}

func OpenStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.SessionStore {
	case "", "memory":
		return store.NewMemory(), nil
	case "sqlite":
		log.Info().Str("path", cfg.SQLitePath).Msg("using sqlite session store")
		return store.OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}
}

// Build assembles the manager. The returned store must be closed by the
// caller.
func Build(ctx context.Context, cfg config.Config) (*game.Manager, store.Store, error) {
	provider, err := ai.Select(cfg.DefaultProvider, Providers(cfg))
	if err != nil {
		return nil, nil, err
	}
	switch cfg.DefaultProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			log.Warn().Msg("OPENAI_API_KEY is not set, oracle calls will fail")
		}
	case "groq":
		if cfg.GroqKey == "" {
			log.Warn().Msg("GROQ_API_KEY is not set, oracle calls will fail")
		}
	}

	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	oracle := akinator.NewOracle(provider, cfg.DefaultModel, cfg.OracleTimeout)
	ctrl := akinator.NewController(oracle, vocab.NewDrawer(VocabSource(cfg)))

	opts := game.Options{TTL: cfg.SessionTTL}
	if cfg.ExportEnabled {
		opts.ExportFile = cfg.ExportFile
	}
	log.Info().Str("provider", cfg.DefaultProvider).Str("model", cfg.DefaultModel).Str("store", cfg.SessionStore).Msg("game manager ready")
	return game.NewManager(st, ctrl, opts), st, nil
}
