package nasindex

import (
	"github.com/nasdex/indexer/internal/nasindex/conf"
	"github.com/nasdex/indexer/internal/nasindex/index"
	"github.com/nasdex/indexer/internal/nasindex/store"
	"github.com/nasdex/indexer/internal/nasindex/volume"
)

// loadConfig layers the optional config file and environment under
// ConfigDir with the flag overrides a subcommand collected, the same
// precedence every subcommand needs before it can build its components.
func loadConfig(overrides map[string]any) (*conf.Config, error) {
	loader, err := conf.NewLoader(ConfigDir)
	if err != nil {
		return nil, err
	}
	if Debug {
		overrides["debug"] = true
	}
	cfg, err := loader.Load(overrides)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildStore dials the real Redis-backed state store for cfg.RedisURL.
func buildStore(cfg *conf.Config) (store.Store, error) {
	return store.NewRedisStore(cfg.RedisURL)
}

// buildIndex builds the real Solr-backed index for cfg.SolrURL, bounded
// by the shared operation timeout.
func buildIndex(cfg *conf.Config) index.Index {
	return index.NewSolrIndex(cfg.SolrURL, cfg.OpTimeout)
}

func buildNormalizer(cfg *conf.Config) *volume.Normalizer {
	return volume.New(cfg.Volumes)
}
