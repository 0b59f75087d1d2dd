package conf

import (
	"strconv"

	"github.com/spf13/viper"

	apperrors "github.com/nasdex/indexer/internal/errors"
	"github.com/nasdex/indexer/pkg/config"
)

// Loader builds a Config from (in increasing priority) defaults, an
// optional JSON config file, the environment, and explicit overrides —
// the same file/env/flag layering `pkg/config.Manager` gives the CLI,
// but bound to the literal env var names the pipeline's external
// interface contract names (REDIS_URL, MOUNT_PATHS, ...) rather than
// an app-prefixed namespace, since those names are part of the
// documented deployment contract.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader rooted at the given config directory. An
// empty dir skips file lookup entirely (env-only, the common container
// deployment shape per §6) rather than defaulting to a home-directory
// config file the way `pkg/config.Manager` does for the CLI's own
// settings — creating an implicit `~/.nasindex` on every env-only run
// would be a surprising side effect. When a directory is given, it is
// built on top of `pkg/config.Manager`, the same file/env layering the
// teacher's CLI uses for its own config, just bound to the literal env
// var names the pipeline's external interface contract documents
// (REDIS_URL, MOUNT_PATHS, ...) instead of an app-prefixed namespace.
func NewLoader(configDir string) (*Loader, error) {
	var v *viper.Viper
	if configDir != "" {
		mgr, err := config.New("nasindex", configDir, "nasindex", "", false)
		if err != nil {
			return nil, apperrors.ConfigInvalid("config_dir", err)
		}
		v = mgr.Viper
	} else {
		v = viper.New()
		v.SetConfigType("json")
		v.SetConfigName("nasindex")
	}

	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("solr_url", "SOLR_URL")
	_ = v.BindEnv("mount_paths", "MOUNT_PATHS")
	_ = v.BindEnv("thumbnail_dir", "THUMBNAIL_DIR")
	_ = v.BindEnv("thumbnail_quality", "THUMBNAIL_QUALITY")

	return &Loader{v: v}, nil
}

// Load reads the optional config file and environment, layers them over
// the documented defaults, and applies explicit overrides (typically a
// CLI flag diff). It does not validate the result; callers run
// Config.Validate on it.
func (l *Loader) Load(overrides map[string]any) (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.ConfigInvalid("config file", err)
		}
	}

	for k, val := range overrides {
		l.v.Set(k, val)
	}

	cfg := Defaults()

	if s := l.v.GetString("redis_url"); s != "" {
		cfg.RedisURL = s
	}
	if s := l.v.GetString("solr_url"); s != "" {
		cfg.SolrURL = s
	}
	if s := l.v.GetString("thumbnail_dir"); s != "" {
		cfg.ThumbnailDir = s
	}
	if l.v.IsSet("thumbnail_quality") {
		if q := l.v.GetInt("thumbnail_quality"); q > 0 {
			cfg.ThumbnailQuality = q
		}
	}
	if s := l.v.GetString("mount_paths"); s != "" {
		cfg.Volumes = ParseMountPaths(s)
	}
	if l.v.IsSet("extractor_workers") {
		cfg.ExtractorWorkers = l.v.GetInt("extractor_workers")
	}
	if l.v.IsSet("thumbnail_workers") {
		cfg.ThumbnailWorkers = l.v.GetInt("thumbnail_workers")
	}
	if s := l.v.GetString("http_addr"); s != "" {
		cfg.HTTPAddr = s
	}
	if l.v.IsSet("debug") {
		cfg.Debug = l.v.GetBool("debug")
	}

	return cfg, nil
}

// ParseQuality parses the THUMBNAIL_QUALITY env var's textual form,
// falling back silently to the caller's default on malformed input —
// malformed ambient config should not be fatal on its own.
func ParseQuality(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	q, err := strconv.Atoi(raw)
	if err != nil || q <= 0 {
		return fallback
	}
	return q
}
