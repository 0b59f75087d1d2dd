// Package conf defines the pipeline's configuration shape and the
// environment/file/flag layering used to build it.
package conf

import (
	"strings"
	"time"

	apperrors "github.com/nasdex/indexer/internal/errors"
)

// Volume is a single named filesystem root the pipeline indexes.
type Volume struct {
	Name string `mapstructure:"name" json:"name"`
	Path string `mapstructure:"path" json:"path"`
}

// Config is the full set of values every component constructor needs.
// It is built once at process start and threaded explicitly from there —
// never read back from a package-level global.
type Config struct {
	Volumes []Volume `mapstructure:"volumes" json:"volumes"`

	RedisURL string `mapstructure:"redis_url" json:"redis_url"`
	SolrURL  string `mapstructure:"solr_url" json:"solr_url"`

	ThumbnailDir     string `mapstructure:"thumbnail_dir" json:"thumbnail_dir"`
	ThumbnailQuality int    `mapstructure:"thumbnail_quality" json:"thumbnail_quality"`

	ExtractorWorkers  int `mapstructure:"extractor_workers" json:"extractor_workers"`
	ThumbnailWorkers  int `mapstructure:"thumbnail_workers" json:"thumbnail_workers"`
	HTTPAddr          string `mapstructure:"http_addr" json:"http_addr"`

	DebounceDelay  time.Duration `mapstructure:"debounce_delay" json:"debounce_delay"`
	RescanInterval time.Duration `mapstructure:"rescan_interval" json:"rescan_interval"`

	OpTimeout time.Duration `mapstructure:"op_timeout" json:"op_timeout"`

	Debug bool `mapstructure:"debug" json:"debug"`
}

// Defaults returns a Config with every field the spec's environment
// contract mentions set to its documented default.
func Defaults() *Config {
	return &Config{
		RedisURL:         "redis://redis:6379",
		SolrURL:          "http://localhost:8983/solr/nas_content",
		ThumbnailDir:     "/app/thumbnails",
		ThumbnailQuality: 85,
		ExtractorWorkers: 4,
		ThumbnailWorkers: 2,
		HTTPAddr:         ":8080",
		DebounceDelay:    5 * time.Second,
		RescanInterval:   30 * time.Minute,
		OpTimeout:        30 * time.Second,
	}
}

// ParseMountPaths turns the comma-separated MOUNT_PATHS value into Volumes,
// deriving each volume's name from the last path segment, the way the
// original file-monitor service does.
func ParseMountPaths(raw string) []Volume {
	var volumes []Volume
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = strings.TrimRight(p, "/")
		name := p
		if idx := strings.LastIndex(p, "/"); idx >= 0 {
			name = p[idx+1:]
		}
		if name == "" {
			name = p
		}
		volumes = append(volumes, Volume{Name: name, Path: p})
	}
	return volumes
}

// Validate checks that the configuration is usable before any component
// is constructed from it — a missing volume or store URL is a startup
// (fatal) error per the error taxonomy, not a per-item one.
func (c *Config) Validate() error {
	if len(c.Volumes) == 0 {
		return apperrors.ConfigMissing("volumes")
	}
	seen := make(map[string]bool, len(c.Volumes))
	for _, v := range c.Volumes {
		if v.Name == "" || v.Path == "" {
			return apperrors.ConfigInvalid("volumes", nil)
		}
		if seen[v.Name] {
			return apperrors.ConfigInvalid("duplicate volume name: "+v.Name, nil)
		}
		seen[v.Name] = true
	}
	if c.RedisURL == "" {
		return apperrors.ConfigMissing("redis_url")
	}
	if c.SolrURL == "" {
		return apperrors.ConfigMissing("solr_url")
	}
	return nil
}
