package nasindex

import "github.com/spf13/cobra"

// Flag variables shared across subcommands, mirroring the teacher's
// cmd_server.go pattern of package-level flag vars feeding an overrides
// map built just before Config is loaded.
var (
	flagRedisURL     string
	flagSolrURL      string
	flagMountPaths   string
	flagHTTPAddr     string
	flagThumbDir     string
	flagThumbQuality int
	flagExtractWorkers int
	flagThumbWorkers   int
)

// addPipelineFlags registers every flag a command that touches the
// store, index, or volume set might need. Individual commands only read
// back the overrides relevant to what they run.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagRedisURL, "redis-url", "", "redis connection URL")
	cmd.Flags().StringVar(&flagSolrURL, "solr-url", "", "solr core URL")
	cmd.Flags().StringVar(&flagMountPaths, "mount-paths", "", "comma-separated volume root paths")
	cmd.Flags().StringVar(&flagHTTPAddr, "http-addr", "", "HTTP listen address")
	cmd.Flags().StringVar(&flagThumbDir, "thumbnail-dir", "", "thumbnail output directory")
	cmd.Flags().IntVar(&flagThumbQuality, "thumbnail-quality", 0, "JPEG quality for rendered thumbnails")
	cmd.Flags().IntVar(&flagExtractWorkers, "extractor-workers", 0, "number of extractor workers")
	cmd.Flags().IntVar(&flagThumbWorkers, "thumbnail-workers", 0, "number of thumbnail workers")
}

func pipelineOverrides() map[string]any {
	overrides := map[string]any{}
	if flagRedisURL != "" {
		overrides["redis_url"] = flagRedisURL
	}
	if flagSolrURL != "" {
		overrides["solr_url"] = flagSolrURL
	}
	if flagMountPaths != "" {
		overrides["mount_paths"] = flagMountPaths
	}
	if flagHTTPAddr != "" {
		overrides["http_addr"] = flagHTTPAddr
	}
	if flagThumbDir != "" {
		overrides["thumbnail_dir"] = flagThumbDir
	}
	if flagThumbQuality > 0 {
		overrides["thumbnail_quality"] = flagThumbQuality
	}
	if flagExtractWorkers > 0 {
		overrides["extractor_workers"] = flagExtractWorkers
	}
	if flagThumbWorkers > 0 {
		overrides["thumbnail_workers"] = flagThumbWorkers
	}
	return overrides
}
