// Package maintenance implements the out-of-band cleanup commands:
// duplicate removal and full state/index reset, both grounded on the
// original project's standalone admin scripts.
package maintenance

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/nasdex/indexer/internal/nasindex/index"
)

const dedupeBatchSize = 1000

// DedupeReport summarizes a dedupe run for the CLI to print.
type DedupeReport struct {
	UniqueFilePaths int
	DuplicatedPaths int
	DocsRemoved     int
	DryRun          bool
}

// Dedupe walks every indexed file_path, and for each one with more than
// one document keeps only the most recently modified and deletes the
// rest — mirroring fast_cleanup_duplicates.py's delete-all-then-readd
// strategy. With execute=false (the default) it only reports what it
// would do.
func Dedupe(ctx context.Context, idx index.Index, execute bool) (DedupeReport, error) {
	paths, err := allFilePaths(ctx, idx)
	if err != nil {
		return DedupeReport{}, err
	}
	log.Info().Int("count", len(paths)).Msg("retrieved unique file paths")

	report := DedupeReport{UniqueFilePaths: len(paths), DryRun: !execute}

	for _, path := range paths {
		count, err := countForPath(ctx, idx, path)
		if err != nil {
			log.Error().Str("path", path).Err(err).Msg("failed to count documents")
			continue
		}
		if count <= 1 {
			continue
		}

		report.DuplicatedPaths++
		report.DocsRemoved += count - 1
		log.Info().Str("path", path).Int("count", count).Msg("found duplicates")

		if !execute {
			continue
		}
		if err := cleanupPath(ctx, idx, path); err != nil {
			log.Error().Str("path", path).Err(err).Msg("failed to clean up duplicates")
		}
	}

	return report, nil
}

func allFilePaths(ctx context.Context, idx index.Index) ([]string, error) {
	seen := map[string]bool{}
	var ordered []string

	start := 0
	for {
		params := url.Values{}
		params.Set("q", "*:*")
		params.Set("start", fmt.Sprint(start))
		params.Set("rows", fmt.Sprint(dedupeBatchSize))
		params.Set("fl", "file_path")
		params.Set("wt", "json")

		resp, err := idx.Select(ctx, params)
		if err != nil {
			return nil, err
		}
		if len(resp.Response.Docs) == 0 {
			break
		}

		for _, doc := range resp.Response.Docs {
			fp, _ := doc["file_path"].(string)
			if fp == "" || seen[fp] {
				continue
			}
			seen[fp] = true
			ordered = append(ordered, fp)
		}

		start += dedupeBatchSize
		if len(resp.Response.Docs) < dedupeBatchSize {
			break
		}
	}

	return ordered, nil
}

func countForPath(ctx context.Context, idx index.Index, filePath string) (int, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf(`file_path:"%s"`, filePath))
	params.Set("rows", "0")
	params.Set("wt", "json")

	resp, err := idx.Select(ctx, params)
	if err != nil {
		return 0, err
	}
	return resp.Response.NumFound, nil
}

// cleanupPath keeps the most-recently-modified document for filePath
// and deletes the rest, by deleting everything and re-adding the keeper
// — the same order fast_cleanup_duplicates.py uses, since Solr has no
// atomic "delete all but one" primitive.
func cleanupPath(ctx context.Context, idx index.Index, filePath string) error {
	params := url.Values{}
	params.Set("q", fmt.Sprintf(`file_path:"%s"`, filePath))
	params.Set("rows", "1")
	params.Set("fl", "*")
	params.Set("sort", "modified_date desc")
	params.Set("wt", "json")

	resp, err := idx.Select(ctx, params)
	if err != nil {
		return err
	}
	if len(resp.Response.Docs) == 0 {
		return nil
	}
	keeper := cleanDoc(resp.Response.Docs[0])

	if err := idx.DeleteByFilePath(ctx, filePath); err != nil {
		return err
	}
	return idx.Upsert(ctx, keeper)
}

// cleanDoc strips Solr-managed fields that must not be resubmitted on
// upsert (version for optimistic concurrency, score from the query).
func cleanDoc(doc map[string]any) index.Document {
	out := make(index.Document, len(doc))
	for k, v := range doc {
		if k == "_version_" || k == "score" {
			continue
		}
		out[k] = v
	}
	return out
}
