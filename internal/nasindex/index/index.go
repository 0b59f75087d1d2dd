// Package index talks to the Solr-compatible search index: JSON upsert,
// XML delete-by-query, and JSON select query, per §6's index protocol.
package index

import (
	"context"
	"net/url"
)

// Document is an upsert target. It carries every event field plus
// extracted metadata; callers build it as a map since its shape varies
// by file_type and the index itself is schema-flexible.
type Document map[string]any

// MatchField is the subset of a stored document the extractor's
// skip-if-unchanged check needs back from a query.
type MatchField struct {
	ID           string
	ContentHash  string
	ModifiedDate string
	FileSize     int64
}

// Index is the thin HTTP adapter every component that writes or reads
// the search index talks to.
type Index interface {
	// Upsert POSTs documents to {SOLR_URL}/update?commit=true as a JSON
	// array, per §6.
	Upsert(ctx context.Context, docs ...Document) error
	// DeleteByFilePath issues a delete-by-query for file_path == logicalPath.
	DeleteByFilePath(ctx context.Context, logicalPath string) error
	// DeleteByID issues a delete-by-query for id == id, used by the
	// duplicate-cleanup maintenance command.
	DeleteByID(ctx context.Context, id string) error
	// FindByFilePath returns the stored MatchFields for every document
	// whose file_path equals logicalPath — normally zero or one, but the
	// skip-if-unchanged check must tolerate more (§9 open question).
	FindByFilePath(ctx context.Context, logicalPath string) ([]MatchField, error)
	// Select runs an arbitrary Solr select query and returns the raw
	// decoded response body, for the read-only HTTP API's search/facet
	// endpoints, which pass query parameters straight through. params
	// uses url.Values rather than a flat map so that repeated keys (e.g.
	// multiple facet.field entries) survive.
	Select(ctx context.Context, params url.Values) (SelectResponse, error)
	// Ping checks connectivity to the index, for health checks.
	Ping(ctx context.Context) error
}

// SelectResponse is the decoded shape of a Solr select response, trimmed
// to the fields the query API and maintenance tools consume.
type SelectResponse struct {
	ResponseHeader struct {
		QTime int `json:"QTime"`
	} `json:"responseHeader"`
	Response struct {
		NumFound int              `json:"numFound"`
		Start    int              `json:"start"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
	FacetCounts struct {
		FacetFields map[string][]any `json:"facet_fields"`
	} `json:"facet_counts"`
	Highlighting map[string]map[string]any `json:"highlighting"`
}
