package index

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FakeIndex is an in-memory Index used by component tests in place of a
// real Solr core.
type FakeIndex struct {
	mu   sync.Mutex
	docs map[string]Document // keyed by id
}

// NewFakeIndex creates an empty FakeIndex.
func NewFakeIndex() *FakeIndex {
	return &FakeIndex{docs: make(map[string]Document)}
}

func (f *FakeIndex) Upsert(_ context.Context, docs ...Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		id, _ := d["id"].(string)
		f.docs[id] = cloneDoc(d)
	}
	return nil
}

func cloneDoc(d Document) Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

func (f *FakeIndex) DeleteByFilePath(_ context.Context, logicalPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, d := range f.docs {
		if fp, _ := d["file_path"].(string); fp == logicalPath {
			delete(f.docs, id)
		}
	}
	return nil
}

func (f *FakeIndex) DeleteByID(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *FakeIndex) FindByFilePath(_ context.Context, logicalPath string) ([]MatchField, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matches []MatchField
	for _, d := range f.docs {
		if fp, _ := d["file_path"].(string); fp == logicalPath {
			m := MatchField{}
			m.ID, _ = d["id"].(string)
			m.ContentHash, _ = d["content_hash"].(string)
			m.ModifiedDate, _ = d["modified_date"].(string)
			switch v := d["file_size"].(type) {
			case int64:
				m.FileSize = v
			case int:
				m.FileSize = int64(v)
			case float64:
				m.FileSize = int64(v)
			}
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// fieldQueryRe matches the single-field exact-match query shape every
// call site in this repo issues, e.g. `file_path:"/a.jpg"`.
var fieldQueryRe = regexp.MustCompile(`^(\w+):"(.*)"$`)

// Select implements enough of Solr's query language for tests: an
// unfiltered "*:*", a single field:"value" exact filter, rows/start
// pagination, and a "field asc|desc" sort. Any other q (such as the
// suggest endpoint's wildcard OR query) matches every document, and
// fl, facet and highlighting parameters are ignored.
func (f *FakeIndex) Select(_ context.Context, params url.Values) (SelectResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []Document
	q := params.Get("q")
	if m := fieldQueryRe.FindStringSubmatch(q); m != nil {
		field, value := m[1], m[2]
		for _, d := range f.docs {
			if s, _ := d[field].(string); s == value {
				matched = append(matched, d)
			}
		}
	} else {
		for _, d := range f.docs {
			matched = append(matched, d)
		}
	}

	if sortSpec := params.Get("sort"); sortSpec != "" {
		fields := strings.Fields(sortSpec)
		if len(fields) == 2 {
			field, desc := fields[0], fields[1] == "desc"
			sort.Slice(matched, func(i, j int) bool {
				vi, _ := matched[i][field].(string)
				vj, _ := matched[j][field].(string)
				if desc {
					return vi > vj
				}
				return vi < vj
			})
		}
	}

	var out SelectResponse
	out.Response.NumFound = len(matched)

	start := 0
	if raw := params.Get("start"); raw != "" {
		start, _ = strconv.Atoi(raw)
	}
	rows := len(matched)
	if raw := params.Get("rows"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			rows = n
		}
	}
	out.Response.Start = start

	if start < len(matched) {
		end := start + rows
		if end > len(matched) {
			end = len(matched)
		}
		for _, d := range matched[start:end] {
			out.Response.Docs = append(out.Response.Docs, d)
		}
	}

	return out, nil
}

func (f *FakeIndex) Ping(_ context.Context) error { return nil }

// Get returns the stored document by id, for test assertions.
func (f *FakeIndex) Get(id string) (Document, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	return d, ok
}

// Len returns the number of stored documents, for test assertions.
func (f *FakeIndex) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

var _ Index = (*FakeIndex)(nil)
