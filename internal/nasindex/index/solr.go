package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/nasdex/indexer/internal/errors"
)

// SolrIndex is the real HTTP-backed Index implementation.
type SolrIndex struct {
	baseURL string
	client  *http.Client
}

// NewSolrIndex builds a SolrIndex bound to baseURL (SOLR_URL), with all
// operations bounded by timeout per §5's "HTTP calls... must have
// bounded timeouts".
func NewSolrIndex(baseURL string, timeout time.Duration) *SolrIndex {
	return &SolrIndex{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *SolrIndex) Upsert(ctx context.Context, docs ...Document) error {
	if len(docs) == 0 {
		return nil
	}
	body, err := json.Marshal(docs)
	if err != nil {
		return apperrors.Internal("failed to marshal documents", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/update?commit=true", bytes.NewReader(body))
	if err != nil {
		return apperrors.IndexUnavailable(err)
	}
	req.Header.Set("Content-Type", "application/json")

	return s.do(req, "upsert")
}

func (s *SolrIndex) DeleteByFilePath(ctx context.Context, logicalPath string) error {
	query := fmt.Sprintf(`file_path:"%s"`, escapeXML(logicalPath))
	return s.deleteByQuery(ctx, query)
}

func (s *SolrIndex) DeleteByID(ctx context.Context, id string) error {
	query := fmt.Sprintf(`id:"%s"`, escapeXML(id))
	return s.deleteByQuery(ctx, query)
}

func (s *SolrIndex) deleteByQuery(ctx context.Context, query string) error {
	body := fmt.Sprintf("<delete><query>%s</query></delete>", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/update?commit=true", strings.NewReader(body))
	if err != nil {
		return apperrors.IndexUnavailable(err)
	}
	req.Header.Set("Content-Type", "text/xml")

	return s.do(req, "delete")
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;")
	return replacer.Replace(s)
}

func (s *SolrIndex) FindByFilePath(ctx context.Context, logicalPath string) ([]MatchField, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf(`file_path:"%s"`, logicalPath))
	params.Set("fl", "id,content_hash,modified_date,file_size")
	resp, err := s.Select(ctx, params)
	if err != nil {
		return nil, err
	}

	matches := make([]MatchField, 0, len(resp.Response.Docs))
	for _, doc := range resp.Response.Docs {
		m := MatchField{}
		if v, ok := doc["id"].(string); ok {
			m.ID = v
		}
		if v, ok := doc["content_hash"].(string); ok {
			m.ContentHash = v
		}
		if v, ok := doc["modified_date"].(string); ok {
			m.ModifiedDate = v
		}
		switch v := doc["file_size"].(type) {
		case float64:
			m.FileSize = int64(v)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *SolrIndex) Select(ctx context.Context, params url.Values) (SelectResponse, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if q.Get("wt") == "" {
		q.Set("wt", "json")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/select?"+q.Encode(), nil)
	if err != nil {
		return SelectResponse{}, apperrors.IndexUnavailable(err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return SelectResponse{}, apperrors.IndexUnavailable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return SelectResponse{}, apperrors.IndexUnavailable(err)
	}
	if resp.StatusCode != http.StatusOK {
		return SelectResponse{}, apperrors.IndexRejected("select", resp.StatusCode, nil)
	}

	var out SelectResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return SelectResponse{}, apperrors.Internal("failed to decode solr response", err)
	}
	return out, nil
}

func (s *SolrIndex) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/admin/ping", nil)
	if err != nil {
		return apperrors.IndexUnavailable(err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.IndexUnavailable(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apperrors.IndexRejected("ping", resp.StatusCode, nil)
	}
	return nil
}

func (s *SolrIndex) do(req *http.Request, op string) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return apperrors.IndexUnavailable(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return apperrors.IndexRejected(op, resp.StatusCode, fmt.Errorf("%s", string(body)))
	}
	return nil
}

var _ Index = (*SolrIndex)(nil)
