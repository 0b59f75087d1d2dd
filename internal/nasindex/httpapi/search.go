package httpapi

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/nasdex/indexer/internal/errors"
)

var defaultFacetFields = []string{
	"file_type", "content_type", "camera_make",
	"camera_model", "author", "artist", "genre", "directory_path",
}

// searchParams builds the Solr select params for /search and
// /search/debug: request query params are passed straight through, with
// library defaults (facets, highlighting, field list) filled in only
// where the caller didn't already set them.
func searchParams(raw url.Values) url.Values {
	params := url.Values{}
	for k, v := range raw {
		params[k] = v
	}

	setDefault := func(key, value string) {
		if params.Get(key) == "" {
			params.Set(key, value)
		}
	}

	setDefault("wt", "json")
	setDefault("facet", "true")
	setDefault("facet.mincount", "1")
	setDefault("hl", "true")
	setDefault("hl.fl", "content")
	setDefault("hl.simple.pre", "<mark>")
	setDefault("hl.simple.post", "</mark>")
	setDefault("fl", "*,score")
	setDefault("q", "*:*")

	if _, ok := raw["facet.field"]; !ok {
		for _, f := range defaultFacetFields {
			params.Add("facet.field", f)
		}
	}

	return params
}

// searchResult is the flattened, typed projection of a Solr document
// returned to API clients, mirroring the original's SearchResult model.
type searchResult struct {
	ID             string   `json:"id"`
	FilePath       string   `json:"file_path"`
	FileName       string   `json:"file_name"`
	FileType       string   `json:"file_type,omitempty"`
	ContentType    string   `json:"content_type,omitempty"`
	FileSize       int64    `json:"file_size,omitempty"`
	CreatedDate    string   `json:"created_date,omitempty"`
	ModifiedDate   string   `json:"modified_date,omitempty"`
	DirectoryPath  string   `json:"directory_path,omitempty"`
	CameraMake     string   `json:"camera_make,omitempty"`
	CameraModel    string   `json:"camera_model,omitempty"`
	Width          int      `json:"width,omitempty"`
	Height         int      `json:"height,omitempty"`
	GPSLocation    string   `json:"gps_location,omitempty"`
	Duration       int      `json:"duration,omitempty"`
	VideoCodec     string   `json:"video_codec,omitempty"`
	Resolution     string   `json:"resolution,omitempty"`
	Artist         string   `json:"artist,omitempty"`
	Album          string   `json:"album,omitempty"`
	Title          string   `json:"title,omitempty"`
	Genre          string   `json:"genre,omitempty"`
	Author         string   `json:"author,omitempty"`
	PageCount      int      `json:"page_count,omitempty"`
	Highlights     []string `json:"highlights,omitempty"`
	Score          float64  `json:"score,omitempty"`
}

type facetValue struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type searchResponse struct {
	Query     string                  `json:"query"`
	Total     int                     `json:"total"`
	Start     int                     `json:"start"`
	Rows      int                     `json:"rows"`
	Docs      []searchResult          `json:"docs"`
	Facets    map[string][]facetValue `json:"facets"`
	QueryTime int                     `json:"query_time"`
}

func (s *Service) handleSearch(c *gin.Context) {
	params := searchParams(c.Request.URL.Query())

	resp, err := s.idx.Select(c.Request.Context(), params)
	if err != nil {
		apperrors.Err(c, apperrors.IndexUnavailable(err))
		return
	}

	docs := make([]searchResult, 0, len(resp.Response.Docs))
	for _, d := range resp.Response.Docs {
		docs = append(docs, toSearchResult(d, resp.Highlighting))
	}

	facets := make(map[string][]facetValue, len(resp.FacetCounts.FacetFields))
	for field, values := range resp.FacetCounts.FacetFields {
		facets[field] = pairsToFacetValues(values)
	}

	c.JSON(http.StatusOK, searchResponse{
		Query:     params.Get("q"),
		Total:     resp.Response.NumFound,
		Start:     resp.Response.Start,
		Rows:      len(docs),
		Docs:      docs,
		Facets:    facets,
		QueryTime: resp.ResponseHeader.QTime,
	})
}

func (s *Service) handleSearchDebug(c *gin.Context) {
	params := searchParams(c.Request.URL.Query())

	resp, err := s.idx.Select(c.Request.Context(), params)
	if err != nil {
		apperrors.Err(c, apperrors.IndexUnavailable(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"frontend_params": c.Request.URL.Query(),
		"solr_params":     params,
		"solr_response":   resp,
	})
}

func (s *Service) handleStats(c *gin.Context) {
	params := url.Values{}
	params.Set("q", "*:*")
	params.Set("rows", "0")
	params.Set("wt", "json")
	params.Set("facet", "true")
	params.Add("facet.field", "file_type")
	params.Add("facet.field", "content_type")

	resp, err := s.idx.Select(c.Request.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("stats request failed")
		apperrors.Err(c, apperrors.IndexUnavailable(err))
		return
	}

	fileTypes := map[string]int64{}
	for _, v := range pairsToFacetValues(resp.FacetCounts.FacetFields["file_type"]) {
		fileTypes[v.Value] = v.Count
	}
	contentTypes := map[string]int64{}
	for _, v := range pairsToFacetValues(resp.FacetCounts.FacetFields["content_type"]) {
		contentTypes[v.Value] = v.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"total_documents": resp.Response.NumFound,
		"file_types":      fileTypes,
		"content_types":   contentTypes,
		"index_status":    "active",
	})
}

func (s *Service) handleSuggest(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		apperrors.Err(c, apperrors.RequiredParam("q"))
		return
	}
	count := 5
	if raw := c.Query("count"); raw != "" {
		if n, ok := parsePositiveInt(raw); ok && n >= 1 && n <= 20 {
			count = n
		}
	}

	params := url.Values{}
	params.Set("q", "file_name:*"+q+"* OR content:*"+q+"*")
	params.Set("rows", itoa(count))
	params.Set("wt", "json")
	params.Set("fl", "file_name")

	resp, err := s.idx.Select(c.Request.Context(), params)
	if err != nil {
		apperrors.Err(c, apperrors.IndexUnavailable(err))
		return
	}

	seen := map[string]bool{}
	suggestions := make([]string, 0, count)
	for _, d := range resp.Response.Docs {
		name, _ := d["file_name"].(string)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		suggestions = append(suggestions, name)
		if len(suggestions) >= count {
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func toSearchResult(d map[string]any, highlighting map[string]map[string]any) searchResult {
	r := searchResult{
		ID:            str(d, "id"),
		FilePath:      str(d, "file_path"),
		FileName:      str(d, "file_name"),
		FileType:      str(d, "file_type"),
		ContentType:   str(d, "content_type"),
		FileSize:      int64v(d, "file_size"),
		CreatedDate:   str(d, "created_date"),
		ModifiedDate:  str(d, "modified_date"),
		DirectoryPath: str(d, "directory_path"),
		CameraMake:    str(d, "camera_make"),
		CameraModel:   str(d, "camera_model"),
		Width:         intv(d, "width"),
		Height:        intv(d, "height"),
		GPSLocation:   str(d, "gps_location"),
		Duration:      intv(d, "duration"),
		VideoCodec:    str(d, "video_codec"),
		Resolution:    str(d, "resolution"),
		Artist:        str(d, "artist"),
		Album:         str(d, "album"),
		Title:         str(d, "title"),
		Genre:         str(d, "genre"),
		Author:        str(d, "author"),
		PageCount:     intv(d, "page_count"),
		Score:         float64v(d, "score"),
	}
	if hl, ok := highlighting[r.ID]; ok {
		r.Highlights = toStringSlice(hl["content"])
	}
	return r
}

func toStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func pairsToFacetValues(pairs []any) []facetValue {
	out := make([]facetValue, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		value, _ := pairs[i].(string)
		out = append(out, facetValue{Value: value, Count: toInt64(pairs[i+1])})
	}
	return out
}
