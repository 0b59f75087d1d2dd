package httpapi

import (
	"net/url"
	"testing"
)

func TestSearchParamsFillsDefaults(t *testing.T) {
	raw := url.Values{}
	params := searchParams(raw)

	if params.Get("q") != "*:*" {
		t.Errorf("q default = %q, want *:*", params.Get("q"))
	}
	if params.Get("facet") != "true" {
		t.Errorf("facet default = %q, want true", params.Get("facet"))
	}
	if len(params["facet.field"]) != len(defaultFacetFields) {
		t.Errorf("facet.field count = %d, want %d", len(params["facet.field"]), len(defaultFacetFields))
	}
}

func TestSearchParamsPreservesCallerOverrides(t *testing.T) {
	raw := url.Values{"q": {"file_name:vacation"}, "facet.field": {"file_type"}}
	params := searchParams(raw)

	if params.Get("q") != "file_name:vacation" {
		t.Errorf("q = %q, want override preserved", params.Get("q"))
	}
	if len(params["facet.field"]) != 1 || params["facet.field"][0] != "file_type" {
		t.Errorf("facet.field = %v, want caller override preserved", params["facet.field"])
	}
}

func TestPairsToFacetValues(t *testing.T) {
	pairs := []any{"image", float64(12), "video", float64(3)}
	values := pairsToFacetValues(pairs)
	if len(values) != 2 {
		t.Fatalf("len = %d, want 2", len(values))
	}
	if values[0].Value != "image" || values[0].Count != 12 {
		t.Errorf("values[0] = %+v", values[0])
	}
}
