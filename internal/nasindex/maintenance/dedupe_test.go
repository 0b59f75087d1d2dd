package maintenance

import (
	"context"
	"testing"

	"github.com/nasdex/indexer/internal/nasindex/index"
)

func TestDedupeDryRunReportsWithoutDeleting(t *testing.T) {
	idx := index.NewFakeIndex()
	ctx := context.Background()
	_ = idx.Upsert(ctx,
		index.Document{"id": "1", "file_path": "/a.jpg", "modified_date": "2024-01-01T00:00:00Z"},
		index.Document{"id": "2", "file_path": "/a.jpg", "modified_date": "2024-02-01T00:00:00Z"},
		index.Document{"id": "3", "file_path": "/b.jpg", "modified_date": "2024-01-01T00:00:00Z"},
	)

	report, err := Dedupe(ctx, idx, false)
	if err != nil {
		t.Fatalf("Dedupe() error: %v", err)
	}

	if report.UniqueFilePaths != 2 {
		t.Errorf("UniqueFilePaths = %d, want 2", report.UniqueFilePaths)
	}
	if report.DuplicatedPaths != 1 {
		t.Errorf("DuplicatedPaths = %d, want 1", report.DuplicatedPaths)
	}
	if report.DocsRemoved != 1 {
		t.Errorf("DocsRemoved = %d, want 1", report.DocsRemoved)
	}
	if idx.Len() != 3 {
		t.Errorf("expected dry run to leave all 3 docs untouched, got %d", idx.Len())
	}
}

func TestDedupeExecuteRemovesDuplicates(t *testing.T) {
	idx := index.NewFakeIndex()
	ctx := context.Background()
	_ = idx.Upsert(ctx,
		index.Document{"id": "1", "file_path": "/a.jpg", "modified_date": "2024-01-01T00:00:00Z"},
		index.Document{"id": "2", "file_path": "/a.jpg", "modified_date": "2024-02-01T00:00:00Z"},
	)

	report, err := Dedupe(ctx, idx, true)
	if err != nil {
		t.Fatalf("Dedupe() error: %v", err)
	}
	if report.DocsRemoved != 1 {
		t.Errorf("DocsRemoved = %d, want 1", report.DocsRemoved)
	}
	if idx.Len() != 1 {
		t.Fatalf("expected exactly one surviving document, got %d", idx.Len())
	}
}
