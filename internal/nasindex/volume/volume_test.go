package volume

import (
	"testing"

	"github.com/nasdex/indexer/internal/nasindex/conf"
)

func testVolumes() []conf.Volume {
	return []conf.Volume{
		{Name: "photos", Path: "/m/photos"},
		{Name: "v1", Path: "/m/v1"},
	}
}

func TestLogical(t *testing.T) {
	n := New(testVolumes())

	got := n.Logical("/m/photos/a/b.jpg")
	want := "/photos/a/b.jpg"
	if got != want {
		t.Errorf("Logical() = %q, want %q", got, want)
	}
}

func TestLogicalVolumeRoot(t *testing.T) {
	n := New(testVolumes())
	if got := n.Logical("/m/photos"); got != "/photos" {
		t.Errorf("Logical(root) = %q, want /photos", got)
	}
}

func TestLogicalNoMatch(t *testing.T) {
	n := New(testVolumes())
	in := "/unrelated/path.txt"
	if got := n.Logical(in); got != in {
		t.Errorf("Logical() for unmatched path = %q, want unchanged %q", got, in)
	}
}

func TestContainerRoundTrip(t *testing.T) {
	n := New(testVolumes())
	logical := n.Logical("/m/photos/a/b.jpg")
	container, ok := n.Container(logical)
	if !ok {
		t.Fatalf("Container() did not resolve %q", logical)
	}
	if container != "/m/photos/a/b.jpg" {
		t.Errorf("Container() = %q, want /m/photos/a/b.jpg", container)
	}
}

func TestDepth(t *testing.T) {
	cases := map[string]int{
		"/photos/a/b.jpg": 1,
		"/photos/b.jpg":   0,
		"/photos":         -1,
	}
	for path, want := range cases {
		if got := Depth(path); got != want {
			t.Errorf("Depth(%q) = %d, want %d", path, got, want)
		}
	}
}
