package queue

import "testing"

func TestDocumentIDStable(t *testing.T) {
	a := DocumentID("/photos/a/b.jpg")
	b := DocumentID("/photos/a/b.jpg")
	if a != b {
		t.Errorf("DocumentID() not stable: %q != %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("DocumentID() length = %d, want 64", len(a))
	}
}

func TestContentHashEmptyFile(t *testing.T) {
	got := ContentHash(nil)
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Errorf("ContentHash(empty) = %q, want %q", got, want)
	}
}

func TestSupportedExtensions(t *testing.T) {
	for _, ext := range []string{".jpg", ".mp4", ".mp3", ".pdf", ".zip"} {
		if !Supported(ext) {
			t.Errorf("Supported(%q) = false, want true", ext)
		}
	}
	if Supported(".exe") {
		t.Errorf("Supported(.exe) = true, want false")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	e := FileEvent{
		EventType:      Created,
		FilePath:       "/photos/a/b.jpg",
		FileExtension:  ".jpg",
		DirectoryDepth: 1,
	}
	raw, err := e.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got != e {
		t.Errorf("Decode(Encode(e)) = %+v, want %+v", got, e)
	}
}

func TestDecodeToleratesUnknownFields(t *testing.T) {
	raw := []byte(`{"event_type":"created","file_path":"/photos/a.jpg","bogus_field":123}`)
	e, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() error on unknown field: %v", err)
	}
	if e.FilePath != "/photos/a.jpg" {
		t.Errorf("Decode() FilePath = %q, want /photos/a.jpg", e.FilePath)
	}
}
