// Package queue defines the work-queue message schema and the supported
// file-type tables shared by the watcher and the extractor.
package queue

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// EventType enumerates the three kinds of file event the pipeline moves
// through its queues.
type EventType string

const (
	Created  EventType = "created"
	Modified EventType = "modified"
	Deleted  EventType = "deleted"
)

// FileEvent is the work-queue message, JSON-encoded, with exactly the
// fields the external interface contract names. Unknown fields on
// decode are tolerated (encoding/json already does this for structs).
type FileEvent struct {
	EventType      EventType `json:"event_type"`
	FilePath       string    `json:"file_path"`
	ContainerPath  string    `json:"container_path"`
	FileName       string    `json:"file_name"`
	FileExtension  string    `json:"file_extension"`
	FileSize       int64     `json:"file_size"`
	ContentHash    string    `json:"content_hash"`
	CreatedDate    string    `json:"created_date,omitempty"`
	ModifiedDate   string    `json:"modified_date,omitempty"`
	DirectoryPath  string    `json:"directory_path"`
	DirectoryDepth int       `json:"directory_depth"`
	QueuedAt       string    `json:"queued_at"`
}

// Encode marshals the event for LPUSH onto file_processing_queue.
func (e FileEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses a message popped from file_processing_queue.
func Decode(raw []byte) (FileEvent, error) {
	var e FileEvent
	err := json.Unmarshal(raw, &e)
	return e, err
}

// ISOTime formats t the way the pipeline's timestamps are encoded:
// ISO-8601 UTC with a trailing Z.
func ISOTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".tiff": true, ".tif": true, ".webp": true, ".raw": true, ".cr2": true,
	".nef": true, ".arw": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mkv": true, ".mov": true, ".wmv": true,
	".flv": true, ".webm": true, ".m4v": true, ".mpg": true, ".mpeg": true,
}

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".flac": true, ".aac": true, ".ogg": true,
	".wma": true, ".m4a": true,
}

var documentExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".txt": true, ".rtf": true,
	".odt": true, ".pages": true,
}

var archiveExtensions = map[string]bool{
	".zip": true, ".rar": true, ".7z": true, ".tar": true, ".gz": true,
}

// Supported reports whether ext (lowercased, with leading dot) is one of
// the extensions the pipeline watches for.
func Supported(ext string) bool {
	return imageExtensions[ext] || videoExtensions[ext] || audioExtensions[ext] ||
		documentExtensions[ext] || archiveExtensions[ext]
}

// IsImage, IsVideo, IsAudio, IsDocument, IsArchive classify a lowercased
// extension for the watcher's extension gate. The extractor classifies
// by MIME type instead (§4.4 step 3) and uses these as a fallback for
// documents and archives, which MIME sniffing can't distinguish from
// generic octet streams, and for every type when sniffing fails. The
// extractor and the thumbnail worker also use IsImage/IsVideo to decide
// which events get thumbnails.
func IsImage(ext string) bool    { return imageExtensions[ext] }
func IsVideo(ext string) bool    { return videoExtensions[ext] }
func IsAudio(ext string) bool    { return audioExtensions[ext] }
func IsDocument(ext string) bool { return documentExtensions[ext] }
func IsArchive(ext string) bool  { return archiveExtensions[ext] }

// DocumentID computes the deterministic index document id for a logical
// path: lowercase hex SHA-256 of the path bytes. Stable across runs and
// over the byte sequence, so non-UTF-8 logical paths still hash
// deterministically.
func DocumentID(logicalPath string) string {
	sum := sha256.Sum256([]byte(logicalPath))
	return hex.EncodeToString(sum[:])
}

// ContentHash computes the hex SHA-256 of raw file contents, used both
// as the event's content_hash field and as the state store's
// content-address dedup key.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
