// Package volume implements the Path Normalizer: a pure function mapping
// a live container-local path to the stable logical path used as the
// pipeline's sole external identity for a file.
package volume

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nasdex/indexer/internal/nasindex/conf"
)

// Normalizer maps container paths to logical paths for a fixed set of
// configured volumes. It holds no mutable state and performs no I/O
// beyond path arithmetic.
type Normalizer struct {
	volumes []conf.Volume
}

// New builds a Normalizer from the configured volume list.
func New(volumes []conf.Volume) *Normalizer {
	cleaned := make([]conf.Volume, len(volumes))
	for i, v := range volumes {
		cleaned[i] = conf.Volume{Name: v.Name, Path: filepath.Clean(v.Path)}
	}
	return &Normalizer{volumes: cleaned}
}

// Volumes returns the configured volumes, in configuration order.
func (n *Normalizer) Volumes() []conf.Volume {
	return n.volumes
}

// Logical maps a container path to its logical path "/<volume>/<rel>".
// If no configured volume root contains the path, it logs a warning and
// returns the input unchanged, per the normalizer's documented fallback.
func (n *Normalizer) Logical(containerPath string) string {
	clean := filepath.Clean(containerPath)
	for _, v := range n.volumes {
		rel, err := filepath.Rel(v.Path, clean)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if rel == "." {
			return "/" + v.Name
		}
		return "/" + v.Name + "/" + filepath.ToSlash(rel)
	}
	log.Warn().Str("path", containerPath).Msg("path matches no configured volume")
	return containerPath
}

// Container reverses Logical for a given volume, producing the live path
// to use for I/O. Returns ok=false if logicalPath's volume segment does
// not match a configured volume.
func (n *Normalizer) Container(logicalPath string) (path string, ok bool) {
	trimmed := strings.TrimPrefix(logicalPath, "/")
	parts := strings.SplitN(trimmed, "/", 2)
	name := parts[0]
	rel := ""
	if len(parts) == 2 {
		rel = parts[1]
	}
	for _, v := range n.volumes {
		if v.Name == name {
			return filepath.Join(v.Path, filepath.FromSlash(rel)), true
		}
	}
	return "", false
}

// Depth returns the directory depth of a logical path: the count of path
// segments below the volume root, i.e. segments(logical_path) - 2.
func Depth(logicalPath string) int {
	trimmed := strings.Trim(logicalPath, "/")
	if trimmed == "" {
		return -1
	}
	segments := strings.Split(trimmed, "/")
	return len(segments) - 2
}

// DirectoryPath returns the logical path of the parent directory.
func DirectoryPath(logicalPath string) string {
	dir := filepath.ToSlash(filepath.Dir(logicalPath))
	if dir == "." {
		return "/"
	}
	return dir
}
