package extractor

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

const maxDocumentChars = 10000

// extractDocumentMetadata mirrors the original's extract_text_content:
// plain text gets its first 10,000 characters indexed verbatim plus a
// full character count, everything else just records its document_type
// since full-text extraction (Tika et al.) is out of scope here.
func extractDocumentMetadata(containerPath, ext string) map[string]any {
	meta := map[string]any{}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))

	if ext != "txt" {
		meta["document_type"] = ext
		return meta
	}

	data, err := os.ReadFile(containerPath)
	if err != nil {
		log.Warn().Str("path", containerPath).Err(err).Msg("failed to read text content")
		return meta
	}

	content := strings.ToValidUTF8(string(data), "")
	meta["character_count"] = utf8.RuneCountInString(content)
	meta["content"] = truncateRunes(content, maxDocumentChars)
	return meta
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
