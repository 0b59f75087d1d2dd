package extractor

import "github.com/gabriel-vasile/mimetype"

// detectMime sniffs a file's MIME type from its leading bytes.
func detectMime(containerPath string) (string, error) {
	mtype, err := mimetype.DetectFile(containerPath)
	if err != nil {
		return "", err
	}
	return mtype.String(), nil
}
