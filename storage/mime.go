package storage

import (
	"path/filepath"
	"strings"
)

// defaultContentType is used for extensions outside the table.
const defaultContentType = "application/octet-stream"

// contentTypes is the fixed extension-to-MIME table for uploads.
var contentTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".mpeg": "audio/mpeg",
	".wav":  "audio/wav",
	".txt":  "text/plain",
	".html": "text/html; charset=utf-8",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
}

// ContentType returns the MIME type for a filename based on its extension.
// The mapping is case-insensitive; unrecognized extensions map to a
// generic binary type.
func ContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return defaultContentType
}
