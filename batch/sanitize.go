// Package batch processes a directory of audio files through upload,
// transcription and report collection.
package batch

import "regexp"

// unsafeChars matches every character not allowed in staged file names.
var unsafeChars = regexp.MustCompile(`[^0-9a-zA-Z._-]`)

// SanitizeFilename replaces every character outside [0-9a-zA-Z._-] with
// an underscore. The result is stable under repeated application.
func SanitizeFilename(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}
