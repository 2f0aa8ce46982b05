package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// "(remix)", "[2024]", "{live}" and the whitespace before them are noise.
	bracketRe   = regexp.MustCompile(`\s*\(.*?\)|\s*\[.*?\]|\s*\{.*?\}`)
	separatorRe = regexp.MustCompile(`[\s_,]+`)
	dashRunRe   = regexp.MustCompile(`-+`)
)

// SanitizeName turns a raw title/album string into a storage-key-safe slug.
// Order matters: brackets first, then dots, then separator collapsing, so a
// later step never reintroduces a pattern removed earlier. Total over any
// input; empty in, empty out.
func SanitizeName(s string) string {
	s = bracketRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ".", "")
	s = separatorRe.ReplaceAllString(s, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "- ")
}

// SongFileKey derives the storage file name for an uploaded song from its
// original file name. Unlike SanitizeName it lowercases and keeps the
// extension, so "My Song (Remix).MP3" becomes "my-song.mp3".
func SongFileKey(fileName string) string {
	s := strings.ToLower(fileName)
	s = bracketRe.ReplaceAllString(s, "")
	s = separatorRe.ReplaceAllString(s, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "- ")
}

// StripExt removes the file extension, if any.
func StripExt(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
