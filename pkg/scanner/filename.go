package scanner

import (
	"path/filepath"
	"strings"
)

// MaxFilenameLength is the longest filename stored before truncation
const MaxFilenameLength = 150

const ellipsis = "..."

// TruncateFilename shortens name to at most max runes, keeping the
// extension: "stem...ext". Names that leave no room for the stem are cut.
func TruncateFilename(name string, max int) string {
	runes := []rune(name)
	if max <= 0 || len(runes) <= max {
		return name
	}

	ext := []rune(filepath.Ext(name))
	keep := max - len(ext) - len(ellipsis)
	if keep <= 0 {
		return string(runes[:max])
	}

	return string(runes[:keep]) + ellipsis + string(ext)
}

// Extension returns the lower-cased extension of name, dot included. Names
// ending in a dot and dot-files without a further dot have none.
func Extension(name string) string {
	ext := filepath.Ext(name)
	if ext == "." || ext == name {
		return ""
	}
	return strings.ToLower(ext)
}
