package scanner

import (
	"path/filepath"
	"strings"

	"github.com/mwantia/goindex/internal/config"
)

// Rules decides which entries a scan ignores. The zero value ignores nothing.
// Rules are immutable once built.
type Rules struct {
	names        map[string]struct{}
	extensions   map[string]struct{}
	filePrefixes []string
	dirPrefixes  []string
}

// NewRules builds a rule set. Names and extensions are matched case-insensitively.
func NewRules(names, extensions, filePrefixes, dirPrefixes []string) Rules {
	r := Rules{
		names:        make(map[string]struct{}, len(names)),
		extensions:   make(map[string]struct{}, len(extensions)),
		filePrefixes: append([]string(nil), filePrefixes...),
		dirPrefixes:  append([]string(nil), dirPrefixes...),
	}

	for _, name := range names {
		r.names[strings.ToLower(name)] = struct{}{}
	}
	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.extensions[ext] = struct{}{}
	}

	return r
}

// RulesFromConfig builds the rule set described by the scanner configuration
func RulesFromConfig(cfg config.ScannerConfig) Rules {
	return NewRules(cfg.IgnoredNames, cfg.IgnoredExtensions, cfg.SkipFilePrefixes, cfg.SkipDirPrefixes)
}

// DefaultRules returns the built-in exclusion rules
func DefaultRules() Rules {
	return RulesFromConfig(config.GetDefault().Scanner)
}

// SkipFile reports whether a file with the given base name is excluded
func (r Rules) SkipFile(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := r.names[lower]; ok {
		return true
	}
	if _, ok := r.extensions[filepath.Ext(lower)]; ok {
		return true
	}
	return hasAnyPrefix(name, r.filePrefixes)
}

// SkipDir reports whether a subdirectory with the given base name is pruned
func (r Rules) SkipDir(name string) bool {
	return hasAnyPrefix(name, r.dirPrefixes)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
