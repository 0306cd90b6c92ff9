package scanner

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateFilename(t *testing.T) {
	long := strings.Repeat("a", 200)

	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"short name untouched", "report.pdf", 150, "report.pdf"},
		{"exactly at limit", strings.Repeat("b", 146) + ".pdf", 150, strings.Repeat("b", 146) + ".pdf"},
		{"keeps extension", long + ".pdf", 150, strings.Repeat("a", 143) + "....pdf"},
		{"no extension", long, 150, strings.Repeat("a", 147) + "..."},
		{"extension leaves no room", "x." + long, 20, ("x." + long)[:20]},
		{"multibyte runes", strings.Repeat("é", 20) + ".md", 10, "éééé....md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateFilename(tt.input, tt.max)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.max)
		})
	}
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"report.PDF":     ".pdf",
		"archive.tar.gz": ".gz",
		"report.":        "",
		"Makefile":       "",
		".bashrc":        "",
		".config.yaml":   ".yaml",
	}

	for name, want := range tests {
		assert.Equal(t, want, Extension(name), name)
	}
}
