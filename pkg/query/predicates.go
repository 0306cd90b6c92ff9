package query

import (
	"strconv"
	"strings"
)

// WebSentinel stands for "any web resource" inside an extension set
const WebSentinel = "__web__"

// InfoFilter is the tri-state "has any metadata" predicate
type InfoFilter int

const (
	InfoAny InfoFilter = iota
	InfoPresent
	InfoAbsent
)

// Order selects one of the whitelisted result orderings
type Order string

const (
	OrderRecent Order = "recent"
	OrderOldest Order = "oldest"
	OrderName   Order = "name"
)

// Predicates is a sparse set of optional filters. Zero values are inactive.
type Predicates struct {
	Name        string
	ExcludeName string

	Tag        string
	ExcludeTag string

	// Days keeps entries modified within the last N days when set
	Days *int

	Extensions        []string
	ExcludeExtensions []string

	Info InfoFilter

	// Substring filters on the descriptive columns of apps, web accounts
	// and pages
	Platform string
	Category string
	Status   string

	Order Order
	Limit int
}

// ParseDays turns user input into a recency filter; anything that is not a
// non-negative integer disables it.
func ParseDays(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

// ParseExtensions converts "pdf, .DOCX, web" into [".pdf", ".docx", WebSentinel]
func ParseExtensions(raw string) []string {
	var result []string
	seen := make(map[string]struct{})

	for _, token := range strings.Split(raw, ",") {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" || token == "." {
			continue
		}

		switch token {
		case "web", "link", "url", WebSentinel:
			token = WebSentinel
		default:
			if !strings.HasPrefix(token, ".") {
				token = "." + token
			}
		}

		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		result = append(result, token)
	}

	return result
}

// ParseInfo maps yes/no style answers onto the tri-state filter
func ParseInfo(raw string) InfoFilter {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s", "si", "y", "yes", "true", "with":
		return InfoPresent
	case "n", "no", "false", "without":
		return InfoAbsent
	}
	return InfoAny
}

// splitExtensions separates the web sentinel from concrete extensions
func splitExtensions(exts []string) (web bool, concrete []string) {
	for _, ext := range exts {
		if ext == WebSentinel {
			web = true
			continue
		}
		concrete = append(concrete, strings.ToLower(ext))
	}
	return web, concrete
}
