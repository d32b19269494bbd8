package selection

import (
	"strings"

	"github.com/marjoballabani/lazybuild/pkg/xcode"
)

// Matches reports whether entry is shown for query. An empty query matches
// everything; otherwise name or value must contain the query, ignoring case.
func Matches(entry xcode.Setting, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(entry.Name), q) ||
		strings.Contains(strings.ToLower(entry.Value), q)
}

// Filter returns the entries matching query, keeping their order.
func Filter(entries []xcode.Setting, query string) []xcode.Setting {
	if query == "" {
		return entries
	}
	var out []xcode.Setting
	for _, e := range entries {
		if Matches(e, query) {
			out = append(out, e)
		}
	}
	return out
}
