package selection

import (
	"strings"
	"testing"

	"github.com/marjoballabani/lazybuild/pkg/xcode"
	"pgregory.net/rapid"
)

func TestMatches(t *testing.T) {
	entry := xcode.Setting{Name: "SWIFT_VERSION", Value: "5.0"}

	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"SWIFT", true},
		{"swift", true},
		{"Ft_Ver", true},
		{"5.0", true},
		{".", true},
		{"6.0", false},
		{"PRODUCT", false},
		{"SWIFT_VERSION=", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := Matches(entry, tt.query); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	entries := []xcode.Setting{
		{Name: "ARCHS", Value: "arm64"},
		{Name: "PRODUCT_NAME", Value: "App"},
		{Name: "SDKROOT", Value: "iphoneos"},
		{Name: "TARGETED_DEVICE_FAMILY", Value: "1,2"},
	}

	got := Filter(entries, "A")
	want := []string{"ARCHS", "PRODUCT_NAME", "TARGETED_DEVICE_FAMILY"}
	if len(got) != len(want) {
		t.Fatalf("Filter() returned %d entries, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("entry %d = %s, want %s", i, got[i].Name, name)
		}
	}

	if got := Filter(entries, "nothing-matches"); len(got) != 0 {
		t.Errorf("Filter() = %v, want empty", got)
	}
}

func settingGen() *rapid.Generator[xcode.Setting] {
	return rapid.Custom(func(t *rapid.T) xcode.Setting {
		return xcode.Setting{
			Name:  rapid.StringMatching(`[A-Z_]{1,12}`).Draw(t, "name"),
			Value: rapid.StringMatching(`[a-zA-Z0-9 .-]{0,12}`).Draw(t, "value"),
		}
	})
}

func TestFilterProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		entries := rapid.SliceOf(settingGen()).Draw(t, "entries")
		query := rapid.StringMatching(`[a-zA-Z0-9_.]{0,4}`).Draw(t, "query")

		once := Filter(entries, query)
		if twice := Filter(once, query); len(twice) != len(once) {
			t.Fatalf("filtering twice dropped entries: %d then %d", len(once), len(twice))
		}
		if len(Filter(entries, "")) != len(entries) {
			t.Fatalf("empty query dropped entries")
		}
		if len(Filter(entries, strings.ToUpper(query))) != len(once) {
			t.Fatalf("query %q matched differently in upper case", query)
		}
		for _, e := range once {
			if !Matches(e, query) {
				t.Fatalf("%v kept but does not match %q", e, query)
			}
		}
	})
}
