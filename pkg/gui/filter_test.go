package gui

import (
	"testing"

	"github.com/marjoballabani/lazybuild/pkg/selection"
	"github.com/marjoballabani/lazybuild/pkg/xcode"
	"github.com/stretchr/testify/assert"
)

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filter   string
		expected bool
	}{
		{
			name:     "empty filter matches everything",
			text:     "anything",
			filter:   "",
			expected: true,
		},
		{
			name:     "exact match",
			text:     "hello",
			filter:   "hello",
			expected: true,
		},
		{
			name:     "partial match",
			text:     "hello world",
			filter:   "world",
			expected: true,
		},
		{
			name:     "case insensitive match",
			text:     "Hello World",
			filter:   "hello",
			expected: true,
		},
		{
			name:     "case insensitive filter",
			text:     "hello world",
			filter:   "WORLD",
			expected: true,
		},
		{
			name:     "no match",
			text:     "hello world",
			filter:   "foo",
			expected: false,
		},
		{
			name:     "empty text with filter",
			text:     "",
			filter:   "test",
			expected: false,
		},
		{
			name:     "empty text empty filter",
			text:     "",
			filter:   "",
			expected: true,
		},
		{
			name:     "special characters",
			text:     "Demo > App > Debug",
			filter:   "> app",
			expected: true,
		},
		{
			name:     "characters in order",
			text:     "SWIFT_OPTIMIZATION_LEVEL",
			filter:   "swol",
			expected: true,
		},
		{
			name:     "characters out of order",
			text:     "hello world",
			filter:   "dlrow",
			expected: false,
		},
		{
			name:     "unicode match",
			text:     "café résumé",
			filter:   "café",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MatchesFilter(tt.text, tt.filter)
			if result != tt.expected {
				t.Errorf("MatchesFilter(%q, %q) = %v, expected %v",
					tt.text, tt.filter, result, tt.expected)
			}
		})
	}
}

func TestFilterTargets(t *testing.T) {
	items := []selection.TargetItem{
		{Target: &xcode.Target{Name: "App"}, Path: "Demo > App"},
		{Target: &xcode.Target{Name: "AppTests"}, Path: "Demo > AppTests"},
		{Target: &xcode.Target{Name: "Widget"}, Path: "Other > Widget"},
	}

	assert.Equal(t, items, filterTargets(items, ""))

	var names []string
	for _, it := range filterTargets(items, "demo") {
		names = append(names, it.Target.Name)
	}
	assert.Equal(t, []string{"App", "AppTests"}, names)
	assert.Empty(t, filterTargets(items, "zzz"))
}

func TestFilterConfigurations(t *testing.T) {
	items := []selection.ConfigurationItem{
		{Configuration: &xcode.Configuration{Name: "Debug"}, Path: "App > Debug"},
		{Configuration: &xcode.Configuration{Name: "Release"}, Path: "App > Release"},
	}

	got := filterConfigurations(items, "rel")
	if assert.Len(t, got, 1) {
		assert.Equal(t, "Release", got[0].Configuration.Name)
	}
	// Matched on the name only, not the path.
	assert.Empty(t, filterConfigurations(items, "app"))
}

func TestIsJqFilter(t *testing.T) {
	assert.True(t, isJqFilter(".PRODUCT_NAME"))
	assert.True(t, isJqFilter("."))
	assert.False(t, isJqFilter("PRODUCT"))
	assert.False(t, isJqFilter(""))
}
