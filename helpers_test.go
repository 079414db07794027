package writedesk

import (
	"reflect"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Already-Slugged", "already-slugged"},
		{"Punctuation, everywhere!", "punctuation-everywhere"},
		{"Multiple   spaces", "multiple-spaces"},
		{"UPPER case 123", "upper-case-123"},
		{"Trailing punctuation...", "trailing-punctuation"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		expected string
	}{
		{"https://example.com", []string{"blog"}, "https://example.com/blog"},
		{"https://example.com/", []string{"blog", "my-post"}, "https://example.com/blog/my-post"},
		{"https://example.com/sub", []string{"feed.xml"}, "https://example.com/sub/feed.xml"},
		{"https://example.com", nil, "https://example.com"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.expected {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.expected)
		}
	}
}

func TestFilterEmpty(t *testing.T) {
	got := FilterEmpty([]string{"go", "", "  ", "sqlite", "\t"})
	want := []string{"go", "sqlite"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterEmpty = %v, want %v", got, want)
	}
	if FilterEmpty(nil) != nil {
		t.Errorf("FilterEmpty(nil) should be nil")
	}
}
