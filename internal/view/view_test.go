package view

import (
	"strings"
	"testing"
	"time"
)

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    time.Time
		language string
		expected string
	}{
		{name: "zero", input: time.Time{}, expected: ""},
		{name: "seconds", input: now.Add(-30 * time.Second), expected: "just now"},
		{name: "one minute", input: now.Add(-time.Minute), expected: "1 minute ago"},
		{name: "minutes", input: now.Add(-5 * time.Minute), expected: "5 minutes ago"},
		{name: "hours", input: now.Add(-2 * time.Hour), expected: "2 hours ago"},
		{name: "days", input: now.Add(-72 * time.Hour), expected: "3 days ago"},
		{name: "months", input: now.Add(-60 * 24 * time.Hour), expected: "2 months ago"},
		{name: "years", input: now.Add(-3 * 365 * 24 * time.Hour), expected: "3 years ago"},
		{name: "future", input: now.Add(2 * time.Minute), expected: "just now"},
		{name: "chinese", input: now.Add(-5 * time.Minute), language: "zh", expected: "5分钟前"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRelativeTime(now, tt.input, tt.language); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	html := string(RenderMarkdown("# Title\n\n<script>alert(1)</script>\n\n[link](https://example.com)"))

	if !strings.Contains(html, "<h1") {
		t.Fatalf("expected heading, got %s", html)
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("expected script to be stripped, got %s", html)
	}
	if !strings.Contains(html, `target="_blank"`) {
		t.Fatalf("expected external link to open in new tab, got %s", html)
	}
}

func TestLinebreaksEscapes(t *testing.T) {
	got := string(Linebreaks("a <b>\nline"))
	if got != "a &lt;b&gt;<br>line" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestCategoryIconFallback(t *testing.T) {
	if CategoryIconSVG("unknown") != CategoryIconSVG("") {
		t.Fatal("expected unknown icon to use fallback")
	}
	if CategoryIconSVG("Scale") == CategoryIconSVG("") {
		t.Fatal("expected known icon to resolve case-insensitively")
	}
	if len(CategoryIconOptions()) == 0 {
		t.Fatal("expected icon options")
	}
}

func TestPluralize(t *testing.T) {
	if Pluralize(1, "s") != "" || Pluralize(int64(2), "s") != "s" || Pluralize(0, "s") != "s" {
		t.Fatal("unexpected pluralize output")
	}
}
