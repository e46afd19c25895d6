package textproc

import (
	"strings"
	"testing"

	"crosspost/pkg/config"
)

func TestProcessAllTogglesOffIsTrimmedIdentity(t *testing.T) {
	in := "  keep #tags @user http://x.com  as-is  "
	got := Process(in, config.ProcessingConfig{})
	if got != strings.TrimSpace(in) {
		t.Fatalf("Process = %q, want trimmed input %q", got, strings.TrimSpace(in))
	}
}

func TestProcessEmptyInput(t *testing.T) {
	opts := config.ProcessingConfig{Prefix: "📢 ", Suffix: " end"}
	if got := Process("", opts); got != "" {
		t.Fatalf("Process(\"\") = %q, want empty", got)
	}
}

func TestProcessRemovesURLs(t *testing.T) {
	opts := config.ProcessingConfig{RemoveURLs: true}

	for _, in := range []string{
		"see http://example.com/path now",
		"see https://example.com?q=1 now",
		"see www.example.com now",
	} {
		got := Process(in, opts)
		if urlPattern.MatchString(got) {
			t.Fatalf("Process(%q) = %q still matches URL pattern", in, got)
		}
	}
}

func TestProcessRemovesHashtagsAndMentions(t *testing.T) {
	opts := config.ProcessingConfig{RemoveHashtags: true, RemoveMentions: true, TrimExtraSpaces: true}

	got := Process("news #breaking from @reporter today", opts)
	if got != "news from today" {
		t.Fatalf("Process = %q, want %q", got, "news from today")
	}
}

func TestProcessRemovesEmojis(t *testing.T) {
	opts := config.ProcessingConfig{RemoveEmojis: true, TrimExtraSpaces: true}

	got := Process("launch 🚀 day 😀 🎉", opts)
	if got != "launch day" {
		t.Fatalf("Process = %q, want %q", got, "launch day")
	}
}

func TestProcessCollapsesWhitespace(t *testing.T) {
	opts := config.ProcessingConfig{TrimExtraSpaces: true}

	got := Process("  a\t\tb\n\nc   d ", opts)
	if got != "a b c d" {
		t.Fatalf("Process = %q, want %q", got, "a b c d")
	}
	if strings.Contains(got, "  ") {
		t.Fatalf("Process = %q contains consecutive spaces", got)
	}
}

func TestProcessPrefixAppliedAfterRemoval(t *testing.T) {
	opts := config.ProcessingConfig{
		RemoveURLs:      true,
		TrimExtraSpaces: true,
		Prefix:          "📢 ",
	}

	got := Process("hello   http://x.com world", opts)
	if got != "📢 hello world" {
		t.Fatalf("Process = %q, want %q", got, "📢 hello world")
	}
}

func TestProcessResultMayBeSuffixOnly(t *testing.T) {
	opts := config.ProcessingConfig{
		RemoveURLs:      true,
		TrimExtraSpaces: true,
		Suffix:          "| bridge",
	}

	got := Process("https://only-a-link.example", opts)
	if got != "| bridge" {
		t.Fatalf("Process = %q, want %q", got, "| bridge")
	}
}

func TestLengthCountsRunes(t *testing.T) {
	if got := Length("📢 hi"); got != 4 {
		t.Fatalf("Length = %d, want 4", got)
	}
}
