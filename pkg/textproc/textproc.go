// Package textproc rewrites message text before it is relayed. The pipeline
// is pure: the same input and options always yield the same output, and no
// step performs I/O.
package textproc

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"crosspost/pkg/config"
)

var (
	urlPattern     = regexp.MustCompile(`http\S+|www\S+`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	spaceRun       = regexp.MustCompile(`\s+`)

	// Emoticons, pictographs, transport symbols, regional-indicator flags,
	// dingbats and the enclosed-alphanumeric block.
	emojiPattern = regexp.MustCompile(`[\x{1F600}-\x{1F64F}` +
		`\x{1F300}-\x{1F5FF}` +
		`\x{1F680}-\x{1F6FF}` +
		`\x{1F1E0}-\x{1F1FF}` +
		`\x{2702}-\x{27B0}` +
		`\x{24C2}-\x{1F251}]+`)
)

// Process applies the enabled rewrite steps to text in a fixed order: URL,
// hashtag, mention and emoji removal, whitespace collapse, then prefix and
// suffix, then a final trim. Later steps see the output of earlier ones.
// Empty input returns the empty string immediately; a result reduced to just
// the prefix/suffix (or to nothing) is valid output.
func Process(text string, opts config.ProcessingConfig) string {
	if text == "" {
		return ""
	}

	out := text

	if opts.RemoveURLs {
		out = urlPattern.ReplaceAllString(out, "")
	}
	if opts.RemoveHashtags {
		out = hashtagPattern.ReplaceAllString(out, "")
	}
	if opts.RemoveMentions {
		out = mentionPattern.ReplaceAllString(out, "")
	}
	if opts.RemoveEmojis {
		out = emojiPattern.ReplaceAllString(out, "")
	}
	if opts.TrimExtraSpaces {
		out = strings.TrimSpace(spaceRun.ReplaceAllString(out, " "))
	}

	if opts.Prefix != "" {
		out = opts.Prefix + out
	}
	if opts.Suffix != "" {
		out += opts.Suffix
	}

	return strings.TrimSpace(out)
}

// Length counts characters the way the post length gate does: runes, not
// bytes, so multi-byte text is not penalized.
func Length(text string) int {
	return utf8.RuneCountInString(text)
}
