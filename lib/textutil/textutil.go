package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeLabel(label string) string {
	label = strings.ToLower(label)
	label = strings.Trim(label, " \n\t")
	label = whitespaceRegex.ReplaceAllString(label, "")
	return label
}

// reports whether label matches any of the given entries after
// normalization. used to throw out literal navigation labels that the
// course list pattern also picks up.
func MatchLabel(label string, entries []string) bool {
	label = NormalizeLabel(label)
	for _, e := range entries {
		if label == NormalizeLabel(e) {
			return true
		}
	}
	return false
}

func CollapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Truncate cuts s down to at most n runes.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// FirstLine returns the first non-empty line of s, trimmed.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

var illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename strips characters that are illegal in path components
// on common filesystems and trims surrounding whitespace. an input that
// sanitizes down to nothing comes back as "unnamed" so the result is
// always usable as a filename base.
func SanitizeFilename(name string) string {
	clean := illegalFilenameChars.ReplaceAllString(name, "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return "unnamed"
	}
	return clean
}
