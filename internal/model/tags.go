package model

import "strings"

// ParseTags normalizes a raw comma-separated tag string: entries are trimmed,
// empties dropped, a "#" prefix added when missing, and duplicates removed
// case-insensitively while preserving first-occurrence order.
func ParseTags(raw string) []string {
	return normalizeTags(strings.Split(raw, ","))
}

// TagTokens normalizes free-form tag text (filter boxes, suggestion merges),
// which splits on spaces as well as commas.
func TagTokens(text string) []string {
	return normalizeTags(strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ','
	}))
}

func normalizeTags(parts []string) []string {
	var tags []string
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, "#") {
			part = "#" + part
		}
		key := strings.ToLower(part)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, part)
	}
	return tags
}
