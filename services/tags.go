package services

import (
	"strings"
)

// NormalizeTags trims tags, drops empty ones and removes duplicates, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ParseTags splits a comma separated tag field as typed in the authoring form.
func ParseTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}
