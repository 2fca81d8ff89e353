package service

import (
	"regexp"

	"github.com/workstreamhq/workstream/internal/entity"
)

// Rich-text mentions arrive as attribute markers like
// <span data-user="u123">@name</span>; only the id matters here.
var mentionPattern = regexp.MustCompile(`data-user="([^"]+)"`)

// ParseMentions extracts the mentioned user ids from rich text,
// de-duplicated in first-appearance order.
func ParseMentions(text string) []entity.ID {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var ids []entity.ID
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		ids = append(ids, entity.ID(m[1]))
	}
	return ids
}
