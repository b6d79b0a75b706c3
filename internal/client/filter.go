package client

import (
	"strings"

	"devfolio/internal/domain"
)

// FilterPosts keeps the posts in category whose title or content contains
// query, ignoring case. The "all categories" sentinel and an empty query
// match everything. posts is not modified.
func FilterPosts(posts []domain.DevLog, category, query string) []domain.DevLog {
	category = domain.NormalizeCategory(category)
	query = strings.ToLower(query)

	out := make([]domain.DevLog, 0, len(posts))
	for _, p := range posts {
		if category != "" && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Content), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}
