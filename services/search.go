package services

import (
	"strings"

	"sciarticles/models"
)

type SearchOptions struct {
	Query string
	Tag   string
	// IncludeAuthor also matches the author name and pseudonym.
	IncludeAuthor bool
	// Limit caps the result count; zero means no cap.
	Limit int
}

// FilterArticles keeps articles whose title, abstract or any tag contains the
// query (case-insensitive), restricted to those tagged with Tag when set.
func FilterArticles(articles []models.PublicArticle, opts SearchOptions) []models.PublicArticle {
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	out := make([]models.PublicArticle, 0, len(articles))
	for _, a := range articles {
		if query != "" && !matchesQuery(a, query, opts.IncludeAuthor) {
			continue
		}
		if opts.Tag != "" && !hasTag(a.Tags, opts.Tag) {
			continue
		}
		out = append(out, a)
		if opts.Limit > 0 && len(out) == opts.Limit {
			break
		}
	}
	return out
}

func matchesQuery(a models.PublicArticle, query string, includeAuthor bool) bool {
	if containsFold(a.Title, query) || containsFold(a.Abstract, query) {
		return true
	}
	for _, tag := range a.Tags {
		if containsFold(tag, query) {
			return true
		}
	}
	if includeAuthor {
		if containsFold(a.Author.Name, query) {
			return true
		}
		if a.Pseudonym != nil && containsFold(*a.Pseudonym, query) {
			return true
		}
	}
	return false
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// query is already lower-cased
func containsFold(s, query string) bool {
	return strings.Contains(strings.ToLower(s), query)
}
