// internal/app/system/search/search.go
package search

import (
	"strings"

	"github.com/dalemusser/collabboard/internal/domain/models"
)

// FilterByTitle returns the posts whose title contains q, case-insensitively,
// preserving the input order. An empty query returns the input unchanged.
//
// This is the inline search used by the board view. It deliberately matches
// titles only; the /api/posts/search endpoint uses the wider MatchPost scope.
func FilterByTitle(posts []models.Post, q string) []models.Post {
	if q == "" {
		return posts
	}
	needle := strings.ToLower(q)
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out
}

// MatchPost reports whether a post matches q in its title or description,
// case-insensitively. An empty query matches everything.
func MatchPost(p models.Post, q string) bool {
	if q == "" {
		return true
	}
	needle := strings.ToLower(q)
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle)
}

// FilterPosts applies MatchPost over a slice, preserving order.
func FilterPosts(posts []models.Post, q string) []models.Post {
	if q == "" {
		return posts
	}
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if MatchPost(p, q) {
			out = append(out, p)
		}
	}
	return out
}
