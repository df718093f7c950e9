// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous HTML from user-generated content
// before it is stored. Post titles and descriptions pass through here on
// create; profile free-text fields do as well.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowTables()
	p.AllowAttrs("class").OnElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowElements("u", "s", "sub", "sup", "mark")
	return p
}

// Sanitize returns s with scripts, event handlers, and javascript: URLs
// removed. Safe formatting (paragraphs, emphasis, lists, tables, links)
// is preserved.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}
