// Package content renders dealer-authored vehicle descriptions for the
// public site.
package content

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md       goldmark.Markdown
	policy   *bluemonday.Policy
	initOnce sync.Once
)

func setup() {
	initOnce.Do(func() {
		md = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))

		policy = bluemonday.NewPolicy()
		policy.AllowStandardURLs()
		policy.AllowElements(
			"p", "br", "hr",
			"h2", "h3", "h4",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"table", "thead", "tbody", "tr", "th", "td",
			"code", "pre", "blockquote",
		)
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
	})
}

// RenderMarkdown converts a markdown description to sanitized HTML.
// Raw HTML in the source never survives: goldmark drops it and the
// bluemonday policy strips anything outside the allowed formatting tags.
func RenderMarkdown(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	setup()

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("content.RenderMarkdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}
