// Package markdown renders authored template text into the small HTML
// subset Telegram accepts, for command previews.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type MarkdownService interface {
	ToHTML(markdown string) (string, error)
	Sanitize(htmlContent string) string
	ToTelegramHTML(markdown string) (string, error)
}

type markdownServiceImpl struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdownService() MarkdownService {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Strikethrough,
			extension.Linkify,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	// Telegram accepts only a handful of inline tags; everything else is
	// stripped down to its text content.
	policy := bluemonday.StrictPolicy()
	policy.AllowElements("b", "strong", "i", "em", "u", "s", "del", "code", "pre")
	policy.AllowAttrs("href").OnElements("a")
	policy.AllowStandardURLs()

	return &markdownServiceImpl{
		md:     md,
		policy: policy,
	}
}

func (s *markdownServiceImpl) ToHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return buf.String(), nil
}

func (s *markdownServiceImpl) Sanitize(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}

// ToTelegramHTML converts markdown to the Telegram-safe subset. Block
// structure collapses to newlines since Telegram has no block tags.
func (s *markdownServiceImpl) ToTelegramHTML(markdown string) (string, error) {
	rendered, err := s.ToHTML(markdown)
	if err != nil {
		return "", err
	}
	rendered = strings.ReplaceAll(rendered, "</p>", "\n")
	rendered = strings.ReplaceAll(rendered, "<br />", "\n")
	return strings.TrimSpace(s.Sanitize(rendered)), nil
}
