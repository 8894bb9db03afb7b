// Package textutil cleans user-supplied text and renders educational
// markdown to safe HTML.
package textutil

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
	md     = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// maxDecodePasses bounds how many layers of entity encoding Plain unwraps.
const maxDecodePasses = 8

// Plain strips all markup and surrounding whitespace. bluemonday escapes the
// text it keeps, so entities are decoded to store the literal text; decoding
// can expose encoded tags, so sanitizing repeats until the text is stable.
func Plain(s string) string {
	for i := 0; i < maxDecodePasses; i++ {
		next := html.UnescapeString(strict.Sanitize(s))
		if next == s {
			return strings.TrimSpace(next)
		}
		s = next
	}
	return strings.TrimSpace(strict.Sanitize(s))
}

// PlainPtr applies Plain and maps empty results to nil.
func PlainPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := Plain(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// Markdown renders src as GitHub-flavored markdown and sanitizes the HTML.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return ugc.Sanitize(buf.String()), nil
}
