package text

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)
	chatPolicy = newChatPolicy()
)

// newChatPolicy allows only the inline tags chat platforms accept in HTML
// parse mode. Block elements are stripped, their text kept.
func newChatPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "s", "code", "pre")
	p.AllowAttrs("href").OnElements("a")
	p.RequireParseableURLs(true)
	p.AllowURLSchemes("http", "https")
	return p
}

// RenderChatHTML converts stored topic or reply text to the restricted HTML
// the dispatcher forwards to the chat platform. On a conversion failure the
// sanitized source is returned as-is.
func RenderChatHTML(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return chatPolicy.Sanitize(source)
	}

	sanitized := chatPolicy.Sanitize(buf.String())
	return strings.TrimSpace(sanitized)
}
