package ticketmaster

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6])[\s>/]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// htmlToMarkdown converts venue rule markup to Markdown. Plain text passes through.
func htmlToMarkdown(s string) string {
	if s == "" || !containsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(markdown)
}

// stripHTML reduces event notes to plain text with collapsed whitespace.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	if !containsHTML(s) {
		return strings.TrimSpace(whitespacePattern.ReplaceAllString(html.UnescapeString(s), " "))
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "p", "div", "br", "li":
				buf.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(whitespacePattern.ReplaceAllString(buf.String(), " "))
}
