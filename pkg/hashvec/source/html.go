package source

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLReader reduces the documents of another Reader to their visible text.
type HTMLReader struct {
	Next Reader
}

// Read implements Reader.
func (r HTMLReader) Read(ctx context.Context, source string) (string, error) {
	raw, err := r.Next.Read(ctx, source)
	if err != nil {
		return "", err
	}
	return StripHTML(raw), nil
}

// StripHTML returns the text nodes of an HTML document separated by spaces.
// Script and style contents are skipped.
func StripHTML(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		// Fallback to string if parsing fails
		return s
	}

	var buf strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			if buf.Len() > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extractText(c)
		}
	}
	extractText(doc)

	return strings.TrimSpace(buf.String())
}
