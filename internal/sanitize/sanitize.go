// Package sanitize prepares untrusted listing descriptions for rendering.
// HTML-flagged descriptions pass through a tag/attribute whitelist pass;
// plain-text descriptions are reformatted into simple markup.
package sanitize

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

// removedSelector matches elements that never survive sanitization.
const removedSelector = "script, style, iframe, object, embed, form, link, meta, base"

// HTML strips active content from third-party markup: script-bearing
// elements, on* event attributes, and javascript: URLs. Parse failures fall
// back to full escaping rather than passing raw input through.
func HTML(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return html.EscapeString(raw)
	}

	doc.Find(removedSelector).Remove()

	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			n.Attr = cleanAttrs(n.Attr)
		}
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return html.EscapeString(raw)
	}
	return out
}

func cleanAttrs(attrs []xhtml.Attribute) []xhtml.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if key == "href" || key == "src" {
			v := strings.ToLower(strings.TrimSpace(a.Val))
			if strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "data:") {
				continue
			}
		}
		kept = append(kept, a)
	}
	return kept
}

// PlainText converts an escaped plain-text description into minimal markup:
// blank lines become paragraph breaks and "### heading" lines become <h3>.
func PlainText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	escaped := html.EscapeString(raw)
	var parts []string
	for _, para := range strings.Split(escaped, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		var lines []string
		for _, line := range strings.Split(para, "\n") {
			if h, ok := strings.CutPrefix(strings.TrimSpace(line), "### "); ok {
				lines = append(lines, fmt.Sprintf("<h3>%s</h3>", h))
				continue
			}
			lines = append(lines, line)
		}
		parts = append(parts, "<p>"+strings.Join(lines, "<br>")+"</p>")
	}
	return strings.Join(parts, "")
}

// Render sanitizes or reformats a description according to its isHtml flag.
func Render(description string, isHTML bool) string {
	if isHTML {
		return HTML(description)
	}
	return PlainText(description)
}

// StripAndTruncate reduces markup to plain text, collapses whitespace, and
// truncates on a word boundary with a trailing ellipsis.
func StripAndTruncate(raw string, maxLen int) string {
	if raw == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	var text string
	if err != nil {
		text = raw
	} else {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxLen {
		return text
	}
	cut := text[:maxLen]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
