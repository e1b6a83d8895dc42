// Package emailtext turns forwarded email bodies into the plain text the
// extractor patterns are written against.
package emailtext

import (
	"regexp"
	"strings"
	"unicode/utf8"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultPreviewChars bounds previews stored with pending imports.
const DefaultPreviewChars = 2000

var (
	reHTMLTag = regexp.MustCompile(`(?i)</?(html|body|div|p|br|table|td|span|a|b|strong|h[1-6])\b[^<>]*>`)
	reSpaces  = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
)

var blockAtoms = map[atom.Atom]bool{
	atom.Br: true, atom.P: true, atom.Div: true, atom.Tr: true, atom.Li: true,
	atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Section: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Footer: true, atom.Blockquote: true,
}

// IsHTML reports whether s looks like an HTML document or fragment.
func IsHTML(s string) bool {
	return reHTMLTag.MatchString(s)
}

// Normalize converts line endings to \n and, for HTML input, strips markup
// into one text line per block element. Plain text is otherwise unchanged.
func Normalize(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	if !IsHTML(body) {
		return body
	}
	return htmlToText(body)
}

func htmlToText(doc string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(doc))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a malformed document; either way keep what was read.
			return tidy(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Script || a == atom.Style || a == atom.Head:
				if tt == html.StartTagToken {
					skip++
				}
			case blockAtoms[a]:
				b.WriteByte('\n')
			case a == atom.Td || a == atom.Th:
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			switch {
			case a == atom.Script || a == atom.Style || a == atom.Head:
				if skip > 0 {
					skip--
				}
			case blockAtoms[a]:
				b.WriteByte('\n')
			}
		}
	}
}

// tidy collapses horizontal whitespace and drops empty lines, so adjacent
// blocks end up on consecutive lines.
func tidy(s string) string {
	var lines []string
	for l := range strings.SplitSeq(s, "\n") {
		l = strings.TrimSpace(reSpaces.ReplaceAllString(l, " "))
		if l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// Preview renders raw email content for human review. HTML is converted to
// markdown; anything else goes through Normalize. The result is cut to at
// most maxChars runes.
func Preview(raw string, maxChars int) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	text := ""
	if IsHTML(raw) {
		md, err := htmltomarkdown.ConvertString(raw)
		if err == nil {
			text = strings.TrimSpace(md)
		}
	}
	if text == "" {
		text = Normalize(raw)
	}
	return Truncate(text, maxChars)
}

// Truncate cuts s to maxChars runes, appending "..." when it had to cut.
// maxChars <= 0 disables truncation.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:maxChars])) + "..."
}
