// Package htmltext turns HTML into a single line of readable text.
package htmltext

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// dropped elements never contribute visible text.
const dropped = "script, style, noscript, head, template"

// FromReader parses HTML and returns its visible text with whitespace collapsed.
func FromReader(r io.Reader) (text string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(r)
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, err
	}

	doc.Find(dropped).Remove()

	var sb strings.Builder
	collect(doc.Selection, &sb)

	text = Collapse(sb.String())

	return text, err
}

// FromHTML is FromReader for a string. Unparseable input comes back collapsed as-is.
func FromHTML(html string) (text string) {
	var err error
	text, err = FromReader(strings.NewReader(html))
	if err != nil {
		text = Collapse(html)
	}
	return text
}

// Collapse trims every line and joins all remaining words with single spaces.
func Collapse(s string) (out string) {
	out = strings.Join(strings.Fields(s), " ")
	return out
}

// collect writes text nodes in document order, separated so adjacent blocks don't run together.
func collect(sel *goquery.Selection, sb *strings.Builder) {
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			sb.WriteString(child.Text())
			sb.WriteByte(' ')
		case "#comment":
		default:
			collect(child, sb)
		}
	})
}
