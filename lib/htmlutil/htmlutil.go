package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// collapses inner whitespace runs and trims the edges
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.Trim(s, " \t\n")
	return innerWhitespace.ReplaceAllString(s, " ")
}

// Text of the first element matching `selector`, cleaned. Returns nil
// when the element is missing or its text is empty, so that a single
// absent field never fails a whole page parse.
func OptText(doc *goquery.Document, selector string) *string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	text := CleanText(sel.Text())
	if text == "" {
		return nil
	}
	return &text
}

// OptText against an element id
func OptTextID(doc *goquery.Document, id string) *string {
	return OptText(doc, "#"+id)
}

// like OptText but scoped to a selection instead of the document root
func OptTextIn(sel *goquery.Selection, selector string) *string {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil
	}
	text := CleanText(found.Text())
	if text == "" {
		return nil
	}
	return &text
}

// resolves `href` against `base`, returns href unchanged when either
// side fails to parse
func AbsoluteUrl(base, href string) string {
	baseUrl, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseUrl.ResolveReference(ref).String()
}

var doPostBackRegex = regexp.MustCompile(`__doPostBack\('([^']+)'`)

// pulls the event target out of a javascript:__doPostBack('...',...)
// href, returns "" when the href is not a postback link
func PostbackTarget(href string) string {
	match := doPostBackRegex.FindStringSubmatch(href)
	if match == nil {
		return ""
	}
	return match[1]
}

// row cells as cleaned strings, in document order
func RowCells(row *goquery.Selection) []string {
	var cells []string
	row.Find("td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, CleanText(cell.Text()))
	})
	return cells
}
