// Package netscape parses the Netscape bookmark file format, the
// export interchange format every browser writes.
package netscape

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Entry is one parsed node of a bookmark export. Folders have an
// empty URL and may carry Children.
type Entry struct {
	Title    string
	URL      string
	AddDate  int64 // epoch milliseconds
	Children []Entry
}

// IsFolder reports whether the entry is a folder.
func (e *Entry) IsFolder() bool {
	return e.URL == ""
}

// Parse reads a bookmark export and returns its top-level entries.
// The format is intentionally malformed HTML; the html5 parser
// normalizes it into a walkable tree.
func Parse(r io.Reader) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bookmark file: %w", err)
	}

	dl := findFirst(doc, "dl")
	if dl == nil {
		return nil, errors.New("no bookmark list found")
	}

	return parseList(dl), nil
}

// parseList walks one DL element. Each DT holds either an A (a
// bookmark) or an H3 (a folder) followed by the folder's own DL,
// which the parser leaves nested inside the DT.
func parseList(dl *html.Node) []Entry {
	var entries []Entry

	for c := dl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "dt":
			if e, ok := parseItem(c); ok {
				entries = append(entries, e)
			}
		case "dl":
			// Stray nesting without a DT; flatten.
			entries = append(entries, parseList(c)...)
		}
	}
	return entries
}

func parseItem(dt *html.Node) (Entry, bool) {
	for c := dt.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "a":
			href := attr(c, "href")
			if href == "" {
				return Entry{}, false
			}
			return Entry{
				Title:   nodeText(c),
				URL:     href,
				AddDate: parseAddDate(attr(c, "add_date")),
			}, true
		case "h3":
			folder := Entry{
				Title:   nodeText(c),
				AddDate: parseAddDate(attr(c, "add_date")),
			}
			if sub := findFirst(dt, "dl"); sub != nil {
				folder.Children = parseList(sub)
			}
			return folder, true
		}
	}
	return Entry{}, false
}

// parseAddDate converts an ADD_DATE attribute to epoch milliseconds.
// Exports normally carry seconds; values already in milliseconds are
// passed through.
func parseAddDate(raw string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || v <= 0 {
		return 0
	}
	if v < 1e12 {
		v *= 1000
	}
	return v
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
