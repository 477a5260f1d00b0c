package extract

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Parse reduces an HTML document to a TextBag. It never fails: a
// malformed document yields whatever was recovered before the error.
func Parse(r io.Reader) *TextBag {
	doc, err := html.Parse(r)
	if err != nil {
		return &TextBag{}
	}

	bag := &TextBag{}

	var (
		ogTitle    string
		twTitle    string
		docTitle   string
		firstH1    string
		metaDesc   string
		ogDesc     string
		bodyChunks []string
	)

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			case "meta":
				name := strings.ToLower(attr(n, "name"))
				prop := strings.ToLower(attr(n, "property"))
				content := strings.TrimSpace(attr(n, "content"))
				switch {
				case prop == "og:title":
					ogTitle = content
				case name == "twitter:title":
					twTitle = content
				case name == "description":
					metaDesc = content
				case prop == "og:description":
					ogDesc = content
				}
			case "title":
				docTitle = nodeText(n)
			case "h1":
				t := nodeText(n)
				if firstH1 == "" {
					firstH1 = t
				}
				if t != "" {
					bag.Headings = append(bag.Headings, t)
				}
			case "h2", "h3":
				if t := nodeText(n); t != "" {
					bag.Headings = append(bag.Headings, t)
				}
			}
		}

		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				bodyChunks = append(bodyChunks, t)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Title priority: og:title, twitter:title, first h1, <title>.
	switch {
	case ogTitle != "":
		bag.Title = ogTitle
	case twTitle != "":
		bag.Title = twTitle
	case firstH1 != "":
		bag.Title = firstH1
	default:
		bag.Title = docTitle
	}

	if metaDesc != "" {
		bag.Description = metaDesc
	} else {
		bag.Description = ogDesc
	}

	bag.Body = collapseSpaces(strings.Join(bodyChunks, " "))

	return bag
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
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseSpaces(b.String())
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
