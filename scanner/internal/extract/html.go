package extract

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FromHTML collects candidates from a rendered page saved as HTML. Links
// are resolved against baseURL; an empty baseURL leaves them as written.
func FromHTML(r io.Reader, baseURL string, sel Selectors) ([]Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("extract: parse html: %w", err)
	}

	var base *url.URL
	if baseURL != "" {
		base, err = url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("extract: base url: %w", err)
		}
	}

	cands := []Candidate{}
	doc.Find(sel.Link).Each(func(_ int, a *goquery.Selection) {
		c := Candidate{Text: innerText(a.Nodes[0])}
		if box := a.Closest(sel.Container); box.Length() > 0 {
			c.Context = innerText(box.Nodes[0])
		}
		href, _ := a.Attr("href")
		c.Href = resolve(base, href)
		cands = append(cands, c)
	})
	return cands, nil
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// blockAtoms break lines the way a browser's innerText does around
// block-level boxes.
var blockAtoms = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true,
	atom.Ol: true, atom.P: true, atom.Pre: true, atom.Section: true,
	atom.Table: true, atom.Tr: true, atom.Ul: true,
}

var (
	spaceRun    = regexp.MustCompile(`[ \t\r\n\f]+`)
	doubleSpace = regexp.MustCompile(` {2,}`)
)

// innerText approximates HTMLElement.innerText without layout: whitespace
// collapses, <br> and block boundaries become line breaks, hidden content
// (script, style, template) is skipped, and empty lines are dropped.
func innerText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(spaceRun.ReplaceAllString(n.Data, " "))
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
				return
			case atom.Br:
				b.WriteByte('\n')
				return
			}
		}
		block := n.Type == html.ElementNode && blockAtoms[n.DataAtom]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	walk(n)

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.TrimSpace(doubleSpace.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
