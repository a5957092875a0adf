// Package outline turns rendered slides into a Markdown outline, one
// section per slide, for indexing and quick previews of a converted deck.
package outline

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/VantageDataChat/pptxhtml"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Markdown returns the outline of a render result. An empty title omits the
// document heading.
func Markdown(res *pptxhtml.RenderResult, title string) (string, error) {
	var sb strings.Builder
	if title = strings.TrimSpace(title); title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}
	for _, s := range res.Slides {
		md, err := Slide(s)
		if err != nil {
			return "", fmt.Errorf("slide %d: %w", s.Index+1, err)
		}
		fmt.Fprintf(&sb, "## Slide %d\n\n", s.Index+1)
		if md != "" {
			sb.WriteString(md)
			sb.WriteString("\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

// Slide converts one slide fragment to Markdown. Images are replaced by
// their alternative text.
func Slide(s *pptxhtml.RenderedSlide) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(s.HTML), body)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}
	var sb strings.Builder
	for _, n := range nodes {
		simplify(n)
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}
	md, err := htmltomarkdown.ConvertString(sb.String())
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// simplify drops scripts and styles and swaps images for their alt text.
func simplify(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			switch c.DataAtom {
			case atom.Script, atom.Style:
				n.RemoveChild(c)
			case atom.Img:
				if alt := altText(c); alt != "" {
					em := &html.Node{Type: html.ElementNode, Data: "em", DataAtom: atom.Em}
					em.AppendChild(&html.Node{Type: html.TextNode, Data: alt})
					p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
					p.AppendChild(em)
					n.InsertBefore(p, c)
				}
				n.RemoveChild(c)
			default:
				simplify(c)
			}
		}
		c = next
	}
}

func altText(n *html.Node) string {
	for _, a := range n.Attr {
		if a.Key == "alt" {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
