package renderer

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Attr is one attribute of an inspected element, in source order.
type Attr struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Element is the outermost element of rendered markup.
type Element struct {
	Tag   string `json:"tag" yaml:"tag"`
	Attrs []Attr `json:"attrs" yaml:"attrs"`
	Text  string `json:"text" yaml:"text"`
}

// Attr returns the value of the attribute name.
func (e Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Inspect parses markup and describes its first element that is not a
// script.
func Inspect(markup string) (Element, error) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return Element{}, fmt.Errorf("parsing markup: %w", err)
	}

	for _, n := range nodes {
		if n.Type != html.ElementNode || n.DataAtom == atom.Script {
			continue
		}
		el := Element{Tag: n.Data, Attrs: make([]Attr, 0, len(n.Attr))}
		for _, a := range n.Attr {
			el.Attrs = append(el.Attrs, Attr{Name: a.Key, Value: a.Val})
		}
		el.Text = strings.Join(strings.Fields(textContent(n)), " ")
		return el, nil
	}

	return Element{}, fmt.Errorf("no element in markup")
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
		sb.WriteByte(' ')
	}
	return sb.String()
}
