package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type Heading struct {
	ID    string
	Text  string
	Level int
}

type RenderedDocument struct {
	HTML     template.HTML
	Headings []Heading
}

type MarkdownRenderer interface {
	Render(source string) (*RenderedDocument, error)
}

type goldmarkRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer renders GFM (tables, strikethrough, autolinks, task lists).
// Raw HTML in article content is not passed through.
func NewMarkdownRenderer() MarkdownRenderer {
	return &goldmarkRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

func (r *goldmarkRenderer) Render(source string) (*RenderedDocument, error) {
	src := []byte(source)
	doc := r.md.Parser().Parse(text.NewReader(src))

	var headings []Heading
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || (h.Level != 2 && h.Level != 3) {
			return ast.WalkContinue, nil
		}
		heading := Heading{Text: string(h.Text(src)), Level: h.Level}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				heading.ID = string(b)
			}
		}
		headings = append(headings, heading)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect headings: %w", err)
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}

	return &RenderedDocument{
		// goldmark escapes raw HTML unless html.WithUnsafe is set
		HTML:     template.HTML(buf.String()),
		Headings: headings,
	}, nil
}
