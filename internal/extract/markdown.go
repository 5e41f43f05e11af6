package extract

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor walks a GitHub-flavored-markdown AST to recover a
// document's heading structure and body text.
type MarkdownExtractor struct {
	md goldmark.Markdown
}

func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{md: goldmark.New(goldmark.WithExtensions(extension.GFM))}
}

func (m *MarkdownExtractor) Extract(ctx context.Context, raw []byte) (Document, error) {
	reader := text.NewReader(raw)
	root := m.md.Parser().Parse(reader)

	var sections []Section
	var current *Section
	var body strings.Builder

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if current != nil {
				current.Text = strings.TrimSpace(current.Text)
			}
			sections = append(sections, Section{Level: node.Level, Title: string(node.Text(raw))})
			current = &sections[len(sections)-1]
		case *ast.Text:
			segment := string(node.Segment.Value(raw))
			body.WriteString(segment)
			body.WriteString(" ")
			if current != nil {
				current.Text += segment + " "
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return Document{}, err
	}
	if current != nil {
		current.Text = strings.TrimSpace(current.Text)
	}

	return Document{
		Text:     strings.TrimSpace(body.String()),
		Sections: sections,
	}, nil
}
