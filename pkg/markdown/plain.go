package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ToPlainText strips markdown formatting, leaving only the text content.
// Used to prepare assistant replies for the speech synthesizer, which should
// not read asterisks and backticks out loud.
func ToPlainText(markdownText string) string {
	source := []byte(markdownText)

	document := goldmark.DefaultParser().Parse(
		text.NewReader(source),
	)

	var parts []string
	err := ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			parts = append(parts, string(v.Text(source)))
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			parts = append(parts, string(v.Text(source)))
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			// code blocks are not worth speaking
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return markdownText
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}
