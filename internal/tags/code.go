package tags

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// span is a half-open byte range [start, stop).
type span struct {
	start, stop int
}

// codeSpans returns the byte ranges of inline code and code-block content
// in markdown source.
func codeSpans(source []byte) []span {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var spans []span
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				spans = append(spans, span{seg.Start, seg.Stop})
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if t, ok := child.(*ast.Text); ok {
					spans = append(spans, span{t.Segment.Start, t.Segment.Stop})
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return spans
}

func inSpans(spans []span, offset int) bool {
	for _, s := range spans {
		if offset >= s.start && offset < s.stop {
			return true
		}
	}
	return false
}
