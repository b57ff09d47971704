package sanitize

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// stripSoleFence unwraps the input when the whole of it is one fenced code
// block (ignoring surrounding blank lines). Anything else is returned
// untouched; partial fences are handled later by the grammar filter.
func stripSoleFence(raw string) string {
	if !strings.Contains(raw, "```") {
		return raw
	}

	source := []byte(raw)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var fence *ast.FencedCodeBlock
	children := 0
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		children++
		if block, ok := child.(*ast.FencedCodeBlock); ok {
			fence = block
		}
	}
	if children != 1 || fence == nil {
		return raw
	}

	var content bytes.Buffer
	lines := fence.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		content.Write(segment.Value(source))
	}
	return content.String()
}
