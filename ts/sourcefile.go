package ts

import (
	"sort"
	"strings"
)

// SourceFile is a parsed source file with its full text.
type SourceFile struct {
	NodeBase
	FileName   string
	Text       string
	Statements []Node

	lineOffsets []int
}

func (f *SourceFile) Children() []Node { return f.Statements }

// IsDeclarationFile reports whether the file is a .d.ts input.
func (f *SourceFile) IsDeclarationFile() bool {
	return strings.HasSuffix(f.FileName, ".d.ts")
}

// NodeText returns the source text covered by n.
func (f *SourceFile) NodeText(n Node) string {
	return f.Text[n.Pos():n.End()]
}

// LineCol converts a byte offset into a 1-based line and column.
func (f *SourceFile) LineCol(pos int) (line, col int) {
	if f.lineOffsets == nil {
		f.lineOffsets = computeLineOffsets(f.Text)
	}
	i := sort.Search(len(f.lineOffsets), func(i int) bool {
		return f.lineOffsets[i] > pos
	}) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, pos - f.lineOffsets[i] + 1
}

func computeLineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
