// Package rewriter provides the position-preserving emitter the translation
// passes are built on. A pass supplies a Visitor; any subtree the visitor
// does not handle is copied to the output byte-for-byte.
package rewriter

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/lucidsoftware/tsickle/sourcemap"
	"github.com/lucidsoftware/tsickle/ts"
)

// Visitor is the capability a pass hands the Rewriter. MaybeProcess returns
// true when the visitor emitted node itself; false lets the Rewriter copy
// the node verbatim while recursing into children.
type Visitor interface {
	MaybeProcess(n ts.Node) bool
}

// Rewriter streams a rewritten copy of one source file.
type Rewriter struct {
	File    *ts.SourceFile
	visitor Visitor

	out    strings.Builder
	cursor int

	diags []ts.Diagnostic
	fatal error

	// source-map tracking
	sm      *sourcemap.Builder
	outLine int
	outCol  int
}

// New creates a Rewriter over file driven by visitor. sm may be nil.
func New(file *ts.SourceFile, visitor Visitor, sm *sourcemap.Builder) *Rewriter {
	return &Rewriter{File: file, visitor: visitor, sm: sm}
}

// Process rewrites the whole file and returns the output text along with
// accumulated diagnostics.
func Process(file *ts.SourceFile, visitor Visitor, sm *sourcemap.Builder) (string, []ts.Diagnostic) {
	r := New(file, visitor, sm)
	r.Visit(file)
	return r.Output()
}

// Visit dispatches node to the visitor, falling back to a verbatim copy.
func (r *Rewriter) Visit(n ts.Node) {
	if r.fatal != nil {
		return
	}
	if r.visitor != nil && r.visitor.MaybeProcess(n) {
		return
	}
	r.WriteNode(n)
}

// WriteNode copies n verbatim, including leading trivia, while descending
// into children so nested visitor overrides still apply.
func (r *Rewriter) WriteNode(n ts.Node) {
	start := n.FullPos()
	if start < r.cursor {
		// trivia already flushed by the caller
		start = r.cursor
	}
	r.WriteNodeFrom(n, start)
}

// WriteNodeFrom copies [start, n.End()) while recursing into children.
func (r *Rewriter) WriteNodeFrom(n ts.Node, start int) {
	pos := start
	for _, child := range n.Children() {
		if child == nil || isNilNode(child) {
			continue
		}
		childStart := child.FullPos()
		if childStart < pos {
			childStart = pos
		}
		r.WriteRange(pos, childStart)
		r.Visit(child)
		pos = child.End()
	}
	r.WriteRange(pos, n.End())
}

// WriteRange copies the verbatim substring [from, to) of the input and
// advances the cursor to to.
func (r *Rewriter) WriteRange(from, to int) {
	if r.fatal != nil {
		return
	}
	if from > to || to > len(r.File.Text) {
		r.fatal = errors.AssertionFailedf(
			"rewriter cursor out of bounds: [%d, %d) in %s (len %d)",
			from, to, r.File.FileName, len(r.File.Text))
		return
	}
	if from == to {
		r.cursor = to
		return
	}
	text := r.File.Text[from:to]
	if r.sm != nil {
		srcLine, srcCol := r.File.LineCol(from)
		r.sm.AddMapping(sourcemap.Mapping{
			GenLine: r.outLine, GenCol: r.outCol,
			SrcLine: srcLine - 1, SrcCol: srcCol - 1,
			Source: r.File.FileName,
		})
	}
	r.write(text)
	r.cursor = to
}

// Emit appends synthetic text without advancing the cursor.
func (r *Rewriter) Emit(text string) {
	if r.fatal != nil {
		return
	}
	if r.sm != nil {
		srcLine, srcCol := r.File.LineCol(r.cursor)
		r.sm.AddMapping(sourcemap.Mapping{
			GenLine: r.outLine, GenCol: r.outCol,
			SrcLine: srcLine - 1, SrcCol: srcCol - 1,
			Source: r.File.FileName,
		})
	}
	r.write(text)
}

func (r *Rewriter) write(text string) {
	r.out.WriteString(text)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			r.outLine++
			r.outCol = 0
		} else {
			r.outCol++
		}
	}
}

// Cursor returns the current input offset.
func (r *Rewriter) Cursor() int { return r.cursor }

// SkipTo advances the cursor without emitting, dropping the skipped input.
func (r *Rewriter) SkipTo(pos int) {
	if pos > r.cursor {
		r.cursor = pos
	}
}

// Error records a diagnostic at node's position and keeps going.
func (r *Rewriter) Error(n ts.Node, format string, args ...any) {
	r.diags = append(r.diags, ts.ErrorAt(r.File, n, format, args...))
}

// Warning records a warning diagnostic at node's position.
func (r *Rewriter) Warning(n ts.Node, format string, args ...any) {
	r.diags = append(r.diags, ts.WarningAt(r.File, n, format, args...))
}

// Output returns the rewritten text and the accumulated diagnostics. A
// tripped internal assertion surfaces as an error diagnostic for the file;
// the partial output is discarded.
func (r *Rewriter) Output() (string, []ts.Diagnostic) {
	if r.fatal != nil {
		diags := append(r.diags, ts.Diagnostic{
			FileName: r.File.FileName,
			Severity: ts.SeverityError,
			Message:  r.fatal.Error(),
		})
		return r.File.Text, diags
	}
	return r.out.String(), r.diags
}

func isNilNode(n ts.Node) bool {
	switch v := n.(type) {
	case *ts.Identifier:
		return v == nil
	case *ts.StringLiteral:
		return v == nil
	case *ts.Block:
		return v == nil
	case *ts.RawExpr:
		return v == nil
	}
	return false
}
