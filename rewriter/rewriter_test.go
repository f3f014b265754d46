package rewriter

import (
	"strings"
	"testing"

	"github.com/lucidsoftware/tsickle/sourcemap"
	"github.com/lucidsoftware/tsickle/ts"
)

func fileWith(text string, statements ...ts.Node) *ts.SourceFile {
	return &ts.SourceFile{
		NodeBase: ts.NodeBase{
			NodeKind: ts.KindSourceFile,
			EndOff:   len(text),
		},
		FileName:   "test.ts",
		Text:       text,
		Statements: statements,
	}
}

func raw(pos, end int) *ts.RawExpr {
	return &ts.RawExpr{NodeBase: ts.NodeBase{
		NodeKind: ts.KindRawExpr, PosOff: pos, FullOff: pos, EndOff: end,
	}}
}

func TestProcess_VerbatimWithoutVisitor(t *testing.T) {
	text := "var a = 1;\nvar b = 2;\n"
	f := fileWith(text, raw(0, 10), raw(11, 21))
	out, diags := Process(f, nil, nil)
	if out != text {
		t.Errorf("unhandled input must round-trip verbatim:\ngot  %q\nwant %q", out, text)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
}

// replacer swaps the statement at target for replacement text.
type replacer struct {
	r           *Rewriter
	target      ts.Node
	replacement string
}

func (v *replacer) MaybeProcess(n ts.Node) bool {
	if n != v.target {
		return false
	}
	v.r.Emit(v.replacement)
	v.r.SkipTo(n.End())
	return true
}

func TestProcess_VisitorOverridesOneRange(t *testing.T) {
	text := "one;\ntwo;\nthree;\n"
	s1, s2, s3 := raw(0, 4), raw(5, 9), raw(10, 16)
	f := fileWith(text, s1, s2, s3)
	v := &replacer{target: s2, replacement: "TWO;"}
	v.r = New(f, v, nil)
	v.r.Visit(f)
	out, _ := v.r.Output()
	want := "one;\nTWO;\nthree;\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestRewriter_ErrorKeepsGoing(t *testing.T) {
	text := "x;"
	f := fileWith(text, raw(0, 2))
	r := New(f, nil, nil)
	r.Error(f.Statements[0], "something odd at %s", "x")
	r.Visit(f)
	out, diags := r.Output()
	if out != text {
		t.Errorf("output = %q, want %q", out, text)
	}
	if len(diags) != 1 || diags[0].Severity != ts.SeverityError {
		t.Fatalf("diags = %v, want one error", diags)
	}
	if !strings.Contains(diags[0].Message, "something odd") {
		t.Errorf("message = %q", diags[0].Message)
	}
}

func TestRewriter_CursorAssertionAbortsFile(t *testing.T) {
	text := "abc"
	f := fileWith(text, raw(0, 3))
	r := New(f, nil, nil)
	r.WriteRange(2, 1) // reversed range trips the invariant
	out, diags := r.Output()
	if out != text {
		t.Errorf("aborted file should fall back to input text, got %q", out)
	}
	if len(diags) != 1 || !strings.Contains(diags[0].Message, "cursor") {
		t.Fatalf("diags = %v, want one cursor assertion", diags)
	}
}

func TestRewriter_SourceMapMappings(t *testing.T) {
	text := "aa\nbb\n"
	f := fileWith(text, raw(0, 2), raw(3, 5))
	sm := sourcemap.NewBuilder("test.js")
	Process(f, nil, sm)
	if len(sm.Mappings()) == 0 {
		t.Fatal("expected mappings from verbatim copies")
	}
	first := sm.Mappings()[0]
	if first.GenLine != 0 || first.SrcLine != 0 {
		t.Errorf("first mapping = %+v, want line 0 to line 0", first)
	}
}
