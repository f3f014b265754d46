package tstest

import (
	"fmt"
	"strings"

	"github.com/lucidsoftware/tsickle/rewriter"
	"github.com/lucidsoftware/tsickle/ts"
)

// emitJS lowers one checked file to CommonJS JavaScript: type-only
// declarations disappear, annotations are erased, export modifiers become
// exports assignments, and comments ride along. The output covers the
// TypeScript subset the test suite uses.
func emitJS(file *ts.SourceFile, checker ts.Checker) string {
	e := &emitter{file: file, checker: checker}
	e.r = rewriter.New(file, e, nil)
	e.r.Visit(file)
	out, _ := e.r.Output()
	return out
}

type emitter struct {
	r       *rewriter.Rewriter
	file    *ts.SourceFile
	checker ts.Checker

	exportHelperEmitted bool
	reExportCount       int
}

func (e *emitter) MaybeProcess(n ts.Node) bool {
	switch v := n.(type) {
	case *ts.ImportDeclaration:
		e.keepTrivia(v)
		e.r.SkipTo(v.End())
		e.emitImport(v)
		return true
	case *ts.ExportDeclaration:
		e.keepTrivia(v)
		e.r.SkipTo(v.End())
		e.emitReExport(v)
		return true
	case *ts.InterfaceDeclaration, *ts.TypeAliasDeclaration:
		e.keepTrivia(n)
		e.r.SkipTo(n.End())
		return true
	case *ts.ModuleDeclaration:
		// namespaces are outside the emitting subset
		e.keepTrivia(v)
		e.r.SkipTo(v.End())
		return true
	case *ts.VariableStatement:
		e.keepTrivia(v)
		e.r.SkipTo(v.End())
		e.emitVar(v)
		return true
	case *ts.FunctionDeclaration:
		e.keepTrivia(v)
		e.r.SkipTo(v.End())
		e.emitFunction(v)
		return true
	case *ts.ClassDeclaration:
		e.keepTrivia(v)
		e.r.SkipTo(v.End())
		e.emitClass(v)
		return true
	case *ts.EnumDeclaration:
		e.keepTrivia(v)
		e.r.SkipTo(v.End())
		e.emitEnum(v)
		return true
	}
	return false
}

// keepTrivia copies the whitespace and comments preceding n.
func (e *emitter) keepTrivia(n ts.Node) {
	start := n.FullPos()
	if start < e.r.Cursor() {
		start = e.r.Cursor()
	}
	e.r.WriteRange(start, n.Pos())
}

func (e *emitter) text(n ts.Node) string {
	return e.file.Text[n.Pos():n.End()]
}

func (e *emitter) emitImport(imp *ts.ImportDeclaration) {
	spec := imp.Specifier.Value
	switch {
	case imp.NamespaceName != nil:
		e.r.Emit(fmt.Sprintf("var %s = require('%s');", imp.NamespaceName.Name, spec))
	case len(imp.Named) > 0:
		var lines []string
		for _, s := range imp.Named {
			orig := s.Name.Name
			if s.PropertyName != nil {
				orig = s.PropertyName.Name
			}
			sym := e.checker.SymbolAtLocation(s.Name)
			if sym != nil && !sym.Has(ts.SymValue) {
				// type-only binding, erased
				continue
			}
			lines = append(lines, fmt.Sprintf("var %s = require('%s').%s;", s.Name.Name, spec, orig))
		}
		e.r.Emit(strings.Join(lines, "\n"))
	case imp.DefaultName != nil:
		e.r.Emit(fmt.Sprintf("var %s = require('%s').default;", imp.DefaultName.Name, spec))
	default:
		e.r.Emit(fmt.Sprintf("require('%s');", spec))
	}
}

func (e *emitter) emitReExport(exp *ts.ExportDeclaration) {
	if exp.Specifier == nil {
		var lines []string
		for _, s := range exp.Named {
			sym := e.checker.SymbolAtLocation(s.Name)
			if sym != nil && !sym.Has(ts.SymValue) {
				continue
			}
			lines = append(lines, fmt.Sprintf("exports.%s = %s;", s.Name.Name, s.Name.Name))
		}
		e.r.Emit(strings.Join(lines, "\n"))
		return
	}
	spec := exp.Specifier.Value
	if exp.Star {
		if !e.exportHelperEmitted {
			e.exportHelperEmitted = true
			e.r.Emit("function __export(m) { for (var p in m) if (!exports.hasOwnProperty(p)) exports[p] = m[p]; }\n")
		}
		e.r.Emit(fmt.Sprintf("__export(require('%s'));", spec))
		return
	}
	// named re-exports lower the way tsc emits them: one require binding,
	// then per-name assignments for the names that have runtime values
	e.reExportCount++
	binding := fmt.Sprintf("reexport_%d_", e.reExportCount)
	lines := []string{fmt.Sprintf("var %s = require('%s');", binding, spec)}
	for _, s := range exp.Named {
		sym := e.checker.SymbolAtLocation(s.Name)
		if sym != nil && !sym.Has(ts.SymValue) {
			continue
		}
		orig := s.Name.Name
		if s.PropertyName != nil {
			orig = s.PropertyName.Name
		}
		lines = append(lines, fmt.Sprintf("exports.%s = %s.%s;", s.Name.Name, binding, orig))
	}
	e.r.Emit(strings.Join(lines, "\n"))
}

func (e *emitter) emitVar(v *ts.VariableStatement) {
	var parts []string
	for _, d := range v.Decls {
		p := d.Name.Name
		if d.Init != nil {
			p += " = " + e.text(d.Init)
		}
		parts = append(parts, p)
	}
	e.r.Emit(v.Keyword + " " + strings.Join(parts, ", ") + ";")
	if v.Mods.Has(ts.ModExport) {
		for _, d := range v.Decls {
			e.r.Emit(fmt.Sprintf("\nexports.%s = %s;", d.Name.Name, d.Name.Name))
		}
	}
}

func (e *emitter) emitFunction(f *ts.FunctionDeclaration) {
	if f.Body == nil {
		return
	}
	e.r.Emit("function " + f.Name.Name + "(" + paramNames(f.Params) + ") " + e.text(f.Body))
	if f.Mods.Has(ts.ModExport) {
		e.r.Emit(fmt.Sprintf("\nexports.%s = %s;", f.Name.Name, f.Name.Name))
	}
}

func (e *emitter) emitClass(c *ts.ClassDeclaration) {
	var sb strings.Builder
	sb.WriteString("class " + c.Name.Name)
	for _, h := range c.Heritage {
		if h.Keyword == "extends" && len(h.Types) > 0 {
			sb.WriteString(" extends " + e.text(h.Types[0].Expr))
		}
	}
	sb.WriteString(" {\n")
	for _, m := range c.Members {
		e.emitMember(&sb, m)
	}
	sb.WriteString("}")
	e.r.Emit(sb.String())
	if c.Mods.Has(ts.ModExport) {
		e.r.Emit(fmt.Sprintf("\nexports.%s = %s;", c.Name.Name, c.Name.Name))
	}
}

func (e *emitter) emitMember(sb *strings.Builder, m ts.Node) {
	writeComments := func(b ts.Node) {
		type commented interface{ JSDocComment() *ts.Comment }
		if c, ok := b.(commented); ok {
			if doc := c.JSDocComment(); doc != nil {
				sb.WriteString(doc.Text + "\n")
			}
		}
	}
	switch v := m.(type) {
	case *ts.ConstructorDeclaration:
		if v.Body == nil {
			return
		}
		writeComments(v)
		body := e.text(v.Body)
		var inits []string
		for _, p := range v.Params {
			if p.Mods.Has(ts.ModPublic) || p.Mods.Has(ts.ModPrivate) || p.Mods.Has(ts.ModProtected) || p.Mods.Has(ts.ModReadonly) {
				inits = append(inits, fmt.Sprintf("this.%s = %s;", p.Name.Name, p.Name.Name))
			}
		}
		if len(inits) > 0 && strings.HasPrefix(body, "{") {
			body = "{ " + strings.Join(inits, " ") + body[1:]
		}
		sb.WriteString("constructor(" + paramNames(v.Params) + ") " + body + "\n")
	case *ts.MethodDeclaration:
		if v.Body == nil || v.Name.IsComputed() {
			return
		}
		writeComments(v)
		prefix := ""
		if v.Mods.Has(ts.ModStatic) {
			prefix = "static "
		}
		if v.Accessor != "" {
			prefix += v.Accessor + " "
		}
		sb.WriteString(prefix + v.Name.Text() + "(" + paramNames(v.Params) + ") " + e.text(v.Body) + "\n")
	case *ts.PropertyDeclaration:
		if v.Init == nil || v.Name.IsComputed() {
			return
		}
		writeComments(v)
		prefix := ""
		if v.Mods.Has(ts.ModStatic) {
			prefix = "static "
		}
		sb.WriteString(prefix + v.Name.Text() + " = " + e.text(v.Init) + ";\n")
	}
}

func (e *emitter) emitEnum(en *ts.EnumDeclaration) {
	var parts []string
	next := 0
	for _, m := range en.Members {
		if m.Name.IsComputed() {
			continue
		}
		val := fmt.Sprintf("%d", next)
		if m.Init != nil {
			val = e.text(m.Init)
		}
		next++
		parts = append(parts, fmt.Sprintf("%s: %s", m.Name.Text(), val))
	}
	e.r.Emit("var " + en.Name.Name + " = { " + strings.Join(parts, ", ") + " };")
	if en.Mods.Has(ts.ModExport) {
		e.r.Emit(fmt.Sprintf("\nexports.%s = %s;", en.Name.Name, en.Name.Name))
	}
}

func paramNames(params []*ts.Parameter) string {
	var names []string
	for _, p := range params {
		if p.Name.Name == "this" {
			continue
		}
		name := p.Name.Name
		if p.Rest {
			name = "..." + name
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}
