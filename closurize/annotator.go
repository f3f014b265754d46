// Package closurize implements the JSDoc annotation pass and the externs
// generator. The annotator drives a rewriter over a checked source file and
// prefixes every declaration with a JSDoc block encoding its type in the
// Closure type grammar; interfaces and type aliases additionally get runtime
// witnesses so goog.require and @implements keep working after the compiler
// erases them.
package closurize

import (
	"strings"

	"go.uber.org/zap"

	"github.com/lucidsoftware/tsickle/jsdoc"
	"github.com/lucidsoftware/tsickle/rewriter"
	"github.com/lucidsoftware/tsickle/sourcemap"
	"github.com/lucidsoftware/tsickle/ts"
	"github.com/lucidsoftware/tsickle/typetranslator"
)

// Options configures the annotation pass.
type Options struct {
	// Untyped makes every synthesized type {?}.
	Untyped bool

	// TypeAnnotationsBanned reports user-written {type} annotations in
	// JSDoc as errors instead of silently overriding them.
	TypeAnnotationsBanned bool

	// AnnotateExports adds @export to exported top-level declarations.
	AnnotateExports bool

	// Log receives verbose translation events.
	Log *zap.SugaredLogger
}

// Result is the output of annotating one file.
type Result struct {
	Output      string
	Diagnostics []ts.Diagnostic

	// TranslationWarnings holds the translator's degradation warnings,
	// surfaced only in verbose mode.
	TranslationWarnings []ts.Diagnostic

	// TypeOnlyReExports maps a module specifier to the names re-exported
	// from it that have no runtime value. The goog.module converter emits
	// typedef aliases for them.
	TypeOnlyReExports map[string][]string
}

// Annotate runs the closurize pass over file. sm may be nil.
func Annotate(file *ts.SourceFile, checker ts.Checker, opts Options, sm *sourcemap.Builder) Result {
	a := &annotator{
		file:    file,
		checker: checker,
		opts:    opts,
		translator: typetranslator.New(file, checker, typetranslator.Options{
			Untyped: opts.Untyped,
			Log:     opts.Log,
		}),
		typeOnlyReExports: make(map[string][]string),
	}
	a.r = rewriter.New(file, a, sm)
	a.r.Visit(file)
	out, diags := a.r.Output()
	return Result{
		Output:              out,
		Diagnostics:         diags,
		TranslationWarnings: a.translator.Warnings(),
		TypeOnlyReExports:   a.typeOnlyReExports,
	}
}

type annotator struct {
	r          *rewriter.Rewriter
	file       *ts.SourceFile
	checker    ts.Checker
	translator *typetranslator.Translator
	opts       Options

	typeOnlyReExports map[string][]string
}

// MaybeProcess implements rewriter.Visitor.
func (a *annotator) MaybeProcess(n ts.Node) bool {
	switch v := n.(type) {
	case *ts.SourceFile:
		a.processFile(v)
		return true
	case *ts.VariableStatement:
		return a.processVariable(v)
	case *ts.FunctionDeclaration:
		a.processFunction(v)
		return true
	case *ts.ClassDeclaration:
		a.processClass(v)
		return true
	case *ts.InterfaceDeclaration:
		a.processInterface(v)
		return true
	case *ts.EnumDeclaration:
		a.processEnum(v)
		return true
	case *ts.TypeAliasDeclaration:
		a.processTypeAlias(v)
		return true
	case *ts.ModuleDeclaration:
		return a.processModule(v)
	case *ts.ExportDeclaration:
		a.recordTypeOnlyReExports(v)
		return false
	case *ts.PropertyDeclaration:
		a.processProperty(v)
		return true
	case *ts.MethodDeclaration:
		a.processMethod(v)
		return true
	case *ts.ConstructorDeclaration:
		a.processCtor(v)
		return true
	}
	return false
}

func (a *annotator) processFile(f *ts.SourceFile) {
	start := 0
	var user []jsdoc.Tag
	if fo := fileComment(f); fo != nil {
		user = jsdoc.Parse(fo.Text)
		start = fo.End
	}
	a.r.Emit(jsdoc.Serialize(a.fileoverviewTags(user)) + "\n")
	a.r.SkipTo(start)
	a.r.WriteNodeFrom(f, start)
}

// fileComment returns the file-level JSDoc: a leading comment of the first
// statement that carries @fileoverview.
func fileComment(f *ts.SourceFile) *ts.Comment {
	if len(f.Statements) == 0 {
		return nil
	}
	type commented interface{ JSDocComment() *ts.Comment }
	c, ok := f.Statements[0].(commented)
	if !ok {
		return nil
	}
	doc := c.JSDocComment()
	if doc == nil || !strings.Contains(doc.Text, "@fileoverview") {
		return nil
	}
	return doc
}

func (a *annotator) fileoverviewTags(user []jsdoc.Tag) []jsdoc.Tag {
	var tags []jsdoc.Tag
	for _, t := range user {
		switch t.TagName {
		case "fileoverview":
			// user prose survives as plain text above the banner
			if t.Text != "" && t.Text != "added by tsickle" {
				tags = append(tags, jsdoc.Tag{Text: t.Text})
			}
		case "suppress":
			// superseded by the synthesized suppression set
		default:
			tags = append(tags, t)
		}
	}
	out := tags
	out = append(out, jsdoc.Tag{TagName: "fileoverview", Text: "added by tsickle"})
	if a.opts.Untyped {
		out = append(out, jsdoc.Tag{
			TagName: "suppress",
			Type: "checkTypes,extraRequire,missingOverride,missingRequire," +
				"missingReturn,unusedPrivateMembers,uselessCode",
			Text: "added by tsickle",
		})
	} else {
		out = append(out, jsdoc.Tag{
			TagName: "suppress",
			Type:    "checkTypes",
			Text:    "checked by tsc",
		})
	}
	return out
}

// emitDocAndNode replaces the node's leading JSDoc with the merge of the
// user tags and the synthesized tags, then copies the node itself.
func (a *annotator) emitDocAndNode(n ts.Node, tags []jsdoc.Tag) {
	type commented interface{ JSDocComment() *ts.Comment }
	var doc *ts.Comment
	if c, ok := n.(commented); ok {
		doc = c.JSDocComment()
	}
	start := n.FullPos()
	if start < a.r.Cursor() {
		start = a.r.Cursor()
	}
	var user []jsdoc.Tag
	if doc != nil && doc.Pos >= start {
		user = jsdoc.Parse(doc.Text)
		if a.opts.TypeAnnotationsBanned {
			for _, t := range jsdoc.UserTypes(user) {
				a.r.Error(n, "the type annotation on @%s is redundant with its TypeScript type, remove the {...} part", t.TagName)
			}
		}
		a.r.WriteRange(start, doc.Pos)
		a.r.SkipTo(doc.End)
		start = doc.End
	}
	a.r.WriteRange(start, n.Pos())
	merged := jsdoc.Merge(user, tags)
	if len(merged) > 0 {
		rendered := jsdoc.Serialize(merged)
		if strings.Contains(rendered, "\n") {
			a.r.Emit(rendered + "\n")
		} else {
			a.r.Emit(rendered + " ")
		}
	}
	a.r.WriteNodeFrom(n, n.Pos())
}

func (a *annotator) processVariable(v *ts.VariableStatement) bool {
	if len(v.Decls) != 1 {
		// a multi-declaration list would need one comment per name;
		// leave it untouched
		return false
	}
	d := v.Decls[0]
	var typ ts.Type
	if d.Type != nil {
		typ = a.checker.TypeFromTypeNode(d.Type)
	} else {
		typ = a.checker.TypeAtLocation(d)
	}
	tags := []jsdoc.Tag{{TagName: "type", Type: a.translator.Translate(typ)}}
	if v.Keyword == "const" {
		tags = append([]jsdoc.Tag{{TagName: "const"}}, tags...)
	}
	tags = a.withExport(v.Mods, tags)
	a.emitDocAndNode(v, tags)
	return true
}

func (a *annotator) processFunction(f *ts.FunctionDeclaration) {
	var tags []jsdoc.Tag
	tags = append(tags, a.templateTag(f.TypeParams)...)
	tags = append(tags, a.paramTags(f.Params)...)
	tags = append(tags, a.returnTag(f.ReturnType)...)
	tags = a.withExport(f.Mods, tags)
	a.emitDocAndNode(f, tags)
}

func (a *annotator) processClass(c *ts.ClassDeclaration) {
	var tags []jsdoc.Tag
	if c.Mods.Has(ts.ModAbstract) {
		tags = append(tags, jsdoc.Tag{TagName: "abstract"})
	}
	tags = append(tags, a.templateTag(c.TypeParams)...)
	for _, h := range c.Heritage {
		if h.Keyword != "implements" {
			// the JS extends clause carries inheritance on its own
			continue
		}
		for _, base := range h.Types {
			if name, ok := a.heritageName(base); ok {
				tags = append(tags, jsdoc.Tag{TagName: "implements", Type: name})
			} else {
				a.r.Warning(base, "dropped implements of a type with no value representation")
			}
		}
	}
	tags = a.withExport(c.Mods, tags)
	a.emitDocAndNode(c, tags)
}

// heritageName resolves a heritage entry to the identifier Closure should
// see, following type aliases to the interface or class they name.
func (a *annotator) heritageName(e *ts.ExpressionWithTypeArgs) (string, bool) {
	sym := a.checker.SymbolAtLocation(e.Expr)
	for sym != nil && sym.Has(ts.SymTypeAlias) {
		ref, ok := a.checker.TypeOfSymbol(sym).(*ts.ReferenceType)
		if !ok {
			return "", false
		}
		sym = ref.Sym
	}
	if sym == nil {
		return "", false
	}
	return a.checker.ValueIdentifier(sym, a.file)
}

func (a *annotator) processInterface(i *ts.InterfaceDeclaration) {
	// The declaration itself is erased at JS emit; copy it verbatim and
	// append a runtime witness Closure can require and implement.
	a.r.WriteNode(i)

	tags := []jsdoc.Tag{{TagName: "record"}}
	for _, h := range i.Heritage {
		for _, base := range h.Types {
			if name, ok := a.heritageName(base); ok {
				tags = append(tags, jsdoc.Tag{TagName: "extends", Type: name})
			}
		}
	}
	tags = append(tags, a.templateTag(i.TypeParams)...)

	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(jsdoc.Serialize(tags))
	sb.WriteString(" ")
	if i.Mods.Has(ts.ModExport) {
		sb.WriteString("export ")
	}
	sb.WriteString("function " + i.Name.Name + "() {}\n")
	for _, m := range i.Members {
		a.recordMember(&sb, i.Name.Name, m)
	}
	a.r.Emit(strings.TrimSuffix(sb.String(), "\n"))
}

func (a *annotator) recordMember(sb *strings.Builder, owner string, m ts.Node) {
	switch v := m.(type) {
	case *ts.PropertySignature:
		if v.Name.IsComputed() {
			return
		}
		typ := a.translator.TranslateTypeNode(v.Type)
		if v.Optional {
			typ = "(" + typ + "|undefined)"
		}
		sb.WriteString("/** @type {" + typ + "} */ " + owner + ".prototype" + propertyAccess(v.Name.Text()) + ";\n")
	case *ts.MethodSignature:
		if v.Name.IsComputed() {
			return
		}
		sig := &ts.SignatureType{}
		for _, p := range v.Params {
			sig.Params = append(sig.Params, ts.Param{
				Name:     p.Name.Name,
				Type:     a.checker.TypeFromTypeNode(p.Type),
				Optional: p.Optional,
				Rest:     p.Rest,
			})
		}
		if v.ReturnType != nil {
			sig.Return = a.checker.TypeFromTypeNode(v.ReturnType)
		}
		sb.WriteString("/** @type {" + a.translator.Translate(sig) + "} */ " + owner + ".prototype" + propertyAccess(v.Name.Text()) + ";\n")
	case *ts.IndexSignature:
		// no per-property slot to declare
	}
}

func (a *annotator) processEnum(e *ts.EnumDeclaration) {
	base := "number"
	if et, ok := a.checker.TypeAtLocation(e).(*ts.EnumType); ok {
		switch et.MemberBase {
		case ts.PrimString:
			base = "string"
		case ts.PrimNumber:
			base = "number"
		default:
			base = "(string|number)"
		}
	}
	if a.opts.Untyped {
		base = "?"
	}
	tags := []jsdoc.Tag{{TagName: "enum", Type: base}}
	tags = a.withExport(e.Mods, tags)
	a.emitDocAndNode(e, tags)
}

func (a *annotator) processTypeAlias(t *ts.TypeAliasDeclaration) {
	// Keep the alias for the TypeScript re-parse, then add the typedef
	// witness the emitted JS retains.
	a.r.WriteNode(t)
	sym := a.checker.SymbolAtLocation(t.Name)
	var typ string
	if sym != nil {
		typ = a.translator.TranslateAlias(sym, a.checker.TypeFromTypeNode(t.Type))
	} else {
		typ = a.translator.TranslateTypeNode(t.Type)
	}
	doc := jsdoc.Serialize([]jsdoc.Tag{{TagName: "typedef", Type: typ}})
	if t.Mods.Has(ts.ModExport) {
		a.r.Emit("\n" + doc + " exports." + t.Name.Name + ";")
	} else {
		a.r.Emit("\n" + doc + " var " + t.Name.Name + ";")
	}
}

func (a *annotator) processModule(m *ts.ModuleDeclaration) bool {
	for _, stmt := range m.Body {
		if iface, ok := stmt.(*ts.InterfaceDeclaration); ok {
			a.r.Error(iface, "interface %s inside namespace %s is not supported by the Closure annotator", iface.Name.Name, m.Name)
		}
	}
	// namespace bodies are copied untouched, annotating them would need
	// dotted-name slots the emitted JS does not have
	start := m.FullPos()
	if start < a.r.Cursor() {
		start = a.r.Cursor()
	}
	a.r.WriteRange(start, m.End())
	return true
}

func (a *annotator) processProperty(p *ts.PropertyDeclaration) {
	var typ ts.Type
	if p.Type != nil {
		typ = a.checker.TypeFromTypeNode(p.Type)
	} else {
		typ = a.checker.TypeAtLocation(p)
	}
	closure := a.translator.Translate(typ)
	if p.Optional {
		closure = "(" + closure + "|undefined)"
	}
	tags := []jsdoc.Tag{{TagName: "type", Type: closure}}
	tags = append(a.visibilityTags(p.Mods), tags...)
	a.emitDocAndNode(p, tags)
}

func (a *annotator) processMethod(m *ts.MethodDeclaration) {
	var tags []jsdoc.Tag
	tags = append(tags, a.visibilityTags(m.Mods)...)
	if m.Mods.Has(ts.ModAbstract) {
		tags = append(tags, jsdoc.Tag{TagName: "abstract"})
	}
	tags = append(tags, a.templateTag(m.TypeParams)...)
	switch m.Accessor {
	case "get":
		tags = append(tags, a.returnTag(m.ReturnType)...)
	case "set":
		tags = append(tags, a.paramTags(m.Params)...)
	default:
		tags = append(tags, a.paramTags(m.Params)...)
		tags = append(tags, a.returnTag(m.ReturnType)...)
	}
	a.emitDocAndNode(m, tags)
}

func (a *annotator) processCtor(c *ts.ConstructorDeclaration) {
	a.emitDocAndNode(c, a.paramTags(c.Params))
}

func (a *annotator) visibilityTags(mods ts.Modifiers) []jsdoc.Tag {
	var tags []jsdoc.Tag
	switch {
	case mods.Has(ts.ModPrivate):
		tags = append(tags, jsdoc.Tag{TagName: "private"})
	case mods.Has(ts.ModProtected):
		tags = append(tags, jsdoc.Tag{TagName: "protected"})
	}
	if mods.Has(ts.ModReadonly) {
		tags = append(tags, jsdoc.Tag{TagName: "const"})
	}
	return tags
}

func (a *annotator) withExport(mods ts.Modifiers, tags []jsdoc.Tag) []jsdoc.Tag {
	if a.opts.AnnotateExports && mods.Has(ts.ModExport) {
		return append([]jsdoc.Tag{{TagName: "export"}}, tags...)
	}
	return tags
}

func (a *annotator) templateTag(params []*ts.TypeParameter) []jsdoc.Tag {
	if len(params) == 0 {
		return nil
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name.Name
	}
	return []jsdoc.Tag{{TagName: "template", Text: strings.Join(names, ", ")}}
}

func (a *annotator) paramTags(params []*ts.Parameter) []jsdoc.Tag {
	var tags []jsdoc.Tag
	for _, p := range params {
		var typ string
		if p.Rest {
			elem := a.checker.TypeFromTypeNode(p.Type)
			if arr, ok := elem.(*ts.ArrayType); ok {
				typ = "..." + a.translator.Translate(arr.Elem)
			} else {
				typ = "..." + a.translator.Translate(elem)
			}
		} else {
			typ = a.translator.TranslateTypeNode(p.Type)
			if p.Optional || p.Init != nil {
				typ += "="
			}
		}
		tags = append(tags, jsdoc.Tag{TagName: "param", Type: typ, Parameter: p.Name.Name})
	}
	return tags
}

func (a *annotator) returnTag(ret ts.TypeNode) []jsdoc.Tag {
	if ret == nil {
		return nil
	}
	if kw, ok := ret.(*ts.KeywordTypeNode); ok && kw.Keyword == "void" && !a.opts.Untyped {
		return nil
	}
	return []jsdoc.Tag{{TagName: "return", Type: a.translator.TranslateTypeNode(ret)}}
}

func (a *annotator) recordTypeOnlyReExports(e *ts.ExportDeclaration) {
	if e.Specifier == nil {
		return
	}
	for _, spec := range e.Named {
		sym := a.checker.SymbolAtLocation(spec.Name)
		if sym == nil {
			continue
		}
		if sym.Has(ts.SymType) && !sym.Has(ts.SymValue) {
			key := e.Specifier.Value
			a.typeOnlyReExports[key] = append(a.typeOnlyReExports[key], spec.Name.Name)
		}
	}
}
