package closurize

import (
	"fmt"
	"strings"

	"github.com/lucidsoftware/tsickle/jsdoc"
	"github.com/lucidsoftware/tsickle/ts"
	"github.com/lucidsoftware/tsickle/typetranslator"
)

// ExternsCollector accumulates Closure externs across all processed files.
// Ambient declarations are de-duplicated by fully qualified name; the first
// definition wins and a later conflicting one is reported.
type ExternsCollector struct {
	opts Options

	byName     map[string]string
	order      []string
	namespaces map[string]bool
	diags      []ts.Diagnostic
}

// NewExternsCollector creates an empty collector.
func NewExternsCollector(opts Options) *ExternsCollector {
	return &ExternsCollector{
		opts:       opts,
		byName:     make(map[string]string),
		namespaces: make(map[string]bool),
	}
}

// Diagnostics returns the conflicts found so far.
func (e *ExternsCollector) Diagnostics() []ts.Diagnostic { return e.diags }

// Externs returns the concatenated externs text, empty when no ambient
// declarations were seen.
func (e *ExternsCollector) Externs() string {
	if len(e.order) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("/**\n * @externs\n * generated by tsickle\n */\n")
	for _, block := range e.order {
		sb.WriteString(block)
	}
	return sb.String()
}

// Process collects the ambient declarations of one file: every declaration
// of a .d.ts input, and declare-marked statements elsewhere.
func (e *ExternsCollector) Process(file *ts.SourceFile, checker ts.Checker) {
	w := &externsWriter{
		c:    e,
		file: file,
		tr: typetranslator.New(file, checker, typetranslator.Options{
			Untyped: e.opts.Untyped,
			Log:     e.opts.Log,
		}),
		checker: checker,
	}
	for _, stmt := range file.Statements {
		if file.IsDeclarationFile() || isAmbient(stmt) {
			w.visit("", stmt)
		}
	}
}

func isAmbient(n ts.Node) bool {
	switch v := n.(type) {
	case *ts.VariableStatement:
		return v.Mods.Has(ts.ModDeclare)
	case *ts.FunctionDeclaration:
		return v.Mods.Has(ts.ModDeclare)
	case *ts.ClassDeclaration:
		return v.Mods.Has(ts.ModDeclare)
	case *ts.InterfaceDeclaration:
		return v.Mods.Has(ts.ModDeclare)
	case *ts.EnumDeclaration:
		return v.Mods.Has(ts.ModDeclare)
	case *ts.TypeAliasDeclaration:
		return v.Mods.Has(ts.ModDeclare)
	case *ts.ModuleDeclaration:
		return v.Mods.Has(ts.ModDeclare)
	}
	return false
}

type externsWriter struct {
	c       *ExternsCollector
	file    *ts.SourceFile
	tr      *typetranslator.Translator
	checker ts.Checker
}

func (w *externsWriter) visit(prefix string, stmt ts.Node) {
	switch v := stmt.(type) {
	case *ts.VariableStatement:
		for _, d := range v.Decls {
			typ := w.tr.TranslateTypeNode(d.Type)
			w.add(prefix, d.Name.Name, d,
				jsdoc.Serialize([]jsdoc.Tag{{TagName: "type", Type: typ}})+"\n"+
					w.slot(prefix, d.Name.Name)+"\n")
		}
	case *ts.FunctionDeclaration:
		w.add(prefix, v.Name.Name, v, w.functionBlock(prefix, v))
	case *ts.ClassDeclaration:
		w.add(prefix, v.Name.Name, v, w.classBlock(prefix, v.Name.Name,
			jsdoc.Tag{TagName: "constructor"}, v.TypeParams, classMembers(v)))
	case *ts.InterfaceDeclaration:
		w.add(prefix, v.Name.Name, v, w.classBlock(prefix, v.Name.Name,
			jsdoc.Tag{TagName: "record"}, v.TypeParams, v.Members))
	case *ts.EnumDeclaration:
		w.add(prefix, v.Name.Name, v, w.enumBlock(prefix, v))
	case *ts.TypeAliasDeclaration:
		typ := w.tr.TranslateTypeNode(v.Type)
		w.add(prefix, v.Name.Name, v,
			jsdoc.Serialize([]jsdoc.Tag{{TagName: "typedef", Type: typ}})+"\n"+
				w.slot(prefix, v.Name.Name)+"\n")
	case *ts.ModuleDeclaration:
		inner := prefix
		if v.Name != "global" {
			for _, part := range strings.Split(v.Name, ".") {
				inner = join(inner, part)
				w.ensureNamespace(inner)
			}
		}
		for _, s := range v.Body {
			w.visit(inner, s)
		}
	}
}

// add registers a rendered block under its fully qualified name, keeping
// the first definition on conflict.
func (w *externsWriter) add(prefix, name string, at ts.Node, block string) {
	fqn := join(prefix, name)
	if prev, ok := w.c.byName[fqn]; ok {
		if prev != block {
			w.c.diags = append(w.c.diags, ts.WarningAt(w.file, at,
				"conflicting extern redefinition of %s, keeping the first", fqn))
		}
		return
	}
	w.c.byName[fqn] = block
	w.c.order = append(w.c.order, block)
}

func (w *externsWriter) ensureNamespace(fqn string) {
	if w.c.namespaces[fqn] {
		return
	}
	w.c.namespaces[fqn] = true
	block := "/** @const */ " + w.slotText(fqn) + "\n"
	if !strings.Contains(fqn, ".") {
		block = "/** @const */ var " + fqn + " = {};\n"
	}
	w.c.byName[fqn] = block
	w.c.order = append(w.c.order, block)
}

// slot renders an uninitialized declaration for prefix.name.
func (w *externsWriter) slot(prefix, name string) string {
	if prefix == "" {
		return "var " + name + ";"
	}
	return join(prefix, name) + ";"
}

func (w *externsWriter) slotText(fqn string) string {
	return fqn + " = {};"
}

func (w *externsWriter) assign(prefix, name, rhs string) string {
	if prefix == "" {
		return "var " + name + " = " + rhs + ";"
	}
	return join(prefix, name) + " = " + rhs + ";"
}

func (w *externsWriter) functionBlock(prefix string, f *ts.FunctionDeclaration) string {
	var tags []jsdoc.Tag
	var names []string
	for _, p := range f.Params {
		typ := w.tr.TranslateTypeNode(p.Type)
		if p.Optional {
			typ += "="
		}
		if p.Rest {
			typ = "..." + typ
		}
		tags = append(tags, jsdoc.Tag{TagName: "param", Type: typ, Parameter: p.Name.Name})
		names = append(names, p.Name.Name)
	}
	if f.ReturnType != nil {
		if kw, ok := f.ReturnType.(*ts.KeywordTypeNode); !ok || kw.Keyword != "void" {
			tags = append(tags, jsdoc.Tag{TagName: "return", Type: w.tr.TranslateTypeNode(f.ReturnType)})
		}
	}
	doc := ""
	if len(tags) > 0 {
		doc = jsdoc.Serialize(tags) + "\n"
	}
	sig := fmt.Sprintf("function(%s) {}", strings.Join(names, ", "))
	if prefix == "" {
		sig = fmt.Sprintf("function %s(%s) {}", f.Name.Name, strings.Join(names, ", "))
		return doc + sig + "\n"
	}
	return doc + w.assign(prefix, f.Name.Name, sig) + "\n"
}

func (w *externsWriter) classBlock(prefix, name string, kind jsdoc.Tag, typeParams []*ts.TypeParameter, members []ts.Node) string {
	tags := []jsdoc.Tag{kind}
	if len(typeParams) > 0 {
		names := make([]string, len(typeParams))
		for i, p := range typeParams {
			names[i] = p.Name.Name
		}
		tags = append(tags, jsdoc.Tag{TagName: "template", Text: strings.Join(names, ", ")})
	}
	var sb strings.Builder
	sb.WriteString(jsdoc.Serialize(tags) + "\n")
	if prefix == "" {
		sb.WriteString("function " + name + "() {}\n")
	} else {
		sb.WriteString(w.assign(prefix, name, "function() {}") + "\n")
	}
	owner := join(prefix, name)
	for _, m := range members {
		w.member(&sb, owner, m)
	}
	return sb.String()
}

func (w *externsWriter) member(sb *strings.Builder, owner string, m ts.Node) {
	var name string
	var typ string
	switch v := m.(type) {
	case *ts.PropertySignature:
		if v.Name.IsComputed() {
			return
		}
		name = v.Name.Text()
		typ = w.tr.TranslateTypeNode(v.Type)
		if v.Optional {
			typ = "(" + typ + "|undefined)"
		}
	case *ts.PropertyDeclaration:
		if v.Name.IsComputed() || v.Mods.Has(ts.ModStatic) {
			return
		}
		name = v.Name.Text()
		typ = w.tr.TranslateTypeNode(v.Type)
	case *ts.MethodSignature:
		if v.Name.IsComputed() {
			return
		}
		name = v.Name.Text()
		typ = w.methodType(v.Params, v.ReturnType)
	case *ts.MethodDeclaration:
		if v.Name.IsComputed() || v.Mods.Has(ts.ModStatic) || v.Accessor != "" {
			return
		}
		name = v.Name.Text()
		typ = w.methodType(v.Params, v.ReturnType)
	default:
		return
	}
	sb.WriteString("/** @type {" + typ + "} */ " + owner + ".prototype" + propertyAccess(name) + ";\n")
}

func (w *externsWriter) methodType(params []*ts.Parameter, ret ts.TypeNode) string {
	sig := &ts.SignatureType{}
	for _, p := range params {
		sig.Params = append(sig.Params, ts.Param{
			Name:     p.Name.Name,
			Type:     w.checker.TypeFromTypeNode(p.Type),
			Optional: p.Optional,
			Rest:     p.Rest,
		})
	}
	if ret != nil {
		sig.Return = w.checker.TypeFromTypeNode(ret)
	}
	return w.tr.Translate(sig)
}

func (w *externsWriter) enumBlock(prefix string, v *ts.EnumDeclaration) string {
	var sb strings.Builder
	sb.WriteString("/** @enum {number} */\n")
	sb.WriteString(w.assign(prefix, v.Name.Name, "{}") + "\n")
	owner := join(prefix, v.Name.Name)
	for _, m := range v.Members {
		if m.Name.IsComputed() {
			continue
		}
		sb.WriteString(owner + propertyAccess(m.Name.Text()) + ";\n")
	}
	return sb.String()
}

func classMembers(c *ts.ClassDeclaration) []ts.Node { return c.Members }

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
