// Package typetranslator converts semantic TypeScript types into Closure
// JSDoc type expressions.
//
// Translation is total: every call yields a string. Constructs that cannot
// be expressed precisely degrade to the Closure unknown type "?" and record
// a warning that the pipeline surfaces only in verbose mode.
package typetranslator

import (
	"strings"

	"go.uber.org/zap"

	"github.com/lucidsoftware/tsickle/ts"
)

// Options configures a Translator.
type Options struct {
	// Untyped makes every translation request return "?".
	Untyped bool

	// Log receives a debug event per degraded translation. Nil disables
	// logging.
	Log *zap.SugaredLogger
}

// Translator translates types in the context of one source file: symbol
// qualification uses the value identifiers visible in that file.
type Translator struct {
	file    *ts.SourceFile
	checker ts.Checker
	opts    Options

	// translating is the currently-expanding alias set; re-entry emits ?
	// so self-referential types terminate.
	translating map[*ts.Symbol]bool

	warnings []ts.Diagnostic
}

// New creates a Translator for file.
func New(file *ts.SourceFile, checker ts.Checker, opts Options) *Translator {
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}
	return &Translator{
		file:        file,
		checker:     checker,
		opts:        opts,
		translating: make(map[*ts.Symbol]bool),
	}
}

// Warnings returns the degradation warnings accumulated so far.
func (t *Translator) Warnings() []ts.Diagnostic { return t.warnings }

// Translate converts typ to a Closure type expression.
func (t *Translator) Translate(typ ts.Type) string {
	if t.opts.Untyped {
		return "?"
	}
	return t.translate(typ)
}

// TranslateTypeNode resolves a syntactic annotation through the checker and
// translates the result.
func (t *Translator) TranslateTypeNode(tn ts.TypeNode) string {
	if t.opts.Untyped || tn == nil {
		return "?"
	}
	return t.translate(t.checker.TypeFromTypeNode(tn))
}

// TranslateAlias translates the target of a type alias. While the target
// expands, references back to the alias symbol collapse to ?.
func (t *Translator) TranslateAlias(sym *ts.Symbol, target ts.Type) string {
	if t.opts.Untyped {
		return "?"
	}
	t.translating[sym] = true
	defer delete(t.translating, sym)
	return t.translate(target)
}

func (t *Translator) translate(typ ts.Type) string {
	switch v := typ.(type) {
	case nil:
		return "?"
	case *ts.PrimitiveType:
		return t.primitive(v.PrimKind)
	case *ts.LiteralType:
		if v.Base == nil {
			return "?"
		}
		return t.primitive(v.Base.PrimKind)
	case *ts.UnionType:
		return t.union(v)
	case *ts.ArrayType:
		return "!Array<" + t.translate(v.Elem) + ">"
	case *ts.ObjectType:
		return t.object(v)
	case *ts.SignatureType:
		return t.signature(v)
	case *ts.ReferenceType:
		return t.reference(v)
	case *ts.TypeParameterType:
		return v.Name
	case *ts.EnumType:
		return t.enumName(v.Sym)
	case *ts.EnumMemberType:
		if v.Enum == nil {
			return "?"
		}
		return t.enumName(v.Enum.Sym)
	}
	t.warn(nil, "unhandled type %T", typ)
	return "?"
}

func (t *Translator) primitive(k ts.PrimitiveKind) string {
	switch k {
	case ts.PrimNumber:
		return "number"
	case ts.PrimString:
		return "string"
	case ts.PrimBoolean:
		return "boolean"
	case ts.PrimNull:
		return "null"
	case ts.PrimUndefined:
		return "undefined"
	case ts.PrimVoid:
		return "void"
	case ts.PrimObject:
		return "!Object"
	case ts.PrimSymbol:
		return "symbol"
	case ts.PrimAny, ts.PrimUnknown:
		return "?"
	}
	t.warn(nil, "primitive kind %d has no Closure equivalent", k)
	return "?"
}

func (t *Translator) union(u *ts.UnionType) string {
	if len(u.Types) == 0 {
		return "?"
	}
	if len(u.Types) == 1 {
		return t.translate(u.Types[0])
	}
	parts := make([]string, 0, len(u.Types))
	seen := make(map[string]bool)
	for _, m := range u.Types {
		p := t.translate(m)
		if p == "?" {
			// an unknown member absorbs the whole union
			return "?"
		}
		if !seen[p] {
			seen[p] = true
			parts = append(parts, p)
		}
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, "|") + ")"
}

func (t *Translator) object(o *ts.ObjectType) string {
	if o.IndexValue != nil && len(o.Fields) == 0 {
		key := t.translate(o.IndexKey)
		return "!Object<" + key + "," + t.translate(o.IndexValue) + ">"
	}
	parts := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		ft := t.translate(f.Type)
		if f.Optional {
			ft = "(" + ft + "|undefined)"
		}
		parts = append(parts, f.Name+": "+ft)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (t *Translator) signature(s *ts.SignatureType) string {
	var parts []string
	if s.This != nil {
		parts = append(parts, "this: "+t.translate(s.This))
	}
	for _, p := range s.Params {
		pt := t.translate(p.Type)
		switch {
		case p.Rest:
			pt = "..." + pt
		case p.Optional:
			pt = "(" + pt + "|undefined)"
		}
		parts = append(parts, pt)
	}
	ret := "void"
	if s.Return != nil {
		ret = t.translate(s.Return)
	}
	return "function(" + strings.Join(parts, ", ") + "): " + ret
}

func (t *Translator) reference(r *ts.ReferenceType) string {
	sym := r.Sym
	if sym == nil {
		t.warn(nil, "type reference without symbol")
		return "?"
	}
	if t.translating[sym] {
		// recursion point inside the symbol's own expansion
		return "?"
	}
	if sym.Has(ts.SymTypeAlias) {
		// aliases expand structurally; the typedef name is not part of
		// the Closure type
		t.translating[sym] = true
		defer delete(t.translating, sym)
		return t.translate(t.checker.TypeOfSymbol(sym))
	}
	name, ok := t.checker.ValueIdentifier(sym, t.file)
	if !ok {
		t.warn(sym.ValueDeclaration(), "type %s is not visible as a value in the emitted JS", sym.Name)
		return "?"
	}
	var args string
	if len(r.TypeArgs) > 0 {
		parts := make([]string, len(r.TypeArgs))
		for i, a := range r.TypeArgs {
			parts[i] = t.translate(a)
		}
		args = "<" + strings.Join(parts, ",") + ">"
	}
	if sym.Has(ts.SymClass) || sym.Has(ts.SymInterface) {
		return "!" + name + args
	}
	return name + args
}

func (t *Translator) enumName(sym *ts.Symbol) string {
	if sym == nil {
		return "?"
	}
	name, ok := t.checker.ValueIdentifier(sym, t.file)
	if !ok {
		t.warn(sym.ValueDeclaration(), "enum %s is not visible as a value in the emitted JS", sym.Name)
		return "?"
	}
	return name
}

func (t *Translator) warn(node ts.Node, format string, args ...any) {
	d := ts.WarningAt(t.file, node, format, args...)
	t.warnings = append(t.warnings, d)
	t.opts.Log.Debugw("type translation degraded to ?",
		"file", d.FileName, "message", d.Message)
}
