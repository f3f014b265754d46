// Package decorator lowers @Annotation-marked decorators into static class
// metadata so ahead-of-time compilers can read them without executing a
// decorator runtime.
//
// A decorator participates when the JSDoc on its directly resolved
// declaration contains the @Annotation marker. Lowered decorators disappear
// from the emitted class and reappear as entries in static `decorators`,
// `ctorParameters`, and `propDecorators` fields; decorators without the
// marker stay untouched.
package decorator

import (
	"strings"

	"github.com/lucidsoftware/tsickle/rewriter"
	"github.com/lucidsoftware/tsickle/sourcemap"
	"github.com/lucidsoftware/tsickle/ts"
)

// AnnotationMarker is the token that opts a decorator into lowering.
const AnnotationMarker = "@Annotation"

// Result is the output of downleveling one file.
type Result struct {
	Output      string
	Diagnostics []ts.Diagnostic
}

// Downlevel rewrites file, lowering every @Annotation decorator. sm may be
// nil.
func Downlevel(file *ts.SourceFile, checker ts.Checker, sm *sourcemap.Builder) Result {
	d := &downleveler{file: file, checker: checker}
	d.r = rewriter.New(file, d, sm)
	d.r.Visit(file)
	out, diags := d.r.Output()
	return Result{Output: out, Diagnostics: diags}
}

type downleveler struct {
	r       *rewriter.Rewriter
	file    *ts.SourceFile
	checker ts.Checker
}

// MaybeProcess implements rewriter.Visitor.
func (d *downleveler) MaybeProcess(n ts.Node) bool {
	c, ok := n.(*ts.ClassDeclaration)
	if !ok {
		return false
	}
	return d.processClass(c)
}

// isLowerable reports whether dec's declaration carries the marker.
func (d *downleveler) isLowerable(dec *ts.Decorator) bool {
	callee := dec.Expr
	if call, ok := callee.(*ts.CallExpression); ok {
		callee = call.Callee
	}
	sym := d.checker.SymbolAtLocation(callee)
	if sym == nil {
		return false
	}
	for _, decl := range sym.Decls {
		type commented interface{ JSDocComment() *ts.Comment }
		c, ok := decl.(commented)
		if !ok {
			continue
		}
		if doc := c.JSDocComment(); doc != nil && strings.Contains(doc.Text, AnnotationMarker) {
			return true
		}
	}
	return false
}

func (d *downleveler) processClass(c *ts.ClassDeclaration) bool {
	var classLowered []*ts.Decorator
	for _, dec := range c.Decorators {
		if d.isLowerable(dec) {
			classLowered = append(classLowered, dec)
		}
	}
	ctor := findConstructor(c)
	paramsLowered := false
	if ctor != nil {
		for _, p := range ctor.Params {
			for _, dec := range p.Decorators {
				if d.isLowerable(dec) {
					paramsLowered = true
				}
			}
		}
	}
	propLowered := d.collectPropDecorators(c)

	// computed-name members cannot be lowered, but their marked decorators
	// still make the class ours so the diagnostic fires
	computedLowered := false
	for _, m := range c.Members {
		switch v := m.(type) {
		case *ts.MethodDeclaration:
			if v.Name.IsComputed() && anyLowerable(d, v.Decorators) {
				computedLowered = true
			}
		case *ts.PropertyDeclaration:
			if v.Name.IsComputed() && anyLowerable(d, v.Decorators) {
				computedLowered = true
			}
		}
	}

	if len(classLowered) == 0 && !paramsLowered && len(propLowered) == 0 && !computedLowered {
		return false
	}

	pos := c.FullPos()
	if pos < d.r.Cursor() {
		pos = d.r.Cursor()
	}

	// class-level decorators: whitespace kept, lowered text dropped
	for _, dec := range c.Decorators {
		d.r.WriteRange(pos, dec.FullPos())
		if containsDecorator(classLowered, dec) {
			d.r.SkipTo(dec.End())
		} else {
			d.r.WriteRange(dec.FullPos(), dec.End())
		}
		pos = dec.End()
	}

	// members, suppressing lowered member and parameter decorators
	for _, m := range c.Members {
		memberStart := m.FullPos()
		if memberStart < pos {
			memberStart = pos
		}
		d.r.WriteRange(pos, memberStart)
		d.writeMember(m)
		pos = m.End()
	}

	// metadata block just before the closing brace
	d.r.WriteRange(pos, c.BodyEnd)
	d.emitMetadata(c, classLowered, ctor, propLowered)
	d.r.WriteRange(c.BodyEnd, c.End())
	return true
}

func (d *downleveler) writeMember(m ts.Node) {
	switch v := m.(type) {
	case *ts.MethodDeclaration:
		d.writeDecorated(m, v.Decorators, v.Name)
	case *ts.PropertyDeclaration:
		d.writeDecorated(m, v.Decorators, v.Name)
	case *ts.ConstructorDeclaration:
		d.writeConstructor(v)
	default:
		d.r.WriteNode(m)
	}
}

// writeDecorated copies a member, dropping its lowerable decorators. A
// computed-name member keeps its decorators: there is no metadata key to
// file them under.
func (d *downleveler) writeDecorated(m ts.Node, decs []*ts.Decorator, name *ts.PropertyName) {
	if name.IsComputed() && anyLowerable(d, decs) {
		d.r.Error(m, "cannot lower decorators on a computed-name member")
		d.r.WriteNode(m)
		return
	}
	pos := m.FullPos()
	if pos < d.r.Cursor() {
		pos = d.r.Cursor()
	}
	for _, dec := range decs {
		d.r.WriteRange(pos, dec.FullPos())
		if d.isLowerable(dec) {
			d.r.SkipTo(dec.End())
		} else {
			d.r.WriteRange(dec.FullPos(), dec.End())
		}
		pos = dec.End()
	}
	d.r.WriteRange(pos, m.End())
}

func (d *downleveler) writeConstructor(c *ts.ConstructorDeclaration) {
	pos := c.FullPos()
	if pos < d.r.Cursor() {
		pos = d.r.Cursor()
	}
	for _, p := range c.Params {
		for _, dec := range p.Decorators {
			d.r.WriteRange(pos, dec.FullPos())
			if d.isLowerable(dec) {
				d.r.SkipTo(dec.End())
			} else {
				d.r.WriteRange(dec.FullPos(), dec.End())
			}
			pos = dec.End()
		}
	}
	d.r.WriteRange(pos, c.End())
}

func (d *downleveler) collectPropDecorators(c *ts.ClassDeclaration) map[string][]*ts.Decorator {
	out := make(map[string][]*ts.Decorator)
	for _, m := range c.Members {
		var decs []*ts.Decorator
		var name *ts.PropertyName
		switch v := m.(type) {
		case *ts.MethodDeclaration:
			decs, name = v.Decorators, v.Name
		case *ts.PropertyDeclaration:
			decs, name = v.Decorators, v.Name
		default:
			continue
		}
		if name.IsComputed() {
			continue
		}
		for _, dec := range decs {
			if d.isLowerable(dec) {
				out[name.Text()] = append(out[name.Text()], dec)
			}
		}
	}
	return out
}

// decoratorEntry renders one lowered decorator as {type: F} or
// {type: F, args: [...]}.
func (d *downleveler) decoratorEntry(dec *ts.Decorator) string {
	switch e := dec.Expr.(type) {
	case *ts.CallExpression:
		name := d.file.NodeText(e.Callee)
		if len(e.Arguments) == 0 {
			return "{ type: " + name + " }"
		}
		args := make([]string, len(e.Arguments))
		for i, a := range e.Arguments {
			args[i] = d.file.NodeText(a)
		}
		return "{ type: " + name + ", args: [" + strings.Join(args, ", ") + "] }"
	default:
		return "{ type: " + d.file.NodeText(dec.Expr) + " }"
	}
}

// paramTypeName resolves a constructor parameter's type annotation to the
// value identifier the metadata references, or "" when there is none.
func (d *downleveler) paramTypeName(p *ts.Parameter) string {
	if p.Type == nil {
		return ""
	}
	ref, ok := d.checker.TypeFromTypeNode(p.Type).(*ts.ReferenceType)
	if !ok || ref.Sym == nil {
		return ""
	}
	name, ok := d.checker.ValueIdentifier(ref.Sym, d.file)
	if !ok {
		return ""
	}
	return name
}

func (d *downleveler) emitMetadata(c *ts.ClassDeclaration, classLowered []*ts.Decorator, ctor *ts.ConstructorDeclaration, propLowered map[string][]*ts.Decorator) {
	var sb strings.Builder

	if len(classLowered) > 0 {
		sb.WriteString("static decorators: {type: Function, args?: any[]}[] = [\n")
		for _, dec := range classLowered {
			sb.WriteString(d.decoratorEntry(dec) + ",\n")
		}
		sb.WriteString("];\n")
	}

	sb.WriteString("/** @nocollapse */\n")
	sb.WriteString("static ctorParameters: () => ({type: any, decorators?: {type: Function, args?: any[]}[]}|null)[] = () => [\n")
	if ctor != nil {
		for _, p := range ctor.Params {
			typeName := d.paramTypeName(p)
			var decs []string
			for _, dec := range p.Decorators {
				if d.isLowerable(dec) {
					decs = append(decs, d.decoratorEntry(dec))
				}
			}
			if typeName == "" && len(decs) == 0 {
				sb.WriteString("null,\n")
				continue
			}
			entry := "{type: " + orUndefined(typeName)
			if len(decs) > 0 {
				entry += ", decorators: [" + strings.Join(decs, ", ") + "]"
			}
			entry += "},"
			sb.WriteString(entry + "\n")
		}
	}
	sb.WriteString("];\n")

	if len(propLowered) > 0 {
		sb.WriteString("static propDecorators: {[key: string]: {type: Function, args?: any[]}[]} = {\n")
		for _, m := range membersInOrder(c, propLowered) {
			entries := make([]string, len(propLowered[m]))
			for i, dec := range propLowered[m] {
				entries[i] = d.decoratorEntry(dec)
			}
			sb.WriteString(`"` + m + `": [` + strings.Join(entries, ", ") + "],\n")
		}
		sb.WriteString("};\n")
	}

	d.r.Emit(sb.String())
}

// membersInOrder returns the keys of propLowered in declaration order.
func membersInOrder(c *ts.ClassDeclaration, propLowered map[string][]*ts.Decorator) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range c.Members {
		var name *ts.PropertyName
		switch v := m.(type) {
		case *ts.MethodDeclaration:
			name = v.Name
		case *ts.PropertyDeclaration:
			name = v.Name
		default:
			continue
		}
		if name.IsComputed() {
			continue
		}
		if _, ok := propLowered[name.Text()]; ok && !seen[name.Text()] {
			seen[name.Text()] = true
			out = append(out, name.Text())
		}
	}
	return out
}

func findConstructor(c *ts.ClassDeclaration) *ts.ConstructorDeclaration {
	for _, m := range c.Members {
		if ctor, ok := m.(*ts.ConstructorDeclaration); ok {
			return ctor
		}
	}
	return nil
}

func containsDecorator(list []*ts.Decorator, dec *ts.Decorator) bool {
	for _, d := range list {
		if d == dec {
			return true
		}
	}
	return false
}

func anyLowerable(d *downleveler, decs []*ts.Decorator) bool {
	for _, dec := range decs {
		if d.isLowerable(dec) {
			return true
		}
	}
	return false
}

func orUndefined(name string) string {
	if name == "" {
		return "undefined"
	}
	return name
}
