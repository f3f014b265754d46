package tstest

import (
	"fmt"

	"github.com/lucidsoftware/tsickle/ts"
)

// parser is a recursive-descent parser for the subset of TypeScript the
// test suite uses. It is resilient: unexpected input becomes a raw
// statement and a diagnostic rather than a failure.
type parser struct {
	fileName string
	text     string
	toks     []token
	idx      int
	diags    []ts.Diagnostic
}

func parseFile(fileName, text string) (*ts.SourceFile, []ts.Diagnostic) {
	p := &parser{fileName: fileName, text: text, toks: scan(text)}
	f := &ts.SourceFile{
		NodeBase: ts.NodeBase{NodeKind: ts.KindSourceFile, PosOff: 0, FullOff: 0, EndOff: len(text)},
		FileName: fileName,
		Text:     text,
	}
	for !p.atEOF() {
		stmt := p.parseStatement()
		if stmt == nil {
			break
		}
		f.Statements = append(f.Statements, stmt)
	}
	return f, p.diags
}

func (p *parser) cur() token  { return p.toks[p.idx] }
func (p *parser) atEOF() bool { return p.toks[p.idx].kind == tokEOF }

func (p *parser) peek(n int) token {
	if p.idx+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.idx+n]
}

func (p *parser) next() token {
	t := p.toks[p.idx]
	if p.idx < len(p.toks)-1 {
		p.idx++
	}
	return t
}

func (p *parser) is(text string) bool {
	t := p.cur()
	return (t.kind == tokIdent || t.kind == tokPunct) && t.text == text
}

func (p *parser) eat(text string) bool {
	if p.is(text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text string) token {
	if p.is(text) {
		return p.next()
	}
	t := p.cur()
	p.errorf(t, "expected %q, found %q", text, t.text)
	return t
}

func (p *parser) errorf(t token, format string, args ...any) {
	d := ts.Diagnostic{FileName: p.fileName, Pos: t.pos, Severity: ts.SeverityError}
	d.Message = fmt.Sprintf(format, args...)
	p.diags = append(p.diags, d)
}

// base builds a NodeBase from the statement's first token and a known end.
func base(kind ts.Kind, first token, end int) ts.NodeBase {
	return ts.NodeBase{
		NodeKind:        kind,
		PosOff:          first.pos,
		FullOff:         first.fullPos,
		EndOff:          end,
		LeadingComments: first.leading,
	}
}

// tight builds a NodeBase with no leading trivia of its own.
func tight(kind ts.Kind, pos, end int) ts.NodeBase {
	return ts.NodeBase{NodeKind: kind, PosOff: pos, FullOff: pos, EndOff: end}
}

var modifierWords = map[string]ts.Modifiers{
	"export":    ts.ModExport,
	"declare":   ts.ModDeclare,
	"default":   ts.ModDefault,
	"abstract":  ts.ModAbstract,
	"static":    ts.ModStatic,
	"readonly":  ts.ModReadonly,
	"public":    ts.ModPublic,
	"private":   ts.ModPrivate,
	"protected": ts.ModProtected,
}

var declKeywords = map[string]bool{
	"var": true, "let": true, "const": true, "function": true,
	"class": true, "interface": true, "enum": true, "type": true,
	"namespace": true, "module": true, "abstract": true, "declare": true,
	"async": true, "global": true,
}

func (p *parser) parseStatement() ts.Node {
	first := p.cur()

	// decorators precede class statements
	var decorators []*ts.Decorator
	for p.is("@") {
		decorators = append(decorators, p.parseDecorator())
	}

	// import/export forms that are not modifiers
	if p.is("import") {
		return p.parseImport(first)
	}
	if p.is("export") && (p.peek(1).text == "{" || p.peek(1).text == "*") {
		return p.parseExportDecl(first)
	}

	var mods ts.Modifiers
	for p.cur().kind == tokIdent {
		m, ok := modifierWords[p.cur().text]
		if !ok {
			break
		}
		nxt := p.peek(1)
		if nxt.kind != tokIdent && !(m == ts.ModExport && nxt.kind == tokPunct) {
			break
		}
		// "declare global" keeps declare as a modifier; plain statement
		// keywords end the modifier run below
		if !declKeywords[nxt.text] && nxt.kind == tokIdent && !declKeywords[p.cur().text] {
			break
		}
		p.next()
		mods |= m
	}

	switch {
	case p.is("var") || p.is("let") || (p.is("const") && p.peek(1).text != "enum"):
		return p.parseVarStatement(first, mods)
	case p.is("const") && p.peek(1).text == "enum":
		p.next()
		return p.parseEnum(first, mods|ts.ModConst)
	case p.is("function"):
		return p.parseFunction(first, mods)
	case p.is("class"):
		return p.parseClass(first, mods, decorators)
	case p.is("interface"):
		return p.parseInterface(first, mods)
	case p.is("enum"):
		return p.parseEnum(first, mods)
	case p.is("type") && p.peek(1).kind == tokIdent:
		return p.parseTypeAlias(first, mods)
	case p.is("namespace") || p.is("module") || p.is("global"):
		return p.parseModule(first, mods)
	}

	if len(decorators) > 0 {
		p.errorf(first, "decorators are only supported on class declarations")
	}
	return p.parseRawStatement(first)
}

// parseRawStatement consumes one opaque statement: a balanced block, or
// tokens through the next top-level semicolon.
func (p *parser) parseRawStatement(first token) ts.Node {
	end := first.end
	if p.is("{") {
		end = p.skipBalanced("{", "}")
	} else {
		depth := 0
		for !p.atEOF() {
			t := p.next()
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
			end = t.end
			if t.text == ";" && depth <= 0 {
				break
			}
		}
	}
	return &ts.RawExpr{NodeBase: base(ts.KindRawExpr, first, end)}
}

// skipBalanced consumes from the current open token through its matching
// close token and returns the end offset.
func (p *parser) skipBalanced(open, close string) int {
	depth := 0
	end := p.cur().end
	for !p.atEOF() {
		t := p.next()
		end = t.end
		if t.text == open {
			depth++
		} else if t.text == close {
			depth--
			if depth == 0 {
				break
			}
		}
	}
	return end
}

// rawUntil consumes tokens until one of the stop puncts appears at depth
// zero, returning an opaque expression node. The stop token is not
// consumed.
func (p *parser) rawUntil(stops ...string) *ts.RawExpr {
	first := p.cur()
	end := first.pos
	depth := 0
	for !p.atEOF() {
		t := p.cur()
		if depth == 0 && t.kind == tokPunct {
			for _, s := range stops {
				if t.text == s {
					return &ts.RawExpr{NodeBase: tight(ts.KindRawExpr, first.pos, end)}
				}
			}
		}
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth < 0 {
				return &ts.RawExpr{NodeBase: tight(ts.KindRawExpr, first.pos, end)}
			}
		}
		p.next()
		end = t.end
	}
	return &ts.RawExpr{NodeBase: tight(ts.KindRawExpr, first.pos, end)}
}

func (p *parser) parseIdent() *ts.Identifier {
	t := p.cur()
	if t.kind != tokIdent {
		p.errorf(t, "expected identifier, found %q", t.text)
		// consume the offending token so callers always make progress,
		// but leave closers for the enclosing production
		if t.kind != tokEOF && t.text != "}" && t.text != ")" && t.text != "]" {
			p.next()
		}
		return &ts.Identifier{NodeBase: tight(ts.KindIdentifier, t.pos, t.pos), Name: ""}
	}
	p.next()
	return &ts.Identifier{NodeBase: tight(ts.KindIdentifier, t.pos, t.end), Name: t.text}
}

// parseEntityName parses ident(.ident)*.
func (p *parser) parseEntityName() ts.Node {
	var node ts.Node = p.parseIdent()
	for p.is(".") && p.peek(1).kind == tokIdent {
		p.next()
		right := p.parseIdent()
		node = &ts.QualifiedName{
			NodeBase: tight(ts.KindQualifiedName, node.Pos(), right.End()),
			Left:     node,
			Right:    right,
		}
	}
	return node
}

func (p *parser) parseDecorator() *ts.Decorator {
	at := p.expect("@")
	name := p.parseEntityName()
	var expr ts.Node = name
	if p.is("(") {
		args, end := p.parseCallArgs()
		expr = &ts.CallExpression{
			NodeBase:  tight(ts.KindCallExpression, name.Pos(), end),
			Callee:    name,
			Arguments: args,
		}
	}
	return &ts.Decorator{
		NodeBase: tight(ts.KindDecorator, at.pos, expr.End()),
		Expr:     expr,
	}
}

// parseCallArgs parses a parenthesized argument list into opaque
// expressions split at top-level commas.
func (p *parser) parseCallArgs() ([]ts.Node, int) {
	p.expect("(")
	var args []ts.Node
	for !p.atEOF() && !p.is(")") {
		arg := p.rawUntil(",", ")")
		if arg.End() > arg.Pos() {
			args = append(args, arg)
		}
		if !p.eat(",") {
			break
		}
	}
	end := p.expect(")").end
	return args, end
}

func (p *parser) parseVarStatement(first token, mods ts.Modifiers) ts.Node {
	kw := p.next() // var, let, or const
	stmt := &ts.VariableStatement{
		Mods:       mods,
		KeywordPos: kw.pos,
		Keyword:    kw.text,
	}
	for {
		name := p.parseIdent()
		d := &ts.VariableDeclaration{
			NodeBase: tight(ts.KindVariableDeclaration, name.Pos(), name.End()),
			Name:     name,
		}
		if p.eat(":") {
			d.Type = p.parseType()
			d.EndOff = d.Type.End()
		}
		if p.eat("=") {
			d.Init = p.rawUntil(",", ";")
			d.EndOff = d.Init.End()
		}
		stmt.Decls = append(stmt.Decls, d)
		if !p.eat(",") {
			break
		}
	}
	end := stmt.Decls[len(stmt.Decls)-1].End()
	if p.is(";") {
		end = p.next().end
	}
	stmt.NodeBase = base(ts.KindVariableStatement, first, end)
	return stmt
}

func (p *parser) parseFunction(first token, mods ts.Modifiers) ts.Node {
	kw := p.expect("function")
	f := &ts.FunctionDeclaration{Mods: mods, KeywordPos: kw.pos}
	f.Name = p.parseIdent()
	f.TypeParams = p.parseTypeParams()
	f.Params = p.parseParams()
	if p.eat(":") {
		f.ReturnType = p.parseType()
	}
	var end int
	switch {
	case p.is("{"):
		start := p.cur().pos
		end = p.skipBalanced("{", "}")
		f.Body = &ts.Block{NodeBase: tight(ts.KindBlock, start, end)}
	case p.is(";"):
		end = p.next().end
	default:
		end = p.cur().pos
	}
	f.NodeBase = base(ts.KindFunctionDeclaration, first, end)
	return f
}

func (p *parser) parseTypeParams() []*ts.TypeParameter {
	if !p.is("<") {
		return nil
	}
	p.next()
	var out []*ts.TypeParameter
	for !p.atEOF() && !p.is(">") {
		name := p.parseIdent()
		tp := &ts.TypeParameter{
			NodeBase: tight(ts.KindTypeParameter, name.Pos(), name.End()),
			Name:     name,
		}
		if p.eat("extends") {
			tp.Constraint = p.parseType()
			tp.EndOff = tp.Constraint.End()
		}
		out = append(out, tp)
		if !p.eat(",") {
			break
		}
	}
	p.expect(">")
	return out
}

func (p *parser) parseParams() []*ts.Parameter {
	p.expect("(")
	var out []*ts.Parameter
	for !p.atEOF() && !p.is(")") {
		out = append(out, p.parseParam())
		if !p.eat(",") {
			break
		}
	}
	p.expect(")")
	return out
}

func (p *parser) parseParam() *ts.Parameter {
	first := p.cur()
	param := &ts.Parameter{}
	for p.is("@") {
		param.Decorators = append(param.Decorators, p.parseDecorator())
	}
	for p.cur().kind == tokIdent {
		m, ok := modifierWords[p.cur().text]
		if !ok || p.peek(1).kind != tokIdent {
			break
		}
		switch m {
		case ts.ModPublic, ts.ModPrivate, ts.ModProtected, ts.ModReadonly:
			p.next()
			param.Mods |= m
		default:
			m = 0
		}
		if m == 0 {
			break
		}
	}
	if p.is("...") {
		p.next()
		param.Rest = true
	}
	param.Name = p.parseIdent()
	end := param.Name.End()
	if p.eat("?") {
		param.Optional = true
	}
	if p.eat(":") {
		param.Type = p.parseType()
		end = param.Type.End()
	}
	if p.eat("=") {
		param.Init = p.rawUntil(",", ")")
		end = param.Init.End()
	}
	param.NodeBase = tight(ts.KindParameter, first.pos, end)
	return param
}

func (p *parser) parseHeritage() []*ts.HeritageClause {
	var out []*ts.HeritageClause
	for p.is("extends") || p.is("implements") {
		kw := p.next()
		clause := &ts.HeritageClause{Keyword: kw.text}
		end := kw.end
		for {
			name := p.parseEntityName()
			e := &ts.ExpressionWithTypeArgs{
				NodeBase: tight(ts.KindExpressionWithTypeArgs, name.Pos(), name.End()),
				Expr:     name,
			}
			if p.is("<") {
				p.next()
				for !p.atEOF() && !p.is(">") {
					e.TypeArgs = append(e.TypeArgs, p.parseType())
					if !p.eat(",") {
						break
					}
				}
				e.EndOff = p.expect(">").end
			}
			clause.Types = append(clause.Types, e)
			end = e.End()
			if !p.eat(",") {
				break
			}
		}
		clause.NodeBase = tight(ts.KindHeritageClause, kw.pos, end)
		out = append(out, clause)
	}
	return out
}
