package tstest

import (
	"strings"

	"github.com/lucidsoftware/tsickle/ts"
)

func (p *parser) parseClass(first token, mods ts.Modifiers, decorators []*ts.Decorator) ts.Node {
	kw := p.expect("class")
	c := &ts.ClassDeclaration{Decorators: decorators, Mods: mods, KeywordPos: kw.pos}
	c.Name = p.parseIdent()
	c.TypeParams = p.parseTypeParams()
	c.Heritage = p.parseHeritage()
	p.expect("{")
	for !p.atEOF() && !p.is("}") {
		if p.eat(";") {
			continue
		}
		before := p.idx
		m := p.parseMember()
		if m == nil {
			break
		}
		c.Members = append(c.Members, m)
		if p.idx == before {
			p.next()
		}
	}
	closing := p.expect("}")
	c.BodyEnd = closing.pos
	c.NodeBase = base(ts.KindClassDeclaration, first, closing.end)
	return c
}

func (p *parser) parseMember() ts.Node {
	first := p.cur()
	var decorators []*ts.Decorator
	for p.is("@") {
		decorators = append(decorators, p.parseDecorator())
	}
	var mods ts.Modifiers
	for p.cur().kind == tokIdent {
		m, ok := modifierWords[p.cur().text]
		if !ok {
			break
		}
		nxt := p.peek(1)
		// a modifier word used as a member name is followed by member
		// syntax, not another name
		if nxt.kind != tokIdent && nxt.text != "[" && nxt.kind != tokString {
			break
		}
		p.next()
		mods |= m
	}

	if p.is("constructor") && p.peek(1).text == "(" {
		p.next()
		ctor := &ts.ConstructorDeclaration{}
		ctor.Params = p.parseParams()
		end := p.cur().pos
		if p.is("{") {
			start := p.cur().pos
			end = p.skipBalanced("{", "}")
			ctor.Body = &ts.Block{NodeBase: tight(ts.KindBlock, start, end)}
		} else if p.is(";") {
			end = p.next().end
		}
		ctor.NodeBase = base(ts.KindConstructor, first, end)
		return ctor
	}

	accessor := ""
	if (p.is("get") || p.is("set")) && (p.peek(1).kind == tokIdent || p.peek(1).kind == tokString || p.peek(1).text == "[") {
		accessor = p.next().text
	}

	name := p.parsePropertyName()

	if p.is("(") || p.is("<") {
		m := &ts.MethodDeclaration{Decorators: decorators, Mods: mods, Name: name, Accessor: accessor}
		m.TypeParams = p.parseTypeParams()
		m.Params = p.parseParams()
		if p.eat(":") {
			m.ReturnType = p.parseType()
		}
		end := p.cur().pos
		if p.is("{") {
			start := p.cur().pos
			end = p.skipBalanced("{", "}")
			m.Body = &ts.Block{NodeBase: tight(ts.KindBlock, start, end)}
		} else if p.is(";") {
			end = p.next().end
		}
		kind := ts.KindMethodDeclaration
		if accessor == "get" {
			kind = ts.KindGetAccessor
		} else if accessor == "set" {
			kind = ts.KindSetAccessor
		}
		m.NodeBase = base(kind, first, end)
		return m
	}

	prop := &ts.PropertyDeclaration{Decorators: decorators, Mods: mods, Name: name}
	end := name.End()
	if p.eat("?") {
		prop.Optional = true
	}
	if p.eat(":") {
		prop.Type = p.parseType()
		end = prop.Type.End()
	}
	if p.eat("=") {
		prop.Init = p.rawUntil(";", "}")
		end = prop.Init.End()
	}
	if p.is(";") {
		end = p.next().end
	}
	prop.NodeBase = base(ts.KindPropertyDeclaration, first, end)
	return prop
}

func (p *parser) parsePropertyName() *ts.PropertyName {
	t := p.cur()
	switch {
	case t.kind == tokString:
		p.next()
		lit := &ts.StringLiteral{NodeBase: tight(ts.KindStringLiteral, t.pos, t.end), Value: t.str}
		return &ts.PropertyName{NodeBase: tight(ts.KindIdentifier, t.pos, t.end), Literal: lit}
	case t.text == "[":
		start := t.pos
		end := p.skipBalanced("[", "]")
		raw := &ts.RawExpr{NodeBase: tight(ts.KindComputedPropertyName, start, end)}
		return &ts.PropertyName{NodeBase: tight(ts.KindComputedPropertyName, start, end), Computed: raw}
	default:
		id := p.parseIdent()
		return &ts.PropertyName{NodeBase: tight(ts.KindIdentifier, id.Pos(), id.End()), Ident: id}
	}
}

func (p *parser) parseInterface(first token, mods ts.Modifiers) ts.Node {
	p.expect("interface")
	i := &ts.InterfaceDeclaration{Mods: mods}
	i.Name = p.parseIdent()
	i.TypeParams = p.parseTypeParams()
	i.Heritage = p.parseHeritage()
	p.expect("{")
	for !p.atEOF() && !p.is("}") {
		if p.eat(";") || p.eat(",") {
			continue
		}
		before := p.idx
		m := p.parseSignatureMember()
		if m == nil {
			break
		}
		i.Members = append(i.Members, m)
		if p.idx == before {
			p.next()
		}
	}
	end := p.expect("}").end
	i.NodeBase = base(ts.KindInterfaceDeclaration, first, end)
	return i
}

// parseSignatureMember parses one interface or type-literal member.
func (p *parser) parseSignatureMember() ts.Node {
	first := p.cur()

	if p.is("[") {
		// index signature [key: string]: T
		p.next()
		sig := &ts.IndexSignature{}
		sig.KeyName = p.parseIdent()
		p.expect(":")
		sig.KeyType = p.parseType()
		p.expect("]")
		p.expect(":")
		sig.Type = p.parseType()
		end := sig.Type.End()
		if p.is(";") || p.is(",") {
			end = p.next().end
		}
		sig.NodeBase = base(ts.KindIndexSignature, first, end)
		return sig
	}

	var mods ts.Modifiers
	if p.is("readonly") && p.peek(1).kind == tokIdent {
		p.next()
		mods |= ts.ModReadonly
	}

	name := p.parsePropertyName()
	optional := p.eat("?")

	if p.is("(") || p.is("<") {
		m := &ts.MethodSignature{Name: name, Optional: optional}
		p.parseTypeParams()
		m.Params = p.parseParams()
		if p.eat(":") {
			m.ReturnType = p.parseType()
		}
		end := p.cur().pos
		if m.ReturnType != nil {
			end = m.ReturnType.End()
		}
		if p.is(";") || p.is(",") {
			end = p.next().end
		}
		m.NodeBase = base(ts.KindMethodSignature, first, end)
		return m
	}

	sig := &ts.PropertySignature{Mods: mods, Name: name, Optional: optional}
	end := name.End()
	if p.eat(":") {
		sig.Type = p.parseType()
		end = sig.Type.End()
	}
	if p.is(";") || p.is(",") {
		end = p.next().end
	}
	sig.NodeBase = base(ts.KindPropertySignature, first, end)
	return sig
}

func (p *parser) parseEnum(first token, mods ts.Modifiers) ts.Node {
	kw := p.expect("enum")
	e := &ts.EnumDeclaration{Mods: mods, KeywordPos: kw.pos}
	e.Name = p.parseIdent()
	p.expect("{")
	for !p.atEOF() && !p.is("}") {
		name := p.parsePropertyName()
		m := &ts.EnumMember{Name: name}
		end := name.End()
		if p.eat("=") {
			m.Init = p.rawUntil(",", "}")
			end = m.Init.End()
		}
		m.NodeBase = tight(ts.KindEnumMember, name.Pos(), end)
		e.Members = append(e.Members, m)
		if !p.eat(",") {
			break
		}
	}
	end := p.expect("}").end
	e.NodeBase = base(ts.KindEnumDeclaration, first, end)
	return e
}

func (p *parser) parseTypeAlias(first token, mods ts.Modifiers) ts.Node {
	p.expect("type")
	t := &ts.TypeAliasDeclaration{Mods: mods}
	t.Name = p.parseIdent()
	t.TypeParams = p.parseTypeParams()
	p.expect("=")
	t.Type = p.parseType()
	end := t.Type.End()
	if p.is(";") {
		end = p.next().end
	}
	t.NodeBase = base(ts.KindTypeAliasDeclaration, first, end)
	return t
}

func (p *parser) parseModule(first token, mods ts.Modifiers) ts.Node {
	m := &ts.ModuleDeclaration{Mods: mods}
	if p.is("global") {
		p.next()
		m.Name = "global"
	} else {
		p.next() // namespace or module
		if p.cur().kind == tokString {
			t := p.next()
			m.Name = t.str
		} else {
			var parts []string
			parts = append(parts, p.parseIdent().Name)
			for p.eat(".") {
				parts = append(parts, p.parseIdent().Name)
			}
			m.Name = strings.Join(parts, ".")
		}
	}
	p.expect("{")
	for !p.atEOF() && !p.is("}") {
		stmt := p.parseStatement()
		if stmt == nil {
			break
		}
		m.Body = append(m.Body, stmt)
	}
	end := p.expect("}").end
	m.NodeBase = base(ts.KindModuleDeclaration, first, end)
	return m
}

func (p *parser) parseImport(first token) ts.Node {
	p.expect("import")
	imp := &ts.ImportDeclaration{}
	if p.cur().kind == tokString {
		imp.Specifier = p.parseStringLiteral()
	} else {
		if p.cur().kind == tokIdent {
			imp.DefaultName = p.parseIdent()
			p.eat(",")
		}
		if p.eat("*") {
			p.expect("as")
			imp.NamespaceName = p.parseIdent()
		} else if p.is("{") {
			imp.Named = p.parseNamedSpecifiers()
		}
		p.expect("from")
		imp.Specifier = p.parseStringLiteral()
	}
	end := imp.Specifier.End()
	if p.is(";") {
		end = p.next().end
	}
	imp.NodeBase = base(ts.KindImportDeclaration, first, end)
	return imp
}

func (p *parser) parseExportDecl(first token) ts.Node {
	p.expect("export")
	e := &ts.ExportDeclaration{}
	if p.eat("*") {
		e.Star = true
	} else {
		e.Named = p.parseNamedSpecifiers()
	}
	end := p.cur().pos
	if p.eat("from") {
		e.Specifier = p.parseStringLiteral()
		end = e.Specifier.End()
	}
	if p.is(";") {
		end = p.next().end
	}
	e.NodeBase = base(ts.KindExportDeclaration, first, end)
	return e
}

func (p *parser) parseNamedSpecifiers() []*ts.ImportSpecifier {
	p.expect("{")
	var out []*ts.ImportSpecifier
	for !p.atEOF() && !p.is("}") {
		name := p.parseIdent()
		spec := &ts.ImportSpecifier{}
		if p.eat("as") {
			spec.PropertyName = name
			spec.Name = p.parseIdent()
		} else {
			spec.Name = name
		}
		spec.NodeBase = tight(ts.KindIdentifier, name.Pos(), spec.Name.End())
		out = append(out, spec)
		if !p.eat(",") {
			break
		}
	}
	p.expect("}")
	return out
}

func (p *parser) parseStringLiteral() *ts.StringLiteral {
	t := p.cur()
	if t.kind != tokString {
		p.errorf(t, "expected string literal, found %q", t.text)
		return &ts.StringLiteral{NodeBase: tight(ts.KindStringLiteral, t.pos, t.pos)}
	}
	p.next()
	return &ts.StringLiteral{NodeBase: tight(ts.KindStringLiteral, t.pos, t.end), Value: t.str}
}
