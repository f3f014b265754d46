package tstest

import (
	"github.com/lucidsoftware/tsickle/ts"
)

var keywordTypes = map[string]bool{
	"number": true, "string": true, "boolean": true, "any": true,
	"unknown": true, "void": true, "null": true, "undefined": true,
	"never": true, "object": true, "symbol": true,
}

func (p *parser) parseType() ts.TypeNode {
	return p.parseUnionType()
}

func (p *parser) parseUnionType() ts.TypeNode {
	p.eat("|") // leading | in multi-line unions
	first := p.parsePostfixType()
	if !p.is("|") {
		return first
	}
	u := &ts.UnionTypeNode{Types: []ts.TypeNode{first}}
	for p.eat("|") {
		u.Types = append(u.Types, p.parsePostfixType())
	}
	last := u.Types[len(u.Types)-1]
	u.NodeBase = tight(ts.KindUnionType, first.Pos(), last.End())
	return u
}

func (p *parser) parsePostfixType() ts.TypeNode {
	t := p.parsePrimaryType()
	for p.is("[") && p.peek(1).text == "]" {
		p.next()
		closing := p.next()
		t = &ts.ArrayTypeNode{
			NodeBase: tight(ts.KindArrayType, t.Pos(), closing.end),
			Elem:     t,
		}
	}
	return t
}

func (p *parser) parsePrimaryType() ts.TypeNode {
	t := p.cur()
	switch {
	case t.text == "(":
		if p.looksLikeFunctionType() {
			return p.parseFunctionType()
		}
		open := p.next()
		inner := p.parseType()
		end := p.expect(")").end
		return &ts.ParenTypeNode{
			NodeBase: tight(ts.KindParenType, open.pos, end),
			Inner:    inner,
		}
	case t.text == "{":
		return p.parseTypeLiteral()
	case t.kind == tokString || t.kind == tokNumber || t.text == "true" || t.text == "false":
		p.next()
		return &ts.LiteralTypeNode{
			NodeBase: tight(ts.KindLiteralType, t.pos, t.end),
			Text:     t.text,
		}
	case t.kind == tokIdent:
		if keywordTypes[t.text] && p.peek(1).text != "." {
			p.next()
			return &ts.KeywordTypeNode{
				NodeBase: tight(ts.KindKeywordType, t.pos, t.end),
				Keyword:  t.text,
			}
		}
		name := p.parseEntityName()
		ref := &ts.TypeReferenceNode{Name: name}
		end := name.End()
		if p.is("<") {
			p.next()
			for !p.atEOF() && !p.is(">") {
				ref.TypeArgs = append(ref.TypeArgs, p.parseType())
				if !p.eat(",") {
					break
				}
			}
			end = p.expect(">").end
		}
		ref.NodeBase = tight(ts.KindTypeReference, name.Pos(), end)
		return ref
	}
	p.errorf(t, "unsupported type syntax at %q", t.text)
	p.next()
	return &ts.KeywordTypeNode{
		NodeBase: tight(ts.KindKeywordType, t.pos, t.end),
		Keyword:  "any",
	}
}

// looksLikeFunctionType reports whether the parenthesized group starting at
// the cursor is followed by =>.
func (p *parser) looksLikeFunctionType() bool {
	depth := 0
	for i := p.idx; i < len(p.toks); i++ {
		switch p.toks[i].text {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && p.toks[i+1].text == "=>"
			}
		}
		if p.toks[i].kind == tokEOF {
			break
		}
	}
	return false
}

func (p *parser) parseFunctionType() ts.TypeNode {
	first := p.cur()
	f := &ts.FunctionTypeNode{}
	f.Params = p.parseParams()
	p.expect("=>")
	f.ReturnType = p.parseType()
	f.NodeBase = tight(ts.KindFunctionType, first.pos, f.ReturnType.End())
	return f
}

func (p *parser) parseTypeLiteral() ts.TypeNode {
	open := p.expect("{")
	lit := &ts.TypeLiteralNode{}
	for !p.atEOF() && !p.is("}") {
		if p.eat(";") || p.eat(",") {
			continue
		}
		before := p.idx
		m := p.parseSignatureMember()
		if m == nil {
			break
		}
		lit.Members = append(lit.Members, m)
		if p.idx == before {
			p.next()
		}
	}
	end := p.expect("}").end
	lit.NodeBase = tight(ts.KindTypeLiteral, open.pos, end)
	return lit
}
