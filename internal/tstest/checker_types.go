package tstest

import (
	"strings"

	"github.com/lucidsoftware/tsickle/ts"
)

// TypeFromTypeNode implements ts.Checker.
func (c *checker) TypeFromTypeNode(tn ts.TypeNode) ts.Type {
	if tn == nil {
		return ts.AnyType
	}
	switch v := tn.(type) {
	case *ts.KeywordTypeNode:
		return keywordType(v.Keyword)
	case *ts.ParenTypeNode:
		return c.TypeFromTypeNode(v.Inner)
	case *ts.ArrayTypeNode:
		return &ts.ArrayType{Elem: c.TypeFromTypeNode(v.Elem)}
	case *ts.UnionTypeNode:
		u := &ts.UnionType{}
		for _, m := range v.Types {
			u.Types = append(u.Types, c.TypeFromTypeNode(m))
		}
		return u
	case *ts.LiteralTypeNode:
		return literalType(v.Text)
	case *ts.FunctionTypeNode:
		return c.signatureOf(v.Params, v.ReturnType)
	case *ts.TypeLiteralNode:
		return c.objectOf(v.Members)
	case *ts.TypeReferenceNode:
		return c.referenceType(v)
	}
	return ts.AnyType
}

func keywordType(kw string) ts.Type {
	switch kw {
	case "number":
		return ts.NumberType
	case "string":
		return ts.StringType
	case "boolean":
		return ts.BooleanType
	case "null":
		return ts.NullType
	case "undefined":
		return ts.UndefinedType
	case "void":
		return ts.VoidType
	case "never":
		return ts.NeverType
	case "unknown":
		return ts.UnknownType
	case "object":
		return &ts.PrimitiveType{PrimKind: ts.PrimObject}
	case "symbol":
		return &ts.PrimitiveType{PrimKind: ts.PrimSymbol}
	}
	return ts.AnyType
}

func literalType(text string) ts.Type {
	switch {
	case text == "true" || text == "false":
		return &ts.LiteralType{Base: ts.BooleanType, Text: text}
	case len(text) > 0 && (text[0] == '"' || text[0] == '\'' || text[0] == '`'):
		return &ts.LiteralType{Base: ts.StringType, Text: text}
	default:
		return &ts.LiteralType{Base: ts.NumberType, Text: text}
	}
}

func (c *checker) signatureOf(params []*ts.Parameter, ret ts.TypeNode) *ts.SignatureType {
	sig := &ts.SignatureType{}
	for _, p := range params {
		t := c.TypeFromTypeNode(p.Type)
		if p.Name.Name == "this" {
			sig.This = t
			continue
		}
		sig.Params = append(sig.Params, ts.Param{
			Name:     p.Name.Name,
			Type:     t,
			Optional: p.Optional || p.Init != nil,
			Rest:     p.Rest,
		})
	}
	if ret != nil {
		sig.Return = c.TypeFromTypeNode(ret)
	}
	return sig
}

func (c *checker) objectOf(members []ts.Node) *ts.ObjectType {
	obj := &ts.ObjectType{}
	for _, m := range members {
		switch v := m.(type) {
		case *ts.PropertySignature:
			if v.Name.IsComputed() {
				continue
			}
			obj.Fields = append(obj.Fields, ts.Field{
				Name:     v.Name.Text(),
				Type:     c.TypeFromTypeNode(v.Type),
				Optional: v.Optional,
			})
		case *ts.MethodSignature:
			if v.Name.IsComputed() {
				continue
			}
			obj.Fields = append(obj.Fields, ts.Field{
				Name:     v.Name.Text(),
				Type:     c.signatureOf(v.Params, v.ReturnType),
				Optional: v.Optional,
			})
		case *ts.IndexSignature:
			obj.IndexKey = c.TypeFromTypeNode(v.KeyType)
			obj.IndexValue = c.TypeFromTypeNode(v.Type)
		}
	}
	return obj
}

func (c *checker) referenceType(v *ts.TypeReferenceNode) ts.Type {
	if name, ok := c.typeParamRefs[v]; ok {
		return &ts.TypeParameterType{Name: name}
	}
	if v.NameText() == "Array" && len(v.TypeArgs) == 1 {
		return &ts.ArrayType{Elem: c.TypeFromTypeNode(v.TypeArgs[0])}
	}
	sym := c.SymbolAtLocation(v.Name)
	if sym == nil {
		return ts.AnyType
	}
	if sym.Has(ts.SymEnumMember) {
		if sym.Parent != nil {
			return &ts.EnumMemberType{Enum: c.enumType(sym.Parent), Sym: sym}
		}
		return ts.AnyType
	}
	if sym.Has(ts.SymEnum) {
		return c.enumType(sym)
	}
	var args []ts.Type
	for _, a := range v.TypeArgs {
		args = append(args, c.TypeFromTypeNode(a))
	}
	return &ts.ReferenceType{Sym: sym, TypeArgs: args}
}

func (c *checker) enumType(sym *ts.Symbol) *ts.EnumType {
	if et, ok := c.enumTypes[sym]; ok {
		return et
	}
	base := ts.PrimNumber
	if decl, ok := firstDecl(sym).(*ts.EnumDeclaration); ok {
		f := c.files[c.symFile[sym]]
		strs, nums := 0, 0
		for _, m := range decl.Members {
			if m.Init == nil {
				nums++
				continue
			}
			text := strings.TrimSpace(f.Text[m.Init.Pos():m.Init.End()])
			if len(text) > 0 && (text[0] == '"' || text[0] == '\'' || text[0] == '`') {
				strs++
			} else {
				nums++
			}
		}
		switch {
		case strs > 0 && nums > 0:
			base = ts.PrimAny
		case strs > 0:
			base = ts.PrimString
		}
	}
	et := &ts.EnumType{Sym: sym, MemberBase: base}
	c.enumTypes[sym] = et
	return et
}

func firstDecl(sym *ts.Symbol) ts.Node {
	if len(sym.Decls) == 0 {
		return nil
	}
	return sym.Decls[0]
}

// TypeAtLocation implements ts.Checker.
func (c *checker) TypeAtLocation(n ts.Node) ts.Type {
	switch v := n.(type) {
	case *ts.VariableDeclaration:
		if v.Type != nil {
			return c.TypeFromTypeNode(v.Type)
		}
		return c.inferInit(v.Init)
	case *ts.PropertyDeclaration:
		if v.Type != nil {
			return c.TypeFromTypeNode(v.Type)
		}
		return c.inferInit(v.Init)
	case *ts.FunctionDeclaration:
		return c.signatureOf(v.Params, v.ReturnType)
	case *ts.MethodDeclaration:
		return c.signatureOf(v.Params, v.ReturnType)
	case *ts.EnumDeclaration:
		if sym := c.SymbolAtLocation(v.Name); sym != nil {
			return c.enumType(sym)
		}
	case *ts.ClassDeclaration:
		if sym := c.SymbolAtLocation(v.Name); sym != nil {
			return &ts.ReferenceType{Sym: sym}
		}
	}
	return ts.AnyType
}

// inferInit widens an initializer literal to its primitive type.
func (c *checker) inferInit(init ts.Node) ts.Type {
	if init == nil {
		return ts.AnyType
	}
	f := c.fileOf(init)
	if f == nil {
		return ts.AnyType
	}
	text := strings.TrimSpace(f.Text[init.Pos():init.End()])
	switch {
	case text == "":
		return ts.AnyType
	case text == "true" || text == "false":
		return ts.BooleanType
	case text == "null":
		return ts.NullType
	case text == "undefined":
		return ts.UndefinedType
	case text[0] == '"' || text[0] == '\'' || text[0] == '`':
		return ts.StringType
	case text[0] >= '0' && text[0] <= '9' || (text[0] == '-' && len(text) > 1 && text[1] >= '0' && text[1] <= '9'):
		return ts.NumberType
	}
	return ts.AnyType
}

// TypeOfSymbol implements ts.Checker.
func (c *checker) TypeOfSymbol(sym *ts.Symbol) ts.Type {
	if sym == nil {
		return ts.AnyType
	}
	switch {
	case sym.Has(ts.SymTypeAlias):
		if alias, ok := firstDecl(sym).(*ts.TypeAliasDeclaration); ok {
			return c.TypeFromTypeNode(alias.Type)
		}
	case sym.Has(ts.SymEnum):
		return c.enumType(sym)
	case sym.Has(ts.SymClass) || sym.Has(ts.SymInterface):
		return &ts.ReferenceType{Sym: sym}
	}
	return ts.AnyType
}

// ValueIdentifier implements ts.Checker: the dotted path under which sym is
// reachable as a value from file.
func (c *checker) ValueIdentifier(sym *ts.Symbol, file *ts.SourceFile) (string, bool) {
	if sym == nil || file == nil {
		return "", false
	}
	// walk to the root of the namespace/enum chain
	var path []string
	root := sym
	for root.Parent != nil {
		path = append([]string{root.Name}, path...)
		root = root.Parent
	}

	if c.symFile[root] == file.FileName {
		return strings.Join(append([]string{root.Name}, path...), "."), true
	}

	// imported: find the local binding that reaches root
	for local, b := range c.imports[file.FileName] {
		if b.target == root {
			return strings.Join(append([]string{local}, path...), "."), true
		}
		if b.namespace && b.target != nil {
			if members, ok := c.nsExports[b.target]; ok {
				for name, member := range members {
					if member == root {
						return strings.Join(append([]string{local, name}, path...), "."), true
					}
				}
			}
		}
	}
	return "", false
}
