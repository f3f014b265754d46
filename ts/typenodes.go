package ts

// TypeNode is a syntactic type annotation. The checker maps type nodes to
// semantic Types; the passes keep the node around for position context.
type TypeNode interface {
	Node
	isTypeNode()
}

// KeywordTypeNode is a predefined type keyword: number, string, boolean,
// any, unknown, void, null, undefined, never, object, symbol.
type KeywordTypeNode struct {
	NodeBase
	Keyword string
}

func (*KeywordTypeNode) isTypeNode() {}

// TypeReferenceNode is a reference to a named type, possibly instantiated.
type TypeReferenceNode struct {
	NodeBase
	Name     Node // *Identifier or *QualifiedName
	TypeArgs []TypeNode
}

func (*TypeReferenceNode) isTypeNode() {}

func (t *TypeReferenceNode) Children() []Node {
	out := []Node{t.Name}
	for _, a := range t.TypeArgs {
		out = append(out, a)
	}
	return out
}

// NameText returns the dotted text of the referenced name.
func (t *TypeReferenceNode) NameText() string {
	switch n := t.Name.(type) {
	case *Identifier:
		return n.Name
	case *QualifiedName:
		return n.Text()
	}
	return ""
}

// ArrayTypeNode is T[].
type ArrayTypeNode struct {
	NodeBase
	Elem TypeNode
}

func (*ArrayTypeNode) isTypeNode() {}

func (t *ArrayTypeNode) Children() []Node { return []Node{t.Elem} }

// UnionTypeNode is A | B | C.
type UnionTypeNode struct {
	NodeBase
	Types []TypeNode
}

func (*UnionTypeNode) isTypeNode() {}

func (t *UnionTypeNode) Children() []Node {
	out := make([]Node, len(t.Types))
	for i, u := range t.Types {
		out[i] = u
	}
	return out
}

// FunctionTypeNode is (a: X) => R.
type FunctionTypeNode struct {
	NodeBase
	Params     []*Parameter
	ReturnType TypeNode
}

func (*FunctionTypeNode) isTypeNode() {}

func (t *FunctionTypeNode) Children() []Node {
	var out []Node
	for _, p := range t.Params {
		out = append(out, p)
	}
	if t.ReturnType != nil {
		out = append(out, t.ReturnType)
	}
	return out
}

// TypeLiteralNode is an inline object type {a: X, b?: Y}.
type TypeLiteralNode struct {
	NodeBase
	Members []Node // *PropertySignature, *MethodSignature, *IndexSignature
}

func (*TypeLiteralNode) isTypeNode() {}

func (t *TypeLiteralNode) Children() []Node { return t.Members }

// ParenTypeNode is a parenthesized type.
type ParenTypeNode struct {
	NodeBase
	Inner TypeNode
}

func (*ParenTypeNode) isTypeNode() {}

func (t *ParenTypeNode) Children() []Node { return []Node{t.Inner} }

// LiteralTypeNode is a literal in type position: "a", 1, true.
type LiteralTypeNode struct {
	NodeBase
	Text string
}

func (*LiteralTypeNode) isTypeNode() {}
