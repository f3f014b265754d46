// Package ts defines the data model the translation passes consume from the
// host TypeScript compiler: syntax nodes with byte-offset positions, symbols,
// semantic types, and the Checker/Compiler collaborator interfaces.
//
// The package deliberately contains no parsing or checking logic. A host
// produces these values; the passes only read them. Positions always index
// into the owning SourceFile's Text.
package ts

// Node is implemented by every syntax node.
//
// Pos is the start of the node proper; FullPos additionally covers the
// node's leading trivia (comments and whitespace). End is exclusive.
// Children returns the node's syntactic children in source order; ranges of
// siblings never overlap.
type Node interface {
	Kind() Kind
	Pos() int
	FullPos() int
	End() int
	Children() []Node
}

// NodeBase carries the position and trivia information shared by all nodes.
type NodeBase struct {
	NodeKind Kind
	PosOff   int
	FullOff  int
	EndOff   int

	// LeadingComments holds the comments between FullPos and Pos,
	// in source order.
	LeadingComments []Comment
}

// Comment is a single leading comment attached to a node.
type Comment struct {
	Text  string // full text including the comment markers
	Pos   int
	End   int
	JSDoc bool // true for /** ... */ comments
}

func (b *NodeBase) Kind() Kind    { return b.NodeKind }
func (b *NodeBase) Pos() int      { return b.PosOff }
func (b *NodeBase) FullPos() int  { return b.FullOff }
func (b *NodeBase) End() int      { return b.EndOff }
func (b *NodeBase) Children() []Node { return nil }

// JSDocComment returns the last leading JSDoc comment, or nil.
func (b *NodeBase) JSDocComment() *Comment {
	for i := len(b.LeadingComments) - 1; i >= 0; i-- {
		if b.LeadingComments[i].JSDoc {
			return &b.LeadingComments[i]
		}
	}
	return nil
}

// Identifier is a plain name. The checker resolves it to a Symbol.
type Identifier struct {
	NodeBase
	Name string
}

// QualifiedName is a dotted name such as ns.Inner appearing in type position.
type QualifiedName struct {
	NodeBase
	Left  Node // *Identifier or *QualifiedName
	Right *Identifier
}

func (q *QualifiedName) Children() []Node { return []Node{q.Left, q.Right} }

// Text returns the dotted form of the name.
func (q *QualifiedName) Text() string {
	switch l := q.Left.(type) {
	case *Identifier:
		return l.Name + "." + q.Right.Name
	case *QualifiedName:
		return l.Text() + "." + q.Right.Name
	}
	return q.Right.Name
}

// RawExpr is an expression the passes treat as opaque text.
type RawExpr struct {
	NodeBase
}

// Block is a brace-delimited body treated as opaque text.
type Block struct {
	NodeBase
}

// StringLiteral is a quoted string; Value excludes the quotes.
type StringLiteral struct {
	NodeBase
	Value string
}

// CallExpression models calls in the few positions the passes inspect
// (decorator expressions and heritage clauses).
type CallExpression struct {
	NodeBase
	Callee    Node // *Identifier or *QualifiedName
	Arguments []Node
}

func (c *CallExpression) Children() []Node {
	out := []Node{c.Callee}
	out = append(out, c.Arguments...)
	return out
}

// Decorator is an @expr marker on a class, member, or parameter.
type Decorator struct {
	NodeBase
	Expr Node // *Identifier, *QualifiedName, or *CallExpression
}

func (d *Decorator) Children() []Node { return []Node{d.Expr} }

// VariableStatement is var/let/const with one or more declarations.
type VariableStatement struct {
	NodeBase
	Mods    Modifiers
	// KeywordPos is the offset of the var/let/const keyword, after any
	// modifiers.
	KeywordPos int
	Keyword string // "var", "let", or "const"
	Decls   []*VariableDeclaration
}

func (v *VariableStatement) Children() []Node {
	out := make([]Node, len(v.Decls))
	for i, d := range v.Decls {
		out[i] = d
	}
	return out
}

// VariableDeclaration is a single name in a variable statement.
type VariableDeclaration struct {
	NodeBase
	Name *Identifier
	Type TypeNode // may be nil
	Init Node     // may be nil
}

func (v *VariableDeclaration) Children() []Node {
	out := []Node{Node(v.Name)}
	if v.Type != nil {
		out = append(out, v.Type)
	}
	if v.Init != nil {
		out = append(out, v.Init)
	}
	return out
}

// Parameter is a function or constructor parameter.
type Parameter struct {
	NodeBase
	Decorators []*Decorator
	Mods       Modifiers // parameter properties: public/private/protected/readonly
	Name       *Identifier
	Optional   bool
	Rest       bool
	Type       TypeNode // may be nil
	Init       Node     // default value, may be nil
}

func (p *Parameter) Children() []Node {
	var out []Node
	for _, d := range p.Decorators {
		out = append(out, d)
	}
	out = append(out, p.Name)
	if p.Type != nil {
		out = append(out, p.Type)
	}
	if p.Init != nil {
		out = append(out, p.Init)
	}
	return out
}

// TypeParameter is a generic parameter such as T in class C<T>.
type TypeParameter struct {
	NodeBase
	Name       *Identifier
	Constraint TypeNode // may be nil
}

func (t *TypeParameter) Children() []Node {
	out := []Node{Node(t.Name)}
	if t.Constraint != nil {
		out = append(out, t.Constraint)
	}
	return out
}

// FunctionDeclaration is a top-level or namespace-level function.
type FunctionDeclaration struct {
	NodeBase
	Mods       Modifiers
	KeywordPos int
	Name       *Identifier
	TypeParams []*TypeParameter
	Params     []*Parameter
	ReturnType TypeNode // may be nil
	Body       *Block   // nil for overloads and ambients
}

func (f *FunctionDeclaration) Children() []Node {
	out := []Node{Node(f.Name)}
	for _, tp := range f.TypeParams {
		out = append(out, tp)
	}
	for _, p := range f.Params {
		out = append(out, p)
	}
	if f.ReturnType != nil {
		out = append(out, f.ReturnType)
	}
	if f.Body != nil {
		out = append(out, f.Body)
	}
	return out
}

// HeritageClause is an extends or implements clause.
type HeritageClause struct {
	NodeBase
	Keyword string // "extends" or "implements"
	Types   []*ExpressionWithTypeArgs
}

func (h *HeritageClause) Children() []Node {
	out := make([]Node, len(h.Types))
	for i, t := range h.Types {
		out[i] = t
	}
	return out
}

// ExpressionWithTypeArgs is a heritage entry such as Base<string>.
type ExpressionWithTypeArgs struct {
	NodeBase
	Expr     Node // *Identifier or *QualifiedName
	TypeArgs []TypeNode
}

func (e *ExpressionWithTypeArgs) Children() []Node {
	out := []Node{e.Expr}
	for _, a := range e.TypeArgs {
		out = append(out, a)
	}
	return out
}

// ClassDeclaration is a class with its members.
type ClassDeclaration struct {
	NodeBase
	Decorators []*Decorator
	Mods       Modifiers
	KeywordPos int
	Name       *Identifier
	TypeParams []*TypeParameter
	Heritage   []*HeritageClause
	Members    []Node

	// BodyEnd is the offset of the class's closing brace.
	BodyEnd int
}

func (c *ClassDeclaration) Children() []Node {
	var out []Node
	for _, d := range c.Decorators {
		out = append(out, d)
	}
	out = append(out, c.Name)
	for _, tp := range c.TypeParams {
		out = append(out, tp)
	}
	for _, h := range c.Heritage {
		out = append(out, h)
	}
	out = append(out, c.Members...)
	return out
}

// PropertyName is the name of a class or interface member.
type PropertyName struct {
	NodeBase
	// Ident is set for plain names, Literal for quoted names, and
	// Computed for [expr] names. Exactly one is non-nil.
	Ident    *Identifier
	Literal  *StringLiteral
	Computed *RawExpr
}

func (p *PropertyName) Children() []Node {
	switch {
	case p.Ident != nil:
		return []Node{p.Ident}
	case p.Literal != nil:
		return []Node{p.Literal}
	default:
		return []Node{p.Computed}
	}
}

// Text returns the member name, or "" for computed names.
func (p *PropertyName) Text() string {
	switch {
	case p.Ident != nil:
		return p.Ident.Name
	case p.Literal != nil:
		return p.Literal.Value
	}
	return ""
}

// IsComputed reports whether the name is a [computed] name.
func (p *PropertyName) IsComputed() bool { return p.Computed != nil }

// PropertyDeclaration is a class field.
type PropertyDeclaration struct {
	NodeBase
	Decorators []*Decorator
	Mods       Modifiers
	Name       *PropertyName
	Optional   bool
	Type       TypeNode // may be nil
	Init       Node     // may be nil
}

func (p *PropertyDeclaration) Children() []Node {
	var out []Node
	for _, d := range p.Decorators {
		out = append(out, d)
	}
	out = append(out, p.Name)
	if p.Type != nil {
		out = append(out, p.Type)
	}
	if p.Init != nil {
		out = append(out, p.Init)
	}
	return out
}

// MethodDeclaration is a class method or accessor body.
type MethodDeclaration struct {
	NodeBase
	Decorators []*Decorator
	Mods       Modifiers
	Name       *PropertyName
	TypeParams []*TypeParameter
	Params     []*Parameter
	ReturnType TypeNode // may be nil
	Body       *Block   // nil for abstract/overload
	Accessor   string   // "", "get", or "set"
}

func (m *MethodDeclaration) Children() []Node {
	var out []Node
	for _, d := range m.Decorators {
		out = append(out, d)
	}
	out = append(out, m.Name)
	for _, tp := range m.TypeParams {
		out = append(out, tp)
	}
	for _, p := range m.Params {
		out = append(out, p)
	}
	if m.ReturnType != nil {
		out = append(out, m.ReturnType)
	}
	if m.Body != nil {
		out = append(out, m.Body)
	}
	return out
}

// ConstructorDeclaration is a class constructor.
type ConstructorDeclaration struct {
	NodeBase
	Params []*Parameter
	Body   *Block // nil for overloads
}

func (c *ConstructorDeclaration) Children() []Node {
	var out []Node
	for _, p := range c.Params {
		out = append(out, p)
	}
	if c.Body != nil {
		out = append(out, c.Body)
	}
	return out
}

// PropertySignature is an interface or type-literal member.
type PropertySignature struct {
	NodeBase
	Mods     Modifiers
	Name     *PropertyName
	Optional bool
	Type     TypeNode // may be nil
}

func (p *PropertySignature) Children() []Node {
	out := []Node{Node(p.Name)}
	if p.Type != nil {
		out = append(out, p.Type)
	}
	return out
}

// MethodSignature is an interface method member.
type MethodSignature struct {
	NodeBase
	Name       *PropertyName
	Optional   bool
	Params     []*Parameter
	ReturnType TypeNode // may be nil
}

func (m *MethodSignature) Children() []Node {
	out := []Node{Node(m.Name)}
	for _, p := range m.Params {
		out = append(out, p)
	}
	if m.ReturnType != nil {
		out = append(out, m.ReturnType)
	}
	return out
}

// IndexSignature is an interface [key: string]: T member.
type IndexSignature struct {
	NodeBase
	KeyName *Identifier
	KeyType TypeNode
	Type    TypeNode
}

func (s *IndexSignature) Children() []Node {
	return []Node{s.KeyName, s.KeyType, s.Type}
}

// InterfaceDeclaration is an interface with its members.
type InterfaceDeclaration struct {
	NodeBase
	Mods       Modifiers
	Name       *Identifier
	TypeParams []*TypeParameter
	Heritage   []*HeritageClause
	Members    []Node
}

func (i *InterfaceDeclaration) Children() []Node {
	out := []Node{Node(i.Name)}
	for _, tp := range i.TypeParams {
		out = append(out, tp)
	}
	for _, h := range i.Heritage {
		out = append(out, h)
	}
	out = append(out, i.Members...)
	return out
}

// EnumMember is a single name in an enum declaration.
type EnumMember struct {
	NodeBase
	Name *PropertyName
	Init Node // may be nil
}

func (m *EnumMember) Children() []Node {
	out := []Node{Node(m.Name)}
	if m.Init != nil {
		out = append(out, m.Init)
	}
	return out
}

// EnumDeclaration is an enum with its members.
type EnumDeclaration struct {
	NodeBase
	Mods    Modifiers
	KeywordPos int
	Name    *Identifier
	Members []*EnumMember
}

func (e *EnumDeclaration) Children() []Node {
	out := []Node{Node(e.Name)}
	for _, m := range e.Members {
		out = append(out, m)
	}
	return out
}

// TypeAliasDeclaration is a type X = T declaration.
type TypeAliasDeclaration struct {
	NodeBase
	Mods       Modifiers
	Name       *Identifier
	TypeParams []*TypeParameter
	Type       TypeNode
}

func (t *TypeAliasDeclaration) Children() []Node {
	out := []Node{Node(t.Name)}
	for _, tp := range t.TypeParams {
		out = append(out, tp)
	}
	out = append(out, t.Type)
	return out
}

// ModuleDeclaration is a namespace or declare-module block.
type ModuleDeclaration struct {
	NodeBase
	Mods Modifiers
	Name string // dotted for namespace a.b, quoted specifier for declare module
	Body []Node
}

func (m *ModuleDeclaration) Children() []Node { return m.Body }

// ImportSpecifier is one binding of a named import clause.
type ImportSpecifier struct {
	NodeBase
	Name         *Identifier // local name
	PropertyName *Identifier // original exported name when renamed, else nil
}

func (s *ImportSpecifier) Children() []Node {
	if s.PropertyName != nil {
		return []Node{s.PropertyName, s.Name}
	}
	return []Node{s.Name}
}

// ImportDeclaration is an import statement.
type ImportDeclaration struct {
	NodeBase
	DefaultName   *Identifier        // import X from ...
	NamespaceName *Identifier        // import * as X from ...
	Named         []*ImportSpecifier // import {a, b as c} from ...
	Specifier     *StringLiteral     // the module specifier; nil never
}

func (i *ImportDeclaration) Children() []Node {
	var out []Node
	if i.DefaultName != nil {
		out = append(out, i.DefaultName)
	}
	if i.NamespaceName != nil {
		out = append(out, i.NamespaceName)
	}
	for _, s := range i.Named {
		out = append(out, s)
	}
	out = append(out, i.Specifier)
	return out
}

// ExportDeclaration is an export {...} or export * statement.
type ExportDeclaration struct {
	NodeBase
	Star      bool
	Named     []*ImportSpecifier
	Specifier *StringLiteral // nil for local export {a, b}
}

func (e *ExportDeclaration) Children() []Node {
	var out []Node
	for _, s := range e.Named {
		out = append(out, s)
	}
	if e.Specifier != nil {
		out = append(out, e.Specifier)
	}
	return out
}
