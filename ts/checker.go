package ts

// Checker exposes the host type-checker to the translation passes.
//
// Every method is total: unknown or unresolvable constructs come back as
// the any type or a nil symbol, never as a panic.
type Checker interface {
	// TypeAtLocation returns the semantic type of a declaration or
	// expression node.
	TypeAtLocation(n Node) Type

	// TypeFromTypeNode resolves a syntactic type annotation.
	TypeFromTypeNode(t TypeNode) Type

	// SymbolAtLocation resolves an identifier or name to its symbol, or
	// nil when resolution fails.
	SymbolAtLocation(n Node) *Symbol

	// TypeOfSymbol returns the type a symbol declares: the target type
	// for type aliases, the instance type for classes and interfaces.
	TypeOfSymbol(sym *Symbol) Type

	// ValueIdentifier returns the identifier path under which sym is
	// reachable as a value from file: the in-file name for local
	// declarations, the local import alias for imported symbols. ok is
	// false when the symbol is not visible as a value in the emitted JS.
	ValueIdentifier(sym *Symbol, file *SourceFile) (name string, ok bool)
}

// Compiler is the host compiler: it parses, checks, and emits CommonJS.
// Parsing and type inference are entirely its concern.
type Compiler interface {
	Parse(fileName, text string) (*SourceFile, []Diagnostic)
	Check(files []*SourceFile) (Checker, []Diagnostic)

	// EmitJS lowers one checked file to CommonJS JavaScript.
	EmitJS(file *SourceFile, checker Checker) (string, error)
}
