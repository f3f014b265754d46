package ts

// Type is a semantic type produced by the checker.
type Type interface {
	isType()
}

// PrimitiveKind enumerates the built-in primitive types.
type PrimitiveKind int

const (
	PrimAny PrimitiveKind = iota
	PrimUnknown
	PrimNumber
	PrimString
	PrimBoolean
	PrimNull
	PrimUndefined
	PrimVoid
	PrimNever
	PrimObject
	PrimSymbol
)

// PrimitiveType is one of the built-in primitives.
type PrimitiveType struct {
	PrimKind PrimitiveKind
}

func (*PrimitiveType) isType() {}

// Convenience singletons for the common primitives.
var (
	AnyType       = &PrimitiveType{PrimAny}
	UnknownType   = &PrimitiveType{PrimUnknown}
	NumberType    = &PrimitiveType{PrimNumber}
	StringType    = &PrimitiveType{PrimString}
	BooleanType   = &PrimitiveType{PrimBoolean}
	NullType      = &PrimitiveType{PrimNull}
	UndefinedType = &PrimitiveType{PrimUndefined}
	VoidType      = &PrimitiveType{PrimVoid}
	NeverType     = &PrimitiveType{PrimNever}
)

// LiteralType is a literal in type position, widened to its base primitive
// for translation purposes.
type LiteralType struct {
	Base *PrimitiveType
	Text string
}

func (*LiteralType) isType() {}

// UnionType is a union of member types.
type UnionType struct {
	Types []Type
}

func (*UnionType) isType() {}

// ArrayType is an array with element type Elem.
type ArrayType struct {
	Elem Type
}

func (*ArrayType) isType() {}

// Field is one member of an ObjectType.
type Field struct {
	Name     string
	Type     Type
	Optional bool
}

// ObjectType is a structural object type.
type ObjectType struct {
	Fields []Field

	// IndexKey and IndexValue are set when the type carries an index
	// signature.
	IndexKey   Type
	IndexValue Type
}

func (*ObjectType) isType() {}

// Param is one parameter of a SignatureType.
type Param struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// SignatureType is a function type.
type SignatureType struct {
	Params []Param
	This   Type // may be nil
	Return Type // may be nil, meaning void
}

func (*SignatureType) isType() {}

// ReferenceType is a reference to a named class, interface, enum, or alias.
type ReferenceType struct {
	Sym      *Symbol
	TypeArgs []Type
}

func (*ReferenceType) isType() {}

// TypeParameterType is a generic type parameter in scope.
type TypeParameterType struct {
	Name string
}

func (*TypeParameterType) isType() {}

// EnumType is the type of an enum object.
type EnumType struct {
	Sym *Symbol

	// MemberBase is PrimNumber or PrimString depending on the members'
	// initializers; any other kind (such as PrimAny) marks an enum that
	// mixes string and number members.
	MemberBase PrimitiveKind
}

func (*EnumType) isType() {}

// EnumMemberType is the type of a single enum member.
type EnumMemberType struct {
	Enum *EnumType
	Sym  *Symbol
}

func (*EnumMemberType) isType() {}
