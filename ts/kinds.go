package ts

// Kind identifies the syntactic construct a Node represents.
type Kind int

const (
	KindUnknown Kind = iota
	KindSourceFile
	KindIdentifier
	KindQualifiedName
	KindRawExpr
	KindBlock
	KindVariableStatement
	KindVariableDeclaration
	KindFunctionDeclaration
	KindClassDeclaration
	KindInterfaceDeclaration
	KindEnumDeclaration
	KindEnumMember
	KindTypeAliasDeclaration
	KindModuleDeclaration
	KindImportDeclaration
	KindExportDeclaration
	KindExportAssignment
	KindPropertyDeclaration
	KindPropertySignature
	KindMethodDeclaration
	KindMethodSignature
	KindConstructor
	KindGetAccessor
	KindSetAccessor
	KindIndexSignature
	KindParameter
	KindTypeParameter
	KindDecorator
	KindCallExpression
	KindHeritageClause
	KindExpressionWithTypeArgs
	KindComputedPropertyName
	KindStringLiteral

	// Syntactic type nodes.
	KindKeywordType
	KindTypeReference
	KindArrayType
	KindUnionType
	KindFunctionType
	KindTypeLiteral
	KindParenType
	KindLiteralType
	KindIndexSignatureType
)

var kindNames = map[Kind]string{
	KindUnknown:                "Unknown",
	KindSourceFile:             "SourceFile",
	KindIdentifier:             "Identifier",
	KindQualifiedName:          "QualifiedName",
	KindRawExpr:                "RawExpr",
	KindBlock:                  "Block",
	KindVariableStatement:      "VariableStatement",
	KindVariableDeclaration:    "VariableDeclaration",
	KindFunctionDeclaration:    "FunctionDeclaration",
	KindClassDeclaration:       "ClassDeclaration",
	KindInterfaceDeclaration:   "InterfaceDeclaration",
	KindEnumDeclaration:        "EnumDeclaration",
	KindEnumMember:             "EnumMember",
	KindTypeAliasDeclaration:   "TypeAliasDeclaration",
	KindModuleDeclaration:      "ModuleDeclaration",
	KindImportDeclaration:      "ImportDeclaration",
	KindExportDeclaration:      "ExportDeclaration",
	KindExportAssignment:       "ExportAssignment",
	KindPropertyDeclaration:    "PropertyDeclaration",
	KindPropertySignature:      "PropertySignature",
	KindMethodDeclaration:      "MethodDeclaration",
	KindMethodSignature:        "MethodSignature",
	KindConstructor:            "Constructor",
	KindGetAccessor:            "GetAccessor",
	KindSetAccessor:            "SetAccessor",
	KindIndexSignature:         "IndexSignature",
	KindParameter:              "Parameter",
	KindTypeParameter:          "TypeParameter",
	KindDecorator:              "Decorator",
	KindCallExpression:         "CallExpression",
	KindHeritageClause:         "HeritageClause",
	KindExpressionWithTypeArgs: "ExpressionWithTypeArgs",
	KindComputedPropertyName:   "ComputedPropertyName",
	KindStringLiteral:          "StringLiteral",
	KindKeywordType:            "KeywordType",
	KindTypeReference:          "TypeReference",
	KindArrayType:              "ArrayType",
	KindUnionType:              "UnionType",
	KindFunctionType:           "FunctionType",
	KindTypeLiteral:            "TypeLiteral",
	KindParenType:              "ParenType",
	KindLiteralType:            "LiteralType",
	KindIndexSignatureType:     "IndexSignatureType",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Modifiers is a bit set of declaration modifiers.
type Modifiers uint32

const (
	ModExport Modifiers = 1 << iota
	ModDeclare
	ModDefault
	ModAbstract
	ModStatic
	ModReadonly
	ModPublic
	ModPrivate
	ModProtected
	ModConst
)

// Has reports whether all bits of m2 are set.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }
