package typetranslator

import (
	"testing"

	"github.com/lucidsoftware/tsickle/ts"
)

// fakeChecker resolves symbols from fixed tables.
type fakeChecker struct {
	values  map[*ts.Symbol]string
	targets map[*ts.Symbol]ts.Type
}

func (f *fakeChecker) TypeAtLocation(ts.Node) ts.Type          { return ts.AnyType }
func (f *fakeChecker) TypeFromTypeNode(ts.TypeNode) ts.Type    { return ts.AnyType }
func (f *fakeChecker) SymbolAtLocation(ts.Node) *ts.Symbol     { return nil }
func (f *fakeChecker) TypeOfSymbol(sym *ts.Symbol) ts.Type {
	if t, ok := f.targets[sym]; ok {
		return t
	}
	return ts.AnyType
}
func (f *fakeChecker) ValueIdentifier(sym *ts.Symbol, _ *ts.SourceFile) (string, bool) {
	name, ok := f.values[sym]
	return name, ok
}

func newTestTranslator(checker ts.Checker, untyped bool) *Translator {
	file := &ts.SourceFile{FileName: "test.ts"}
	if checker == nil {
		checker = &fakeChecker{}
	}
	return New(file, checker, Options{Untyped: untyped})
}

func TestTranslate_Primitives(t *testing.T) {
	tests := []struct {
		name string
		typ  ts.Type
		want string
	}{
		{"number", ts.NumberType, "number"},
		{"string", ts.StringType, "string"},
		{"boolean", ts.BooleanType, "boolean"},
		{"null", ts.NullType, "null"},
		{"undefined", ts.UndefinedType, "undefined"},
		{"void", ts.VoidType, "void"},
		{"any", ts.AnyType, "?"},
		{"unknown", ts.UnknownType, "?"},
		{"never", ts.NeverType, "?"},
		{"nil type", nil, "?"},
		{"string literal", &ts.LiteralType{Base: ts.StringType, Text: `"a"`}, "string"},
		{"number literal", &ts.LiteralType{Base: ts.NumberType, Text: "1"}, "number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(nil, false)
			if got := tr.Translate(tt.typ); got != tt.want {
				t.Errorf("Translate(%s) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestTranslate_Compound(t *testing.T) {
	tests := []struct {
		name string
		typ  ts.Type
		want string
	}{
		{
			name: "array",
			typ:  &ts.ArrayType{Elem: ts.StringType},
			want: "!Array<string>",
		},
		{
			name: "nullable union is parenthesized",
			typ:  &ts.UnionType{Types: []ts.Type{ts.StringType, ts.NullType}},
			want: "(string|null)",
		},
		{
			name: "single member union collapses",
			typ:  &ts.UnionType{Types: []ts.Type{ts.NumberType}},
			want: "number",
		},
		{
			name: "union with any absorbs",
			typ:  &ts.UnionType{Types: []ts.Type{ts.NumberType, ts.AnyType}},
			want: "?",
		},
		{
			name: "record with optional member",
			typ: &ts.ObjectType{Fields: []ts.Field{
				{Name: "a", Type: ts.NumberType},
				{Name: "b", Type: ts.StringType, Optional: true},
			}},
			want: "{a: number, b: (string|undefined)}",
		},
		{
			name: "index signature",
			typ:  &ts.ObjectType{IndexKey: ts.StringType, IndexValue: ts.NumberType},
			want: "!Object<string,number>",
		},
		{
			name: "function with optional param",
			typ: &ts.SignatureType{
				Params: []ts.Param{
					{Name: "a", Type: ts.NumberType},
					{Name: "b", Type: ts.StringType, Optional: true},
				},
				Return: ts.BooleanType,
			},
			want: "function(number, (string|undefined)): boolean",
		},
		{
			name: "function with this type",
			typ: &ts.SignatureType{
				This:   ts.StringType,
				Params: []ts.Param{{Name: "n", Type: ts.NumberType}},
			},
			want: "function(this: string, number): void",
		},
		{
			name: "rest param",
			typ: &ts.SignatureType{
				Params: []ts.Param{{Name: "xs", Type: ts.NumberType, Rest: true}},
			},
			want: "function(...number): void",
		},
		{
			name: "type parameter by name",
			typ:  &ts.TypeParameterType{Name: "T"},
			want: "T",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(nil, false)
			if got := tr.Translate(tt.typ); got != tt.want {
				t.Errorf("Translate(%s) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestTranslate_References(t *testing.T) {
	classSym := &ts.Symbol{Name: "C", Flags: ts.SymClass | ts.SymValue | ts.SymType}
	ifaceSym := &ts.Symbol{Name: "I", Flags: ts.SymInterface | ts.SymType}
	hiddenSym := &ts.Symbol{Name: "Gone", Flags: ts.SymClass | ts.SymType}
	checker := &fakeChecker{values: map[*ts.Symbol]string{
		classSym: "C",
		ifaceSym: "I",
	}}

	tests := []struct {
		name string
		typ  ts.Type
		want string
	}{
		{
			name: "class reference is non-null",
			typ:  &ts.ReferenceType{Sym: classSym},
			want: "!C",
		},
		{
			name: "interface reference is non-null",
			typ:  &ts.ReferenceType{Sym: ifaceSym},
			want: "!I",
		},
		{
			name: "instantiated reference",
			typ:  &ts.ReferenceType{Sym: classSym, TypeArgs: []ts.Type{ts.StringType}},
			want: "!C<string>",
		},
		{
			name: "symbol without value degrades",
			typ:  &ts.ReferenceType{Sym: hiddenSym},
			want: "?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTranslator(checker, false)
			if got := tr.Translate(tt.typ); got != tt.want {
				t.Errorf("Translate(%s) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestTranslate_AliasExpansion(t *testing.T) {
	aliasSym := &ts.Symbol{Name: "MyType", Flags: ts.SymTypeAlias | ts.SymType}
	checker := &fakeChecker{targets: map[*ts.Symbol]ts.Type{
		aliasSym: ts.NumberType,
	}}
	tr := newTestTranslator(checker, false)
	if got := tr.Translate(&ts.ReferenceType{Sym: aliasSym}); got != "number" {
		t.Errorf("alias reference must expand to its target, got %q", got)
	}
}

func TestTranslateAlias_RecursionBreaksToUnknown(t *testing.T) {
	aliasSym := &ts.Symbol{Name: "R", Flags: ts.SymTypeAlias | ts.SymType}
	// type R = {value: number, next: R}
	target := &ts.ObjectType{Fields: []ts.Field{
		{Name: "value", Type: ts.NumberType},
		{Name: "next", Type: &ts.ReferenceType{Sym: aliasSym}},
	}}
	checker := &fakeChecker{targets: map[*ts.Symbol]ts.Type{aliasSym: target}}
	tr := newTestTranslator(checker, false)
	if got := tr.TranslateAlias(aliasSym, target); got != "{value: number, next: ?}" {
		t.Errorf("recursive alias = %q, want recursion broken with ?", got)
	}
}

func TestTranslate_MutualAliasRecursionTerminates(t *testing.T) {
	aSym := &ts.Symbol{Name: "A", Flags: ts.SymTypeAlias | ts.SymType}
	bSym := &ts.Symbol{Name: "B", Flags: ts.SymTypeAlias | ts.SymType}
	checker := &fakeChecker{targets: map[*ts.Symbol]ts.Type{}}
	checker.targets[aSym] = &ts.ObjectType{Fields: []ts.Field{{Name: "b", Type: &ts.ReferenceType{Sym: bSym}}}}
	checker.targets[bSym] = &ts.ObjectType{Fields: []ts.Field{{Name: "a", Type: &ts.ReferenceType{Sym: aSym}}}}
	tr := newTestTranslator(checker, false)
	if got := tr.Translate(&ts.ReferenceType{Sym: aSym}); got != "{b: {a: ?}}" {
		t.Errorf("mutual recursion = %q, want {b: {a: ?}}", got)
	}
}

func TestTranslate_UntypedModeIsAlwaysUnknown(t *testing.T) {
	tr := newTestTranslator(nil, true)
	inputs := []ts.Type{
		ts.NumberType,
		&ts.ArrayType{Elem: ts.StringType},
		&ts.SignatureType{Return: ts.BooleanType},
		nil,
	}
	for _, typ := range inputs {
		if got := tr.Translate(typ); got != "?" {
			t.Errorf("untyped Translate(%T) = %q, want ?", typ, got)
		}
	}
}

func TestTranslate_WarningsAccumulate(t *testing.T) {
	checker := &fakeChecker{}
	tr := newTestTranslator(checker, false)
	sym := &ts.Symbol{Name: "Invisible", Flags: ts.SymClass}
	tr.Translate(&ts.ReferenceType{Sym: sym})
	if len(tr.Warnings()) != 1 {
		t.Fatalf("warnings = %v, want one degradation warning", tr.Warnings())
	}
}
