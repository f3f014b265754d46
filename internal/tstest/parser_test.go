package tstest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidsoftware/tsickle/ts"
)

func parse(t *testing.T, src string) *ts.SourceFile {
	t.Helper()
	f, diags := parseFile("input.ts", src)
	require.False(t, ts.HasErrors(diags), "parse diagnostics: %v", diags)
	return f
}

func TestParseFile_NodeSpansMatchSource(t *testing.T) {
	src := "var a: number = 1;\nclass C {\n  go(x: string): void {\n  }\n}\n"
	f := parse(t, src)
	require.Len(t, f.Statements, 2)

	stmt := f.Statements[0].(*ts.VariableStatement)
	assert.Equal(t, "var a: number = 1;", f.Text[stmt.Pos():stmt.End()])
	assert.Equal(t, "var", src[stmt.KeywordPos:stmt.KeywordPos+3])
	require.Len(t, stmt.Decls, 1)
	assert.Equal(t, "a", stmt.Decls[0].Name.Name)

	cls := f.Statements[1].(*ts.ClassDeclaration)
	assert.Equal(t, "C", cls.Name.Name)
	assert.Equal(t, byte('}'), src[cls.BodyEnd])
	require.Len(t, cls.Members, 1)
	m := cls.Members[0].(*ts.MethodDeclaration)
	assert.Equal(t, "go", m.Name.Text())
	require.Len(t, m.Params, 1)
	assert.Equal(t, "x", m.Params[0].Name.Name)
}

func TestParseFile_LeadingCommentsAttach(t *testing.T) {
	src := "/** @Annotation */\nfunction Dec(): any {\n  return null;\n}\n"
	f := parse(t, src)
	fn := f.Statements[0].(*ts.FunctionDeclaration)
	doc := fn.JSDocComment()
	require.NotNil(t, doc)
	assert.Contains(t, doc.Text, "@Annotation")
	assert.True(t, doc.JSDoc)
	assert.Equal(t, 0, fn.FullPos())
	assert.Greater(t, fn.Pos(), doc.End-1)
}

func TestParseFile_DecoratedClass(t *testing.T) {
	src := "@Component({x: 1})\nclass X {\n  constructor(@Inject() a: Svc, b) {\n  }\n}\n"
	f := parse(t, src)
	cls := f.Statements[0].(*ts.ClassDeclaration)
	require.Len(t, cls.Decorators, 1)
	call := cls.Decorators[0].Expr.(*ts.CallExpression)
	assert.Equal(t, "Component", call.Callee.(*ts.Identifier).Name)
	require.Len(t, call.Arguments, 1)
	assert.Equal(t, "{x: 1}", f.NodeText(call.Arguments[0]))

	ctor := cls.Members[0].(*ts.ConstructorDeclaration)
	require.Len(t, ctor.Params, 2)
	assert.Len(t, ctor.Params[0].Decorators, 1)
	assert.Nil(t, ctor.Params[1].Type)
}

func TestParseFile_TypeSyntax(t *testing.T) {
	src := "var f: (a: number, b?: string) => boolean;\nvar u: string | null;\nvar arr: number[];\nvar o: {a: number, b?: string};\n"
	f := parse(t, src)
	require.Len(t, f.Statements, 4)

	fn := f.Statements[0].(*ts.VariableStatement).Decls[0].Type.(*ts.FunctionTypeNode)
	assert.Len(t, fn.Params, 2)
	assert.True(t, fn.Params[1].Optional)

	union := f.Statements[1].(*ts.VariableStatement).Decls[0].Type.(*ts.UnionTypeNode)
	assert.Len(t, union.Types, 2)

	_, isArray := f.Statements[2].(*ts.VariableStatement).Decls[0].Type.(*ts.ArrayTypeNode)
	assert.True(t, isArray)

	obj := f.Statements[3].(*ts.VariableStatement).Decls[0].Type.(*ts.TypeLiteralNode)
	assert.Len(t, obj.Members, 2)
}

func TestChecker_ResolvesAcrossFiles(t *testing.T) {
	c := NewCompiler()
	dep, _ := c.Parse("dep.ts", "export class Thing {\n}\n")
	main, _ := c.Parse("main.ts", "import {Thing} from './dep';\nvar t: Thing = null;\n")
	checker, _ := c.Check([]*ts.SourceFile{dep, main})

	decl := main.Statements[1].(*ts.VariableStatement).Decls[0]
	ref, ok := checker.TypeAtLocation(decl).(*ts.ReferenceType)
	require.True(t, ok, "expected a reference type")
	assert.Equal(t, "Thing", ref.Sym.Name)

	name, ok := checker.ValueIdentifier(ref.Sym, main)
	require.True(t, ok)
	assert.Equal(t, "Thing", name)
}

func TestChecker_TypeParamsResolveByName(t *testing.T) {
	c := NewCompiler()
	f, _ := c.Parse("g.ts", "function id<T>(x: T): T {\n  return x;\n}\n")
	checker, _ := c.Check([]*ts.SourceFile{f})
	fn := f.Statements[0].(*ts.FunctionDeclaration)
	tp, ok := checker.TypeFromTypeNode(fn.Params[0].Type).(*ts.TypeParameterType)
	require.True(t, ok, "expected a type parameter type")
	assert.Equal(t, "T", tp.Name)
}

func TestEmitJS(t *testing.T) {
	c := NewCompiler()
	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{
			name: "types erased from vars",
			src:  "var a: number = 1;\n",
			want: []string{"var a = 1;"},
			notWant: []string{
				": number",
			},
		},
		{
			name:    "export produces exports assignment",
			src:     "export var a = 1;\n",
			want:    []string{"var a = 1;", "exports.a = a;"},
		},
		{
			name:    "interface disappears",
			src:     "interface I {\n  x: string;\n}\nvar v = 2;\n",
			want:    []string{"var v = 2;"},
			notWant: []string{"interface"},
		},
		{
			name:    "namespace import becomes require",
			src:     "import * as dep from './dep';\nexport var x = 1;\n",
			want:    []string{"var dep = require('./dep');"},
			notWant: []string{"import"},
		},
		{
			name: "class keeps jsdoc on members",
			src:  "class C {\n  /** stays */\n  go(a: string): void {\n  }\n}\n",
			want: []string{"class C {", "/** stays */", "go(a) {"},
		},
		{
			name: "enum lowers to object literal",
			src:  "export enum Color {\n  Red,\n  Green\n}\n",
			want: []string{"var Color = { Red: 0, Green: 1 };", "exports.Color = Color;"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, diags := c.Parse("input.ts", tt.src)
			require.False(t, ts.HasErrors(diags))
			checker, _ := c.Check([]*ts.SourceFile{f})
			out, err := c.EmitJS(f, checker)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, out, notWant)
			}
		})
	}
}
