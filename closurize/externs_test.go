package closurize_test

import (
	"strings"
	"testing"

	"github.com/lucidsoftware/tsickle/closurize"
	"github.com/lucidsoftware/tsickle/internal/tstest"
	"github.com/lucidsoftware/tsickle/ts"
)

func collectExterns(t *testing.T, files map[string]string) (*closurize.ExternsCollector, string) {
	t.Helper()
	compiler := tstest.NewCompiler()
	var parsed []*ts.SourceFile
	for name, src := range files {
		f, diags := compiler.Parse(name, src)
		if ts.HasErrors(diags) {
			t.Fatalf("parse %s: %v", name, diags)
		}
		parsed = append(parsed, f)
	}
	checker, _ := compiler.Check(parsed)
	c := closurize.NewExternsCollector(closurize.Options{})
	for _, f := range parsed {
		c.Process(f, checker)
	}
	return c, c.Externs()
}

func TestExterns(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "declared var",
			src:  "declare var jQuery: any;\n",
			want: []string{"/** @type {?} */", "var jQuery;"},
		},
		{
			name: "declared function with params",
			src:  "declare function greet(name: string, loud?: boolean): string;\n",
			want: []string{
				"@param {string} name",
				"@param {boolean=} loud",
				"@return {string}",
				"function greet(name, loud) {}",
			},
		},
		{
			name: "declared class skeleton",
			src:  "declare class Widget {\n  id: number;\n  render(depth: number): void;\n}\n",
			want: []string{
				"/** @constructor */",
				"function Widget() {}",
				"/** @type {number} */ Widget.prototype.id;",
				"/** @type {function(number): void} */ Widget.prototype.render;",
			},
		},
		{
			name: "declared interface is a record",
			src:  "declare interface Options {\n  depth?: number;\n}\n",
			want: []string{
				"/** @record */",
				"function Options() {}",
				"/** @type {(number|undefined)} */ Options.prototype.depth;",
			},
		},
		{
			name: "namespace collapses to dotted names",
			src:  "declare namespace ns1.ns2 {\n  var flag: boolean;\n  class C {\n  }\n}\n",
			want: []string{
				"/** @const */ var ns1 = {};",
				"/** @const */ ns1.ns2 = {};",
				"ns1.ns2.flag;",
				"ns1.ns2.C = function() {};",
			},
		},
		{
			name: "declared enum",
			src:  "declare enum Level {\n  Low,\n  High\n}\n",
			want: []string{"/** @enum {number} */", "var Level = {};", "Level.Low;", "Level.High;"},
		},
		{
			name: "type alias becomes typedef",
			src:  "declare type Callback = (err: string) => void;\n",
			want: []string{"@typedef {function(string): void}", "var Callback;"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, externs := collectExterns(t, map[string]string{"input.d.ts": tt.src})
			if !strings.Contains(externs, "@externs") {
				t.Errorf("externs output missing the @externs header:\n%s", externs)
			}
			for _, want := range tt.want {
				if !strings.Contains(externs, want) {
					t.Errorf("externs missing %q:\n%s", want, externs)
				}
			}
		})
	}
}

func TestExterns_NonAmbientStatementsIgnoredOutsideDts(t *testing.T) {
	_, externs := collectExterns(t, map[string]string{
		"app.ts": "var local = 1;\ndeclare var ambient: number;\n",
	})
	if strings.Contains(externs, "local") {
		t.Errorf("non-ambient declarations must not reach externs:\n%s", externs)
	}
	if !strings.Contains(externs, "var ambient;") {
		t.Errorf("declare-marked statements must reach externs:\n%s", externs)
	}
}

func TestExterns_DedupAcrossFiles(t *testing.T) {
	c, externs := collectExterns(t, map[string]string{
		"a.d.ts": "declare var shared: number;\n",
		"b.d.ts": "declare var shared: number;\n",
	})
	if got := strings.Count(externs, "var shared;"); got != 1 {
		t.Errorf("duplicate externs must collapse, found %d:\n%s", got, externs)
	}
	if len(c.Diagnostics()) != 0 {
		t.Errorf("identical redefinition is not a conflict: %v", c.Diagnostics())
	}
}

func TestExterns_ConflictKeepsFirstAndReports(t *testing.T) {
	compiler := tstest.NewCompiler()
	a, _ := compiler.Parse("a.d.ts", "declare var shared: number;\n")
	b, _ := compiler.Parse("b.d.ts", "declare var shared: string;\n")
	checker, _ := compiler.Check([]*ts.SourceFile{a, b})
	c := closurize.NewExternsCollector(closurize.Options{})
	c.Process(a, checker)
	c.Process(b, checker)
	externs := c.Externs()
	if !strings.Contains(externs, "@type {number}") || strings.Contains(externs, "@type {string}") {
		t.Errorf("first definition must win:\n%s", externs)
	}
	if len(c.Diagnostics()) != 1 {
		t.Fatalf("diags = %v, want one conflict report", c.Diagnostics())
	}
}

func TestExterns_EmptyWhenNothingAmbient(t *testing.T) {
	_, externs := collectExterns(t, map[string]string{"app.ts": "var x = 1;\n"})
	if externs != "" {
		t.Errorf("no ambient input must produce empty externs, got:\n%s", externs)
	}
}
