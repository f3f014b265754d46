package es5processor

import (
	"strings"
	"testing"

	"github.com/lucidsoftware/tsickle/ts"
)

// testHost maps specifiers through a fixed table and derives module ids by
// replacing slashes with dots.
type testHost struct {
	modules map[string]string
}

func (h *testHost) PathToModuleName(context, specifier string) (string, bool) {
	name, ok := h.modules[specifier]
	return name, ok
}

func (h *testHost) FileNameToModuleID(fileName string) string {
	name := strings.TrimSuffix(fileName, ".js")
	return strings.ReplaceAll(name, "/", ".")
}

func convert(t *testing.T, fileName, input string, modules map[string]string) Result {
	t.Helper()
	return Process(&testHost{modules: modules}, fileName, input, nil, nil)
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		input   string
		modules map[string]string
		want    []string
		notWant []string
	}{
		{
			name:    "module header",
			file:    "pkg/thisfile.js",
			input:   "exports.x = 1;",
			want:    []string{"goog.module('pkg.thisfile');", "var module = module || {id: 'pkg/thisfile.js'};"},
		},
		{
			name:    "var require",
			file:    "pkg/thisfile.js",
			input:   "var m = require('./dep');\nexports.x = m.y;",
			modules: map[string]string{"./dep": "pkg.dep"},
			want: []string{
				"goog.module('pkg.thisfile');",
				"var m = goog.require('pkg.dep');",
				"exports.x = m.y;",
			},
			notWant: []string{"= require("},
		},
		{
			name:    "const and let requires",
			file:    "a.js",
			input:   "const x = require('./x');\nlet y = require('./y');\nexports.a = x;",
			modules: map[string]string{"./x": "pkg.x", "./y": "pkg.y"},
			want: []string{
				"var x = goog.require('pkg.x');",
				"var y = goog.require('pkg.y');",
			},
		},
		{
			name:    "side effect require",
			file:    "a.js",
			input:   "require('./effects');\nexports.a = 1;",
			modules: map[string]string{"./effects": "pkg.effects"},
			want:    []string{"goog.require('pkg.effects');"},
			notWant: []string{"var  = "},
		},
		{
			name:  "esModule marker dropped",
			file:  "a.js",
			input: "Object.defineProperty(exports, \"__esModule\", { value: true });\nexports.a = 1;",
			notWant: []string{
				"__esModule",
			},
		},
		{
			name:    "export star loop",
			file:    "a.js",
			input:   "__export(require('./dep'));",
			modules: map[string]string{"./dep": "pkg.dep"},
			want: []string{
				"var tsickle_module_1_ = goog.require('pkg.dep');",
				"for (var p in tsickle_module_1_) exports[p] = tsickle_module_1_[p];",
			},
		},
		{
			name:  "export-free file gets exports touch",
			file:  "a.js",
			input: "var x = 1;\nconsole.log(x);",
			want:  []string{"exports = {};"},
		},
		{
			name:    "file with exports needs no touch",
			file:    "a.js",
			input:   "exports.a = 1;",
			notWant: []string{"exports = {};"},
		},
		{
			name:    "unknown lines preserved verbatim",
			file:    "a.js",
			input:   "function f() { return require; }\nexports.f = f;",
			want:    []string{"function f() { return require; }"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := convert(t, tt.file, tt.input, tt.modules)
			if ts.HasErrors(res.Diagnostics) {
				t.Fatalf("unexpected errors: %v", res.Diagnostics)
			}
			for _, want := range tt.want {
				if !strings.Contains(res.Output, want) {
					t.Errorf("output missing %q:\n%s", want, res.Output)
				}
			}
			for _, notWant := range tt.notWant {
				if strings.Contains(res.Output, notWant) {
					t.Errorf("output should not contain %q:\n%s", notWant, res.Output)
				}
			}
		})
	}
}

func TestProcess_HeaderComesFirst(t *testing.T) {
	res := convert(t, "pkg/a.js", "exports.x = 1;", nil)
	lines := strings.Split(res.Output, "\n")
	if len(lines) < 3 {
		t.Fatalf("short output: %q", res.Output)
	}
	if lines[0] != "goog.module('pkg.a');" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "var module = module ||") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestProcess_DuplicateRequiresCollapse(t *testing.T) {
	input := "var a = require('./dep');\nvar b = require('./dep');\nexports.x = a;"
	res := convert(t, "a.js", input, map[string]string{"./dep": "pkg.dep"})
	if got := strings.Count(res.Output, "goog.require('pkg.dep')"); got != 1 {
		t.Errorf("goog.require count = %d, want exactly 1:\n%s", got, res.Output)
	}
	if !strings.Contains(res.Output, "var b = a;") {
		t.Errorf("second binding should alias the first:\n%s", res.Output)
	}
}

func TestProcess_UnresolvableRequireKeepsLine(t *testing.T) {
	input := "var m = require('missing');\nexports.x = m;"
	res := convert(t, "a.js", input, nil)
	if !ts.HasErrors(res.Diagnostics) {
		t.Fatal("expected a diagnostic for the unresolvable require")
	}
	if !strings.Contains(res.Output, "var m = require('missing');") {
		t.Errorf("unresolvable require must stay verbatim:\n%s", res.Output)
	}
}

func TestProcess_TypeOnlyReExportTypedefs(t *testing.T) {
	input := "require('./iface');\nexports.x = 1;"
	res := Process(
		&testHost{modules: map[string]string{"./iface": "pkg.iface"}},
		"a.js", input,
		map[string][]string{"./iface": {"Foo", "Bar"}},
		nil,
	)
	for _, want := range []string{
		"goog.require('pkg.iface');",
		"/** @typedef {?} */ exports.Foo;",
		"/** @typedef {?} */ exports.Bar;",
	} {
		if !strings.Contains(res.Output, want) {
			t.Errorf("output missing %q:\n%s", want, res.Output)
		}
	}
}

// Every require in the input corresponds to exactly one goog.require in
// the output, and exports assignments survive unchanged.
func TestProcess_RoundTripInvariant(t *testing.T) {
	input := strings.Join([]string{
		"var a = require('./a');",
		"var b = require('./b');",
		"require('./c');",
		"exports.one = a.x;",
		"exports.two = b.y;",
	}, "\n")
	res := convert(t, "m.js", input, map[string]string{
		"./a": "p.a", "./b": "p.b", "./c": "p.c",
	})
	for _, mod := range []string{"p.a", "p.b", "p.c"} {
		if got := strings.Count(res.Output, "goog.require('"+mod+"')"); got != 1 {
			t.Errorf("goog.require(%s) count = %d, want 1", mod, got)
		}
	}
	if strings.Count(res.Output, "exports.one = a.x;") != 1 ||
		strings.Count(res.Output, "exports.two = b.y;") != 1 {
		t.Errorf("exports assignments must be preserved:\n%s", res.Output)
	}
}
