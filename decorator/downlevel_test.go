package decorator_test

import (
	"strings"
	"testing"

	"github.com/lucidsoftware/tsickle/decorator"
	"github.com/lucidsoftware/tsickle/internal/tstest"
	"github.com/lucidsoftware/tsickle/ts"
)

func downlevel(t *testing.T, src string) decorator.Result {
	t.Helper()
	compiler := tstest.NewCompiler()
	file, diags := compiler.Parse("input.ts", src)
	if ts.HasErrors(diags) {
		t.Fatalf("parse: %v", diags)
	}
	checker, _ := compiler.Check([]*ts.SourceFile{file})
	return decorator.Downlevel(file, checker, nil)
}

const annotationPrelude = `/** @Annotation */
function Component(config: any): any { return null; }
/** @Annotation */
function Input(name: any): any { return null; }
function Runtime(): any { return null; }
class Svc {
}
`

func TestDownlevel(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{
			name: "class decorator becomes static metadata",
			src: annotationPrelude + `
@Component({selector: 'app'})
class X {
  constructor(a: Svc) {
  }
}
`,
			want: []string{
				"static decorators: {type: Function, args?: any[]}[] = [",
				"{ type: Component, args: [{selector: 'app'}] },",
				"static ctorParameters:",
				"{type: Svc},",
				"/** @nocollapse */",
			},
			notWant: []string{"@Component"},
		},
		{
			name: "runtime decorators stay",
			src: annotationPrelude + `
@Runtime()
@Component({})
class X {
}
`,
			want:    []string{"@Runtime()", "static decorators"},
			notWant: []string{"@Component"},
		},
		{
			name: "zero argument call has no args key",
			src: `/** @Annotation */
function Marker(): any { return null; }
@Marker()
class X {
}
`,
			want:    []string{"{ type: Marker },"},
			notWant: []string{"args: ["},
		},
		{
			name: "untyped constructor parameter becomes null",
			src: annotationPrelude + `
@Component({})
class X {
  constructor(a) {
  }
}
`,
			want: []string{"null,"},
		},
		{
			name: "parameter decorators are captured",
			src: annotationPrelude + `
/** @Annotation */
function Inject(token: any): any { return null; }
class X {
  constructor(@Inject('tok') dep: Svc) {
  }
}
`,
			want: []string{
				"static ctorParameters:",
				"{type: Svc, decorators: [{ type: Inject, args: ['tok'] }]},",
			},
			notWant: []string{"@Inject"},
		},
		{
			name: "property decorators become propDecorators",
			src: annotationPrelude + `
class X {
  @Input('one') field: string;
  @Input('two') go(x: number): void {
  }
}
`,
			want: []string{
				"static propDecorators:",
				`"field": [{ type: Input, args: ['one'] }],`,
				`"go": [{ type: Input, args: ['two'] }],`,
			},
			notWant: []string{"@Input"},
		},
		{
			name: "class without markers is untouched",
			src: `function Plain(): any { return null; }
@Plain()
class X {
  constructor(a: number) {
  }
}
`,
			want:    []string{"@Plain()"},
			notWant: []string{"static decorators", "ctorParameters"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := downlevel(t, tt.src)
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

func TestDownlevel_DecoratorCountMatchesMetadata(t *testing.T) {
	src := annotationPrelude + `
@Component({a: 1})
@Component({b: 2})
class X {
}
`
	res := downlevel(t, src)
	if got := strings.Count(res.Output, "{ type: Component"); got != 2 {
		t.Errorf("lowered decorator entries = %d, want 2:\n%s", got, res.Output)
	}
}

func TestDownlevel_ComputedNameReportsAndKeepsDecorator(t *testing.T) {
	src := `/** @Annotation */
function Dec(): any { return null; }
var key = 'k';
class X {
  @Dec() [key]() {
  }
}
`
	res := downlevel(t, src)
	if !ts.HasErrors(res.Diagnostics) {
		t.Fatal("expected a diagnostic for the computed-name member")
	}
	if !strings.Contains(res.Output, "@Dec()") {
		t.Errorf("computed-name decorator must stay untouched:\n%s", res.Output)
	}
}

func TestDownlevel_MarkerResolvedThroughImport(t *testing.T) {
	compiler := tstest.NewCompiler()
	dep, _ := compiler.Parse("dep.ts", `/** @Annotation */
export function Component(config: any): any { return null; }
`)
	main, _ := compiler.Parse("main.ts", `import {Component} from './dep';
@Component({})
class X {
}
`)
	checker, _ := compiler.Check([]*ts.SourceFile{dep, main})
	res := decorator.Downlevel(main, checker, nil)
	if !strings.Contains(res.Output, "static decorators") {
		t.Errorf("marker through import must lower:\n%s", res.Output)
	}
	if strings.Contains(res.Output, "@Component({})") {
		t.Errorf("lowered decorator must be removed:\n%s", res.Output)
	}
}

func TestDownlevel_UnmarkedFileUnchanged(t *testing.T) {
	src := "var a = 1;\nclass Plain {\n  go(): void {\n  }\n}\n"
	res := downlevel(t, src)
	if res.Output != src {
		t.Errorf("file without markers must round-trip verbatim:\ngot  %q\nwant %q", res.Output, src)
	}
}
