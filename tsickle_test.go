package tsickle_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tsickle "github.com/lucidsoftware/tsickle"
	"github.com/lucidsoftware/tsickle/internal/tstest"
)

// testHost names modules pkg.<file name without extension> and skips the
// files listed in skip.
type testHost struct {
	skip map[string]bool
}

func (h *testHost) PathToModuleName(context, specifier string) (string, bool) {
	name := strings.TrimPrefix(specifier, "./")
	if name == "" || strings.Contains(name, "missing") {
		return "", false
	}
	return "pkg." + name, true
}

func (h *testHost) FileNameToModuleID(fileName string) string {
	name := fileName
	for _, ext := range []string{".js", ".ts"} {
		name = strings.TrimSuffix(name, ext)
	}
	return "pkg." + name
}

func (h *testHost) ShouldSkipTsickleProcessing(fileName string) bool {
	return h.skip[fileName]
}

func (h *testHost) ShouldIgnoreWarningsFor(fileName string) bool { return false }

func emit(t *testing.T, files map[string]string, opts tsickle.Options) tsickle.EmitResult {
	t.Helper()
	host := tsickle.NewMapHost(files)
	return tsickle.Emit(tstest.NewCompiler(), &testHost{}, host, host.FileNames(), opts)
}

func TestEmit_AnnotatesAndConverts(t *testing.T) {
	res := emit(t, map[string]string{
		"dep.ts":  "export var y = 1;\n",
		"main.ts": "import * as dep from './dep';\nexport var x: number = dep.y;\n",
	}, tsickle.Options{})
	require.True(t, res.OK, "diagnostics: %v", res.Diagnostics)

	main := res.JSFiles["main.js"]
	require.NotEmpty(t, main, "main.js missing from %v", res.JSFiles)
	for _, want := range []string{
		"goog.module('pkg.main');",
		"var module = module || {id: 'main.js'};",
		"var dep = goog.require('pkg.dep');",
		"@fileoverview added by tsickle",
		"/** @type {number} */ var x = dep.y;",
		"exports.x = x;",
	} {
		assert.Contains(t, main, want)
	}
	assert.NotContains(t, main, "require('./dep')")

	dep := res.JSFiles["dep.js"]
	assert.Contains(t, dep, "goog.module('pkg.dep');")
	assert.Contains(t, dep, "exports.y = y;")
}

func TestEmit_DecoratorDownlevelEndToEnd(t *testing.T) {
	res := emit(t, map[string]string{
		"main.ts": `/** @Annotation */
function Component(config: any): any { return null; }
class Svc {
}
@Component({selector: 'app'})
export class X {
  constructor(a: Svc) {
  }
}
`,
	}, tsickle.Options{DownlevelDecorators: true})
	require.True(t, res.OK, "diagnostics: %v", res.Diagnostics)

	main := res.JSFiles["main.js"]
	assert.Contains(t, main, "static decorators = [")
	assert.Contains(t, main, "{ type: Component, args: [{selector: 'app'}] }")
	assert.Contains(t, main, "static ctorParameters = () => [")
	assert.Contains(t, main, "{type: Svc}")
	assert.NotContains(t, main, "@Component({selector: 'app'})\nexport class")
}

func TestEmit_ExternsFromDeclarationFile(t *testing.T) {
	res := emit(t, map[string]string{
		"globals.d.ts": "declare var build: string;\n",
		"main.ts":      "export var x = 1;\n",
	}, tsickle.Options{})
	require.True(t, res.OK, "diagnostics: %v", res.Diagnostics)
	assert.Contains(t, res.Externs, "var build;")
	assert.Contains(t, res.Externs, "@externs")
	_, hasDts := res.JSFiles["globals.d.js"]
	assert.False(t, hasDts, "declaration files must not produce JS output")
}

func TestEmit_TypeOnlyReExportSurvivesAsTypedef(t *testing.T) {
	res := emit(t, map[string]string{
		"iface.ts": "export interface I {\n  x: number;\n}\n",
		"main.ts":  "export {I} from './iface';\nexport var keep = 1;\n",
	}, tsickle.Options{})
	require.True(t, res.OK, "diagnostics: %v", res.Diagnostics)
	main := res.JSFiles["main.js"]
	assert.Contains(t, main, "goog.require('pkg.iface');")
	assert.Contains(t, main, "/** @typedef {?} */ exports.I;")
}

func TestEmit_DevModeSkipsAnnotation(t *testing.T) {
	res := emit(t, map[string]string{
		"main.ts": "export var a: number = 1;\n",
	}, tsickle.Options{Mode: "es5"})
	require.True(t, res.OK, "diagnostics: %v", res.Diagnostics)
	main := res.JSFiles["main.js"]
	assert.Contains(t, main, "goog.module('pkg.main');")
	assert.Contains(t, main, "exports.a = a;")
	assert.NotContains(t, main, "@type")
	assert.Empty(t, res.Externs)
}

func TestEmit_SkippedFilesAreNotProcessed(t *testing.T) {
	host := tsickle.NewMapHost(map[string]string{
		"lib.ts":  "export var fromLib = 1;\n",
		"main.ts": "export var x = 1;\n",
	})
	res := tsickle.Emit(tstest.NewCompiler(), &testHost{skip: map[string]bool{"lib.ts": true}},
		host, host.FileNames(), tsickle.Options{})
	require.True(t, res.OK, "diagnostics: %v", res.Diagnostics)
	_, hasLib := res.JSFiles["lib.js"]
	assert.False(t, hasLib, "skipped files must not be emitted")
	assert.Contains(t, res.JSFiles["main.js"], "goog.module('pkg.main');")
}

func TestEmit_ParseErrorAbortsPipeline(t *testing.T) {
	res := emit(t, map[string]string{
		"main.ts": "class {\n",
	}, tsickle.Options{})
	assert.False(t, res.OK)
	assert.Empty(t, res.JSFiles)
}

func TestEmit_InvalidOptionsRejected(t *testing.T) {
	res := emit(t, map[string]string{"main.ts": "var x = 1;\n"}, tsickle.Options{Mode: "watch"})
	assert.False(t, res.OK)
	require.NotEmpty(t, res.Diagnostics)
	assert.Contains(t, res.Diagnostics[0].Message, "invalid tsickle options")
}

func TestEmit_UnresolvableRequireIsReported(t *testing.T) {
	res := emit(t, map[string]string{
		"main.ts": "import * as m from './missing-dep';\nexport var x = m.y;\n",
	}, tsickle.Options{})
	assert.False(t, res.OK)
	main := res.JSFiles["main.js"]
	assert.Contains(t, main, "require('./missing-dep');", "unresolvable require stays verbatim")
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, tsickle.Options{}.Validate())
	assert.NoError(t, tsickle.Options{Mode: "closure"}.Validate())
	assert.NoError(t, tsickle.Options{Mode: "es5"}.Validate())
	assert.Error(t, tsickle.Options{Mode: "fast"}.Validate())
}

func TestOverlayHost(t *testing.T) {
	base := tsickle.NewMapHost(map[string]string{"a.ts": "old", "b.ts": "base"})
	overlay := tsickle.NewOverlayHost(base, map[string]string{"a.ts": "new"})

	text, err := overlay.ReadFile("a.ts")
	require.NoError(t, err)
	assert.Equal(t, "new", text)

	text, err = overlay.ReadFile("b.ts")
	require.NoError(t, err)
	assert.Equal(t, "base", text)

	assert.True(t, overlay.FileExists("a.ts"))
	assert.False(t, overlay.FileExists("c.ts"))
}
