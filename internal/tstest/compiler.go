package tstest

import (
	"strings"

	"github.com/lucidsoftware/tsickle/ts"
)

// Compiler implements ts.Compiler for tests. Resolve maps an import
// specifier to a file name; the default strips a leading ./ and appends
// .ts.
type Compiler struct {
	Resolve func(fromFile, specifier string) string
}

// NewCompiler returns a Compiler with the default resolver.
func NewCompiler() *Compiler {
	return &Compiler{Resolve: DefaultResolve}
}

// DefaultResolve maps "./dep" to "dep.ts".
func DefaultResolve(fromFile, specifier string) string {
	name := strings.TrimPrefix(specifier, "./")
	if !strings.HasSuffix(name, ".ts") {
		name += ".ts"
	}
	return name
}

// Parse implements ts.Compiler.
func (c *Compiler) Parse(fileName, text string) (*ts.SourceFile, []ts.Diagnostic) {
	return parseFile(fileName, text)
}

// Check implements ts.Compiler. The fixture checker is lenient: it never
// reports type errors, it only resolves.
func (c *Compiler) Check(files []*ts.SourceFile) (ts.Checker, []ts.Diagnostic) {
	return newChecker(files, c.Resolve), nil
}

// EmitJS implements ts.Compiler: erase types and lower modules to
// CommonJS, preserving comments.
func (c *Compiler) EmitJS(file *ts.SourceFile, checker ts.Checker) (string, error) {
	return emitJS(file, checker), nil
}
