// Package es5processor converts the CommonJS JavaScript the host compiler
// emits into Closure's goog.module idiom.
//
// The converter is line-oriented: compiler-emitted CommonJS has a
// predictable shape, so anchored regular expressions over lines are enough
// and avoid a second parse. Every line not matched by a rewrite rule is
// preserved verbatim.
package es5processor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lucidsoftware/tsickle/sourcemap"
	"github.com/lucidsoftware/tsickle/ts"
)

// Host supplies module naming to the converter. PathToModuleName is a pure
// function from an import specifier (resolved relative to the importing
// file) to a dotted Closure module name.
type Host interface {
	// PathToModuleName maps specifier, imported from the file context, to
	// a Closure module name. ok is false when the specifier cannot be
	// resolved.
	PathToModuleName(context, specifier string) (name string, ok bool)

	// FileNameToModuleID returns the Closure module id of an output file.
	FileNameToModuleID(fileName string) string
}

// Result is the converted file.
type Result struct {
	Output      string
	Diagnostics []ts.Diagnostic
}

var (
	reRequireVar = regexp.MustCompile(
		`^(\s*)(?:var|const|let)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*require\((['"])([^'"]+)['"]\);?\s*$`)
	reRequireBare = regexp.MustCompile(
		`^\s*require\((['"])([^'"]+)['"]\);?\s*$`)
	reExportStar = regexp.MustCompile(
		`^\s*__export\(require\((['"])([^'"]+)['"]\)\);?\s*$`)
	reDefineEsModule = regexp.MustCompile(
		`^\s*Object\.defineProperty\(exports,\s*"__esModule",.*$`)
	reExportsAssign = regexp.MustCompile(
		`^exports\.[A-Za-z_$]`)
)

// Process converts one emitted JavaScript file. typeOnlyReExports carries
// the annotator's record of re-exported names that have no runtime value,
// keyed by module specifier; the converter re-creates them as typedefs so
// downstream goog.requires stay live. sm may be nil.
func Process(host Host, fileName, content string, typeOnlyReExports map[string][]string, sm *sourcemap.Builder) Result {
	p := &processor{
		host:              host,
		fileName:          fileName,
		typeOnlyReExports: typeOnlyReExports,
		required:          make(map[string]string),
		typedefsEmitted:   make(map[string]bool),
		sm:                sm,
	}
	return p.run(content)
}

type processor struct {
	host              Host
	fileName          string
	typeOnlyReExports map[string][]string

	// required maps module name to the first local binding, so duplicate
	// requires collapse to an alias of the first.
	required map[string]string

	typedefsEmitted map[string]bool
	tmpCount        int

	sm      *sourcemap.Builder
	outLine int

	diags []ts.Diagnostic
}

func (p *processor) run(content string) Result {
	var out []string

	moduleID := p.host.FileNameToModuleID(p.fileName)
	p.emit(&out, fmt.Sprintf("goog.module('%s');", moduleID))
	// TS emits module.id into __decorate/__metadata helpers; re-expose it.
	p.emit(&out, fmt.Sprintf("var module = module || {id: '%s'};", p.fileName))
	headerLen := len(out)

	hasExports := false
	lines := strings.Split(content, "\n")
	srcOffset := 0
	for i, line := range lines {
		lineStart := srcOffset
		srcOffset += len(line) + 1
		switch {
		case reDefineEsModule.MatchString(line):
			// dropped: goog.module files are modules by construction
		case reExportStar.MatchString(line):
			m := reExportStar.FindStringSubmatch(line)
			p.rewriteExportStar(&out, i, lineStart, line, m[2])
			hasExports = true
		case reRequireVar.MatchString(line):
			m := reRequireVar.FindStringSubmatch(line)
			p.rewriteRequire(&out, i, lineStart, line, m[1], m[2], m[4])
		case reRequireBare.MatchString(line):
			m := reRequireBare.FindStringSubmatch(line)
			mod, ok := p.host.PathToModuleName(p.fileName, m[2])
			if !ok {
				p.unmatched(&out, i, lineStart, line, m[2])
				break
			}
			p.copyMapped(&out, i, fmt.Sprintf("goog.require('%s');", mod))
			p.emitTypedefs(&out, m[2])
		default:
			if reExportsAssign.MatchString(line) {
				hasExports = true
			}
			p.copyMapped(&out, i, line)
		}
	}

	if !hasExports {
		// Closure requires a module to touch exports at least once.
		rest := append([]string{"exports = {};"}, out[headerLen:]...)
		out = append(out[:headerLen:headerLen], rest...)
	}
	return Result{Output: strings.Join(out, "\n"), Diagnostics: p.diags}
}

func (p *processor) rewriteRequire(out *[]string, srcLine, lineStart int, orig, indent, local, specifier string) {
	mod, ok := p.host.PathToModuleName(p.fileName, specifier)
	if !ok {
		p.unmatched(out, srcLine, lineStart, orig, specifier)
		return
	}
	if first, dup := p.required[mod]; dup {
		// duplicate requires of one module alias the first binding
		p.copyMapped(out, srcLine, fmt.Sprintf("%svar %s = %s;", indent, local, first))
	} else {
		p.required[mod] = local
		p.copyMapped(out, srcLine, fmt.Sprintf("%svar %s = goog.require('%s');", indent, local, mod))
	}
	p.emitTypedefs(out, specifier)
}

// rewriteExportStar expands TypeScript's __export(require(...)) re-export
// into a require plus the property-copy loop Closure recognizes.
func (p *processor) rewriteExportStar(out *[]string, srcLine, lineStart int, orig, specifier string) {
	mod, ok := p.host.PathToModuleName(p.fileName, specifier)
	if !ok {
		p.unmatched(out, srcLine, lineStart, orig, specifier)
		return
	}
	var tmp string
	if first, dup := p.required[mod]; dup {
		tmp = first
	} else {
		p.tmpCount++
		tmp = fmt.Sprintf("tsickle_module_%d_", p.tmpCount)
		p.required[mod] = tmp
		p.copyMapped(out, srcLine, fmt.Sprintf("var %s = goog.require('%s');", tmp, mod))
	}
	p.copyMapped(out, srcLine, fmt.Sprintf("for (var p in %s) exports[p] = %s[p];", tmp, tmp))
	p.emitTypedefs(out, specifier)
}

// emitTypedefs re-creates type-only re-exports of specifier as typedef
// slots, once per specifier.
func (p *processor) emitTypedefs(out *[]string, specifier string) {
	if p.typedefsEmitted[specifier] {
		return
	}
	p.typedefsEmitted[specifier] = true
	for _, name := range p.typeOnlyReExports[specifier] {
		p.emit(out, fmt.Sprintf("/** @typedef {?} */ exports.%s;", name))
	}
}

func (p *processor) unmatched(out *[]string, srcLine, lineStart int, line, specifier string) {
	p.diags = append(p.diags, ts.Diagnostic{
		FileName: p.fileName,
		Pos:      lineStart,
		Line:     srcLine + 1,
		Col:      1,
		Severity: ts.SeverityError,
		Message:  fmt.Sprintf("could not resolve require of %q to a module name", specifier),
	})
	p.copyMapped(out, srcLine, line)
}

// copyMapped appends a line derived from source line srcLine, mapping it
// one-to-one.
func (p *processor) copyMapped(out *[]string, srcLine int, line string) {
	if p.sm != nil {
		p.sm.AddMapping(sourcemap.Mapping{
			GenLine: p.outLine, GenCol: 0,
			SrcLine: srcLine, SrcCol: 0,
			Source: p.fileName,
		})
	}
	p.append(out, line)
}

// emit appends a synthetic line with no source mapping.
func (p *processor) emit(out *[]string, line string) {
	p.append(out, line)
}

func (p *processor) append(out *[]string, line string) {
	*out = append(*out, line)
	p.outLine++
}
