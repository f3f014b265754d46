// Package tsickle turns checked TypeScript programs into Closure-annotated
// JavaScript plus an externs file.
//
// The package coordinates the translation passes: decorator downleveling,
// JSDoc annotation, externs collection, host-compiler emit, and the
// CommonJS to goog.module conversion. Parsing and type checking belong to
// the host compiler the caller supplies.
package tsickle

import (
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/lucidsoftware/tsickle/closurize"
	"github.com/lucidsoftware/tsickle/decorator"
	"github.com/lucidsoftware/tsickle/es5processor"
	"github.com/lucidsoftware/tsickle/ts"
)

// Host answers the project-shape questions the passes cannot answer
// themselves.
type Host interface {
	es5processor.Host

	// ShouldSkipTsickleProcessing reports whether fileName was pulled in
	// transitively rather than supplied as an input. Skipped files are
	// type-checked but neither annotated nor converted.
	ShouldSkipTsickleProcessing(fileName string) bool

	// ShouldIgnoreWarningsFor suppresses warning diagnostics for a file.
	ShouldIgnoreWarningsFor(fileName string) bool
}

// Options configures a translation run.
type Options struct {
	// Mode selects the pipeline: "closure" runs the full annotating
	// pipeline, "es5" is the dev mode that skips cross-file checking and
	// only converts modules.
	Mode string `validate:"omitempty,oneof=closure es5"`

	// Untyped annotates every slot as {?}.
	Untyped bool

	// DownlevelDecorators enables the @Annotation lowering pass.
	DownlevelDecorators bool

	// TypeAnnotationsBanned turns user-written {type} JSDoc into errors.
	TypeAnnotationsBanned bool

	// Verbose surfaces type-translation warnings in the result.
	Verbose bool

	// AnnotateExports adds @export tags to exported declarations.
	AnnotateExports bool

	// Log receives debug events. Nil disables logging.
	Log *zap.SugaredLogger `validate:"-"`
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = "closure"
	}
	if o.Log == nil {
		o.Log = zap.NewNop().Sugar()
	}
	return o
}

// Validate checks the option values.
func (o Options) Validate() error {
	if err := validator.New().Struct(o); err != nil {
		return errors.Wrap(err, "invalid tsickle options")
	}
	return nil
}

// EmitResult is the output of a translation run.
type EmitResult struct {
	// JSFiles maps output file names to Closure-ready JavaScript.
	JSFiles map[string]string

	// Externs is the concatenated externs text for all ambient
	// declarations, empty when there were none.
	Externs string

	Diagnostics []ts.Diagnostic

	// OK is false when any error-severity diagnostic was produced; the
	// other fields may then be partial.
	OK bool
}

// Emit runs the pipeline over fileNames, reading sources through loader.
func Emit(compiler ts.Compiler, host Host, loader CompilerHost, fileNames []string, opts Options) EmitResult {
	if err := opts.Validate(); err != nil {
		return EmitResult{Diagnostics: []ts.Diagnostic{{
			Severity: ts.SeverityError,
			Message:  err.Error(),
		}}}
	}
	opts = opts.withDefaults()
	p := &pipeline{
		compiler: compiler,
		host:     host,
		loader:   loader,
		opts:     opts,
	}
	if opts.Mode == "es5" {
		return p.runDev(fileNames)
	}
	return p.run(fileNames)
}

type pipeline struct {
	compiler ts.Compiler
	host     Host
	loader   CompilerHost
	opts     Options

	diags []ts.Diagnostic
}

func (p *pipeline) report(diags ...ts.Diagnostic) {
	for _, d := range diags {
		if d.Severity < ts.SeverityError && p.host.ShouldIgnoreWarningsFor(d.FileName) {
			continue
		}
		p.diags = append(p.diags, d)
	}
}

func (p *pipeline) parseAll(loader CompilerHost, fileNames []string) ([]*ts.SourceFile, bool) {
	var files []*ts.SourceFile
	for _, name := range fileNames {
		text, err := loader.ReadFile(name)
		if err != nil {
			p.report(ts.Diagnostic{FileName: name, Severity: ts.SeverityError, Message: err.Error()})
			return nil, false
		}
		f, diags := p.compiler.Parse(name, text)
		p.report(diags...)
		files = append(files, f)
	}
	return files, !ts.HasErrors(p.diags)
}

func (p *pipeline) result(js map[string]string, externs string) EmitResult {
	return EmitResult{
		JSFiles:     js,
		Externs:     externs,
		Diagnostics: p.diags,
		OK:          !ts.HasErrors(p.diags),
	}
}

func (p *pipeline) run(fileNames []string) EmitResult {
	loader := p.loader
	files, ok := p.parseAll(loader, fileNames)
	if !ok {
		return p.result(nil, "")
	}
	checker, checkDiags := p.compiler.Check(files)
	p.report(checkDiags...)
	if ts.HasErrors(checkDiags) {
		// type errors terminate the pipeline
		return p.result(nil, "")
	}

	// pass 1: decorator downlevel, then re-parse through an overlay
	if p.opts.DownlevelDecorators {
		overlay := make(map[string]string)
		for _, f := range files {
			if p.host.ShouldSkipTsickleProcessing(f.FileName) || f.IsDeclarationFile() {
				continue
			}
			res := decorator.Downlevel(f, checker, nil)
			p.report(res.Diagnostics...)
			if res.Output != f.Text {
				overlay[f.FileName] = res.Output
			}
		}
		if len(overlay) > 0 {
			loader = NewOverlayHost(loader, overlay)
			files, ok = p.parseAll(loader, fileNames)
			if !ok {
				return p.result(nil, "")
			}
			checker, _ = p.compiler.Check(files)
		}
	}

	// pass 2: JSDoc annotation and externs collection, then re-parse
	externs := closurize.NewExternsCollector(closurize.Options{
		Untyped: p.opts.Untyped,
		Log:     p.opts.Log,
	})
	typeOnlyReExports := make(map[string][]string)
	overlay := make(map[string]string)
	for _, f := range files {
		if p.host.ShouldSkipTsickleProcessing(f.FileName) {
			continue
		}
		externs.Process(f, checker)
		if f.IsDeclarationFile() {
			continue
		}
		res := closurize.Annotate(f, checker, closurize.Options{
			Untyped:               p.opts.Untyped,
			TypeAnnotationsBanned: p.opts.TypeAnnotationsBanned,
			AnnotateExports:       p.opts.AnnotateExports,
			Log:                   p.opts.Log,
		}, nil)
		p.report(res.Diagnostics...)
		if p.opts.Verbose {
			p.report(res.TranslationWarnings...)
		}
		for spec, names := range res.TypeOnlyReExports {
			typeOnlyReExports[spec] = append(typeOnlyReExports[spec], names...)
		}
		overlay[f.FileName] = res.Output
	}
	p.report(externs.Diagnostics()...)
	if ts.HasErrors(p.diags) {
		return p.result(nil, externs.Externs())
	}
	loader = NewOverlayHost(loader, overlay)
	files, ok = p.parseAll(loader, fileNames)
	if !ok {
		return p.result(nil, externs.Externs())
	}
	checker, _ = p.compiler.Check(files)

	// pass 3: host compiler emit plus goog.module conversion
	js := p.emitAndConvert(files, checker, typeOnlyReExports)
	return p.result(js, externs.Externs())
}

// runDev is the simplified path: no cross-file type information, no
// annotation, only module conversion.
func (p *pipeline) runDev(fileNames []string) EmitResult {
	js := make(map[string]string)
	for _, name := range fileNames {
		if p.host.ShouldSkipTsickleProcessing(name) {
			continue
		}
		files, ok := p.parseAll(p.loader, []string{name})
		if !ok {
			return p.result(nil, "")
		}
		checker, _ := p.compiler.Check(files)
		if files[0].IsDeclarationFile() {
			continue
		}
		out := p.convertOne(files[0], checker, nil)
		if out != "" {
			js[outputName(name)] = out
		}
	}
	return p.result(js, "")
}

func (p *pipeline) emitAndConvert(files []*ts.SourceFile, checker ts.Checker, typeOnlyReExports map[string][]string) map[string]string {
	js := make(map[string]string)
	for _, f := range files {
		if p.host.ShouldSkipTsickleProcessing(f.FileName) || f.IsDeclarationFile() {
			continue
		}
		out := p.convertOne(f, checker, typeOnlyReExports)
		if out != "" {
			js[outputName(f.FileName)] = out
		}
	}
	return js
}

func (p *pipeline) convertOne(f *ts.SourceFile, checker ts.Checker, typeOnlyReExports map[string][]string) string {
	emitted, err := p.compiler.EmitJS(f, checker)
	if err != nil {
		p.report(ts.Diagnostic{FileName: f.FileName, Severity: ts.SeverityError,
			Message: errors.Wrap(err, "host compiler emit failed").Error()})
		return ""
	}
	res := es5processor.Process(p.host, outputName(f.FileName), emitted, typeOnlyReExports, nil)
	p.report(res.Diagnostics...)
	return res.Output
}

// outputName maps an input .ts name to its .js output name.
func outputName(fileName string) string {
	const ext = ".ts"
	if len(fileName) > len(ext) && fileName[len(fileName)-len(ext):] == ext {
		return fileName[:len(fileName)-len(ext)] + ".js"
	}
	return fileName
}
