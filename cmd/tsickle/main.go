// Command tsickle is a demo driver for the goog.module converter: it
// rewrites compiler-emitted CommonJS JavaScript into Closure's goog.module
// form. The annotating pipeline is a library surface; it needs a host
// TypeScript compiler and is not exposed here.
package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/lucidsoftware/tsickle/es5processor"
	"github.com/lucidsoftware/tsickle/sink"
	"github.com/lucidsoftware/tsickle/ts"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Convert ConvertCmd `cmd:"" help:"Convert CommonJS JavaScript files to goog.module form."`

	Config string `help:"Path to a tsickle.toml settings file." type:"path"`
}

type VersionCmd struct{}

func (c *VersionCmd) Run(*Settings) error {
	fmt.Println(Version())
	return nil
}

type ConvertCmd struct {
	Out   string   `arg:"" help:"Output directory for converted files."`
	Files []string `arg:"" help:"CommonJS .js files to convert."`

	Prefix string `help:"Dotted prefix for generated module names." short:"p"`
}

func (c *ConvertCmd) Run(settings *Settings) error {
	prefix := c.Prefix
	if prefix == "" {
		prefix = settings.ModulePrefix
	}
	host := &pathHost{prefix: prefix}
	out := sink.NewFilesystemSink(c.Out)

	failed := false
	for _, name := range c.Files {
		data, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		res := es5processor.Process(host, name, string(data), nil, nil)
		printDiagnostics(res.Diagnostics)
		if ts.HasErrors(res.Diagnostics) {
			failed = true
			continue
		}
		if err := out.WriteFile(name, []byte(res.Output)); err != nil {
			return err
		}
	}
	if failed {
		return fmt.Errorf("conversion finished with errors")
	}
	return nil
}

// pathHost derives Closure module names from file paths.
type pathHost struct {
	prefix string
}

func (h *pathHost) FileNameToModuleID(fileName string) string {
	return h.dotted(strings.TrimSuffix(fileName, path.Ext(fileName)))
}

func (h *pathHost) PathToModuleName(context, specifier string) (string, bool) {
	if strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") {
		resolved := path.Join(path.Dir(context), specifier)
		return h.dotted(resolved), true
	}
	if specifier == "" {
		return "", false
	}
	return h.dotted(specifier), true
}

func (h *pathHost) dotted(p string) string {
	name := strings.ReplaceAll(strings.TrimPrefix(p, "./"), "/", ".")
	if h.prefix != "" {
		return h.prefix + "." + name
	}
	return name
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
)

func printDiagnostics(diags []ts.Diagnostic) {
	for _, d := range diags {
		c := warnColor
		if d.Severity >= ts.SeverityError {
			c = errColor
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", c.Sprint(d.Severity.String()+":"), d.String())
	}
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tsickle"),
		kong.Description("CommonJS to goog.module converter."),
		kong.UsageOnError(),
	)
	settings, err := LoadSettings(cli.Config)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(settings))
}
