package tstest

import (
	"strings"

	"github.com/lucidsoftware/tsickle/ts"
)

// checker implements ts.Checker over the parsed fixture files. Binding is
// eager: all symbol tables are built up front, alias targets are resolved
// across files, and lookups afterwards are map hits, except for names
// outside the declaration table, whose file is found by walking the trees.
type checker struct {
	files   map[string]*ts.SourceFile
	resolve func(fromFile, specifier string) string

	fileSymbols map[string]map[string]*ts.Symbol
	symFile     map[*ts.Symbol]string
	nameSym     map[*ts.Identifier]*ts.Symbol

	// imports[fileName][localName] holds the resolved alias target and
	// how the binding reaches it.
	imports map[string]map[string]importBinding

	nsExports map[*ts.Symbol]map[string]*ts.Symbol

	typeParamRefs map[ts.Node]string
	enumTypes     map[*ts.Symbol]*ts.EnumType
}

type importBinding struct {
	target    *ts.Symbol
	namespace bool // import * as X: target is the module, members resolve through nsExports
	module    string
}

func newChecker(files []*ts.SourceFile, resolve func(fromFile, specifier string) string) *checker {
	c := &checker{
		files:         make(map[string]*ts.SourceFile),
		resolve:       resolve,
		fileSymbols:   make(map[string]map[string]*ts.Symbol),
		symFile:       make(map[*ts.Symbol]string),
		nameSym:       make(map[*ts.Identifier]*ts.Symbol),
		imports:       make(map[string]map[string]importBinding),
		nsExports:     make(map[*ts.Symbol]map[string]*ts.Symbol),
		typeParamRefs: make(map[ts.Node]string),
		enumTypes:     make(map[*ts.Symbol]*ts.EnumType),
	}
	for _, f := range files {
		c.files[f.FileName] = f
	}
	for _, f := range files {
		c.bindFile(f)
	}
	for _, f := range files {
		c.bindImports(f)
	}
	for _, f := range files {
		c.collectTypeParamRefs(f)
	}
	return c
}

func (c *checker) bindFile(f *ts.SourceFile) {
	table := make(map[string]*ts.Symbol)
	c.fileSymbols[f.FileName] = table
	for _, stmt := range f.Statements {
		c.bindStatement(f, table, nil, stmt)
	}
}

func (c *checker) bindStatement(f *ts.SourceFile, table map[string]*ts.Symbol, parent *ts.Symbol, stmt ts.Node) {
	add := func(name *ts.Identifier, flags ts.SymbolFlags, decl ts.Node) *ts.Symbol {
		if existing, ok := table[name.Name]; ok {
			// declaration merging: accumulate flags and declarations
			existing.Flags |= flags
			existing.Decls = append(existing.Decls, decl)
			c.nameSym[name] = existing
			return existing
		}
		sym := &ts.Symbol{Name: name.Name, Flags: flags, Decls: []ts.Node{decl}, Parent: parent}
		table[name.Name] = sym
		c.symFile[sym] = f.FileName
		c.nameSym[name] = sym
		return sym
	}
	switch v := stmt.(type) {
	case *ts.VariableStatement:
		for _, d := range v.Decls {
			add(d.Name, ts.SymVariable|ts.SymValue, d)
		}
	case *ts.FunctionDeclaration:
		add(v.Name, ts.SymFunction|ts.SymValue, v)
	case *ts.ClassDeclaration:
		add(v.Name, ts.SymClass|ts.SymValue|ts.SymType, v)
	case *ts.InterfaceDeclaration:
		add(v.Name, ts.SymInterface|ts.SymType, v)
	case *ts.EnumDeclaration:
		sym := add(v.Name, ts.SymEnum|ts.SymValue|ts.SymType, v)
		members := make(map[string]*ts.Symbol)
		for _, m := range v.Members {
			if m.Name.IsComputed() {
				continue
			}
			ms := &ts.Symbol{
				Name:   m.Name.Text(),
				Flags:  ts.SymEnumMember | ts.SymValue,
				Decls:  []ts.Node{m},
				Parent: sym,
			}
			members[ms.Name] = ms
			c.symFile[ms] = f.FileName
		}
		c.nsExports[sym] = members
	case *ts.TypeAliasDeclaration:
		add(v.Name, ts.SymTypeAlias|ts.SymType, v)
	case *ts.ModuleDeclaration:
		if v.Name == "global" {
			for _, s := range v.Body {
				c.bindStatement(f, table, parent, s)
			}
			return
		}
		// nested dotted names bind the head name only; members hang off
		// a chain of namespace symbols
		parts := strings.Split(v.Name, ".")
		cur := parent
		curTable := table
		for _, part := range parts {
			var sym *ts.Symbol
			if existing, ok := curTable[part]; ok {
				sym = existing
				sym.Flags |= ts.SymNamespace | ts.SymValue
			} else {
				sym = &ts.Symbol{Name: part, Flags: ts.SymNamespace | ts.SymValue, Decls: []ts.Node{v}, Parent: cur}
				curTable[part] = sym
				c.symFile[sym] = f.FileName
			}
			if c.nsExports[sym] == nil {
				c.nsExports[sym] = make(map[string]*ts.Symbol)
			}
			cur = sym
			curTable = c.nsExports[sym]
		}
		for _, s := range v.Body {
			c.bindStatement(f, curTable, cur, s)
		}
	}
}

func (c *checker) bindImports(f *ts.SourceFile) {
	bindings := make(map[string]importBinding)
	c.imports[f.FileName] = bindings
	for _, stmt := range f.Statements {
		imp, ok := stmt.(*ts.ImportDeclaration)
		if !ok {
			continue
		}
		target := c.resolve(f.FileName, imp.Specifier.Value)
		targetTable := c.fileSymbols[target]
		if imp.NamespaceName != nil {
			sym := &ts.Symbol{
				Name:         imp.NamespaceName.Name,
				Flags:        ts.SymAlias | ts.SymNamespace | ts.SymValue,
				Decls:        []ts.Node{imp},
				ImportedFrom: imp.Specifier.Value,
			}
			c.symFile[sym] = f.FileName
			if targetTable != nil {
				c.nsExports[sym] = targetTable
			}
			bindings[imp.NamespaceName.Name] = importBinding{target: sym, namespace: true, module: imp.Specifier.Value}
			c.nameSym[imp.NamespaceName] = sym
		}
		for _, spec := range imp.Named {
			exported := spec.Name.Name
			if spec.PropertyName != nil {
				exported = spec.PropertyName.Name
			}
			var target2 *ts.Symbol
			if targetTable != nil {
				target2 = targetTable[exported]
			}
			bindings[spec.Name.Name] = importBinding{target: target2, module: imp.Specifier.Value}
			if target2 != nil {
				c.nameSym[spec.Name] = target2
			}
		}
		if imp.DefaultName != nil {
			var target2 *ts.Symbol
			if targetTable != nil {
				target2 = targetTable["default"]
			}
			bindings[imp.DefaultName.Name] = importBinding{target: target2, module: imp.Specifier.Value}
		}
	}
	// re-exports resolve against the named file's table too
	for _, stmt := range f.Statements {
		exp, ok := stmt.(*ts.ExportDeclaration)
		if !ok || exp.Specifier == nil {
			continue
		}
		target := c.resolve(f.FileName, exp.Specifier.Value)
		targetTable := c.fileSymbols[target]
		if targetTable == nil {
			continue
		}
		for _, spec := range exp.Named {
			exported := spec.Name.Name
			if spec.PropertyName != nil {
				exported = spec.PropertyName.Name
			}
			if sym := targetTable[exported]; sym != nil {
				c.nameSym[spec.Name] = sym
			}
		}
	}
}

// collectTypeParamRefs records type references that name an in-scope
// generic parameter, so TypeFromTypeNode can distinguish them from symbol
// references.
func (c *checker) collectTypeParamRefs(f *ts.SourceFile) {
	var walk func(n ts.Node, scope map[string]bool)
	walk = func(n ts.Node, scope map[string]bool) {
		var params []*ts.TypeParameter
		switch v := n.(type) {
		case *ts.FunctionDeclaration:
			params = v.TypeParams
		case *ts.ClassDeclaration:
			params = v.TypeParams
		case *ts.InterfaceDeclaration:
			params = v.TypeParams
		case *ts.TypeAliasDeclaration:
			params = v.TypeParams
		case *ts.MethodDeclaration:
			params = v.TypeParams
		case *ts.TypeReferenceNode:
			if id, ok := v.Name.(*ts.Identifier); ok && scope[id.Name] && len(v.TypeArgs) == 0 {
				c.typeParamRefs[v] = id.Name
			}
		}
		if len(params) > 0 {
			inner := make(map[string]bool, len(scope)+len(params))
			for k := range scope {
				inner[k] = true
			}
			for _, p := range params {
				inner[p.Name.Name] = true
			}
			scope = inner
		}
		for _, child := range n.Children() {
			if child != nil {
				walk(child, scope)
			}
		}
	}
	walk(f, map[string]bool{})
}

// SymbolAtLocation implements ts.Checker.
func (c *checker) SymbolAtLocation(n ts.Node) *ts.Symbol {
	switch v := n.(type) {
	case *ts.Identifier:
		if sym, ok := c.nameSym[v]; ok {
			return sym
		}
		return c.lookup(c.fileOf(v), v.Name)
	case *ts.QualifiedName:
		left := c.SymbolAtLocation(v.Left)
		if left == nil {
			return nil
		}
		if members, ok := c.nsExports[left]; ok {
			return members[v.Right.Name]
		}
		return nil
	case *ts.TypeReferenceNode:
		return c.SymbolAtLocation(v.Name)
	}
	return nil
}

// fileOf finds the file containing a node by position scan. Binding covers
// the common identifiers; this is the fallback for reference lookups.
func (c *checker) fileOf(n ts.Node) *ts.SourceFile {
	for _, f := range c.files {
		if n.Pos() >= 0 && n.End() <= len(f.Text) && contains(f, n) {
			return f
		}
	}
	return nil
}

func contains(f *ts.SourceFile, target ts.Node) bool {
	var found bool
	var walk func(n ts.Node)
	walk = func(n ts.Node) {
		if found || n == nil {
			return
		}
		if n == target {
			found = true
			return
		}
		for _, ch := range n.Children() {
			walk(ch)
		}
	}
	walk(f)
	return found
}

func (c *checker) lookup(f *ts.SourceFile, name string) *ts.Symbol {
	if f == nil {
		return nil
	}
	if sym, ok := c.fileSymbols[f.FileName][name]; ok {
		return sym
	}
	if b, ok := c.imports[f.FileName][name]; ok {
		return b.target
	}
	return nil
}
