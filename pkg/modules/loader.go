package modules

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"flc/pkg/errors"
	"flc/pkg/parser"
	"flc/pkg/source"
)

const debugModules = false

func debugPrintf(format string, args ...interface{}) {
	if debugModules {
		fmt.Fprintf(os.Stderr, "// [ModuleLoader] "+format+"\n", args...)
	}
}

// ModuleLoader turns an entry file into a dependency-first Program. Each
// file is parsed once; a module is marked visited before its own imports
// are walked, so cycles terminate but keep discovery order.
type ModuleLoader struct {
	resolvers   []ModuleResolver
	registry    ModuleRegistry
	depAnalyzer DependencyAnalyzer
	config      *LoaderConfig

	entryFS *FileSystemResolver // Reads the entry file; nil for LoadSource-only loaders

	ordered       []*parser.Module
	stdlibImports int
}

// NewModuleLoader creates a loader over an explicit resolver chain.
func NewModuleLoader(config *LoaderConfig, resolvers ...ModuleResolver) *ModuleLoader {
	if config == nil {
		config = DefaultLoaderConfig()
	}

	ml := &ModuleLoader{
		registry:    NewRegistry(),
		depAnalyzer: NewDependencyAnalyzer(),
		config:      config,
	}
	for _, r := range resolvers {
		ml.AddResolver(r)
	}
	return ml
}

// NewFileLoader creates the standard chain: builtins first, then files
// under filesystem. baseDir is the OS directory filesystem stands for.
func NewFileLoader(filesystem fs.FS, baseDir string, config *LoaderConfig) *ModuleLoader {
	if config == nil {
		config = DefaultLoaderConfig()
	}
	fsResolver := NewFileSystemResolver(filesystem, baseDir)
	fsResolver.SetExtension(config.Extension)

	ml := NewModuleLoader(config, NewBuiltinResolver(config.StdlibNames), fsResolver)
	ml.entryFS = fsResolver
	return ml
}

// AddResolver adds a module resolver to the chain
func (ml *ModuleLoader) AddResolver(resolver ModuleResolver) {
	ml.resolvers = append(ml.resolvers, resolver)

	// Sort resolvers by priority (lower = higher priority)
	sort.SliceStable(ml.resolvers, func(i, j int) bool {
		return ml.resolvers[i].Priority() < ml.resolvers[j].Priority()
	})
}

// Load reads the entry file at entryPath (slash separated, inside the
// loader's file system) and loads everything it adopts.
func (ml *ModuleLoader) Load(entryPath string) (*parser.Program, error) {
	if ml.entryFS == nil {
		return nil, fmt.Errorf("loader has no file system to read %s from", entryPath)
	}
	raw, err := ml.entryFS.FS().ReadFile(entryPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ml.entryFS.DisplayPath(entryPath), err)
	}
	sf, err := source.FromBytes(ml.entryFS.DisplayPath(entryPath), raw)
	if err != nil {
		return nil, err
	}
	return ml.LoadSource(sf, entryPath)
}

// LoadSource loads a program whose entry module is already in memory.
// entryPath locates it for importer-relative resolution.
func (ml *ModuleLoader) LoadSource(entry *source.SourceFile, entryPath string) (*parser.Program, error) {
	ml.Clear()

	if err := ml.visit(ml.config.EntryPath, entryPath, entry, ""); err != nil {
		return nil, err
	}
	debugPrintf("loaded %d modules", len(ml.ordered))
	return &parser.Program{Modules: ml.ordered}, nil
}

// visit parses one module, visits its file imports depth first and then
// appends the module itself.
func (ml *ModuleLoader) visit(specifier, resolvedPath string, sf *source.SourceFile, resolverName string) error {
	record := &ModuleRecord{
		Specifier:    specifier,
		ResolvedPath: resolvedPath,
		State:        ModuleDiscovered,
		Resolver:     resolverName,
		Source:       sf,
	}
	ml.registry.Set(specifier, record)
	ml.depAnalyzer.MarkDiscovered(specifier)
	debugPrintf("visiting %s (%s)", specifier, resolvedPath)

	mod, err := parser.ParseSource(sf, specifier)
	if err != nil {
		record.State = ModuleError
		record.Error = err
		return err
	}
	record.AST = mod

	for _, imp := range mod.Imports() {
		dotted := imp.DottedPath()
		resolved, err := ml.resolveModule(dotted, resolvedPath)
		if err != nil {
			if rerr, ok := err.(*errors.ResolveError); ok {
				rerr.Position = importPosition(imp, sf)
			}
			record.State = ModuleError
			record.Error = err
			return err
		}
		if resolved.Builtin {
			ml.stdlibImports++
			continue
		}

		ml.depAnalyzer.AddDependency(specifier, dotted)
		record.Dependencies = append(record.Dependencies, dotted)

		if ml.registry.Get(dotted) != nil {
			resolved.Source.Close()
			debugPrintf("%s already visited, skipping", dotted)
			continue
		}

		raw, err := io.ReadAll(resolved.Source)
		resolved.Source.Close()
		if err != nil {
			return fmt.Errorf("reading %s: %w", resolved.DisplayPath, err)
		}
		child, err := source.FromBytes(resolved.DisplayPath, raw)
		if err != nil {
			return err
		}
		if err := ml.visit(dotted, resolved.ResolvedPath, child, resolved.Resolver); err != nil {
			return err
		}
	}

	ml.ordered = append(ml.ordered, mod)
	ml.registry.UpdateState(specifier, ModuleParsed)
	return nil
}

// resolveModule asks each resolver in priority order. A resolver that
// claims the path but fails only ends the search when no later one finds it.
func (ml *ModuleLoader) resolveModule(specifier string, fromPath string) (*ResolvedModule, error) {
	var lastErr error
	for _, resolver := range ml.resolvers {
		if !resolver.CanResolve(specifier) {
			continue
		}
		resolved, err := resolver.Resolve(specifier, fromPath)
		if err == nil {
			debugPrintf("%s resolved %s -> %s", resolver.Name(), specifier, resolved.ResolvedPath)
			return resolved, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = &errors.ResolveError{ImportPath: specifier}
	}
	return nil, lastErr
}

func importPosition(imp *parser.ImportStatement, sf *source.SourceFile) errors.Position {
	tok := imp.Token
	return errors.Position{
		Line:     tok.Line,
		Column:   tok.Column,
		StartPos: tok.StartPos,
		EndPos:   tok.EndPos,
		Source:   sf,
	}
}

// GetModule retrieves a module record from the last load
func (ml *ModuleLoader) GetModule(specifier string) *ModuleRecord {
	return ml.registry.Get(specifier)
}

// Analyzer exposes the import graph of the last load
func (ml *ModuleLoader) Analyzer() DependencyAnalyzer {
	return ml.depAnalyzer
}

// Clear forgets everything from a previous load
func (ml *ModuleLoader) Clear() {
	ml.registry.Clear()
	ml.depAnalyzer.Clear()
	ml.ordered = nil
	ml.stdlibImports = 0
}

// Stats reports on the last load
func (ml *ModuleLoader) Stats() LoaderStats {
	return LoaderStats{
		Modules:       len(ml.ordered),
		StdlibImports: ml.stdlibImports,
		Cycles:        ml.depAnalyzer.Cycles(),
		Discovered:    ml.registry.List(),
		Registry:      ml.registry.GetStats(),
		Dependencies:  ml.depAnalyzer.GetStats(),
	}
}
