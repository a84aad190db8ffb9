package modules

import (
	"io"

	"flc/pkg/builtins"
	"flc/pkg/parser"
	"flc/pkg/source"
)

// ModuleState represents the current state of a module during loading
type ModuleState int

const (
	ModuleUnknown    ModuleState = iota // Initial state
	ModuleDiscovered                    // Visited, imports not yet processed
	ModuleParsed                        // Parsed and all imports visited
	ModuleError                         // Error occurred
)

func (s ModuleState) String() string {
	switch s {
	case ModuleUnknown:
		return "unknown"
	case ModuleDiscovered:
		return "discovered"
	case ModuleParsed:
		return "parsed"
	case ModuleError:
		return "error"
	default:
		return "invalid"
	}
}

// ModuleRecord represents a module in the registry with all its metadata
type ModuleRecord struct {
	Specifier    string      // Dotted path, or parser.MainModulePath
	ResolvedPath string      // Slash-separated path inside the module file system
	State        ModuleState // Current loading state
	Resolver     string      // Name of the resolver that found the file

	Source *source.SourceFile
	AST    *parser.Module

	Dependencies []string // Dotted paths of file imports, in source order
	Error        error
}

// ResolvedModule represents a module that has been resolved by a resolver
type ResolvedModule struct {
	Specifier    string        // Dotted path as written in adopt
	ResolvedPath string        // Path inside the file system; empty for builtins
	DisplayPath  string        // Path shown in diagnostics
	Source       io.ReadCloser // Source content (must be closed by caller); nil for builtins
	Builtin      bool          // Provided by the standard-library catalogue
	Resolver     string        // Name of resolver that resolved this
}

// LoaderConfig configures module loader behavior
type LoaderConfig struct {
	Extension   string   // Source file extension tried for every import
	EntryPath   string   // Dotted path given to the entry module
	StdlibNames []string // First segments that name standard-library modules
}

// DefaultLoaderConfig returns the configuration used by the compiler
func DefaultLoaderConfig() *LoaderConfig {
	return &LoaderConfig{
		Extension:   ".fl",
		EntryPath:   parser.MainModulePath,
		StdlibNames: builtins.Names(),
	}
}

// RegistryStats contains statistics about the module registry
type RegistryStats struct {
	TotalModules  int // Total modules in registry
	ParsedModules int // Modules fully loaded
	FailedModules int // Modules that failed to load
}

// LoaderStats summarizes one Load call.
type LoaderStats struct {
	Modules       int        // File modules in the program, entry included
	StdlibImports int        // Adopt statements served by the catalogue
	Cycles        [][]string // Import cycles, reported but never reordered
	Discovered    []string   // Module paths in the order adopts first reached them
	Registry      RegistryStats
	Dependencies  DependencyStats
}
