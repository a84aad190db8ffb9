package modules

import (
	"io/fs"
)

// ModuleFS extends Go's standard io/fs interfaces for module loading
type ModuleFS interface {
	fs.FS
	fs.ReadFileFS // Required for reading module content
}

// ModuleResolver maps an adopt path to a concrete module.
type ModuleResolver interface {
	// Name returns a human-readable name for this resolver
	Name() string

	// CanResolve returns true if this resolver can handle the given dotted path
	CanResolve(specifier string) bool

	// Resolve maps a dotted path to a module. fromPath is the slash-separated
	// path of the importing file inside the module file system.
	Resolve(specifier string, fromPath string) (*ResolvedModule, error)

	// Priority returns the priority of this resolver (lower = higher priority)
	Priority() int
}

// ModuleRegistry remembers every module the loader has scheduled.
type ModuleRegistry interface {
	// Get retrieves a module record by dotted path
	Get(specifier string) *ModuleRecord

	// Set stores a module record. The first Set of a specifier fixes its
	// position in List.
	Set(specifier string, record *ModuleRecord)

	// UpdateState moves a module to a new state
	UpdateState(specifier string, state ModuleState)

	// List returns the registered specifiers in discovery order
	List() []string

	// Clear removes every record
	Clear()

	GetStats() RegistryStats
}

// DependencyAnalyzer records the import graph as the loader walks it.
type DependencyAnalyzer interface {
	// MarkDiscovered records a module as part of the program
	MarkDiscovered(modulePath string)

	// IsDiscovered reports whether a module has been recorded
	IsDiscovered(modulePath string) bool

	// AddDependency adds an edge from importer to imported module
	AddDependency(from, to string)

	// GetDependencies returns the direct imports of a module, in source order
	GetDependencies(modulePath string) []string

	// GetImportCount returns how many adopt statements name the module
	GetImportCount(modulePath string) int

	// GetDependencyDepth returns the longest acyclic import chain below a module
	GetDependencyDepth(modulePath string) int

	// Cycles returns every import cycle found, each as the ordered list of
	// modules that form it
	Cycles() [][]string

	GetStats() DependencyStats

	// Clear resets the analyzer state
	Clear()
}
