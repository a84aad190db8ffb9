package modules

import (
	"sync"
)

// dependencyAnalyzer implements DependencyAnalyzer interface
type dependencyAnalyzer struct {
	discovered map[string]bool     // Already discovered modules
	order      []string            // Modules in discovery order
	depGraph   map[string][]string // Module → dependencies
	depCounts  map[string]int      // Module → import count
	mutex      sync.RWMutex        // Thread safety
}

// NewDependencyAnalyzer creates a new dependency analyzer
func NewDependencyAnalyzer() DependencyAnalyzer {
	return &dependencyAnalyzer{
		discovered: make(map[string]bool),
		depGraph:   make(map[string][]string),
		depCounts:  make(map[string]int),
	}
}

// MarkDiscovered marks a module as discovered
func (da *dependencyAnalyzer) MarkDiscovered(modulePath string) {
	da.mutex.Lock()
	defer da.mutex.Unlock()

	if !da.discovered[modulePath] {
		da.discovered[modulePath] = true
		da.order = append(da.order, modulePath)
	}
}

// IsDiscovered returns true if a module has been discovered
func (da *dependencyAnalyzer) IsDiscovered(modulePath string) bool {
	da.mutex.RLock()
	defer da.mutex.RUnlock()

	return da.discovered[modulePath]
}

// AddDependency adds a dependency relationship
func (da *dependencyAnalyzer) AddDependency(from, to string) {
	da.mutex.Lock()
	defer da.mutex.Unlock()

	da.depGraph[from] = append(da.depGraph[from], to)
	da.depCounts[to]++
}

// GetDependencies returns all dependencies of a module
func (da *dependencyAnalyzer) GetDependencies(modulePath string) []string {
	da.mutex.RLock()
	defer da.mutex.RUnlock()

	deps := da.depGraph[modulePath]
	result := make([]string, len(deps))
	copy(result, deps)
	return result
}

// GetImportCount returns how many times a module is imported
func (da *dependencyAnalyzer) GetImportCount(modulePath string) int {
	da.mutex.RLock()
	defer da.mutex.RUnlock()

	return da.depCounts[modulePath]
}

// GetDependencyDepth returns how deep the import tree below a module goes
func (da *dependencyAnalyzer) GetDependencyDepth(modulePath string) int {
	da.mutex.RLock()
	defer da.mutex.RUnlock()

	return da.calculateDepth(modulePath, make(map[string]bool))
}

// calculateDepth returns the longest import chain below modulePath that
// does not revisit a module already on the current path.
func (da *dependencyAnalyzer) calculateDepth(modulePath string, onPath map[string]bool) int {
	onPath[modulePath] = true
	defer delete(onPath, modulePath)

	maxDepth := 0
	for _, dep := range da.depGraph[modulePath] {
		if onPath[dep] {
			continue
		}
		if d := da.calculateDepth(dep, onPath) + 1; d > maxDepth {
			maxDepth = d
		}
	}
	return maxDepth
}

// Cycles walks the graph in discovery order and returns each cycle closed
// by a back edge, starting at the module the back edge returns to.
func (da *dependencyAnalyzer) Cycles() [][]string {
	da.mutex.RLock()
	defer da.mutex.RUnlock()

	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int)
	var stack []string
	var cycles [][]string

	var visit func(string)
	visit = func(m string) {
		color[m] = gray
		stack = append(stack, m)
		for _, dep := range da.depGraph[m] {
			switch color[dep] {
			case white:
				visit(dep)
			case gray:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == dep {
						cycle := make([]string, len(stack)-i)
						copy(cycle, stack[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[m] = black
	}

	for _, m := range da.order {
		if color[m] == white {
			visit(m)
		}
	}
	return cycles
}

// DependencyStats contains statistics about dependency analysis
type DependencyStats struct {
	TotalDiscovered   int // Total modules discovered
	TotalDependencies int // Total dependency relationships
	MaxDepth          int // Maximum dependency depth
}

// GetStats returns dependency analysis statistics
func (da *dependencyAnalyzer) GetStats() DependencyStats {
	da.mutex.RLock()
	defer da.mutex.RUnlock()

	stats := DependencyStats{TotalDiscovered: len(da.discovered)}
	for _, deps := range da.depGraph {
		stats.TotalDependencies += len(deps)
	}
	for _, m := range da.order {
		if d := da.calculateDepth(m, make(map[string]bool)); d > stats.MaxDepth {
			stats.MaxDepth = d
		}
	}
	return stats
}

// Clear resets the analyzer state
func (da *dependencyAnalyzer) Clear() {
	da.mutex.Lock()
	defer da.mutex.Unlock()

	da.discovered = make(map[string]bool)
	da.order = nil
	da.depGraph = make(map[string][]string)
	da.depCounts = make(map[string]int)
}
