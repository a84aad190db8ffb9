package modules

import (
	"sync"
)

// registry implements the ModuleRegistry interface
type registry struct {
	modules map[string]*ModuleRecord // Map of specifier -> module record
	order   []string                 // Specifiers in the order they were first set
	mutex   sync.RWMutex             // Protects concurrent access
}

// NewRegistry creates a new module registry
func NewRegistry() ModuleRegistry {
	return &registry{
		modules: make(map[string]*ModuleRecord),
	}
}

// Get retrieves a module record by specifier
func (r *registry) Get(specifier string) *ModuleRecord {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return r.modules[specifier]
}

// Set stores a module record
func (r *registry) Set(specifier string, record *ModuleRecord) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.modules[specifier] == nil {
		r.order = append(r.order, specifier)
	}
	r.modules[specifier] = record
}

// UpdateState updates the state of a module
func (r *registry) UpdateState(specifier string, state ModuleState) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if record := r.modules[specifier]; record != nil {
		record.State = state
	}
}

// List returns all registered specifiers in discovery order
func (r *registry) List() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	specifiers := make([]string, len(r.order))
	copy(specifiers, r.order)
	return specifiers
}

// Clear clears all registered modules
func (r *registry) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.modules = make(map[string]*ModuleRecord)
	r.order = nil
}

// GetStats returns current registry statistics
func (r *registry) GetStats() RegistryStats {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	stats := RegistryStats{TotalModules: len(r.modules)}
	for _, record := range r.modules {
		switch record.State {
		case ModuleParsed:
			stats.ParsedModules++
		case ModuleError:
			stats.FailedModules++
		}
	}
	return stats
}
