package builtins

import "sort"

// Module is one standard-library module: a fixed JavaScript object literal
// bound to a global const. The compiler never looks inside Definition.
type Module struct {
	Name       string // Name used in `adopt`
	JSName     string // Global the snippet defines
	Definition string
}

// Snippet returns the declaration inserted into generated programs.
func (m *Module) Snippet() string {
	return "const " + m.JSName + " = " + m.Definition + ";"
}

var registry = map[string]*Module{}

func register(m *Module) {
	registry[m.Name] = m
}

func init() {
	register(ioModule)
	register(mathModule)
	register(strModule)
	register(arrModule)
}

// Lookup returns the standard module named name.
func Lookup(name string) (*Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// IsStdlib reports whether name is a standard-library module.
func IsStdlib(name string) bool {
	_, ok := registry[name]
	return ok
}

// Names lists the standard modules in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
