package modules

import (
	"fmt"
	"strings"
)

// BuiltinResolver claims adopt paths whose first segment names a
// standard-library module. Those never touch the file system; the code
// generator inserts the catalogue snippet by name.
type BuiltinResolver struct {
	names map[string]bool
}

func NewBuiltinResolver(names []string) *BuiltinResolver {
	r := &BuiltinResolver{names: make(map[string]bool, len(names))}
	for _, n := range names {
		r.names[n] = true
	}
	return r
}

func (r *BuiltinResolver) Name() string  { return "Builtin" }
func (r *BuiltinResolver) Priority() int { return 0 }

func (r *BuiltinResolver) CanResolve(specifier string) bool {
	first, _, _ := strings.Cut(specifier, ".")
	return r.names[first]
}

func (r *BuiltinResolver) Resolve(specifier string, fromPath string) (*ResolvedModule, error) {
	if !r.CanResolve(specifier) {
		return nil, fmt.Errorf("%s is not a standard module", specifier)
	}
	return &ResolvedModule{
		Specifier: specifier,
		Builtin:   true,
		Resolver:  r.Name(),
	}, nil
}
