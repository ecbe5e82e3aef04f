package strategy

// factories maps strategy name to a constructor, per spec.md §4.E and the
// "registry of factory closures" preference in §9. Strategies are
// value-like and stateless apart from their own config, so every factory
// just returns a fresh zero-value struct.
var factories = map[string]func() Strategy{
	"skeleton": func() Strategy { return Skeleton{} },
	"keyword":  func() Strategy { return Keyword{} },
	"ast":      func() Strategy { return AST{} },
	"symbols":  func() Strategy { return Symbols{} },
	"graph":    func() Strategy { return Graph{} },
	"config":   func() Strategy { return Config{} },
	"diff":     func() Strategy { return Diff{} },
	"forest":   func() Strategy { return Forest{} },
}

// New constructs a Strategy by name. Returns (nil, false) for an unknown
// name.
func New(name string) (Strategy, bool) {
	factory, ok := factories[name]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// All constructs every registered strategy in the fixed execution Order.
func All() []Strategy {
	out := make([]Strategy, 0, len(Order))
	for _, name := range Order {
		if s, ok := New(name); ok {
			out = append(out, s)
		}
	}
	return out
}
