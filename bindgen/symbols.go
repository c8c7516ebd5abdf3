package bindgen

import "github.com/cockroachdb/errors"

// ErrDuplicateSymbol is returned when a foreign name is registered twice.
var ErrDuplicateSymbol = errors.New("symbol already registered")

// Symbol is one entry of a SymbolTable.
type Symbol struct {
	Foreign string `yaml:"foreign"`
	Target  string `yaml:"target"`
}

// SymbolTable maps foreign C type names to the target type names generated
// for them. Entries are never replaced or removed.
type SymbolTable struct {
	entries map[string]string
	order   []string
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string]string)}
}

// Register adds foreign → target. The first registration of a name wins;
// later ones fail with ErrDuplicateSymbol.
func (s *SymbolTable) Register(foreign, target string) error {
	if existing, ok := s.entries[foreign]; ok {
		return errors.Wrapf(ErrDuplicateSymbol, "%s is already mapped to %s", foreign, existing)
	}
	s.entries[foreign] = target
	s.order = append(s.order, foreign)
	return nil
}

// Lookup returns the target name registered for foreign.
func (s *SymbolTable) Lookup(foreign string) (string, bool) {
	target, ok := s.entries[foreign]
	return target, ok
}

// Len returns the number of entries.
func (s *SymbolTable) Len() int {
	return len(s.order)
}

// Symbols returns the entries in registration order.
func (s *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Symbol{Foreign: name, Target: s.entries[name]})
	}
	return out
}
