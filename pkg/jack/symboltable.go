package jack

import "fmt"

// SymbolCategory is the scope a symbol was declared in.
type SymbolCategory string

const (
	CategoryStatic   SymbolCategory = "static"
	CategoryField    SymbolCategory = "field"
	CategoryArgument SymbolCategory = "argument"
	CategoryLocal    SymbolCategory = "local"
)

// segment is the VM memory segment a category resolves to when emitting
// push/pop instructions.
func (c SymbolCategory) segment() string {
	switch c {
	case CategoryStatic:
		return "static"
	case CategoryField:
		return "this"
	case CategoryArgument:
		return "argument"
	case CategoryLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Symbol is one binding in a SymbolTable.
type Symbol struct {
	Name     string
	Category SymbolCategory
	Type     string
	Slot     int
}

// SymbolTable is an ordered, name-unique mapping from identifier to Symbol,
// with a running slot counter per category. Tables are built incrementally
// during parsing (class scope) and cloned at subroutine entry (subroutine
// scope), so field/static bindings stay visible once cloned.
type SymbolTable struct {
	order   []*Symbol
	byName  map[string]*Symbol
	counts  map[SymbolCategory]int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		byName: make(map[string]*Symbol),
		counts: make(map[SymbolCategory]int),
	}
}

// Add inserts a new symbol, assigning it the next slot in its category.
// It is a fatal error for name to already be present in the table.
func (t *SymbolTable) Add(category SymbolCategory, typ, name string) *CompileError {
	if _, exists := t.byName[name]; exists {
		return newSymbolError("", "duplicate symbol name: "+name)
	}

	sym := &Symbol{
		Name:     name,
		Category: category,
		Type:     typ,
		Slot:     t.counts[category],
	}
	t.counts[category]++

	t.order = append(t.order, sym)
	t.byName[name] = sym

	return nil
}

// Get returns the binding for name, or a fatal error if it is unknown.
func (t *SymbolTable) Get(name string) (*Symbol, *CompileError) {
	sym, ok := t.byName[name]
	if !ok {
		return nil, newSymbolError("", "unknown identifier: "+name)
	}
	return sym, nil
}

// Contains reports whether name is bound in this table.
func (t *SymbolTable) Contains(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// GetPush returns the VM instruction text that pushes name's value.
func (t *SymbolTable) GetPush(name string) (string, *CompileError) {
	sym, err := t.Get(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("push %s %d", sym.Category.segment(), sym.Slot), nil
}

// GetPop returns the VM instruction text that pops into name's slot.
func (t *SymbolTable) GetPop(name string) (string, *CompileError) {
	sym, err := t.Get(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("pop %s %d", sym.Category.segment(), sym.Slot), nil
}

// Count returns the number of symbols bound in the given category.
func (t *SymbolTable) Count(category SymbolCategory) int {
	return t.counts[category]
}

// CountFields returns the number of Field symbols in the table.
func (t *SymbolTable) CountFields() int {
	return t.Count(CategoryField)
}

// Clone deep-copies the table: a new subroutine table starts life as a
// clone of the enclosing class table, so static/field bindings remain
// reachable alongside the subroutine's own arguments and locals.
func (t *SymbolTable) Clone() *SymbolTable {
	clone := NewSymbolTable()

	for _, sym := range t.order {
		s := *sym
		clone.order = append(clone.order, &s)
		clone.byName[s.Name] = &s
	}

	for cat, n := range t.counts {
		clone.counts[cat] = n
	}

	return clone
}
