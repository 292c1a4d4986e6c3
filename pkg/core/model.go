package core

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Model registration.
var (
	ErrDuplicateName   = errors.New("duplicate name")
	ErrDuplicateSymbol = errors.New("duplicate symbol")
)

// Model is the output of a compilation: every accepted unit and scale in
// declaration order. It is owned by the caller.
type Model struct {
	Units  []*UnitType
	Scales []*ScaleType

	byName   map[string]Measure
	bySymbol map[string]*UnitType
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		byName:   make(map[string]Measure),
		bySymbol: make(map[string]*UnitType),
	}
}

func (m *Model) lazyInit() {
	if m.byName == nil {
		m.byName = make(map[string]Measure)
		m.bySymbol = make(map[string]*UnitType)
	}
}

// Lookup finds a unit or scale by plain or qualified name.
func (m *Model) Lookup(name string) (Measure, bool) {
	found, ok := m.byName[name]
	return found, ok
}

// Unit finds a unit by plain or qualified name.
func (m *Model) Unit(name string) (*UnitType, bool) {
	u, ok := m.byName[name].(*UnitType)
	return u, ok
}

// Scale finds a scale by plain or qualified name.
func (m *Model) Scale(name string) (*ScaleType, bool) {
	s, ok := m.byName[name].(*ScaleType)
	return s, ok
}

// UnitBySymbol finds the unit that declared tag.
func (m *Model) UnitBySymbol(tag string) (*UnitType, bool) {
	u, ok := m.bySymbol[tag]
	return u, ok
}

// HasName reports whether any unit or scale is registered under name.
func (m *Model) HasName(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// AddUnit registers u. It fails without side effects if the name or one of
// the tags is taken.
func (m *Model) AddUnit(u *UnitType) error {
	m.lazyInit()
	if m.HasName(u.Name()) || m.HasName(u.QualifiedName()) {
		return fmt.Errorf("%w: %s", ErrDuplicateName, u.Name())
	}
	for _, tag := range u.Tags {
		if owner, ok := m.bySymbol[tag]; ok {
			return fmt.Errorf("%w: %q is used by %s", ErrDuplicateSymbol, tag, owner.Name())
		}
	}
	m.Units = append(m.Units, u)
	m.register(u)
	for _, tag := range u.Tags {
		m.bySymbol[tag] = u
	}
	return nil
}

// AddScale registers s. It fails without side effects if the name is taken.
func (m *Model) AddScale(s *ScaleType) error {
	m.lazyInit()
	if m.HasName(s.Name()) || m.HasName(s.QualifiedName()) {
		return fmt.Errorf("%w: %s", ErrDuplicateName, s.Name())
	}
	m.Scales = append(m.Scales, s)
	m.register(s)
	return nil
}

func (m *Model) register(x Measure) {
	m.byName[x.Name()] = x
	m.byName[x.QualifiedName()] = x
}

// Operations returns the operations of every unit in declaration order.
func (m *Model) Operations() []BinaryOperation {
	var ops []BinaryOperation
	for _, u := range m.Units {
		ops = append(ops, u.Operations...)
	}
	return ops
}

// Families groups units by family, in order of each family's first member.
func (m *Model) Families() [][]*UnitType {
	seen := make(map[Measure]int)
	var families [][]*UnitType
	for _, u := range m.Units {
		f := u.Family()
		i, ok := seen[f]
		if !ok {
			i = len(families)
			seen[f] = i
			families = append(families, nil)
		}
		families[i] = append(families[i], u)
	}
	return families
}
