package core

// Measure is a named type that belongs to a family of related types.
// It is implemented by *UnitType and *ScaleType through MeasureType.
type Measure interface {
	AbstractType
	measure() *MeasureType
}

// MeasureType carries identity and family membership.
//
// A family is a cyclic ring linked through relative. The ring always
// contains the type itself; exactly one member (the prime) has a nil prime
// and every other member points at it.
type MeasureType struct {
	namespace string
	name      string
	self      Measure
	relative  Measure
	prime     Measure
}

func (m *MeasureType) init(self Measure, namespace, name string) {
	m.namespace = namespace
	m.name = name
	m.self = self
	m.relative = self
}

func (m *MeasureType) measure() *MeasureType { return m }

// Namespace implements AbstractType.
func (m *MeasureType) Namespace() string { return m.namespace }

// Name implements AbstractType.
func (m *MeasureType) Name() string { return m.name }

// QualifiedName implements AbstractType.
func (m *MeasureType) QualifiedName() string { return qualify(m.namespace, m.name) }

// Prime returns the prime of the family, or nil when m is the prime.
func (m *MeasureType) Prime() Measure { return m.prime }

// IsPrime reports whether m is the prime of its family.
func (m *MeasureType) IsPrime() bool { return m.prime == nil }

// Family returns the prime of the family m belongs to (m itself if prime).
// Two measures are relatives iff their Family values are equal.
func (m *MeasureType) Family() Measure {
	if m.prime == nil {
		return m.self
	}
	return m.prime
}

// IsRelative reports whether o belongs to the same family as m.
func (m *MeasureType) IsRelative(o Measure) bool {
	return m.Family() == o.measure().Family()
}

// Next returns the next member of the ring.
func (m *MeasureType) Next() Measure { return m.relative }

// Relatives returns every member of the family in ring order, starting at m.
func (m *MeasureType) Relatives() []Measure {
	members := []Measure{m.self}
	for r := m.relative; r != m.self; r = r.measure().relative {
		members = append(members, r)
	}
	return members
}

// AddRelative merges the family of joining into the family of m.
// It returns false when both already belong to the same family.
//
// Every member of the joining family is re-pointed at m's prime, so the
// merged ring keeps a single prime.
func (m *MeasureType) AddRelative(joining Measure) bool {
	j := joining.measure()
	if m.IsRelative(joining) {
		return false
	}
	prime := m.Family()
	for _, member := range j.Relatives() {
		member.measure().prime = prime
	}
	m.relative, j.relative = j.relative, m.relative
	return true
}
