package core

// CommonRefPoint is the reference point of scales that declare none. It can
// never collide with a declared reference point because it is not an identifier.
const CommonRefPoint = "<common>"

// ScaleType describes a scale: a unit plus the offset of the scale's zero
// relative to a reference point.
type ScaleType struct {
	MeasureType

	Unit     *UnitType
	RefPoint string
	Format   string
	Offset   NumExpr
}

// NewScaleType creates a scale that is the only member of its family.
func NewScaleType(namespace, name string, unit *UnitType, refPoint string) *ScaleType {
	if refPoint == "" {
		refPoint = CommonRefPoint
	}
	s := &ScaleType{Unit: unit, RefPoint: refPoint, Format: DefaultFormat}
	s.init(s, namespace, name)
	return s
}

// HasCommonRefPoint reports whether the scale uses the shared reference point.
func (s *ScaleType) HasCommonRefPoint() bool {
	return s.RefPoint == CommonRefPoint
}

// ScaleRelatives returns the scales of the family in ring order.
func (s *ScaleType) ScaleRelatives() []*ScaleType {
	var scales []*ScaleType
	for _, m := range s.Relatives() {
		if r, ok := m.(*ScaleType); ok {
			scales = append(scales, r)
		}
	}
	return scales
}

// String implements fmt.Stringer.
func (s *ScaleType) String() string {
	return s.QualifiedName()
}
