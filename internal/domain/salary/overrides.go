package salary

import "sort"

// OverrideSet holds the fields the user edited by hand. Methods never mutate
// the receiver; they return a new set.
type OverrideSet map[Field]struct{}

func NewOverrideSet(fields ...Field) OverrideSet {
	out := make(OverrideSet, len(fields))
	for _, field := range fields {
		out[field] = struct{}{}
	}
	return out
}

func (s OverrideSet) Has(field Field) bool {
	_, ok := s[field]
	return ok
}

func (s OverrideSet) With(field Field) OverrideSet {
	out := s.Clone()
	out[field] = struct{}{}
	return out
}

func (s OverrideSet) Without(fields ...Field) OverrideSet {
	out := s.Clone()
	for _, field := range fields {
		delete(out, field)
	}
	return out
}

func (s OverrideSet) Clone() OverrideSet {
	out := make(OverrideSet, len(s))
	for field := range s {
		out[field] = struct{}{}
	}
	return out
}

// Fields returns the members in sorted order.
func (s OverrideSet) Fields() []Field {
	out := make([]Field, 0, len(s))
	for field := range s {
		out = append(out, field)
	}
	sortFields(out)
	return out
}

// ApplyChange records an edit of field. A manual edit marks the field as
// overridden; an edit of a trigger input releases the fields the split
// invalidation policy ties to it, even when that edit is itself manual.
func ApplyChange(overrides OverrideSet, field Field, manual bool) OverrideSet {
	out := overrides.Clone()
	if manual {
		out[field] = struct{}{}
	}
	for _, released := range splitInvalidation.Invalidated(field) {
		delete(out, released)
	}
	return out
}

func sortFields(fields []Field) {
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
}
