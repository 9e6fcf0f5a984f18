package salary

// Session is one editing session over a Record. It is not safe for
// concurrent use; each form owns its own session.
type Session struct {
	rates     Rates
	record    Record
	overrides OverrideSet
	breakdown Breakdown
}

func NewSession(r Rates, rec Record) *Session {
	s := &Session{rates: r, record: rec, overrides: NewOverrideSet()}
	s.recompute()
	return s
}

// ResumeSession restores a session from a saved record and override set.
// Fields in overrides that the engine does not derive are dropped.
func ResumeSession(r Rates, rec Record, overrides OverrideSet) *Session {
	kept := NewOverrideSet()
	for field := range overrides {
		if field.Derived() {
			kept[field] = struct{}{}
		}
	}
	s := &Session{rates: r, record: rec, overrides: kept}
	s.recompute()
	return s
}

// Set applies one edit and returns the fresh breakdown. On error the session
// is left untouched.
func (s *Session) Set(c Change) (Breakdown, error) {
	next := s.record
	if err := next.set(c); err != nil {
		return s.breakdown, err
	}
	s.record = next
	s.overrides = ApplyChange(s.overrides, c.Field, c.Manual && c.Field.Derived())
	s.recompute()
	return s.breakdown, nil
}

// Reset hands every field back to formula control.
func (s *Session) Reset() Breakdown {
	s.overrides = NewOverrideSet()
	s.recompute()
	return s.breakdown
}

func (s *Session) Breakdown() Breakdown { return s.breakdown }

func (s *Session) Record() Record { return s.record }

func (s *Session) Overrides() OverrideSet { return s.overrides.Clone() }

func (s *Session) recompute() {
	s.breakdown = Recompute(s.rates, s.record, s.overrides)
	s.record.absorb(s.breakdown, s.overrides)
}
