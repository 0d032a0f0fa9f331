package domain

import "slices"

// WithDefaults fills the fields a sparse record may omit: nil collections
// become empty, and a missing stage is inferred from the latest action.
func (b Bill) WithDefaults() Bill {
	if b.Timeline == nil {
		b.Timeline = []Milestone{}
	}
	if b.Subjects == nil {
		b.Subjects = []string{}
	}
	if b.Stage == "" {
		b.Stage = InferStage(b.LatestAction.Text)
		b.IsActive = IsActiveAction(b.LatestAction.Text)
	}
	return b
}

// Clone returns a copy of b that shares no slices with it.
func (b Bill) Clone() Bill {
	b.Timeline = slices.Clone(b.Timeline)
	b.Subjects = slices.Clone(b.Subjects)
	return b
}

// WithDefaults replaces a nil term list with an empty one.
func (m Member) WithDefaults() Member {
	if m.Terms == nil {
		m.Terms = []Term{}
	}
	return m
}

// Clone returns a copy of m that shares no slices with it.
func (m Member) Clone() Member {
	m.Terms = slices.Clone(m.Terms)
	return m
}

// WithDefaults replaces a nil subcommittee list with an empty one.
func (c Committee) WithDefaults() Committee {
	if c.Subcommittees == nil {
		c.Subcommittees = []CommitteeRef{}
	}
	return c
}

// Clone returns a copy of c that shares no slices with it.
func (c Committee) Clone() Committee {
	c.Subcommittees = slices.Clone(c.Subcommittees)
	return c
}

// CloneRecords deep-copies a record or a list of records. Values of any
// other type are returned unchanged.
func CloneRecords[T any](v T) T {
	var out any
	switch x := any(v).(type) {
	case Bill:
		out = x.Clone()
	case Member:
		out = x.Clone()
	case Committee:
		out = x.Clone()
	case []Bill:
		out = cloneEach(x, Bill.Clone)
	case []Member:
		out = cloneEach(x, Member.Clone)
	case []Committee:
		out = cloneEach(x, Committee.Clone)
	default:
		return v
	}
	return out.(T)
}

func cloneEach[S ~[]E, E any](s S, clone func(E) E) S {
	if s == nil {
		return nil
	}
	out := make(S, len(s))
	for i, e := range s {
		out[i] = clone(e)
	}
	return out
}
