package load

import (
	"github.com/franz/filmdex/internal/tsv"
)

// IDSet is one entity type's known identifiers. The coordinator owns a set
// per entity, seeds it from the store before the entity's phase, and hands
// it by reference to that phase's validator and to later phases' reference
// checks.
type IDSet struct {
	ids map[string]struct{}
}

// NewIDSet wraps a seeded identifier set. The map is taken over, not copied.
func NewIDSet(seed map[string]struct{}) *IDSet {
	if seed == nil {
		seed = make(map[string]struct{})
	}
	return &IDSet{ids: seed}
}

// Has reports whether the identifier is known
func (s *IDSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add records an identifier
func (s *IDSet) Add(id string) {
	s.ids[id] = struct{}{}
}

// Len returns the number of known identifiers
func (s *IDSet) Len() int {
	return len(s.ids)
}

// Ref is one foreign-identifier check against an already-loaded entity set.
// Key extracts the foreign identifier from the row; Set holds the
// identifiers a prior phase loaded.
type Ref struct {
	Entity string
	Key    func(tsv.Record) string
	Set    *IDSet
}

// Validator decides whether a decoded row may proceed to the writer.
type Validator struct {
	required []string
	key      func(tsv.Record) (string, bool)
	seen     *IDSet
	refs     []Ref
}

// NewValidator builds a validator from the entity's field map. Required
// attributes are taken from the fields marked Required; identity and
// referential state come from the coordinator-owned sets.
func NewValidator(fields []tsv.Field, key func(tsv.Record) (string, bool), seen *IDSet, refs []Ref) *Validator {
	var required []string
	for _, f := range fields {
		if f.Required && !f.Identity {
			required = append(required, f.Attr)
		}
	}
	return &Validator{required: required, key: key, seen: seen, refs: refs}
}

// Validate returns the row's identity key and whether it may be written.
// A rejected row's identity is never recorded; an accepted row's identity
// is recorded immediately, before its batch commits, so duplicates later in
// the same stream are rejected regardless of batch boundaries.
func (v *Validator) Validate(rec tsv.Record) (key string, reason Reason, ok bool) {
	for _, attr := range v.required {
		if !rec.Present(attr) {
			return "", ReasonMalformed, false
		}
	}

	key, ok = v.key(rec)
	if !ok {
		return "", ReasonMalformed, false
	}

	if v.seen.Has(key) {
		return key, ReasonDuplicate, false
	}

	for _, ref := range v.refs {
		if !ref.Set.Has(ref.Key(rec)) {
			return key, ReasonMissingReference, false
		}
	}

	v.seen.Add(key)
	return key, 0, true
}
