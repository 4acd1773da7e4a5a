package tsv

import (
	"errors"
	"fmt"
	"strconv"
)

// NullToken is the reserved null sentinel used by the source files.
const NullToken = `\N`

// ErrMissingIdentity indicates a row whose identity field decoded to absent.
// Non-identity fields degrade to absent on bad input; the identity field
// invalidates the whole row.
var ErrMissingIdentity = errors.New("missing identity field")

// Kind is the target type of a decoded field
type Kind int

const (
	String Kind = iota
	Int
	Float
	Bool
)

// Field maps one source column to a target attribute.
// Identity marks the field whose absence invalidates the row; this binding
// is explicit so duplicate detection never has to reconstruct which source
// column carries the key. Required is enforced by the validator, not here:
// the decoder stays a pure per-row transformation.
type Field struct {
	Column   string // source column name from the file header
	Attr     string // target attribute name
	Kind     Kind
	Identity bool
	Required bool
}

// Value is one decoded field. Present is false for the null sentinel, for
// numeric tokens that failed to parse, and for columns missing from a short
// row; the typed accessors are only meaningful when Present is true.
type Value struct {
	Present bool
	Str     string
	Int     int64
	Float   float64
	Bool    bool
}

// Record holds the decoded attributes of one row, keyed by target attribute.
type Record map[string]Value

// Str returns the string value of an attribute, or "" when absent.
func (r Record) Str(attr string) string {
	return r[attr].Str
}

// Present reports whether an attribute decoded to a value.
func (r Record) Present(attr string) bool {
	return r[attr].Present
}

// Decoder turns raw rows into typed records using a per-entity field map.
// It holds no state between rows.
type Decoder struct {
	fields []Field
	index  []int // position of each field's column in the header, -1 if absent
}

// NewDecoder resolves the field map against a file header. Every mapped
// column must appear in the header; a header missing a mapped column means
// the file is not the expected dataset.
func NewDecoder(header []string, fields []Field) (*Decoder, error) {
	pos := make(map[string]int, len(header))
	for i, col := range header {
		pos[col] = i
	}

	index := make([]int, len(fields))
	for i, f := range fields {
		p, ok := pos[f.Column]
		if !ok {
			return nil, fmt.Errorf("column %q not found in header", f.Column)
		}
		index[i] = p
	}

	return &Decoder{fields: fields, index: index}, nil
}

// Decode converts one raw row into a typed record. Failed numeric
// conversions and the null sentinel become absent values; only an absent
// identity field rejects the row.
func (d *Decoder) Decode(row []string) (Record, error) {
	rec := make(Record, len(d.fields))
	for i, f := range d.fields {
		var raw string
		if p := d.index[i]; p < len(row) {
			raw = row[p]
		}
		v := decodeValue(raw, f.Kind)
		if f.Identity && !v.Present {
			return nil, ErrMissingIdentity
		}
		rec[f.Attr] = v
	}
	return rec, nil
}

func decodeValue(raw string, kind Kind) Value {
	// Bool uses the dataset's "1" convention: anything that is not the
	// literal token "1" (including the null sentinel) is false.
	if kind == Bool {
		return Value{Present: true, Bool: raw == "1"}
	}

	if raw == "" || raw == NullToken {
		return Value{}
	}

	switch kind {
	case String:
		return Value{Present: true, Str: raw}
	case Int:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}
		}
		return Value{Present: true, Int: n}
	case Float:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Value{}
		}
		return Value{Present: true, Float: f}
	}
	return Value{}
}
