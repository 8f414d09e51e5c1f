// Package listing handles housing-listing records and the JSON collection
// files they are stored in.
package listing

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// VectorField is the record key holding the embedding vector.
const VectorField = "vector"

// KeyField identifies a listing in logs and exports.
const KeyField = "primary_key"

// Record is a single listing kept as its raw JSON object. Field order and
// number literals are preserved exactly as read.
type Record struct {
	raw []byte
}

// NewRecord wraps a raw JSON object. It returns an error if raw is not an object.
func NewRecord(raw []byte) (Record, error) {
	if !gjson.ValidBytes(raw) {
		return Record{}, ErrInvalidJSON
	}
	if v := gjson.ParseBytes(raw); !v.IsObject() {
		return Record{}, fmt.Errorf("%w: got %s", ErrNotObject, kindOf(v))
	}
	return Record{raw: raw}, nil
}

// Raw returns the record's JSON bytes.
func (r Record) Raw() []byte {
	return r.raw
}

// Get returns the value of a top-level field.
func (r Record) Get(field string) gjson.Result {
	return gjson.GetBytes(r.raw, escapePath(field))
}

// HasVector reports whether the record already carries a vector field,
// whatever its value.
func (r Record) HasVector() bool {
	return r.Get(VectorField).Exists()
}

// Key returns the listing's primary key as text, or "" if absent.
func (r Record) Key() string {
	return r.Get(KeyField).String()
}

// WithVector returns a copy of the record with the vector field appended
// after all existing fields.
func (r Record) WithVector(vector []float64) (Record, error) {
	encoded, err := json.Marshal(vector)
	if err != nil {
		return Record{}, fmt.Errorf("encode vector: %w", err)
	}
	updated, err := sjson.SetRawBytes(append([]byte(nil), r.raw...), VectorField, encoded)
	if err != nil {
		return Record{}, fmt.Errorf("set vector: %w", err)
	}
	return Record{raw: updated}, nil
}

// Fields returns all top-level fields except the vector, decoded to plain Go
// values (numbers become float64), in document order of the keys.
func (r Record) Fields() (keys []string, values map[string]any) {
	values = make(map[string]any)
	gjson.ParseBytes(r.raw).ForEach(func(key, value gjson.Result) bool {
		if key.Str == VectorField {
			return true
		}
		keys = append(keys, key.Str)
		values[key.Str] = value.Value()
		return true
	})
	return keys, values
}

// Vector decodes the record's vector field. ok is false when the field is
// missing or is not an array of numbers.
func (r Record) Vector() (vector []float64, ok bool) {
	v := r.Get(VectorField)
	if !v.IsArray() {
		return nil, false
	}
	ok = true
	v.ForEach(func(_, item gjson.Result) bool {
		if item.Type != gjson.Number {
			ok = false
			return false
		}
		vector = append(vector, item.Num)
		return true
	})
	if !ok {
		return nil, false
	}
	return vector, true
}

// escapePath makes a literal key safe for gjson/sjson path syntax.
func escapePath(field string) string {
	var out []byte
	for i := 0; i < len(field); i++ {
		switch field[i] {
		case '.', '*', '?', '|', '#', '@', '\\':
			out = append(out, '\\')
		}
		out = append(out, field[i])
	}
	return string(out)
}

func kindOf(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	case v.Type == gjson.String:
		return "string"
	case v.Type == gjson.Number:
		return "number"
	case v.Type == gjson.True, v.Type == gjson.False:
		return "boolean"
	default:
		return "null"
	}
}
