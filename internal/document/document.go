// Package document provides a read-only, dynamically shaped JSON tree.
//
// Parsing never fails loudly: malformed input yields a Document whose Valid
// method reports false. Every accessor on an invalid or missing node returns
// another invalid Document instead of an error, so callers can chain lookups
// and check once at the end.
package document

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// ErrInvalid is returned by Decode when the document is not a parse result.
var ErrInvalid = errors.New("document: invalid")

// Document is a node of a parsed JSON tree. The zero value is invalid.
type Document struct {
	res   gjson.Result
	valid bool
}

// Parse parses raw bytes into a Document. Malformed JSON, including strings
// that are not valid UTF-8, produces an invalid Document.
func Parse(b []byte) Document {
	if !utf8.Valid(b) || !gjson.ValidBytes(b) {
		return Document{}
	}
	return Document{res: gjson.ParseBytes(b), valid: true}
}

// ParseString is Parse for string input.
func ParseString(s string) Document {
	if !utf8.ValidString(s) || !gjson.Valid(s) {
		return Document{}
	}
	return Document{res: gjson.Parse(s), valid: true}
}

func wrap(r gjson.Result) Document {
	return Document{res: r, valid: r.Exists()}
}

// Valid reports whether d is a well-formed node.
func (d Document) Valid() bool {
	return d.valid
}

// IsObject reports whether d is a JSON object.
func (d Document) IsObject() bool {
	return d.valid && d.res.IsObject()
}

// IsArray reports whether d is a JSON array.
func (d Document) IsArray() bool {
	return d.valid && d.res.IsArray()
}

// IsNull reports whether d is a JSON null.
func (d Document) IsNull() bool {
	return d.valid && d.res.Type == gjson.Null
}

// Has reports whether d is an object carrying the key.
// Keys are matched literally; no path syntax is interpreted.
func (d Document) Has(key string) bool {
	return d.Get(key).Valid()
}

// Get returns the member named key, or an invalid Document. When an object
// repeats a key the last occurrence wins.
func (d Document) Get(key string) Document {
	if !d.IsObject() {
		return Document{}
	}
	var found Document
	d.res.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = wrap(v)
		}
		return true
	})
	return found
}

// Len returns the number of elements of an array or distinct members of an
// object.
func (d Document) Len() int {
	switch {
	case d.IsArray():
		return len(d.res.Array())
	case d.IsObject():
		seen := make(map[string]struct{})
		d.res.ForEach(func(k, _ gjson.Result) bool {
			seen[k.String()] = struct{}{}
			return true
		})
		return len(seen)
	}
	return 0
}

// Empty reports whether an array or object has no elements. Scalars and
// invalid documents are empty.
func (d Document) Empty() bool {
	return d.Len() == 0
}

// At returns element i of an array, or an invalid Document.
func (d Document) At(i int) Document {
	if !d.IsArray() || i < 0 {
		return Document{}
	}
	elems := d.res.Array()
	if i >= len(elems) {
		return Document{}
	}
	return wrap(elems[i])
}

// Raw returns the JSON text of d, or "" when d is invalid.
func (d Document) Raw() string {
	if !d.valid {
		return ""
	}
	return d.res.Raw
}

// Result exposes the underlying gjson value for path queries.
func (d Document) Result() gjson.Result {
	return d.res
}

// Decode unmarshals d into v.
func (d Document) Decode(v any) error {
	if !d.valid {
		return ErrInvalid
	}
	return json.Unmarshal([]byte(d.res.Raw), v)
}

// MarshalJSON implements json.Marshaler. Invalid documents encode as null.
func (d Document) MarshalJSON() ([]byte, error) {
	if !d.valid {
		return []byte("null"), nil
	}
	return []byte(d.res.Raw), nil
}

// String returns the raw JSON text.
func (d Document) String() string {
	return d.Raw()
}
