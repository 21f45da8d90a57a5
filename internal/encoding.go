package internal

/*
This file contains the canonical encodings of numbers and strings. There is
no primitive type besides Object, so a number is a chain of single-attribute
objects and a string is an object mapping indices to character codes. Nothing
here is fast; everything here is simple.
*/

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zephyrtronium/contains"
)

// empty is the sentinel used to walk numerals. It is never modified.
var empty = New()

// Numeral encodes n as a unary numeral. Zero is an object with one attribute
// whose key and value are both fresh empty objects; n > 0 is an object with
// one attribute whose key is a fresh empty object and whose value is the
// numeral n-1. Numeral panics if n is negative.
func Numeral(n int) *Object {
	if n < 0 {
		panic(fmt.Errorf("cavy: negative numeral %d", n))
	}
	r := NewWith(nil, Attr{Key: New(), Value: New()})
	for i := 0; i < n; i++ {
		r = NewWith(nil, Attr{Key: New(), Value: r})
	}
	return r
}

// errCyclicNumeral is returned when a numeral chain leads back to itself.
var errCyclicNumeral = errors.New("not a numeral: cyclic chain")

// NumeralValue decodes a unary numeral. It walks the chain using an empty
// object as the key at each level, counting steps until the value at a level
// is itself an empty object.
func NumeralValue(o *Object) (int, error) {
	var set contains.Set
	n := 0
	cur := o
	for {
		if !set.Add(cur.UniqueID()) {
			return 0, errCyclicNumeral
		}
		next, err := cur.Get(empty)
		if err != nil {
			return 0, fmt.Errorf("not a numeral: %w", err)
		}
		if next.Equal(empty) {
			return n, nil
		}
		cur = next
		n++
	}
}

// IsNumeral returns whether o has the exact shape of a numeral: exactly one
// attribute with an empty key at every level, ending in an empty value.
func IsNumeral(o *Object) bool {
	var set contains.Set
	cur := o
	for set.Add(cur.UniqueID()) {
		if cur.Len() != 1 || cur.attrs[0].Key.Len() != 0 {
			return false
		}
		next := cur.attrs[0].Value
		if next.Len() == 0 {
			return true
		}
		cur = next
	}
	return false
}

// RawString encodes s as an object mapping Numeral(i) to the numeral of the
// code point at index i, counting by runes.
func RawString(s string) *Object {
	r := New()
	i := 0
	for _, c := range s {
		// Indices are distinct, so appending is equivalent to Set.
		r.attrs = append(r.attrs, Attr{Key: Numeral(i), Value: Numeral(int(c))})
		i++
	}
	return r
}

// RawStringValue decodes a raw string. Attribute values are read in
// insertion order; keys are not inspected.
func RawStringValue(o *Object) (string, error) {
	var b strings.Builder
	for _, a := range o.attrs {
		c, err := NumeralValue(a.Value)
		if err != nil {
			return "", fmt.Errorf("not a raw string: %w", err)
		}
		b.WriteRune(rune(c))
	}
	return b.String(), nil
}

// IsRawString returns whether o has the exact shape of a raw string: its keys
// are the numerals 0 through n-1 in order, and every value is a numeral.
func IsRawString(o *Object) bool {
	for i, a := range o.attrs {
		if !IsNumeral(a.Key) || !IsNumeral(a.Value) {
			return false
		}
		if k, _ := NumeralValue(a.Key); k != i {
			return false
		}
	}
	return true
}

// String encodes s as a tagged string: an object whose "type" attribute is
// the raw string "str" and whose "str" attribute is the raw string content.
func String(s string) *Object {
	return Tagged("str", Attr{Key: RawString("str"), Value: RawString(s)})
}

// StringValue decodes a tagged string.
func StringValue(o *Object) (string, error) {
	v, err := o.Get(RawString("str"))
	if err != nil {
		return "", err
	}
	return RawStringValue(v)
}

// Tagged creates an object whose "type" attribute is the raw string kind,
// followed by the given attributes.
func Tagged(kind string, attrs ...Attr) *Object {
	return TaggedWith(nil, kind, attrs...)
}

// TaggedWith is like Tagged but gives the object the handler h.
func TaggedWith(h Handler, kind string, attrs ...Attr) *Object {
	r := NewWith(h, Attr{Key: RawString("type"), Value: RawString(kind)})
	for _, a := range attrs {
		r.Set(a.Key, a.Value)
	}
	return r
}

// TypeName returns the decoded "type" attribute of o, if it has one that is a
// raw string.
func TypeName(o *Object) (string, bool) {
	v, ok := o.Lookup(RawString("type"))
	if !ok {
		return "", false
	}
	s, err := RawStringValue(v)
	if err != nil {
		return "", false
	}
	return s, true
}
