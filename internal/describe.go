package internal

import (
	"strconv"
	"strings"
)

// KeyNotFoundError is the error returned when an attribute lookup finds no
// key structurally equal to the requested one.
type KeyNotFoundError struct {
	// Key is the key that was looked up.
	Key *Object
}

func (e *KeyNotFoundError) Error() string {
	return "no attribute " + Describe(e.Key)
}

// Describe renders an object for diagnostics. Numerals are written as
// decimals, raw strings bare, tagged strings quoted, and any other object as
// a bracketed list of its attributes. An object met again inside its own
// rendering is written as "...".
func Describe(o *Object) string {
	var b strings.Builder
	describe(&b, o, make(map[*Object]bool))
	return b.String()
}

// describe renders o. path holds the objects whose attributes are being
// rendered.
func describe(b *strings.Builder, o *Object, path map[*Object]bool) {
	if o == nil {
		b.WriteString("<nil>")
		return
	}
	if o.Len() > 0 && IsNumeral(o) {
		n, _ := NumeralValue(o)
		b.WriteString(strconv.Itoa(n))
		return
	}
	if o.Len() > 0 && IsRawString(o) {
		s, _ := RawStringValue(o)
		b.WriteString(s)
		return
	}
	if typ, ok := TypeName(o); ok && typ == "str" && o.Len() == 2 {
		if s, err := StringValue(o); err == nil {
			b.WriteString(strconv.Quote(s))
			return
		}
	}
	if path[o] {
		b.WriteString("...")
		return
	}
	path[o] = true
	b.WriteByte('[')
	for i, a := range o.attrs {
		if i > 0 {
			b.WriteString(", ")
		}
		describe(b, a.Key, path)
		b.WriteString(": ")
		describe(b, a.Value, path)
	}
	b.WriteByte(']')
	delete(path, o)
}
