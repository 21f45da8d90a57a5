package cavy

import (
	"io"

	"github.com/zephyrtronium/cavy/internal"
)

type (
	// Object is the universal value: an ordered list of attributes and a
	// message handler.
	Object = internal.Object
	// Attr is a single key-value attribute of an Object.
	Attr = internal.Attr
	// Handler is the behavior of an object when it receives a message.
	Handler = internal.Handler
	// KeyNotFoundError is returned when an attribute lookup fails.
	KeyNotFoundError = internal.KeyNotFoundError
)

// NewObject creates an empty object whose handler returns the receiver.
func NewObject() *Object {
	return internal.New()
}

// NewObjectWith creates an object with the given handler and attributes. A
// nil handler returns the receiver.
func NewObjectWith(h Handler, attrs ...Attr) *Object {
	return internal.NewWith(h, attrs...)
}

// Numeral encodes a non-negative integer as a unary numeral object.
func Numeral(n int) *Object {
	return internal.Numeral(n)
}

// NumeralValue decodes a numeral object.
func NumeralValue(o *Object) (int, error) {
	return internal.NumeralValue(o)
}

// RawString encodes a string as an object mapping numeral indices to
// numeral code points.
func RawString(s string) *Object {
	return internal.RawString(s)
}

// RawStringValue decodes a raw string object.
func RawStringValue(o *Object) (string, error) {
	return internal.RawStringValue(o)
}

// String encodes a string as a tagged string object, the value of a string
// literal.
func String(s string) *Object {
	return internal.String(s)
}

// StringValue decodes a tagged string object.
func StringValue(o *Object) (string, error) {
	return internal.StringValue(o)
}

// TypeName returns the decoded type tag of an object, if it has one.
func TypeName(o *Object) (string, bool) {
	return internal.TypeName(o)
}

// Describe renders an object for diagnostics.
func Describe(o *Object) string {
	return internal.Describe(o)
}

// System creates the System service object, whose console writes to out.
func System(out io.Writer) *Object {
	return internal.System(out)
}

// Globals creates a global table holding a System object writing to out.
func Globals(out io.Writer) *Object {
	return internal.Globals(out)
}
