package internal

import (
	"sync/atomic"
)

// Object is the basic type of cavy. Everything is an Object: numbers,
// strings, code literals, contexts, and the built-in services are all
// distinguished only by their attributes and their handlers.
//
// Always use New, NewWith, or one of the encoding constructors to obtain new
// objects. The zero Object has no id and no handler.
type Object struct {
	// attrs is the object's attribute list in insertion order.
	attrs []Attr
	// handler is the behavior the object has when it is sent a message.
	handler Handler

	// id is the object's unique ID.
	id uintptr
}

// Attr is a single key-value pair of an object's attributes. Both the key and
// the value are objects.
type Attr struct {
	Key, Value *Object
}

// A Handler is the behavior bound to an object. It receives the message
// argument and the receiver itself, and it produces a result object.
type Handler func(arg, self *Object) (*Object, error)

// Identity is the default handler. It returns the receiver.
func Identity(arg, self *Object) (*Object, error) {
	return self, nil
}

// objcounter is the global counter for object IDs. All accesses to this must
// be atomic.
var objcounter uintptr

// nextObject increments the object counter and returns its value as a unique
// ID for a new object.
func nextObject() uintptr {
	return atomic.AddUintptr(&objcounter, 1)
}

// New creates an object with no attributes and the identity handler.
func New() *Object {
	return &Object{handler: Identity, id: nextObject()}
}

// NewWith creates an object with the given handler and initial attributes.
// Attributes are set in order, so a later attribute with a key structurally
// equal to an earlier one overwrites it. A nil handler means Identity.
func NewWith(h Handler, attrs ...Attr) *Object {
	if h == nil {
		h = Identity
	}
	o := &Object{handler: h, id: nextObject()}
	for _, a := range attrs {
		o.Set(a.Key, a.Value)
	}
	return o
}

// UniqueID returns the object's unique ID.
func (o *Object) UniqueID() uintptr {
	return o.id
}

// Handler returns the object's message handler.
func (o *Object) Handler() Handler {
	return o.handler
}

// Send invokes the object's handler with arg as the argument and the object
// itself as the receiver.
func (o *Object) Send(arg *Object) (*Object, error) {
	return o.handler(arg, o)
}

// Len returns the number of attributes on the object.
func (o *Object) Len() int {
	return len(o.attrs)
}

// Attrs returns a copy of the object's attributes in insertion order. The
// keys and values are not copied.
func (o *Object) Attrs() []Attr {
	r := make([]Attr, len(o.attrs))
	copy(r, o.attrs)
	return r
}

// Equal returns whether two objects are structurally equal: they have the
// same number of attributes, and each attribute pair, compared position by
// position in insertion order, has equal keys and equal values. Handlers are
// never compared. A pair of objects met again while it is already being
// compared is taken as equal, so cyclic objects of the same shape are equal.
func (o *Object) Equal(other *Object) bool {
	return o.equal(other, nil)
}

// objectPair is a pair of objects under comparison.
type objectPair struct {
	a, b *Object
}

func (o *Object) equal(other *Object, seen map[objectPair]bool) bool {
	if o == other {
		return true
	}
	if o == nil || other == nil {
		return false
	}
	if len(o.attrs) != len(other.attrs) {
		return false
	}
	if len(o.attrs) == 0 {
		return true
	}
	p := objectPair{o, other}
	if seen[p] {
		return true
	}
	if seen == nil {
		seen = make(map[objectPair]bool)
	}
	seen[p] = true
	for i, a := range o.attrs {
		b := other.attrs[i]
		if !a.Value.equal(b.Value, seen) {
			return false
		}
		if !a.Key.equal(b.Key, seen) {
			return false
		}
	}
	return true
}

// index returns the position of the first attribute whose key is
// structurally equal to key, or -1 if there is none.
func (o *Object) index(key *Object) int {
	for i, a := range o.attrs {
		if a.Key.Equal(key) {
			return i
		}
	}
	return -1
}

// Get returns the value of the attribute whose key is structurally equal to
// key. If there is no such attribute, the error is a *KeyNotFoundError.
func (o *Object) Get(key *Object) (*Object, error) {
	if i := o.index(key); i >= 0 {
		return o.attrs[i].Value, nil
	}
	return nil, &KeyNotFoundError{Key: key}
}

// Lookup is like Get but reports absence with a boolean.
func (o *Object) Lookup(key *Object) (*Object, bool) {
	if i := o.index(key); i >= 0 {
		return o.attrs[i].Value, true
	}
	return nil, false
}

// Set sets the value of an attribute. If the object already has an attribute
// with a structurally equal key, its value is replaced in place and the
// attribute keeps its position; otherwise the attribute is appended.
func (o *Object) Set(key, value *Object) {
	if i := o.index(key); i >= 0 {
		o.attrs[i].Value = value
		return
	}
	o.attrs = append(o.attrs, Attr{Key: key, Value: value})
}

// Clone returns a deep copy of the object. The tree of attribute values is
// duplicated, but every copy shares the handler of its original, and keys are
// shared rather than copied. Values reachable more than once, including
// through cycles, are copied once.
func (o *Object) Clone() *Object {
	return o.clone(make(map[*Object]*Object))
}

func (o *Object) clone(seen map[*Object]*Object) *Object {
	if c := seen[o]; c != nil {
		return c
	}
	c := &Object{handler: o.handler, id: nextObject()}
	seen[o] = c
	if len(o.attrs) > 0 {
		c.attrs = make([]Attr, len(o.attrs))
		for i, a := range o.attrs {
			c.attrs[i] = Attr{Key: a.Key, Value: a.Value.clone(seen)}
		}
	}
	return c
}
