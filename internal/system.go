package internal

import (
	"fmt"
	"io"
)

// System creates the System service object. Its console->out attribute
// writes a tagged string and a newline to out; its var attribute performs
// attribute assignment. Both return a fresh empty object.
func System(out io.Writer) *Object {
	console := NewWith(nil, Attr{Key: RawString("out"), Value: NewWith(consoleOut(out))})
	return NewWith(nil,
		Attr{Key: RawString("console"), Value: console},
		Attr{Key: RawString("var"), Value: NewWith(SystemVar)},
	)
}

// Globals creates the global object table holding a fresh System object.
func Globals(out io.Writer) *Object {
	return NewWith(nil, Attr{Key: RawString("System"), Value: System(out)})
}

// consoleOut returns the handler of System->console->out writing to out.
func consoleOut(out io.Writer) Handler {
	return func(arg, self *Object) (*Object, error) {
		if arg == nil {
			return nil, fmt.Errorf("console out: no argument")
		}
		s, err := StringValue(arg)
		if err != nil {
			return nil, fmt.Errorf("console out: argument is not a string: %w", err)
		}
		if _, err := fmt.Fprintln(out, s); err != nil {
			return nil, fmt.Errorf("console out: %w", err)
		}
		return New(), nil
	}
}

// SystemVar is the handler of System->var. The argument's attr0, attr1, and
// attr2 attributes are the target, key, and value of an assignment
// target[key] = value.
func SystemVar(arg, self *Object) (*Object, error) {
	if arg == nil {
		return nil, fmt.Errorf("var: no argument")
	}
	target, err := arg.Get(RawString("attr0"))
	if err != nil {
		return nil, fmt.Errorf("var: missing target: %w", err)
	}
	key, err := arg.Get(RawString("attr1"))
	if err != nil {
		return nil, fmt.Errorf("var: missing key: %w", err)
	}
	value, err := arg.Get(RawString("attr2"))
	if err != nil {
		return nil, fmt.Errorf("var: missing value: %w", err)
	}
	target.Set(key, value)
	return New(), nil
}
