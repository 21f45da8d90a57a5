/*
Package cavy implements Cavy, a small prototype-based, message-passing
language in which everything is one kind of object.

A Cavy object is an ordered list of attributes, each a key and a value that
are themselves objects, together with a message handler. There are no other
primitive types. Numbers are unary chains of objects, strings are objects
mapping numeral indices to numeral code points, and code blocks are objects
whose handlers run statements. Two objects are equal when their attributes
are pairwise equal in order; handlers are never compared.

Programs run in three steps. Lex converts source text to tokens, Parse builds
a syntax tree, and an Interpreter evaluates the tree against a table of
global objects. RunSource does all three:

	in := cavy.NewInterpreter(cavy.Globals(os.Stdout))
	result, err := in.RunSource(`obj { System->console->out : "hi". }.`)

Cavy Primer

A program is a list of statements, each ending in a period. Every top-level
statement constructs an object or runs a context:

	proto obj { statements }.
	target ctx { statements }.

obj clones proto and runs the statements with the clone as the current
object. If proto is omitted, the clone is of an empty object. ctx runs the
statements against target itself, without cloning. Inside the braces, only
message calls are allowed:

	receiver : argument .

Sending a message invokes the receiver's handler with the argument. Most
objects have the default handler, which returns the receiver unchanged. The
objects with interesting handlers are code blocks, which run their
statements, and the services under the global System object:

	System->console->out : "text".     # print text
	System->var : [*, name, "value"].  # set attribute name of * to "value"

The arrow -> reads an attribute. Identifiers on the right of an arrow, and
anywhere else they appear, evaluate to themselves as raw strings, so a->b->c
is attribute c of attribute b of a. The asterisk * is the current object,
and ^name is shorthand for an attribute of it:

	obj {
		System->var : [*, greeting, "hello"].
		System->console->out : ^greeting.
	}.

Square brackets build objects whose attributes are named attr0, attr1, and so
on, in order. Number literals are unsigned decimal integers. String literals
are double-quoted with no escapes. Comments begin with # and run to the end
of the line.
*/
package cavy
