package cavy

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// A Token is a single lexical element.
type Token struct {
	Kind  TokenKind
	Value string

	// Line and Col are the one-based position of the token's first rune.
	Line, Col int
}

// TokenKind is the kind of a token.
type TokenKind int

const (
	SpaceToken        TokenKind = iota // run of whitespace
	CommaToken                         // ,
	ObjectBeginToken                   // [
	ObjectEndToken                     // ]
	MessageBeginToken                  // :
	MessageEndToken                    // .
	AttrToken                          // ->
	ParentToken                        // ^
	CodeBeginToken                     // {
	CodeEndToken                       // }
	SelfToken                          // *
	ObjToken                           // obj
	CtxToken                           // ctx
	IdentToken                         // identifier
	StringToken                        // "string"
	NumberToken                        // number
)

// String returns the name of a token kind.
func (k TokenKind) String() string {
	switch k {
	case SpaceToken:
		return "Space"
	case CommaToken:
		return "Comma"
	case ObjectBeginToken:
		return "ObjectBegin"
	case ObjectEndToken:
		return "ObjectEnd"
	case MessageBeginToken:
		return "MessageBegin"
	case MessageEndToken:
		return "MessageEnd"
	case AttrToken:
		return "Attr"
	case ParentToken:
		return "Parent"
	case CodeBeginToken:
		return "CodeBegin"
	case CodeEndToken:
		return "CodeEnd"
	case SelfToken:
		return "Self"
	case ObjToken:
		return "Obj"
	case CtxToken:
		return "Ctx"
	case IdentToken:
		return "Ident"
	case StringToken:
		return "String"
	case NumberToken:
		return "Number"
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// controls maps single-rune control symbols to their kinds.
var controls = map[rune]TokenKind{
	',': CommaToken,
	'[': ObjectBeginToken,
	']': ObjectEndToken,
	':': MessageBeginToken,
	'.': MessageEndToken,
	'^': ParentToken,
	'{': CodeBeginToken,
	'}': CodeEndToken,
}

// keyword classifies a flushed buffer.
func keyword(s string) TokenKind {
	switch s {
	case "obj":
		return ObjToken
	case "ctx":
		return CtxToken
	case "*":
		return SelfToken
	}
	return IdentToken
}

func isSpace(r rune) bool {
	return strings.ContainsRune(" \t\n\r", r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// lexer holds the state of a single lexing pass.
type lexer struct {
	src       *bufio.Reader
	keepSpace bool
	tokens    []Token

	// buf accumulates identifier and keyword runes. bufLine and bufCol are
	// the position of its first rune.
	buf             []rune
	bufLine, bufCol int

	line, col int
	err       error
}

// lexFn is a lexer state function. Each lexFn consumes some input, appends
// any tokens it produces, and returns the next lexFn to use, or nil at end of
// input.
type lexFn func(l *lexer) lexFn

// Lex converts source text into tokens. If keepSpace is false, whitespace
// runs are dropped instead of being emitted as SpaceTokens. Comments are
// always dropped. Lexing cannot fail: any text has a token sequence.
func Lex(src string, keepSpace bool) []Token {
	toks, _ := LexReader(strings.NewReader(src), keepSpace)
	return toks
}

// LexReader is like Lex but reads its source from r. The only errors are
// those encountered while reading; the tokens lexed before the error are
// returned with it.
func LexReader(r io.Reader, keepSpace bool) ([]Token, error) {
	l := lexer{src: bufio.NewReader(r), keepSpace: keepSpace, line: 1, col: 1}
	for state := lexAny; state != nil; {
		state = state(&l)
	}
	l.flush()
	return l.tokens, l.err
}

// next reads the next rune and advances the position. ok is false at end of
// input or on a read error, which is recorded.
func (l *lexer) next() (r rune, ok bool) {
	r, _, err := l.src.ReadRune()
	if err != nil {
		if err != io.EOF {
			l.err = err
		}
		return 0, false
	}
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r, true
}

// peek returns the next rune without consuming it.
func (l *lexer) peek() (rune, bool) {
	r, _, err := l.src.ReadRune()
	if err != nil {
		if err != io.EOF {
			l.err = err
		}
		return 0, false
	}
	l.src.UnreadRune()
	return r, true
}

func (l *lexer) emit(kind TokenKind, value string, line, col int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Value: value, Line: line, Col: col})
}

// flush emits the buffer as a keyword or identifier. Flushing an empty buffer
// does nothing.
func (l *lexer) flush() {
	if len(l.buf) == 0 {
		return
	}
	s := string(l.buf)
	l.emit(keyword(s), s, l.bufLine, l.bufCol)
	l.buf = l.buf[:0]
}

// lexAny decides what the next rune begins.
func lexAny(l *lexer) lexFn {
	r, ok := l.peek()
	if !ok {
		return nil
	}
	line, col := l.line, l.col
	if kind, ok := controls[r]; ok {
		l.next()
		l.flush()
		l.emit(kind, string(r), line, col)
		return lexAny
	}
	switch {
	case r == '-':
		l.next()
		if n, ok := l.peek(); ok && n == '>' {
			l.next()
			l.flush()
			l.emit(AttrToken, "->", line, col)
			return lexAny
		}
		l.push(r, line, col)
		return lexAny
	case r == '#':
		l.flush()
		return lexComment
	case isDigit(r) && len(l.buf) == 0:
		return lexNumber
	case r == '"':
		l.flush()
		return lexString
	case isSpace(r):
		l.flush()
		return lexSpace
	}
	l.next()
	l.push(r, line, col)
	return lexAny
}

// push appends a rune to the buffer.
func (l *lexer) push(r rune, line, col int) {
	if len(l.buf) == 0 {
		l.bufLine, l.bufCol = line, col
	}
	l.buf = append(l.buf, r)
}

// lexComment discards a # comment up to, but not including, the end of the
// line.
func lexComment(l *lexer) lexFn {
	for {
		r, ok := l.peek()
		if !ok {
			return nil
		}
		if r == '\n' {
			return lexAny
		}
		l.next()
	}
}

// lexNumber lexes a run of decimal digits.
func lexNumber(l *lexer) lexFn {
	line, col := l.line, l.col
	var b []rune
	for {
		r, ok := l.peek()
		if !ok || !isDigit(r) {
			break
		}
		l.next()
		b = append(b, r)
	}
	l.emit(NumberToken, string(b), line, col)
	return lexAny
}

// lexString lexes a double-quoted string. There are no escapes. A string
// with no closing quote runs to the end of input.
func lexString(l *lexer) lexFn {
	line, col := l.line, l.col
	l.next() // opening quote
	var b []rune
	for {
		r, ok := l.next()
		if !ok {
			l.emit(StringToken, string(b), line, col)
			return nil
		}
		if r == '"' {
			l.emit(StringToken, string(b), line, col)
			return lexAny
		}
		b = append(b, r)
	}
}

// lexSpace lexes a run of whitespace.
func lexSpace(l *lexer) lexFn {
	line, col := l.line, l.col
	var b []rune
	for {
		r, ok := l.peek()
		if !ok || !isSpace(r) {
			break
		}
		l.next()
		b = append(b, r)
	}
	if l.keepSpace {
		l.emit(SpaceToken, string(b), line, col)
	}
	return lexAny
}
