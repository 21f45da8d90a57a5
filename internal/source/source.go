// Package source reads program text in the character encodings cavy
// accepts. Programs are lexed as UTF-8, so everything else is transcoded.
package source

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// encodings maps encoding names to their implementations. ASCII is read as
// Windows-1252, which is a superset of it.
var encodings = map[string]encoding.Encoding{
	"utf8":        unicode.UTF8,
	"utf8bom":     unicode.UTF8BOM,
	"ascii":       charmap.Windows1252,
	"windows1252": charmap.Windows1252,
	"latin1":      charmap.ISO8859_1,
	"utf16":       unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf16le":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf16be":     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"utf32":       utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
	"utf32le":     utf32.UTF32(utf32.LittleEndian, utf32.UseBOM),
	"utf32be":     utf32.UTF32(utf32.BigEndian, utf32.UseBOM),
}

// normalize folds case and drops dashes and underscores, so that UTF-8,
// utf_8, and utf8 are the same name.
func normalize(name string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(name))
}

// Lookup returns the encoding with the given name.
func Lookup(name string) (encoding.Encoding, error) {
	if enc, ok := encodings[normalize(name)]; ok {
		return enc, nil
	}
	return nil, fmt.Errorf("unknown encoding %q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the known encoding names in sorted order.
func Names() []string {
	r := make([]string, 0, len(encodings))
	for name := range encodings {
		r = append(r, name)
	}
	sort.Strings(r)
	return r
}

// NewReader returns a reader producing the UTF-8 text of r, which is
// encoded as name.
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// Decode converts encoded bytes to UTF-8 text.
func Decode(b []byte, name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	r, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(r), nil
}
