package analysis

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/cognicore/hashvec/pkg/hashvec/internalerr"
)

// DefaultCharset is the charset used when none is configured.
const DefaultCharset = "utf-8"

// LookupCharset resolves a charset label such as "utf-8", "latin1" or
// "windows-1252" to its encoding.
func LookupCharset(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultCharset
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownCharset, name)
	}
	return enc, nil
}

// Decode converts raw bytes in the given encoding to a UTF-8 string.
// Byte sequences the encoding cannot decode are dropped rather than
// reported. A validly encoded U+FFFD in UTF-8 input is kept.
func Decode(raw []byte, enc encoding.Encoding) string {
	if isUTF8(enc) {
		return strings.ToValidUTF8(string(raw), "")
	}

	// Decoders report undecodable input as U+FFFD. Other than UTF-8, the
	// htmlindex charsets that can encode U+FFFD themselves are UTF-16 and
	// gb18030, where such a character is dropped too.
	t := transform.Chain(enc.NewDecoder(), runes.Remove(runes.Predicate(isReplacement)))
	out, _, err := transform.Bytes(t, raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "")
	}
	return string(out)
}

func isUTF8(enc encoding.Encoding) bool {
	name, err := htmlindex.Name(enc)
	return err == nil && name == "utf-8"
}

// isReplacement matches the rune decoders emit for undecodable input.
func isReplacement(r rune) bool {
	return r == utf8.RuneError
}
