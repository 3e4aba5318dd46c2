package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
)

// minTokenRunes is the shortest run of word characters kept as a token.
const minTokenRunes = 2

// Analyzer turns a text document into a sequence of tokens.
type Analyzer interface {
	Analyze(text string) []string
}

// SimpleAnalyzer lowercases, strips accents and extracts word tokens of at
// least two characters. Duplicates are kept, in document order.
type SimpleAnalyzer struct {
	charset   string
	enc       encoding.Encoding
	stopwords map[string]struct{}
}

// NewSimpleAnalyzer creates an analyzer decoding byte input with charset and
// dropping the given stopwords. An empty charset means DefaultCharset.
func NewSimpleAnalyzer(charset string, stopwords []string) (*SimpleAnalyzer, error) {
	enc, err := LookupCharset(charset)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(charset) == "" {
		charset = DefaultCharset
	}

	a := &SimpleAnalyzer{
		charset:   charset,
		enc:       enc,
		stopwords: make(map[string]struct{}, len(stopwords)),
	}
	for _, w := range stopwords {
		a.AddStopword(w)
	}
	return a, nil
}

// Default returns a utf-8 analyzer without stopwords.
func Default() *SimpleAnalyzer {
	a, err := NewSimpleAnalyzer(DefaultCharset, nil)
	if err != nil {
		// utf-8 is always registered in htmlindex
		panic(err)
	}
	return a
}

// Charset returns the charset used by AnalyzeBytes.
func (a *SimpleAnalyzer) Charset() string {
	return a.charset
}

// Analyze tokenizes an already decoded text. Invalid UTF-8 in text is dropped.
func (a *SimpleAnalyzer) Analyze(text string) []string {
	text = strings.ToValidUTF8(text, "")
	text = StripAccents(strings.ToLower(text))

	var tokens []string
	start := -1
	runes := 0
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
				runes = 0
			}
			runes++
			continue
		}
		if start >= 0 {
			tokens = a.appendToken(tokens, text[start:i], runes)
			start = -1
		}
	}

	// Don't forget the last token
	if start >= 0 {
		tokens = a.appendToken(tokens, text[start:], runes)
	}

	return tokens
}

// AnalyzeBytes decodes raw with the configured charset and tokenizes it.
func (a *SimpleAnalyzer) AnalyzeBytes(raw []byte) []string {
	return a.Analyze(Decode(raw, a.enc))
}

// Decode converts raw bytes to text using the analyzer's charset.
func (a *SimpleAnalyzer) Decode(raw []byte) string {
	return Decode(raw, a.enc)
}

func (a *SimpleAnalyzer) appendToken(tokens []string, word string, runes int) []string {
	if runes < minTokenRunes {
		return tokens
	}
	if a.isStopword(word) {
		return tokens
	}
	return append(tokens, word)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func (a *SimpleAnalyzer) isStopword(word string) bool {
	if len(a.stopwords) == 0 {
		return false
	}
	_, ok := a.stopwords[word]
	return ok
}

// AddStopword adds a word to the stopword list. The word is folded the same
// way as document text, so "Café" also stops "cafe".
func (a *SimpleAnalyzer) AddStopword(word string) {
	word = normalizeWord(word)
	if word == "" {
		return
	}
	a.stopwords[word] = struct{}{}
}

// RemoveStopword removes a word from the stopword list
func (a *SimpleAnalyzer) RemoveStopword(word string) {
	delete(a.stopwords, normalizeWord(word))
}

// Stopwords returns the number of configured stopwords.
func (a *SimpleAnalyzer) Stopwords() int {
	return len(a.stopwords)
}

func normalizeWord(word string) string {
	word = strings.TrimSpace(word)
	if !utf8.ValidString(word) {
		word = strings.ToValidUTF8(word, "")
	}
	return StripAccents(strings.ToLower(word))
}
