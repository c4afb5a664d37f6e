package analyze

import (
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis"
)

// TokenizerName is the name this package registers its bleve tokenizer
// under (see register.go).
const TokenizerName = "apilens_identifier_tokenizer"

// IdentifierTokenizer adapts the pure C1 algorithm (Tokenize, in
// tokenizer.go) to bleve's analysis.Tokenizer interface. It splits input on
// whitespace, then expands each resulting run through Tokenize, emitting
// every variant as a separate bleve token at the same Position — the
// "position-increment 1 for the first, 0 for the rest" contract in spec
// §4.1 maps onto bleve's token-position model as "same Position value".
type IdentifierTokenizer struct{}

// Tokenize implements analysis.Tokenizer.
func (t *IdentifierTokenizer) Tokenize(input []byte) analysis.TokenStream {
	var stream analysis.TokenStream
	position := 0
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		raw := string(input[start:end])
		position++
		for _, variant := range Tokenize(raw) {
			stream = append(stream, &analysis.Token{
				Start:    start,
				End:      end,
				Term:     []byte(variant),
				Position: position,
				Type:     analysis.AlphaNumeric,
			})
		}
		start = -1
	}

	for i, r := range string(input) {
		if unicode.IsSpace(r) {
			flush(i)
		} else if start < 0 {
			start = i
		}
	}
	flush(len(input))

	return stream
}
