package analyze

import (
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/registry"
)

// init registers the identifier tokenizer and analyzer with bleve's global
// registry, mirroring how bleve's own built-in analyzers register
// themselves (see analysis/analyzer/standard). Importing this package is
// enough to make IdentifierAnalyzerName available to an index mapping.
func init() {
	_ = registry.RegisterTokenizer(TokenizerName, tokenizerConstructor)
	_ = registry.RegisterAnalyzer(IdentifierAnalyzerName, analyzerConstructor)
}

func tokenizerConstructor(_ map[string]interface{}, _ *registry.Cache) (analysis.Tokenizer, error) {
	return &IdentifierTokenizer{}, nil
}

// analyzerConstructor builds the "apilens_identifier" analyzer: the custom
// whitespace+C1 tokenizer followed by a defensive lower-case token filter
// (spec §4.1 rule 4 — Tokenize already lower-cases, but routing the final
// step through an explicit TokenFilter keeps the analyzer composition
// faithful to the spec's four-rule structure and to bleve's own idiom of
// separating tokenization from casing).
func analyzerConstructor(_ map[string]interface{}, cache *registry.Cache) (*analysis.Analyzer, error) {
	tok, err := cache.TokenizerNamed(TokenizerName)
	if err != nil {
		return nil, err
	}
	return &analysis.Analyzer{
		Tokenizer:    tok,
		TokenFilters: []analysis.TokenFilter{lowercase.NewLowerCaseFilter()},
	}, nil
}
