package index

import (
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/jpl-au/apilens/internal/analyze"
)

// buildMapping constructs the bleve index mapping implementing C2 (spec
// §4.2): every statically-known field gets an explicit analyzer; anything
// else (in practice only the dynamically-named crossref_<kind> fields)
// falls back to the keyword analyzer via the document mapping's default,
// mirroring analyze.KindOf's own fallback.
func buildMapping() *mapping.IndexMappingImpl {
	im := mapping.NewIndexMapping()
	im.TypeField = "documentType"
	im.DefaultAnalyzer = analyze.KeywordAnalyzerName

	doc := mapping.NewDocumentMapping()
	doc.Dynamic = true
	doc.DefaultAnalyzer = analyze.KeywordAnalyzerName

	for _, field := range analyze.Fields() {
		doc.AddFieldMappingsAt(field, fieldMapping(field))
	}

	im.DefaultMapping = doc
	return im
}

func fieldMapping(field string) *mapping.FieldMapping {
	switch analyze.KindOf(field) {
	case analyze.KindInteger:
		fm := mapping.NewNumericFieldMapping()
		fm.Store = true
		fm.Index = true
		return fm
	case analyze.KindIdentifier:
		fm := mapping.NewTextFieldMapping()
		fm.Analyzer = analyze.IdentifierAnalyzerName
		fm.Store = analyze.IsStored(field)
		fm.IncludeInAll = false
		return fm
	default: // KindKeyword
		fm := mapping.NewTextFieldMapping()
		fm.Analyzer = analyze.KeywordAnalyzerName
		fm.Store = analyze.IsStored(field)
		fm.IncludeInAll = false
		return fm
	}
}
