package analyze

// FieldKind is a closed sum type over how a field is analysed. Per the
// REDESIGN FLAGS note in spec §9, this replaces a runtime name→analyzer
// map with a static lookup table, eliminating a hot-path map lookup while
// keeping the set of fields easy to extend.
type FieldKind int

const (
	// KindKeyword fields are stored without tokenisation, matched exactly,
	// case-preserved.
	KindKeyword FieldKind = iota
	// KindIdentifier fields are routed through the C1 identifier analyzer.
	KindIdentifier
	// KindInteger fields hold a stored, range-queryable integer.
	KindInteger
)

// AnalyzerName returns the bleve analyzer name to configure for this kind.
func (k FieldKind) AnalyzerName() string {
	switch k {
	case KindKeyword:
		return KeywordAnalyzerName
	case KindIdentifier:
		return IdentifierAnalyzerName
	default:
		return ""
	}
}

// Names of the two custom analyzers ApiLens registers with bleve. Keyword
// uses bleve's built-in keyword analyzer (unmodified); identifier is C1.
const (
	KeywordAnalyzerName    = "keyword"
	IdentifierAnalyzerName = "apilens_identifier"
)

// fieldKinds is the static field → FieldKind table specified in spec §4.2.
// Resolved identically at field-write time (C3/C4 document construction)
// and at field-read time (searchByField), satisfying the "same analyzer in
// both directions" contract.
var fieldKinds = map[string]FieldKind{
	// Keyword (exact match) fields.
	"id":               KindKeyword,
	"memberType":       KindKeyword,
	"memberTypeFacet":  KindKeyword,
	"name":             KindKeyword,
	"fullName":         KindKeyword,
	"assembly":         KindKeyword,
	"namespace":        KindKeyword,
	"crossref":         KindKeyword,
	"exceptionType":    KindKeyword,
	"attribute":        KindKeyword,
	"packageId":        KindKeyword,
	"packageVersion":   KindKeyword,
	"targetFramework":  KindKeyword,
	"contentHash":      KindKeyword,
	"sourceFilePath":   KindKeyword,
	"documentType":     KindKeyword,
	"isFromNuGetCache": KindKeyword,
	"declaringType":    KindKeyword,
	"packageIdNormalized": KindKeyword,
	// normalised lower-cased copies are still exact-match keyword fields.
	"nameNormalized":      KindKeyword,
	"fullNameNormalized":  KindKeyword,
	"namespaceNormalized": KindKeyword,
	"isStatic":            KindKeyword,
	"isAsync":             KindKeyword,
	"isExtension":         KindKeyword,

	// Identifier-analysed (C1 tokenised) fields.
	"nameText":               KindIdentifier,
	"fullNameText":           KindIdentifier,
	"namespaceText":          KindIdentifier,
	"typeSearch":             KindIdentifier,
	"methodSearch":           KindIdentifier,
	"propertySearch":         KindIdentifier,
	"fieldSearch":            KindIdentifier,
	"eventSearch":            KindIdentifier,
	"summary":                KindIdentifier,
	"remarks":                KindIdentifier,
	"returns":                KindIdentifier,
	"seeAlso":                KindIdentifier,
	"content":                KindIdentifier,
	"relatedType":            KindIdentifier,
	"codeExample":            KindIdentifier,
	"codeExampleDescription": KindIdentifier,
	"exceptionTypeText":      KindIdentifier,
	"exceptionSimpleName":    KindIdentifier,
	"exceptionCondition":     KindIdentifier,
	"parameter":              KindIdentifier,
	"parameterDescription":   KindIdentifier,
	"versionSearch":          KindIdentifier,

	// crossref_<kind> fields are registered dynamically per XRef kind (see
	// CrossRefKindField); they share the keyword analyzer.

	// Integer fields.
	"parameterCount":         KindInteger,
	"cyclomaticComplexity":   KindInteger,
	"documentationLineCount": KindInteger,
}

// KindOf resolves the FieldKind for a field name. Fields not present in the
// static table (e.g. dynamically-named crossref_<kind> fields) fall back to
// KindKeyword, matching the spec's treatment of crossref_<kind> as a typed
// keyword entry alongside the untyped `crossref` field.
func KindOf(field string) FieldKind {
	if k, ok := fieldKinds[field]; ok {
		return k
	}
	return KindKeyword
}

// IsKeyword reports whether field uses exact-match keyword semantics.
func IsKeyword(field string) bool {
	return KindOf(field) == KindKeyword
}

// CrossRefKindField builds the typed crossref field name for an XRef kind,
// e.g. "crossref_See".
func CrossRefKindField(kind string) string {
	return "crossref_" + kind
}

// notStored lists the fields the document builder deliberately omits from
// stored output (spec §4.3): analysed identifier copies kept only for
// search, and contentHash which exists solely for dedup-probe equality.
var notStored = map[string]bool{
	"nameText":      true,
	"fullNameText":  true,
	"namespaceText": true,
	"contentHash":   true,
}

// IsStored reports whether field should be retrievable from a search hit.
// Unlisted fields (including dynamic crossref_<kind> fields) are stored by
// default, matching the spec's "stored keyword field" treatment.
func IsStored(field string) bool {
	return !notStored[field]
}

// Fields returns every field name in the static table, for building the
// index mapping (order is unspecified).
func Fields() []string {
	out := make([]string, 0, len(fieldKinds))
	for f := range fieldKinds {
		out = append(out, f)
	}
	return out
}
