package analyze_test

import (
	"testing"

	"github.com/jpl-au/apilens/internal/analyze"
	"github.com/stretchr/testify/assert"
)

func TestKindOf_Keyword(t *testing.T) {
	for _, f := range []string{"id", "memberType", "name", "fullName", "namespace", "packageId", "sourceFilePath"} {
		assert.Equalf(t, analyze.KindKeyword, analyze.KindOf(f), "field %q", f)
	}
}

func TestKindOf_Identifier(t *testing.T) {
	for _, f := range []string{"nameText", "summary", "content", "parameter", "exceptionTypeText"} {
		assert.Equalf(t, analyze.KindIdentifier, analyze.KindOf(f), "field %q", f)
	}
}

func TestKindOf_Integer(t *testing.T) {
	for _, f := range []string{"parameterCount", "cyclomaticComplexity", "documentationLineCount"} {
		assert.Equalf(t, analyze.KindInteger, analyze.KindOf(f), "field %q", f)
	}
}

func TestKindOf_UnknownFallsBackToKeyword(t *testing.T) {
	assert.Equal(t, analyze.KindKeyword, analyze.KindOf("crossref_See"))
}

func TestAnalyzerName(t *testing.T) {
	assert.Equal(t, analyze.KeywordAnalyzerName, analyze.KindKeyword.AnalyzerName())
	assert.Equal(t, analyze.IdentifierAnalyzerName, analyze.KindIdentifier.AnalyzerName())
}

func TestCrossRefKindField(t *testing.T) {
	assert.Equal(t, "crossref_See", analyze.CrossRefKindField("See"))
}
