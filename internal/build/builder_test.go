package build_test

import (
	"strings"
	"testing"

	"github.com/jpl-au/apilens/internal/build"
	"github.com/jpl-au/apilens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *model.MemberRecord {
	return &model.MemberRecord{
		ID:        "M:Acme.Widgets.Gearbox.Spin(System.Int32)",
		Kind:      model.KindMethod,
		Name:      "Spin",
		FullName:  "Acme.Widgets.Gearbox.Spin(System.Int32)",
		Namespace: "Acme.Widgets",
		Assembly:  "Acme.Widgets",
		Summary:   "Spins the gearbox.\nReturns once settled.",
		Remarks:   "Thread-safe.",
		Returns:   "The final RPM.",
		Parameters: []model.ParameterRecord{
			{Name: "speed", Type: "System.Int32", Description: "Target speed."},
		},
		Exceptions: []model.ExceptionRecord{
			{Type: "System.ArgumentOutOfRangeException", Condition: "speed is negative."},
		},
		CodeExamples: []model.ExampleRecord{
			{Language: "csharp", Code: "gearbox.Spin(10);", Description: "Basic usage."},
		},
		CrossReferences: []model.XRef{
			{TargetID: "T:Acme.Widgets.IGearbox", Kind: model.XRefInheritance},
		},
		IsStatic:        false,
		IsAsync:         false,
		IsExtension:     false,
		Complexity:      &model.Complexity{ParameterCount: 1, CyclomaticComplexity: 2, DocumentationLineCount: 3},
		PackageID:       "Acme.Widgets",
		PackageVersion:  "1.2.3",
		TargetFramework: "net8.0",
		SourceFilePath:  "/cache/acme.widgets/1.2.3/lib/net8.0/Acme.Widgets.xml",
		ContentHash:     "deadbeef",
	}
}

func TestBuild_NilRecordRejected(t *testing.T) {
	_, err := build.Build(nil)
	assert.ErrorIs(t, err, build.ErrNilRecord)
}

func TestBuild_NameAndFullNamePreserved(t *testing.T) {
	r := sampleRecord()
	doc, err := build.Build(r)
	require.NoError(t, err)
	assert.Equal(t, r.Name, doc["name"])
	assert.Equal(t, r.FullName, doc["fullName"])
	assert.Equal(t, r.Namespace, doc["namespace"])
}

func TestBuild_SummarySanitized(t *testing.T) {
	r := sampleRecord()
	doc, err := build.Build(r)
	require.NoError(t, err)
	summary, ok := doc["summary"].(string)
	require.True(t, ok)
	assert.NotContains(t, summary, "\n")
	assert.Equal(t, "Spins the gearbox. Returns once settled.", summary)
}

func TestBuild_ContentContainsEveryNameWord(t *testing.T) {
	r := sampleRecord()
	doc, err := build.Build(r)
	require.NoError(t, err)
	content, ok := doc["content"].(string)
	require.True(t, ok)

	for _, word := range []string{r.Name, r.FullName, r.Namespace} {
		assert.True(t, strings.Contains(content, word), "content missing %q", word)
	}
	for _, word := range strings.Fields(r.Summary) {
		word = strings.TrimRight(word, ".")
		assert.True(t, strings.Contains(content, word), "content missing summary word %q", word)
	}
}

func TestBuild_MethodFlagsOnlySetForMethods(t *testing.T) {
	r := sampleRecord()
	doc, err := build.Build(r)
	require.NoError(t, err)
	assert.Equal(t, "false", doc["isStatic"])
	assert.Equal(t, "false", doc["isAsync"])
	assert.Equal(t, "false", doc["isExtension"])

	r.Kind = model.KindType
	doc, err = build.Build(r)
	require.NoError(t, err)
	assert.NotContains(t, doc, "isStatic")
}

func TestBuild_ExceptionFieldsPopulated(t *testing.T) {
	r := sampleRecord()
	doc, err := build.Build(r)
	require.NoError(t, err)
	assert.Equal(t, "System.ArgumentOutOfRangeException", doc["exceptionType"])
	assert.Equal(t, "ArgumentOutOfRangeException", doc["exceptionSimpleName"])
}

func TestBuild_CrossReferenceKindFieldsAppended(t *testing.T) {
	r := sampleRecord()
	doc, err := build.Build(r)
	require.NoError(t, err)
	assert.Equal(t, "T:Acme.Widgets.IGearbox", doc["crossref"])
	assert.Equal(t, "T:Acme.Widgets.IGearbox", doc["crossref_Inheritance"])
	assert.Contains(t, doc["relatedType"], "T:Acme.Widgets.IGearbox")
}

func TestBuild_MultiValuedFieldsAccumulateAsSlice(t *testing.T) {
	r := sampleRecord()
	r.Exceptions = append(r.Exceptions, model.ExceptionRecord{Type: "System.InvalidOperationException"})
	doc, err := build.Build(r)
	require.NoError(t, err)
	types, ok := doc["exceptionType"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"System.ArgumentOutOfRangeException", "System.InvalidOperationException"}, types)
}

func TestBuild_PackagingContextCarried(t *testing.T) {
	r := sampleRecord()
	doc, err := build.Build(r)
	require.NoError(t, err)
	assert.Equal(t, "Acme.Widgets", doc["packageId"])
	assert.Equal(t, "1.2.3", doc["packageVersion"])
	assert.Equal(t, "net8.0", doc["targetFramework"])
	assert.Equal(t, "deadbeef", doc["contentHash"])
}
