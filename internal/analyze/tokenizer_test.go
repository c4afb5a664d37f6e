package analyze_test

import (
	"strings"
	"testing"

	"github.com/jpl-au/apilens/internal/analyze"
	"github.com/stretchr/testify/assert"
)

func TestTokenize_Simple(t *testing.T) {
	assert.Equal(t, []string{"dictionary"}, analyze.Tokenize("Dictionary"))
}

func TestTokenize_Dotted(t *testing.T) {
	got := analyze.Tokenize("System.Collections")
	assert.Equal(t, []string{"system.collections", "system", "collections"}, got)
}

func TestTokenize_DottedCompleteness(t *testing.T) {
	got := analyze.Tokenize("System.Collections.Generic.List")
	assert.Contains(t, got, "system.collections.generic.list")
	assert.Contains(t, got, "system")
	assert.Contains(t, got, "collections")
	assert.Contains(t, got, "generic")
	assert.Contains(t, got, "list")
	assert.Contains(t, got, "system.collections")
	assert.Contains(t, got, "collections.generic")
	assert.Contains(t, got, "generic.list")
	assert.Contains(t, got, "system.collections.generic")
	assert.Contains(t, got, "collections.generic.list")
	// the full input must appear exactly once
	count := 0
	for _, tok := range got {
		if tok == "system.collections.generic.list" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestTokenize_BacktickArity(t *testing.T) {
	got := analyze.Tokenize("System.Collections.Generic.Dictionary`2")
	for _, want := range []string{
		"system.collections.generic.dictionary`2",
		"system",
		"collections",
		"generic",
		"dictionary`2",
		"dictionary",
		"system.collections.generic",
	} {
		assert.Containsf(t, got, want, "expected %q in %v", want, got)
	}
}

func TestTokenize_Generic(t *testing.T) {
	got := analyze.Tokenize("System.Collections.Generic.List<System.String>")
	assert.Contains(t, got, "system.collections.generic.list<system.string>")
	assert.Contains(t, got, "system")
	assert.Contains(t, got, "collections")
	assert.Contains(t, got, "generic")
	assert.Contains(t, got, "list<system.string>")
	// content inside the angle brackets is never parsed as its own segment
	assert.NotContains(t, got, "string")
}

func TestTokenize_GenericNoDotsInBase(t *testing.T) {
	got := analyze.Tokenize("List<T>")
	assert.Equal(t, []string{"list<t>", "list"}, got)
}

func TestTokenize_Deterministic(t *testing.T) {
	a := analyze.Tokenize("System.Argument*Exception")
	b := analyze.Tokenize("System.Argument*Exception")
	assert.Equal(t, a, b)
}

func TestTokenize_PassthroughUnknownChars(t *testing.T) {
	got := analyze.Tokenize("Foo_Bar.Baz+Qux")
	// unknown characters pass through unchanged into their containing segment
	assert.Contains(t, got, "foo_bar")
	assert.Contains(t, got, "baz+qux")
}

func TestTokenize_Empty(t *testing.T) {
	assert.Nil(t, analyze.Tokenize(""))
}

func TestTokenize_AllLowercase(t *testing.T) {
	for _, tok := range analyze.Tokenize("System.Collections.Generic.Dictionary`2") {
		assert.Equal(t, strings.ToLower(tok), tok)
	}
}
