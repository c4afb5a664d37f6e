package apperr_test

import (
	"errors"
	"testing"

	"github.com/jpl-au/apilens/internal/apperr"
	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := apperr.Storage(errors.New("disk full"))
	assert.ErrorIs(t, err, apperr.KindStorage)
	assert.NotErrorIs(t, err, apperr.KindUsage)
}

func TestError_UnwrapReturnsCause(t *testing.T) {
	cause := errors.New("boom")
	err := apperr.Build("M:Foo.Bar", cause)
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestKindOf(t *testing.T) {
	k, ok := apperr.KindOf(apperr.Parse("/x.xml", errors.New("eof")))
	assert.True(t, ok)
	assert.Equal(t, apperr.KindParse, k)

	_, ok = apperr.KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestError_MessageIncludesSubject(t *testing.T) {
	err := apperr.Parse("/cache/a.xml", errors.New("bad xml"))
	assert.Contains(t, err.Error(), "/cache/a.xml")
	assert.Contains(t, err.Error(), "bad xml")
}
