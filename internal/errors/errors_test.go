package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"graphdb/internal/object"
	"graphdb/internal/rpn"
)

func TestClassifyMapsKnownSentinels(t *testing.T) {
	assert.Equal(t, KindNotFound, Classify(object.ErrNotFound))
	assert.Equal(t, KindAlreadyExists, Classify(object.ErrAlreadyExists))
	assert.Equal(t, KindTypeMismatch, Classify(object.ErrTypeMismatch))
	assert.Equal(t, KindCompilation, Classify(rpn.ErrUnsupportedOperator))
	assert.Equal(t, KindRuntime, Classify(rpn.ErrStackUnderflow))
}

func TestClassifyDefaultsToRuntime(t *testing.T) {
	assert.Equal(t, KindRuntime, Classify(fmt.Errorf("boom")))
}

func TestClassifyPreservesDomainErrorKind(t *testing.T) {
	assert.Equal(t, KindResource, Classify(New(KindResource, "stream slots exhausted")))
}

func TestKindClosesConnectionForProtocolAndResource(t *testing.T) {
	assert.True(t, KindProtocol.Closes())
	assert.True(t, KindResource.Closes())
	assert.False(t, KindArgument.Closes())
}

func TestDomainErrorWrapsCause(t *testing.T) {
	cause := object.ErrNotFound
	err := Wrap(KindNotFound, "node missing", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "node missing")
}
