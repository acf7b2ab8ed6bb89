package vlist

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecoverableClassifiesAdapterAndTemplateFailures(t *testing.T) {
	assert.True(t, recoverable(ErrAdapterFailed))
	assert.True(t, recoverable(ErrRangeMissingAfterLoad))
	assert.True(t, recoverable(ErrTemplateFailed))
}

func TestRecoverableRejectsHardMisconfiguration(t *testing.T) {
	assert.False(t, recoverable(ErrContainerMissing))
	assert.False(t, recoverable(ErrViewportMissingInLayout))
	assert.False(t, recoverable(errors.New("unrelated")))
}

func TestRecoverableUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("reading page: %w", ErrAdapterFailed)
	assert.True(t, recoverable(wrapped))
}
