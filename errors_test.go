package fedreg_test

import (
	"errors"
	"testing"

	"github.com/fedsearch/fedreg"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := fedreg.Errorf(fedreg.ENOTFOUND, "document %q not found", "2024-001")

	assert.Equal(t, fedreg.ENOTFOUND, fedreg.ErrorCode(err))
	assert.Equal(t, "document \"2024-001\" not found", fedreg.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, fedreg.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fedreg.EINTERNAL, fedreg.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, fedreg.ErrorMessage(nil))
}

func TestErrorMessage_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", fedreg.ErrorMessage(errors.New("boom")))
}
