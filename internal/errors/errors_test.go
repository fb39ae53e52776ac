package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsAppErrorCode(t *testing.T) {
	base := InvalidInput("missing column age")
	wrapped := Wrapf(base, "loading %s", "data.csv")

	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Contains(t, wrapped.Error(), "loading data.csv")
	assert.Contains(t, wrapped.Error(), "missing column age")
}

func TestWrap_PlainErrorIsInternal(t *testing.T) {
	err := Wrap(fmt.Errorf("boom"), "step failed")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCode_ThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", ConfigInvalid("alpha out of range"))
	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{ConfigInvalid("x"), 2},
		{InvalidInput("x"), 3},
		{ReshapeIntegrity(fmt.Errorf("unmatched")), 4},
		{RenderFailed("yaml", fmt.Errorf("x")), 1},
		{fmt.Errorf("plain"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err))
	}
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeReshapeIntegrity, fmt.Errorf("dup key"))
	assert.Equal(t, CodeReshapeIntegrity, GetCode(err))
	assert.Contains(t, err.Error(), "dup key")
}
