package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *PlatformError
		want string
	}{
		{
			name: "message only",
			err:  New(CodeNotFound, "package not found"),
			want: "package not found",
		},
		{
			name: "message and cause",
			err:  &PlatformError{Code: CodeNetwork, Message: "push failed", Cause: stderrors.New("connection reset")},
			want: "push failed: connection reset",
		},
		{
			name: "cause only",
			err:  &PlatformError{Code: CodeNetwork, Cause: stderrors.New("connection reset")},
			want: "connection reset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil cause", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
		assert.NoError(t, WrapWithContext(nil, CodeInternal, "ignored", nil))
	})

	t.Run("preserves cause", func(t *testing.T) {
		sentinel := stderrors.New("boom")
		err := Wrap(sentinel, CodeExecutionFailed, "npm failed")
		require.Error(t, err)
		assert.ErrorIs(t, err, sentinel)
		assert.Equal(t, CodeExecutionFailed, GetCode(err))
	})

	t.Run("context", func(t *testing.T) {
		err := WrapWithContext(stderrors.New("boom"), CodeInvalidConfig, "bad file", map[string]any{
			"path": "skyux.yml",
			"line": 3,
		})
		var pe *PlatformError
		require.True(t, As(err, &pe))
		assert.Equal(t, "line=3 path=skyux.yml", pe.ContextString())
	})
}

func TestHasCode(t *testing.T) {
	inner := New(CodeBranchNotFound, "missing 4.x.x")
	outer := Wrap(inner, CodeReleaseIneligible, "abort")
	wrapped := fmt.Errorf("coordinate: %w", outer)

	assert.True(t, HasCode(wrapped, CodeReleaseIneligible))
	assert.True(t, HasCode(wrapped, CodeBranchNotFound))
	assert.False(t, HasCode(wrapped, CodeNetwork))
	assert.False(t, HasCode(stderrors.New("plain"), CodeUnknown))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
}

func TestPlatformError_Is(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Newf(CodeReleaseIneligible, "library %s", "x"))

	assert.ErrorIs(t, err, &PlatformError{Code: CodeReleaseIneligible})
	assert.NotErrorIs(t, err, &PlatformError{Code: CodeBranchNotFound})
}
