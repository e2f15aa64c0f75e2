package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFromCode(t *testing.T) {
	tests := []struct {
		code string
		want Category
	}{
		{ErrCodeDirMissing, CategoryAbsence},
		{ErrCodeToolNotFound, CategoryAbsence},
		{ErrCodeDigestMismatch, CategoryVerification},
		{ErrCodeToolExit, CategoryExternalTool},
		{ErrCodeToolTimeout, CategoryExternalTool},
		{ErrCodeConfigMalformed, CategoryConfigParse},
		{ErrCodePlatformUnsupported, CategoryPlatform},
		{"garbage", CategoryPlatform},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.code, "msg", nil).Category)
		})
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeToolExit, cause)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "boom", err.Message)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeToolExit, nil))
}

func TestIs_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeToolTimeout, "probe timed out", nil))
	assert.ErrorIs(t, err, &DiagError{Code: ErrCodeToolTimeout})
	assert.NotErrorIs(t, err, &DiagError{Code: ErrCodeToolExit})
}

func TestWithSuggestion(t *testing.T) {
	err := Newf(ErrCodeToolNotFound, "%s not installed", "fc-cache").
		WithSuggestion("install fontconfig")
	assert.Equal(t, "install fontconfig", err.Suggestion)
	assert.Contains(t, err.Error(), "fc-cache not installed")
}
