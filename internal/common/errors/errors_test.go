package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeScoringConfigLookupFailed, 3},
		{ErrCodeDatabaseConnectionFailed, 3},
		{ErrCodeSummaryCacheFailed, 2},
		{ErrCodeTimeout, 2},
		{ErrCodeInvalidScoringConfig, 0},
		{ErrCodeAssessmentValidationFailed, 0},
		{ErrCodeSummaryNotFound, 0},
		{ErrCodeInternal, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRetryCount(tt.code))
			assert.Equal(t, tt.expected > 0, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestConstructors_Retryability(t *testing.T) {
	assert.False(t, NewInputParseError(errors.New("bad json")).Retryable)
	assert.False(t, NewAssessmentValidationError("modules: required").Retryable)
	assert.False(t, NewInvalidScoringConfigError(errors.New("not ascending")).Retryable)
	assert.True(t, NewScoringConfigLookupError("tpl-1", errors.New("conn reset")).Retryable)
	assert.True(t, NewSummaryCacheError(errors.New("i/o timeout")).Retryable)
	assert.False(t, NewSummaryNotFoundError([]string{"a", "b"}).Retryable)
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewScoringConfigLookupError("tpl-9", errors.New("connection refused"))

	bpmnErr := ConvertToBPMNError(stdErr)

	assert.Equal(t, "SCORING_CONFIG_LOOKUP_FAILED", bpmnErr.Code)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.True(t, bpmnErr.Retryable)
	assert.Equal(t, "tpl-9", bpmnErr.ErrorVariables["templateId"])

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "SCORING_CONFIG_LOOKUP_FAILED", vars["errorCode"])
	assert.Equal(t, "connection refused", vars["errorDetails"])
	assert.Equal(t, "SCORING_CONFIG_LOOKUP_FAILED", vars["originalErrorCode"])
	assert.Contains(t, vars, "timestamp")
}

func TestConvertToBPMNError_NonRetryableHasNoRetries(t *testing.T) {
	stdErr := NewSummaryCacheError(errors.New("down"))
	stdErr.Retryable = false

	assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
}

func TestNormalize(t *testing.T) {
	original := NewInvalidScoringConfigError(errors.New("developing must exceed emerging"))
	wrapped := fmt.Errorf("resolve config: %w", original)

	got := Normalize(wrapped)
	require.NotNil(t, got)
	assert.Same(t, original, got)

	plain := Normalize(errors.New("nil pointer"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "nil pointer", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestRemainingRetries(t *testing.T) {
	assert.Equal(t, int32(2), RemainingRetries(3, 3))
	assert.Equal(t, int32(2), RemainingRetries(10, 2))
	assert.Equal(t, int32(0), RemainingRetries(1, 3))
	assert.Equal(t, int32(0), RemainingRetries(0, 3))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeInvalidScoringConfig))
	assert.Equal(t, "CONFIGURATION", GetErrorCategory(ErrCodeScoringConfigLookupFailed))
	assert.Equal(t, "CACHE", GetErrorCategory(ErrCodeSummaryNotFound))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeDatabaseConnectionFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeAssessmentValidationFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputParseFailed))
	assert.Equal(t, "INTEGRATION", GetErrorCategory(ErrCodeTimeout))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestStandardError_Message(t *testing.T) {
	err := NewAssessmentValidationError("transformationYear: must be >= 1")
	assert.Equal(t, "StandardError[ASSESSMENT_VALIDATION_FAILED]: Job input failed schema validation: transformationYear: must be >= 1", err.Error())
}
