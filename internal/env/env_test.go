package env

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Default(t *testing.T) {
	assert.Equal(t, "fallback", Get("ENV_TEST_UNSET_KEY", "fallback", ParseNonEmptyString))
}

func TestGet_InvalidFallsBackToDefault(t *testing.T) {
	t.Setenv("ENV_TEST_EMPTY", "   ")

	assert.Equal(t, "fallback", Get("ENV_TEST_EMPTY", "fallback", ParseNonEmptyString))
}

func TestGet_Set(t *testing.T) {
	t.Setenv("ENV_TEST_VALUE", " my-bus ")

	assert.Equal(t, "my-bus", Get("ENV_TEST_VALUE", "default", ParseNonEmptyString))
}

func TestGetRequired_Missing(t *testing.T) {
	_, err := GetRequired("ENV_TEST_UNSET_KEY", ParseNonEmptyString)
	require.Error(t, err)

	var envErr *Error
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, "ENV_TEST_UNSET_KEY", envErr.Key)
	assert.ErrorIs(t, err, ErrMissing)
}

func TestGetRequired_ParsingError(t *testing.T) {
	t.Setenv("ENV_TEST_ARN", "not-an-arn")

	_, err := GetRequired("ENV_TEST_ARN", ParseARN)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParsing)
	assert.Contains(t, err.Error(), "ENV_TEST_ARN")
	assert.Contains(t, err.Error(), "not a valid arn")
}

func TestParseARN(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "sns topic", input: "arn:aws:sns:us-east-1:123456789012:EC2-ALARMS", want: "arn:aws:sns:us-east-1:123456789012:EC2-ALARMS"},
		{name: "trimmed", input: "  arn:aws:sns:eu-west-1:123456789012:topic\n", want: "arn:aws:sns:eu-west-1:123456789012:topic"},
		{name: "empty", input: "", wantErr: true},
		{name: "missing prefix", input: "aws:sns:us-east-1:123456789012:topic", wantErr: true},
		{name: "too few sections", input: "arn:aws:sns", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseARN(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, errors.Is(err, ErrMissing))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
