package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    string
		wantErr string
	}{
		{raw: `100`, want: "100"},
		{raw: `"42.50"`, want: "42.5"},
		{raw: ` 7 `, want: "7"},
		{raw: ``, wantErr: "amount: is required"},
		{raw: `null`, wantErr: "amount: is required"},
		{raw: `"abc"`, wantErr: "amount: must be numeric"},
		{raw: `"` + strings.Repeat("9", 40) + `"`, wantErr: "amount: is too long"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAmount("amount", tt.raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr)
				assert.True(t, errors.Is(err, ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(amt(tt.want)), "got %s", got)
		})
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		wantErr string
	}{
		{raw: "0.01"},
		{raw: "1000.10"},
		{raw: "1.500"},
		{raw: "999999999999.99"},
		{raw: "12e2"},
		{raw: "0", wantErr: "amount: must be greater than zero"},
		{raw: "-5", wantErr: "amount: must be greater than zero"},
		{raw: "1.005", wantErr: "amount: must have at most 2 decimal places"},
		{raw: "1000000000000", wantErr: "amount: is too large"},
		{raw: "1000000000000.00", wantErr: "amount: is too large"},
		{raw: "999999999999.999", wantErr: "amount: must have at most 2 decimal places"},
		{raw: "100000000000000000000", wantErr: "amount: is too large"},
		{raw: "1e13", wantErr: "amount: is too large"},
		{raw: "1e30000000", wantErr: "amount: is too large"},
		{raw: "1e-30000000", wantErr: "amount: must have at most 2 decimal places"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			start := time.Now()
			err := ValidateAmount("amount", amt(tt.raw))
			assert.Less(t, time.Since(start), time.Second, "validation must not rescale huge exponents")
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(12345), ToMinor(amt("123.45")))
	assert.Equal(t, int64(-500), ToMinor(amt("-5")))
	assert.True(t, FromMinor(12345).Equal(amt("123.45")))
	assert.Equal(t, "123.40", FormatAmount(FromMinor(12340)))
	assert.Equal(t, int64(99999999999999), ToMinor(MaxAmount))
}
