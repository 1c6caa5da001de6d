package legality

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/dictionary"
	"github.com/mcoot/wordrush/internal/storage/memory"
	"github.com/mcoot/wordrush/internal/testutil"
)

func newValidator(t *testing.T, words ...string) *Validator {
	t.Helper()
	dict := dictionary.New(memory.New(), testutil.NopLogger())
	require.NoError(t, dict.LoadWords(words))
	return New(dict)
}

func TestValidate(t *testing.T) {
	v := newValidator(t, "hund", "katt", "testord", "ål")
	bag := []rune("HUNDKATTESRO")

	tests := []struct {
		name      string
		raw       string
		minLength int
		want      string
		reason    model.ValidationReason
	}{
		{name: "valid word", raw: "hund", minLength: 3, want: "HUND"},
		{name: "trimmed and uppercased", raw: "  KaTt ", minLength: 3, want: "KATT"},
		{name: "empty", raw: "", minLength: 3, reason: model.ReasonEmpty},
		{name: "whitespace only", raw: "   ", minLength: 3, reason: model.ReasonEmpty},
		{name: "too short", raw: "hu", minLength: 3, reason: model.ReasonTooShort},
		{name: "unformable", raw: "hundhund", minLength: 3, reason: model.ReasonUnformable},
		{name: "not a word", raw: "dunk", minLength: 3, reason: model.ReasonNotAWord},
		{name: "uses letters twice", raw: "testord", minLength: 3, want: "TESTORD"},
		{name: "short checked before formable", raw: "xy", minLength: 3, reason: model.ReasonTooShort},
		{name: "formable checked before dictionary", raw: "xyzzy", minLength: 3, reason: model.ReasonUnformable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, err := v.Validate(tt.raw, bag, tt.minLength)

			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, word)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidationFailed)

			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.reason, verr.Reason)
			assert.Empty(t, word)
		})
	}
}

func TestValidateSwedishLetters(t *testing.T) {
	v := newValidator(t, "ål")

	word, err := v.Validate("ål", []rune("ÅLXXXXXXXXXX"), 2)
	require.NoError(t, err)
	assert.Equal(t, "ÅL", word)
}

func TestValidateLengthCountsLetters(t *testing.T) {
	// ÅL is two letters but four bytes
	v := newValidator(t, "ål")

	_, err := v.Validate("ål", []rune("ÅLXXXXXXXXXX"), 3)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, model.ReasonTooShort, verr.Reason)
	assert.Equal(t, 3, verr.MinLength)
}
