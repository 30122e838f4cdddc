package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateContent(t *testing.T) {
	tests := []struct {
		name    string
		front   string
		back    string
		wantErr bool
	}{
		{"valid", "What is Go?", "A programming language.", false},
		{"empty front", "", "back", true},
		{"empty back", "front", "", true},
		{"front at cap", strings.Repeat("f", FrontMaxLen), "back", false},
		{"front over cap", strings.Repeat("f", FrontMaxLen+1), "back", true},
		{"back at cap", "front", strings.Repeat("b", BackMaxLen), false},
		{"back over cap", "front", strings.Repeat("b", BackMaxLen+1), true},
		{"multibyte front at cap", strings.Repeat("日", FrontMaxLen), "back", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContent(tt.front, tt.back)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidContent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusAcceptedOriginal, StatusAcceptedEdited, StatusRejected} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("accepted"))
	assert.False(t, ValidStatus(""))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "abc", TruncateRunes("abc", 3))
	assert.Equal(t, "ab", TruncateRunes("abc", 2))
	assert.Equal(t, "日本", TruncateRunes("日本語", 2), "truncation counts runes, not bytes")
	assert.Equal(t, "", TruncateRunes("abc", 0))
}
