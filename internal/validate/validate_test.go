package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/manav03panchal/mapundo/internal/errors"
)

func TestMapName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "e1m1", false},
		{"with_dashes", "base-v2", false},
		{"with_dots", "map.backup", false},
		{"empty", "", true},
		{"space", "two words", true},
		{"colon", "a:b", true},
		{"leading_dash", "-map", true},
		{"too_long", strings.Repeat("a", MaxMapNameLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidArgument)
				assert.True(t, errors.IsUserError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSpawnargKey(t *testing.T) {
	assert.NoError(t, SpawnargKey("origin"))
	assert.NoError(t, SpawnargKey("_color"))
	for _, bad := range []string{"", "two words", "tab\tkey", `quo"te`, strings.Repeat("k", MaxKeyLength+1)} {
		assert.ErrorIs(t, SpawnargKey(bad), errors.ErrInvalidKey, "key %q", bad)
	}
}

func TestSpawnargValue(t *testing.T) {
	assert.NoError(t, SpawnargValue(""))
	assert.NoError(t, SpawnargValue("320 320 320"))
	assert.ErrorIs(t, SpawnargValue(`say "hi"`), errors.ErrInvalidArgument)
	assert.ErrorIs(t, SpawnargValue(strings.Repeat("v", MaxValueLength+1)), errors.ErrInvalidArgument)
}

func TestShader(t *testing.T) {
	assert.NoError(t, Shader("textures/common/caulk"))
	for _, bad := range []string{"", "   ", "has space", strings.Repeat("s", MaxShaderLength+1)} {
		assert.ErrorIs(t, Shader(bad), errors.ErrInvalidArgument, "shader %q", bad)
	}
}

func TestOperationName(t *testing.T) {
	assert.NoError(t, OperationName("Move brushes"))
	assert.Error(t, OperationName(" "))
	assert.Error(t, OperationName(strings.Repeat("n", MaxOperationNameLength+1)))
}

func TestNonEmpty(t *testing.T) {
	assert.NoError(t, NonEmpty("field", "value"))
	err := NonEmpty("field", "  ")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "field cannot be empty")
}

func TestSanitizeLine(t *testing.T) {
	assert.Equal(t, "set a1 origin 0", SanitizeLine("  set a1 origin 0 \r"))
	assert.Equal(t, "add brush a1", SanitizeLine("add\tbrush a1"))
	assert.Equal(t, "undo", SanitizeLine("un\x00do"))
}

func TestStripControlChars(t *testing.T) {
	assert.Equal(t, "ab\ncd", StripControlChars("a\x01b\ncd\x7f"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "abcdefg...", TruncateString("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}
