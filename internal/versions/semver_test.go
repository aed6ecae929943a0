package versions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	parts, err := Parse("22.3.1")
	require.NoError(t, err)
	assert.Equal(t, 22, parts.Major)
	assert.Equal(t, 3, parts.Minor)
	assert.Equal(t, 1, parts.Patch)
	assert.Nil(t, parts.Pre)
	assert.Nil(t, parts.Build)
}

func TestParsePartialAndPrerelease(t *testing.T) {
	parts, err := Parse("1.9")
	require.NoError(t, err)
	assert.Equal(t, 1, parts.Major)
	assert.Equal(t, 9, parts.Minor)
	assert.Equal(t, 0, parts.Patch)

	parts, err = Parse("2.0.0-alpha.1+build.7")
	require.NoError(t, err)
	require.NotNil(t, parts.Pre)
	require.NotNil(t, parts.Build)
	assert.Equal(t, "alpha.1", *parts.Pre)
	assert.Equal(t, "build.7", *parts.Build)
}

func TestValid(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"22.3.1", true},
		{"1", true},
		{"1.0", true},
		{"1.0.0-rc1", true},
		{"", false},
		{"1.+", false},
		{"latest.release", false},
		{"[1.0,2.0)", false},
		{"01.2.3", false},
		{"v1.2.3", false},
		{"1.2-beta", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.raw))
		})
	}
}

func TestParseRejectsWhatValidRejects(t *testing.T) {
	for _, raw := range []string{"v1.2.3", "1.+", "1.2-beta", "01.2.3"} {
		_, err := Parse(raw)
		require.Error(t, err, raw)
		assert.Contains(t, err.Error(), "is not a semantic version")
	}
}
