package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "julia souza", NormalizeName("  Julia Souza "))
	assert.Equal(t, "", NormalizeName("   "))
}

func TestStripAccents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Maria Vitória", "Maria Vitoria"},
		{"negociação", "negociacao"},
		{"Elaine", "Elaine"},
		{"ÀÉÎÕÜç", "AEIOUc"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripAccents(tt.in))
	}
}

func TestFoldName(t *testing.T) {
	assert.Equal(t, "maria vitoria", FoldName(" Maria Vitória "))
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 1234.56, ParseAmount("1234.56"))
	assert.Equal(t, 0.0, ParseAmount(""))
	assert.Equal(t, 0.0, ParseAmount("abc"))
	assert.Equal(t, -10.0, ParseAmount(" -10 "))
}
