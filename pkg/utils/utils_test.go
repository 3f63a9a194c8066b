package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, "charbit-test")

	token, err := m.GenerateToken("google-123")
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "google-123", claims.UserID)
	assert.Equal(t, "charbit-test", claims.Issuer)
}

func TestJWTRejectsWrongSecretAndExpired(t *testing.T) {
	token, err := NewJWTManager("secret", time.Hour, "x").GenerateToken("u1")
	require.NoError(t, err)

	_, err = NewJWTManager("other", time.Hour, "x").ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewJWTManager("secret", -time.Minute, "x").GenerateToken("u1")
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour, "x").ParseToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = NewJWTManager("secret", time.Hour, "x").ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSanitizeHandle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"@LyraArt", "LyraArt"},
		{"  @@lyra.art_01 ", "lyra.art_01"},
		{"lyra art!", "lyraart"},
		{"@", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeHandle(tt.input), tt.input)
	}
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"OC", "Fantasy"}, NormalizeTags([]string{"Fantasy"}))
	assert.Equal(t, []string{"OC", "Fantasy"}, NormalizeTags([]string{"Fantasy", "OC", " ", "Fantasy"}))
	assert.Equal(t, []string{"OC"}, NormalizeTags(nil))
}

func TestSplitCSVAndEmail(t *testing.T) {
	assert.Equal(t, []string{"Anime", "Cute"}, SplitCSV(" Anime, ,Cute,"))
	assert.Nil(t, SplitCSV("  "))
	assert.Equal(t, "lyra", EmailLocalPart("lyra@example.com"))
	assert.Equal(t, "plain", EmailLocalPart("plain"))
}
