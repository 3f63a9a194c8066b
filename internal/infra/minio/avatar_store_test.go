package minio

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "http://localhost:9000/avatars/characters/1/a.png",
		PublicURL("localhost:9000", false, "avatars", "characters/1/a.png"))
	assert.Equal(t, "https://cdn.example.com/avatars/x.jpg",
		PublicURL("cdn.example.com", true, "avatars", "x.jpg"))
}

func TestPublicReadPolicy(t *testing.T) {
	var policy struct {
		Statement []struct {
			Action   []string `json:"Action"`
			Resource []string `json:"Resource"`
		} `json:"Statement"`
	}
	require.NoError(t, json.Unmarshal([]byte(publicReadPolicy("avatars")), &policy))
	require.Len(t, policy.Statement, 1)
	assert.Equal(t, []string{"s3:GetObject"}, policy.Statement[0].Action)
	assert.Equal(t, []string{"arn:aws:s3:::avatars/*"}, policy.Statement[0].Resource)
}
