package app

import (
	"testing"

	"github.com/code-injection/core/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOriginMatches(t *testing.T) {
	cases := []struct {
		pattern string
		host    string
		want    bool
	}{
		{"example.com", "example.com", true},
		{"example.com", "other.com", false},
		{"*.example.com", "api.example.com", true},
		{"*.example.com", "example.org", false},
		{"localhost:*", "localhost:3000", true},
		{"localhost:*", "localhost", false},
		{"localhost:*", "remotehost:3000", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, originMatches(tc.pattern, tc.host), "%s vs %s", tc.pattern, tc.host)
	}
}

func TestOriginHost(t *testing.T) {
	assert.Equal(t, "example.com:8080", originHost("https://example.com:8080"))
	assert.Equal(t, "example.com", originHost("example.com"))
}

func TestCorsConfigProductionRestricts(t *testing.T) {
	cfg := &config.AppConfig{Env: "production", AllowedOrigins: []string{"*.example.com"}}
	c := corsConfig(cfg)
	require.NotNil(t, c.AllowOriginFunc)
	assert.True(t, c.AllowOriginFunc("https://admin.example.com"))
	assert.False(t, c.AllowOriginFunc("https://evil.org"))
	assert.Contains(t, c.ExposeHeaders, "X-Cache")
}

func TestCorsConfigDevelopmentAllowsAll(t *testing.T) {
	cfg := &config.AppConfig{Env: "development", AllowedOrigins: []string{"example.com"}}
	c := corsConfig(cfg)
	require.NotNil(t, c.AllowOriginFunc)
	assert.True(t, c.AllowOriginFunc("https://anything.test"))
}
