package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBase(t *testing.T) {
	v, err := normalizeBase("localhost:9090")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9090", v)

	v, err = normalizeBase("https://example.com:443")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com:443", v)

	_, err = normalizeBase("localhost")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("BASE_URL", "backend:7000")
	t.Setenv("FILE_STORAGE_PATH", "")
	t.Setenv("RATE_LIMIT", "5.5")
	t.Setenv("REVEAL_DELAY", "2s")
	t.Setenv("ANIMATION_INTERVAL", "bogus")

	c := Default()
	c.applyEnv()

	assert.Equal(t, ":9999", c.FlagAddress)
	assert.Equal(t, "http://backend:7000", c.FlagBaseAddress)
	assert.Equal(t, "", c.FlagFilePath)
	assert.Equal(t, 5.5, c.RateLimit)
	assert.Equal(t, 2*time.Second, c.RevealDelay)
	assert.Equal(t, 10*time.Millisecond, c.AnimationInterval)
}

func TestResolveBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "follows listen port",
			cfg:  Config{FlagAddress: ":9090", FlagBaseAddress: "http://localhost:8080"},
			want: "http://localhost:9090",
		},
		{
			name: "keeps listen host",
			cfg:  Config{FlagAddress: "127.0.0.1:7000", FlagBaseAddress: "http://localhost:8080"},
			want: "http://127.0.0.1:7000",
		},
		{
			name: "https uses first certificate host",
			cfg:  Config{FlagAddress: ":8080", EnableHTTPS: true, TLSHosts: []string{"reviews.example.org", "www.reviews.example.org"}},
			want: "https://reviews.example.org",
		},
		{
			name: "https without hosts",
			cfg:  Config{FlagAddress: ":8080", EnableHTTPS: true},
			want: "https://localhost",
		},
		{
			name: "explicit base wins over https",
			cfg:  Config{FlagAddress: ":8080", EnableHTTPS: true, FlagBaseAddress: "http://backend:7000", baseSet: true},
			want: "http://backend:7000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.cfg
			c.resolveBase()
			assert.Equal(t, tt.want, c.FlagBaseAddress)
		})
	}
}

func TestTLSHostsEnv(t *testing.T) {
	t.Setenv("ENABLE_HTTPS", "true")
	t.Setenv("TLS_HOSTS", " reviews.example.org , ,www.reviews.example.org")

	c := Default()
	c.applyEnv()
	c.resolveBase()

	assert.True(t, c.EnableHTTPS)
	assert.Equal(t, []string{"reviews.example.org", "www.reviews.example.org"}, c.TLSHosts)
	assert.Equal(t, "https://reviews.example.org", c.FlagBaseAddress)
}
