package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMinimalConfig(t *testing.T) {
	path := writeConfig(t, `
listen: "127.0.0.1:9090"
endpoints:
  - path: /webhook/stripe
    secret: whsec_test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Listen)
	require.Len(t, cfg.Endpoints, 1)
	assert.Equal(t, "/webhook/stripe", cfg.Endpoints[0].Path)
	assert.Equal(t, "whsec_test", cfg.Endpoints[0].Secret)

	// Defaults survive partial files.
	assert.Equal(t, "ingestd", cfg.Service.Name)
	assert.Equal(t, "json", cfg.Service.LogFormat)
	assert.True(t, cfg.Ledger.Enabled)
	assert.Equal(t, "./data/ingest.db", cfg.Ledger.Path)
}

func TestLoadEnvInterpolation(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_SECRET", "whsec_from_env")

	path := writeConfig(t, `
listen: "127.0.0.1:9090"
endpoints:
  - path: /webhook/stripe
    secret: ${TEST_WEBHOOK_SECRET}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "whsec_from_env", cfg.Endpoints[0].Secret)
	assert.True(t, cfg.Endpoints[0].SecretResolved())
}

func TestLoadUnresolvedSecretIsNotFatal(t *testing.T) {
	// The endpoint must still be servable (answering 500) when the secret
	// env var is missing, so config load succeeds.
	path := writeConfig(t, `
listen: "127.0.0.1:9090"
endpoints:
  - path: /webhook/stripe
    secret: ${DEFINITELY_NOT_SET_VAR_12345}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Endpoints[0].SecretResolved())
}

func TestLoadValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "no endpoints",
			content: "listen: \"127.0.0.1:9090\"\n",
		},
		{
			name: "path without slash",
			content: `
listen: "127.0.0.1:9090"
endpoints:
  - path: webhook
    secret: s
`,
		},
		{
			name: "duplicate paths",
			content: `
listen: "127.0.0.1:9090"
endpoints:
  - path: /webhook/stripe
    secret: a
  - path: /webhook/stripe
    secret: b
`,
		},
		{
			name: "bad body encoding",
			content: `
listen: "127.0.0.1:9090"
endpoints:
  - path: /webhook/stripe
    secret: s
    body_encoding: hex
`,
		},
		{
			name: "bad tolerance",
			content: `
listen: "127.0.0.1:9090"
endpoints:
  - path: /webhook/stripe
    secret: s
    tolerance: soon
`,
		},
		{
			name: "bad max body size",
			content: `
listen: "127.0.0.1:9090"
endpoints:
  - path: /webhook/stripe
    secret: s
    max_body_size: lots
`,
		},
		{
			name: "kafka enabled without broker",
			content: `
listen: "127.0.0.1:9090"
endpoints:
  - path: /webhook/stripe
    secret: s
kafka:
  enabled: true
  topic: payments
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestToleranceDuration(t *testing.T) {
	ep := EndpointConfig{}
	d, err := ep.ToleranceDuration()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), d)

	ep.Tolerance = "10m"
	d, err = ep.ToleranceDuration()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, d)

	ep.Tolerance = "0"
	d, err = ep.ToleranceDuration()
	require.NoError(t, err)
	assert.Negative(t, d)

	ep.Tolerance = "-5m"
	_, err = ep.ToleranceDuration()
	assert.Error(t, err)
}

func TestMaxBodyBytes(t *testing.T) {
	tests := []struct {
		size    string
		want    int64
		wantErr bool
	}{
		{size: "", want: 0},
		{size: "1024", want: 1024},
		{size: "4KB", want: 4096},
		{size: "1MB", want: 1048576},
		{size: "1GB", want: 1 << 30},
		{size: "-1", wantErr: true},
		{size: "big", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			ep := EndpointConfig{MaxBodySize: tt.size}
			got, err := ep.MaxBodyBytes()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
