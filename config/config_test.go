package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "customers.yml", cfg.OutputFile)
	assert.Equal(t, "customer-processing.log", cfg.LogFile)
	assert.Equal(t, "8.8.8.8:53", cfg.DNSServer)
	assert.False(t, cfg.HeaderlessInput)
	assert.False(t, cfg.ResolveHostnames)
	assert.False(t, cfg.TimestampOutput)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customer-loader.yaml")
	content := `
outputFile: out/customers.yml
timestampOutput: true
logFile: run.log
headerlessInput: true
serviceTags:
  web: http-service
  mail: smtp-service
resolveHostnames: true
dnsServer: 10.1.1.1:53
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "out/customers.yml", cfg.OutputFile)
	assert.True(t, cfg.TimestampOutput)
	assert.Equal(t, "run.log", cfg.LogFile)
	assert.True(t, cfg.HeaderlessInput)
	assert.Equal(t, "http-service", cfg.ServiceTags["web"])
	assert.True(t, cfg.ResolveHostnames)
	assert.Equal(t, "10.1.1.1:53", cfg.DNSServer)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customer-loader.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timestampOutput: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.TimestampOutput)
	assert.Equal(t, "customers.yml", cfg.OutputFile)
	assert.Equal(t, "customer-processing.log", cfg.LogFile)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customer-loader.yaml")
	require.NoError(t, os.WriteFile(path, []byte("outputFile: [broken\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
