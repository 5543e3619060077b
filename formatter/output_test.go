package formatter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project/customer-loader/record"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.yml")

	customers := []record.Customer{
		{
			CustomerName:      "Acme",
			CustomerIPAddress: "10.0.0.1",
			IPSubnetMask:      "255.255.255.0",
			Tags:              []string{"gold", "emea"},
			ObjectName:        "Acme_10.0.0.1_24",
		},
		{
			CustomerName:      "Globex",
			CustomerIPAddress: "192.168.1.10",
			IPSubnetMask:      "/16",
			Tags:              []string{"silver"},
			ObjectName:        "Globex_192.168.1.10_16",
		},
	}
	require.NoError(t, Save(path, customers))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, customers, got)
}

func TestSaveDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.yml")

	require.NoError(t, Save(path, []record.Customer{{
		CustomerName:      "Acme",
		CustomerIPAddress: "10.0.0.1",
		IPSubnetMask:      "/24",
		ObjectName:        "Acme_10.0.0.1_24",
	}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "customers:")
	assert.Contains(t, string(data), "CustomerName: Acme")
	assert.Contains(t, string(data), "ObjectName: Acme_10.0.0.1_24")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestTimestampedPath(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, "customers-20260314-093000.yml", TimestampedPath("customers.yml", now))
	assert.Equal(t, "out/customers-20260314-093000.yml", TimestampedPath("out/customers.yml", now))
}
