package ingest

import (
	"bytes"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVWithHeader(t *testing.T) {
	logger, _ := testLogger()
	path := writeFile(t, "customers.csv",
		"CustomerName,CustomerIPAddress,IPSubnetMask,Tags,Service\n"+
			"Acme,10.0.0.1,255.255.255.0,\"gold,emea\",web\n"+
			"Globex,192.168.1.10,/16,,\n")

	rows, err := Read(path, Options{HasHeader: true}, logger)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Acme", rows[0].Name)
	assert.Equal(t, "10.0.0.1", rows[0].IP)
	assert.Equal(t, "255.255.255.0", rows[0].Mask)
	assert.Equal(t, "gold,emea", rows[0].Tags)
	assert.Equal(t, "web", rows[0].Service)
	assert.Equal(t, 2, rows[0].Line)

	assert.Equal(t, "Globex", rows[1].Name)
	assert.Empty(t, rows[1].Tags)
	assert.Equal(t, 3, rows[1].Line)
}

func TestReadCSVHeaderColumnOrder(t *testing.T) {
	logger, _ := testLogger()
	path := writeFile(t, "customers.csv",
		"IPSubnetMask,CustomerName,CustomerIPAddress\n"+
			"/24,Acme,10.0.0.1\n")

	rows, err := Read(path, Options{HasHeader: true}, logger)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0].Name)
	assert.Equal(t, "10.0.0.1", rows[0].IP)
	assert.Equal(t, "/24", rows[0].Mask)
}

func TestReadCSVHeaderless(t *testing.T) {
	logger, _ := testLogger()
	path := writeFile(t, "customers.csv",
		"Acme,10.0.0.1,255.255.255.0,web\n"+
			"Globex,192.168.1.10,/16\n")

	rows, err := Read(path, Options{HasHeader: false}, logger)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "web", rows[0].Service)
	assert.Empty(t, rows[1].Service)
	assert.Equal(t, 1, rows[0].Line)
}

func TestReadCSVSkipsShortRows(t *testing.T) {
	logger, buf := testLogger()
	path := writeFile(t, "customers.csv",
		"Acme,10.0.0.1\n"+
			"Globex,192.168.1.10,/16\n")

	rows, err := Read(path, Options{}, logger)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Globex", rows[0].Name)
	assert.Contains(t, buf.String(), "missing required field")
}

func TestReadXLSX(t *testing.T) {
	logger, _ := testLogger()
	path := filepath.Join(t.TempDir(), "customers.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"CustomerName", "CustomerIPAddress", "IPSubnetMask", "Tags"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Acme", "10.0.0.1", "255.255.255.0", "gold"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := Read(path, Options{HasHeader: true}, logger)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0].Name)
	assert.Equal(t, "gold", rows[0].Tags)
}

func TestReadUnsupportedFormat(t *testing.T) {
	logger, _ := testLogger()
	path := writeFile(t, "customers.txt", "Acme,10.0.0.1,/24\n")

	_, err := Read(path, Options{}, logger)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadMissingFile(t *testing.T) {
	logger, _ := testLogger()

	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"), Options{}, logger)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
