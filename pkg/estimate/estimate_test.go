package estimate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, "BRL", table.Currency)
	assert.Equal(t, 2000.0, table.DefaultRate)
	assert.Equal(t, 2400.0, table.Rate("construcao", "medio"))
	assert.Equal(t, 900.0, table.Rate("reforma", "basico"))
}

func TestRateFallback(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, 2000.0, table.Rate("piscina", "medio"))
	assert.Equal(t, 2000.0, table.Rate("reforma", "luxo"))
	// Lookup is case-insensitive and trims whitespace.
	assert.Equal(t, 2200.0, table.Rate(" Reforma ", "ALTO"))
}

func TestEstimate(t *testing.T) {
	table := DefaultTable()

	assert.Equal(t, 112000.0, table.Estimate("reforma", "medio", 80))
	assert.Equal(t, 160000.0, table.Estimate("desconhecido", "", 80))
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.yaml")
	data := `
currency: BRL
default_rate: 1000
kinds:
  - kind: reforma
    standards:
      basico: 700
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, 700.0, table.Rate("reforma", "basico"))
	assert.Equal(t, 1000.0, table.Rate("reforma", "alto"))
}

func TestLoadTableMissingDefaultRate(t *testing.T) {
	_, err := LoadTableFromBytes([]byte("currency: BRL"))
	assert.ErrorContains(t, err, "default_rate")
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
