package csvsource_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendapocket/nubesync/internal/csvsource"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
	"github.com/tiendapocket/nubesync/pkg/normalizer"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestReadStripsBOMAndPadsShortRecords(t *testing.T) {
	rows, err := csvsource.Read(strings.NewReader("\xEF\xBB\xBFCODART; DESART;SUWART\nA1;Remera;1\nA2;Buzo\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "A1", rows[0].Get("CODART"))
	assert.Equal(t, "Remera", rows[0].Get("DESART"))
	assert.Equal(t, "1", rows[0].Get("SUWART"))
	assert.Equal(t, "", rows[1].Get("SUWART"))
}

func TestReadEmptyInput(t *testing.T) {
	rows, err := csvsource.Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "F_ART.csv", "CODART;DESART;SUWART;EANART;PCOART\nX1;Remera;1;;\nX2;Oculto;0;;\n")
	writeFile(t, dir, "f_arc.CSV", "ARTARC;CE1ARC;CE2ARC\nX1;S;\nX1;M;\n")
	writeFile(t, dir, "F_STC.csv", "ARTSTC;CE1STC;CE2STC;DISSTC\nX1;S;;-3\nX1;M;;4\n")
	writeFile(t, dir, "notes.txt", "ignored")

	logger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), logger.Logger)

	tables, err := csvsource.Load(ctx, dir)
	require.NoError(t, err)

	assert.Len(t, tables, len(normalizer.AllTables))
	assert.Len(t, tables[normalizer.TableART], 2)
	assert.Len(t, tables[normalizer.TableARC], 2)
	assert.Empty(t, tables[normalizer.TableLTC])
	logger.AssertContains(t, "Table file not found, using empty table")

	products, _ := normalizer.Normalize(ctx, tables)
	require.Len(t, products, 1)
	require.Len(t, products[0].Variants, 2)
	assert.Equal(t, 0, products[0].Variants[0].Stock)
	assert.Equal(t, 4, products[0].Variants[1].Stock)
}

func TestLoadSelectedTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "F_ART.csv", "CODART\nA\n")
	writeFile(t, dir, "F_STO.csv", "ARTSTO;DISSTO\nA;1\n")

	tables, err := csvsource.Load(context.Background(), dir, normalizer.TableSTO)
	require.NoError(t, err)
	assert.Len(t, tables, 1)
	assert.Len(t, tables[normalizer.TableSTO], 1)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := csvsource.Load(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.True(t, errors.As(err, &ioErr))
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "F_ART.csv", "CODART\nA\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := csvsource.Load(ctx, dir)
	assert.ErrorIs(t, err, errors.ErrCanceled)
}
