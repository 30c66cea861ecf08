// Package csvsource loads the local table exports (F_ART.csv, F_ARC.csv, ...)
// from a directory into normalizer tables.
package csvsource

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/errors"
	"github.com/tiendapocket/nubesync/pkg/logging"
	"github.com/tiendapocket/nubesync/pkg/normalizer"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads the given tables from dir, or every known table when none is
// named. Tables are read concurrently. A table without a file is returned
// empty.
func Load(ctx context.Context, dir string, tables ...normalizer.Table) (normalizer.Tables, error) {
	logger := logging.FromContext(ctx)
	if len(tables) == 0 {
		tables = normalizer.AllTables
	}

	files, err := discover(dir)
	if err != nil {
		return nil, err
	}

	rows := make([][]normalizer.Row, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(constants.MaxConcurrentTables)

	for i, table := range tables {
		path, ok := files[table]
		if !ok {
			logger.Debug().Str("table", string(table)).Msg("Table file not found, using empty table")
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Join(errors.ErrCanceled, err)
			}
			r, err := ReadFile(path)
			if err != nil {
				return err
			}
			rows[i] = r
			logger.Debug().Str("table", string(table)).Int("rows", len(r)).Msg("Loaded table")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(normalizer.Tables, len(tables))
	for i, table := range tables {
		out[table] = rows[i]
	}
	return out, nil
}

// discover maps each known table to its file in dir.
func discover(dir string) (map[normalizer.Table]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapIO("read", dir, err)
	}
	files := make(map[normalizer.Table]string)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(strings.ToUpper(name), constants.CSVTablePrefix) {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		if table, ok := normalizer.ParseTable(name); ok {
			files[table] = filepath.Join(dir, name)
		}
	}
	return files, nil
}

// ReadFile reads one ';'-delimited export whose first record is the header.
func ReadFile(path string) ([]normalizer.Row, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the operator's export directory
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := Read(f)
	if err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}
	return rows, nil
}

// Read parses ';'-delimited rows keyed by the header record. A leading UTF-8
// byte order mark is ignored and short records leave missing columns empty.
func Read(r io.Reader) ([]normalizer.Row, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = constants.CSVDelimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return []normalizer.Row{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows []normalizer.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(normalizer.Row, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
