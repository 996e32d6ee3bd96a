package corpus

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/normalize"
)

// DirSource loads every CSV and XLSX file in one directory and merges
// their rows into a single raw corpus. Files keep their own headers;
// the normalizer tells the schemas apart per row.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) LoadRows(ctx context.Context) ([]normalize.RawRow, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			names = append(names, entry.Name())
		}
	}
	// Deterministic merge order regardless of directory listing order.
	sort.Strings(names)

	var rows []normalize.RawRow
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.dir, name)

		var fileRows []normalize.RawRow
		switch strings.ToLower(filepath.Ext(name)) {
		case ".csv":
			fileRows, err = LoadCSV(path)
		case ".xlsx":
			fileRows, err = LoadXLSX(path)
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		slog.Info("corpus_file_loaded", "file", name, "rows", len(fileRows))
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

// LoadCSV reads one CSV file whose first record is the header.
func LoadCSV(path string) ([]normalize.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return tableToRows(records), nil
}

// LoadXLSX reads the first sheet of one workbook, first row as header.
func LoadXLSX(path string) ([]normalize.RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return tableToRows(records), nil
}

// tableToRows turns a header-plus-data table into raw rows. Columns with
// empty header names are ignored; rows that are blank end to end are
// skipped. Data rows shorter than the header are padded with empties,
// which XLSX readers produce for trailing blank cells.
func tableToRows(records [][]string) []normalize.RawRow {
	if len(records) == 0 {
		return nil
	}

	header := make([]string, 0, len(records[0]))
	indexes := make([]int, 0, len(records[0]))
	for i, name := range records[0] {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		header = append(header, name)
		indexes = append(indexes, i)
	}
	if len(header) == 0 {
		return nil
	}

	rows := make([]normalize.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		fields := make(map[string]string, len(header))
		blank := true
		for j, col := range header {
			var v string
			if idx := indexes[j]; idx < len(rec) {
				v = rec[idx]
			}
			if strings.TrimSpace(v) != "" {
				blank = false
			}
			fields[col] = v
		}
		if blank {
			continue
		}
		rows = append(rows, normalize.RawRow{Columns: header, Fields: fields})
	}
	return rows
}
