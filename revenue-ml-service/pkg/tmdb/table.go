/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package tmdb

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"boxoffice/common/utils"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

const columnID = "id"

// RecordColumns is the column order of fetched films
var RecordColumns = []string{"id", "title", "budget", "revenue", "popularity", "runtime", "vote_average", "vote_count", "release_date"}

// Table is a CSV held as rows keyed by column name. Columns keeps the file order.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}

func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV header")
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	table := &Table{Columns: columns, Rows: make([]map[string]string, 0)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read CSV row %d", len(table.Rows)+1)
		}
		row := make(map[string]string, len(columns))
		for i, name := range columns {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func RecordsTable(records []MovieRecord) *Table {
	table := &Table{Columns: append([]string(nil), RecordColumns...), Rows: make([]map[string]string, 0, len(records))}
	for _, m := range records {
		table.Rows = append(table.Rows, map[string]string{
			"id":           cast.ToString(m.ID),
			"title":        m.Title,
			"budget":       cast.ToString(m.Budget),
			"revenue":      cast.ToString(m.Revenue),
			"popularity":   cast.ToString(m.Popularity),
			"runtime":      cast.ToString(m.Runtime),
			"vote_average": cast.ToString(m.VoteAverage),
			"vote_count":   cast.ToString(m.VoteCount),
			"release_date": m.ReleaseDate,
		})
	}
	return table
}

// Merge appends added to base with the union of their columns, base columns first.
// Rows repeating an earlier id are dropped; without an id column fully identical rows are.
func Merge(base, added *Table) *Table {
	columns := append([]string(nil), base.Columns...)
	for _, name := range added.Columns {
		if !utils.Contains(columns, name) {
			columns = append(columns, name)
		}
	}
	hasID := utils.Contains(columns, columnID)

	merged := &Table{Columns: columns, Rows: make([]map[string]string, 0, len(base.Rows)+len(added.Rows))}
	seen := make(map[string]struct{}, len(base.Rows)+len(added.Rows))
	for _, rows := range [][]map[string]string{base.Rows, added.Rows} {
		for _, row := range rows {
			key := rowKey(row, columns, hasID)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged.Rows = append(merged.Rows, row)
		}
	}
	return merged
}

func rowKey(row map[string]string, columns []string, hasID bool) string {
	if hasID {
		id := strings.TrimSpace(row[columnID])
		// "19995" and "19995.0" name the same film
		if n, err := cast.ToFloat64E(id); err == nil {
			return cast.ToString(n)
		}
		return id
	}
	values := make([]string, len(columns))
	for i, name := range columns {
		values[i] = row[name]
	}
	return strings.Join(values, "\x1f")
}

// Mean averages the numeric cells of column; ok is false when there are none
func (t *Table) Mean(column string) (mean float64, ok bool) {
	var sum float64
	n := 0
	for _, row := range t.Rows {
		v, err := cast.ToFloat64E(strings.TrimSpace(row[column]))
		if row[column] == "" || err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func (t *Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, name := range t.Columns {
			record[i] = row[name]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table to a temporary file next to path and renames it into place
func (t *Table) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create output file")
	}
	defer os.Remove(tmp.Name())

	if err := t.Write(tmp); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
