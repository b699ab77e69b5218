// Package consolidate merges per-sample omics sources (miRNA expression,
// RPPA protein abundance, and copy-number segment summaries) into a single
// wide table keyed by sample identifier.
package consolidate

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/carbocation/crcomics"
	"github.com/carbocation/pfx"
	"gopkg.in/guregu/null.v3"
)

// JoinPolicy determines which sample IDs survive a merge.
type JoinPolicy int

const (
	// JoinInner keeps only sample IDs present in every source.
	JoinInner JoinPolicy = iota

	// JoinOuter keeps the union of sample IDs, padding missing cells.
	JoinOuter
)

// ParseJoinPolicy maps the -join flag values onto a JoinPolicy. There is
// no default: the caller must choose explicitly.
func ParseJoinPolicy(s string) (JoinPolicy, error) {
	switch strings.ToLower(s) {
	case "inner":
		return JoinInner, nil
	case "outer":
		return JoinOuter, nil
	}

	return 0, fmt.Errorf("unknown join policy %q (want inner or outer)", s)
}

// MissingColumnError indicates that a required column was absent from an
// input file.
type MissingColumnError struct {
	Column string
	Path   string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q in %s", e.Column, e.Path)
}

// NoOverlapError indicates that a merge produced zero rows.
type NoOverlapError struct {
	Sources []string
}

func (e NoOverlapError) Error() string {
	return fmt.Sprintf("no sample IDs shared by sources %v: merge produced 0 rows", e.Sources)
}

// Column is one value column along with the source it came from.
type Column struct {
	Name   string
	Source string
}

// Table is a wide per-sample table: one row per sample ID, with cells
// aligned to Columns. An invalid null.String marks a cell padded during
// an outer join or column backfill, as opposed to a genuinely empty
// source value.
type Table struct {
	Source  string
	Columns []Column
	IDs     []string
	Rows    map[string][]null.String

	colIdx map[string]int
}

// NewTable returns an empty table attributed to the named source.
func NewTable(source string) *Table {
	return &Table{
		Source: source,
		Rows:   make(map[string][]null.String),
		colIdx: make(map[string]int),
	}
}

// AddSample appends one sample row with the given column names and
// values. Columns new to the table are appended in first-seen order and
// backfilled as padding in earlier rows. A sample ID already present is
// ignored: first occurrence wins.
func (t *Table) AddSample(id string, cols, vals []string) error {
	if len(cols) != len(vals) {
		return pfx.Err(fmt.Errorf("sample %s: %d columns but %d values", id, len(cols), len(vals)))
	}

	if _, exists := t.Rows[id]; exists {
		return nil
	}

	row := make([]null.String, len(t.Columns))
	for i, col := range cols {
		idx, known := t.colIdx[col]
		if !known {
			idx = len(t.Columns)
			t.colIdx[col] = idx
			t.Columns = append(t.Columns, Column{Name: col, Source: t.Source})

			// Pad the new column in all previously added rows.
			for priorID := range t.Rows {
				t.Rows[priorID] = append(t.Rows[priorID], null.String{})
			}
			row = append(row, null.String{})
		}
		row[idx] = null.StringFrom(vals[i])
	}

	t.IDs = append(t.IDs, id)
	t.Rows[id] = row

	return nil
}

// ReadTable reads a wide CSV-like file in which idColumn identifies the
// sample and every other column is a value column. The delimiter is
// sniffed from the content.
func ReadTable(path, idColumn, source string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	delim := crcomics.DetermineDelimiter(f)
	if _, err := f.Seek(0, 0); err != nil {
		return nil, pfx.Err(err)
	}

	r := csv.NewReader(bufio.NewReader(f))
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: header parsing error: %v", path, err))
	}

	idPos := -1
	for i, name := range header {
		if name == idColumn {
			idPos = i
			break
		}
	}
	if idPos < 0 {
		return nil, MissingColumnError{Column: idColumn, Path: path}
	}

	valueCols := make([]string, 0, len(header)-1)
	for i, name := range header {
		if i != idPos {
			valueCols = append(valueCols, name)
		}
	}

	t := NewTable(source)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %v", path, err))
		}

		vals := make([]string, 0, len(rec)-1)
		for i, v := range rec {
			if i != idPos {
				vals = append(vals, v)
			}
		}
		if err := t.AddSample(rec[idPos], valueCols, vals); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Merge joins the tables column-wise on sample ID. Output columns are the
// concatenation of the input columns; a column name that repeats across
// sources is suffixed with its source so that output names stay unique.
// Sample IDs are sorted, so merging unchanged inputs is byte-for-byte
// reproducible.
func Merge(policy JoinPolicy, tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, pfx.Err(fmt.Errorf("no tables to merge"))
	}

	sources := make([]string, 0, len(tables))
	for _, t := range tables {
		sources = append(sources, t.Source)
	}

	// Decide which IDs survive.
	counts := make(map[string]int)
	for _, t := range tables {
		for _, id := range t.IDs {
			counts[id]++
		}
	}

	ids := make([]string, 0, len(counts))
	for id, n := range counts {
		if policy == JoinOuter || n == len(tables) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, NoOverlapError{Sources: sources}
	}
	sort.Strings(ids)

	out := NewTable(strings.Join(sources, "+"))
	usedNames := make(map[string]bool)
	for _, t := range tables {
		for _, col := range t.Columns {
			name := col.Name
			if usedNames[name] {
				name = name + "_" + col.Source
			}
			for i := 2; usedNames[name]; i++ {
				name = fmt.Sprintf("%s_%s_%d", col.Name, col.Source, i)
			}
			usedNames[name] = true

			out.colIdx[name] = len(out.Columns)
			out.Columns = append(out.Columns, Column{Name: name, Source: col.Source})
		}
	}

	out.IDs = ids
	for _, id := range ids {
		row := make([]null.String, 0, len(out.Columns))
		for _, t := range tables {
			if src, ok := t.Rows[id]; ok {
				row = append(row, src...)
			} else {
				for range t.Columns {
					row = append(row, null.String{})
				}
			}
		}
		out.Rows[id] = row
	}

	return out, nil
}

// WriteCSV writes the table as comma-separated text with a sample_id
// column first. Cells padded during the merge render as na.
func (t *Table) WriteCSV(w io.Writer, na string) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(t.Columns)+1)
	header = append(header, "sample_id")
	for _, col := range t.Columns {
		header = append(header, col.Name)
	}
	if err := cw.Write(header); err != nil {
		return pfx.Err(err)
	}

	rec := make([]string, len(header))
	for _, id := range t.IDs {
		rec[0] = id
		for i, cell := range t.Rows[id] {
			if cell.Valid {
				rec[i+1] = cell.String
			} else {
				rec[i+1] = na
			}
		}
		if err := cw.Write(rec); err != nil {
			return pfx.Err(err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return pfx.Err(err)
	}

	return nil
}
