package qvae

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"github.com/carbocation/crcomics"
	"github.com/carbocation/pfx"
	"github.com/carbocation/runningvariance"
)

// Dataset is a dense feature matrix, one row per sample. Names carries
// the sample identifiers when the data came from a consolidated table;
// it is nil for synthetic data.
type Dataset struct {
	Names []string
	X     [][]float64
}

func (d *Dataset) Samples() int { return len(d.X) }

func (d *Dataset) Features() int {
	if len(d.X) == 0 {
		return 0
	}
	return len(d.X[0])
}

// Synthetic generates a deterministic toy dataset from an explicitly
// seeded source: two cluster centers with gaussian noise, which gives the
// autoencoder structure worth compressing.
func Synthetic(samples, features int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))

	centers := make([][]float64, 2)
	for c := range centers {
		centers[c] = make([]float64, features)
		for j := range centers[c] {
			centers[c][j] = 2*rng.Float64() - 1
		}
	}

	d := &Dataset{X: make([][]float64, samples)}
	for i := range d.X {
		center := centers[i%len(centers)]
		row := make([]float64, features)
		for j := range row {
			row[j] = center[j] + 0.1*rng.NormFloat64()
		}
		d.X[i] = row
	}

	return d
}

// LoadCSV reads a consolidated table: a sample_id column first, numeric
// value columns after. A file whose first column is not sample_id is
// rejected rather than silently dropped. Blank and NA cells (outer-join
// padding) read as 0. When features is positive and the file's value
// width differs, LoadCSV fails with ShapeMismatchError before any
// training can begin.
func LoadCSV(path string, features int) (*Dataset, error) {
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
	if len(header) < 2 {
		return nil, pfx.Err(fmt.Errorf("%s: expected a sample_id column plus value columns, got %d columns", path, len(header)))
	}
	if header[0] != "sample_id" {
		return nil, pfx.Err(fmt.Errorf("%s: first column is %q, want the sample_id identifier column", path, header[0]))
	}

	width := len(header) - 1
	if features > 0 && width != features {
		return nil, ShapeMismatchError{Want: features, Got: width}
	}

	d := &Dataset{}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("%s: %v", path, err))
		}

		row := make([]float64, width)
		for j, cell := range rec[1:] {
			if cell == "" || cell == "NA" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, pfx.Err(fmt.Errorf("%s: sample %s, column %s: %v", path, rec[0], header[j+1], err))
			}
			row[j] = v
		}

		d.Names = append(d.Names, rec[0])
		d.X = append(d.X, row)
	}

	if d.Samples() == 0 {
		return nil, pfx.Err(fmt.Errorf("%s: no data rows", path))
	}

	return d, nil
}

// Standardize z-scales each column in place. Columns with zero variance
// are only centered.
func (d *Dataset) Standardize() {
	if d.Samples() == 0 {
		return
	}

	rs := make([]*runningvariance.RunningStat, d.Features())
	for j := range rs {
		rs[j] = runningvariance.NewRunningStat()
	}
	for _, row := range d.X {
		for j, v := range row {
			rs[j].Push(v)
		}
	}

	for _, row := range d.X {
		for j := range row {
			row[j] -= rs[j].Mean()
			if sd := rs[j].StandardDeviation(); sd > 0 {
				row[j] /= sd
			}
		}
	}
}
