package consolidate

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/carbocation/crcomics"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/gonum/stat"
)

// GDC download files hold one sample apiece, in long format. These row
// types widen into a single table row keyed by the sample ID embedded in
// the file name.

type mirnaQuantRow struct {
	MiRNAID string `csv:"miRNA_ID"`
	Reads   string `csv:"reads_per_million_miRNA_mapped"`
}

type rppaRow struct {
	PeptideTarget     string `csv:"peptide_target"`
	ProteinExpression string `csv:"protein_expression"`
}

type segRow struct {
	Chromosome  string `csv:"Chromosome"`
	SegmentMean string `csv:"Segment_Mean"`
	CopyNumber  string `csv:"Copy_Number"`
}

// readLongFile slurps a long-format GDC file, sniffs its delimiter,
// verifies that the required columns are present, and unmarshals it into
// out (a pointer to a slice of row structs). It returns the header so
// callers can branch on optional columns.
func readLongFile(path string, required []string, out interface{}) ([]string, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	delim := crcomics.DetermineDelimiter(bytes.NewReader(fileBytes))

	hr := csv.NewReader(bytes.NewReader(fileBytes))
	hr.Comma = delim
	header, err := hr.Read()
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: header parsing error: %v", path, err))
	}

	present := make(map[string]bool)
	for _, name := range header {
		present[name] = true
	}
	for _, name := range required {
		if !present[name] {
			return nil, MissingColumnError{Column: name, Path: path}
		}
	}

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = delim
		r.LazyQuotes = true
		return r
	})

	if err := gocsv.UnmarshalBytes(fileBytes, out); err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %v", path, err))
	}

	return header, nil
}

// ParseMiRNAQuant widens one miRNA quantification file into a single
// sample row: one column per miRNA_ID, valued by reads per million
// mapped. The sample ID comes from the file name.
func ParseMiRNAQuant(path string) (id string, cols, vals []string, err error) {
	records := []*mirnaQuantRow{}
	if _, err := readLongFile(path, []string{"miRNA_ID", "reads_per_million_miRNA_mapped"}, &records); err != nil {
		return "", nil, nil, err
	}

	for _, rec := range records {
		cols = append(cols, rec.MiRNAID)
		vals = append(vals, rec.Reads)
	}

	return crcomics.ExtractSampleID(path), cols, vals, nil
}

// ParseRPPA widens one RPPA file into a single sample row: one column per
// peptide target, valued by protein expression.
func ParseRPPA(path string) (id string, cols, vals []string, err error) {
	records := []*rppaRow{}
	if _, err := readLongFile(path, []string{"peptide_target", "protein_expression"}, &records); err != nil {
		return "", nil, nil, err
	}

	for _, rec := range records {
		cols = append(cols, rec.PeptideTarget)
		vals = append(vals, rec.ProteinExpression)
	}

	return crcomics.ExtractSampleID(path), cols, vals, nil
}

// ParseSeg summarizes one copy-number segmentation file into a single
// sample row: the mean Segment_Mean (falling back to Copy_Number) per
// chromosome. Files carrying neither value column return nil columns and
// no error, and should be skipped by the caller.
func ParseSeg(path string) (id string, cols, vals []string, err error) {
	records := []*segRow{}
	header, err := readLongFile(path, []string{"Chromosome"}, &records)
	if err != nil {
		return "", nil, nil, err
	}

	hasSegMean, hasCopyNumber := false, false
	for _, name := range header {
		switch name {
		case "Segment_Mean":
			hasSegMean = true
		case "Copy_Number":
			hasCopyNumber = true
		}
	}
	if !hasSegMean && !hasCopyNumber {
		return crcomics.ExtractSampleID(path), nil, nil, nil
	}

	byChrom := make(map[string][]float64)
	for _, rec := range records {
		raw := rec.SegmentMean
		if !hasSegMean {
			raw = rec.CopyNumber
		}

		// Real GDC segment files carry the occasional blank cell; the
		// per-chromosome mean is taken over the remaining values.
		if raw == "" || raw == "NA" {
			continue
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return "", nil, nil, pfx.Err(fmt.Errorf("%s: chromosome %s: %v", path, rec.Chromosome, err))
		}
		byChrom[rec.Chromosome] = append(byChrom[rec.Chromosome], v)
	}

	chroms := make([]string, 0, len(byChrom))
	for c := range byChrom {
		chroms = append(chroms, c)
	}
	sort.Strings(chroms)

	for _, c := range chroms {
		cols = append(cols, c)
		vals = append(vals, strconv.FormatFloat(stat.Mean(byChrom[c], nil), 'g', -1, 64))
	}

	return crcomics.ExtractSampleID(path), cols, vals, nil
}
