package consolidate

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// Collect walks a GDC download directory, classifies each matched file by
// name, and stacks the per-sample rows into three source tables: miRNA
// expression, RPPA protein abundance, and copy-number segment means. Any
// of the returned tables may be empty if the directory holds no files of
// that kind. Files that fail to parse are logged and skipped, matching
// the tolerant behavior expected of heterogeneous GDC downloads.
func Collect(dir, pattern string) (mirna, rppa, cnv *Table, err error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, nil, pfx.Err(fmt.Errorf("data directory not found: %s", dir))
	}

	var matched []string
	err = filepath.Walk(dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		switch filepath.Ext(path) {
		case ".txt", ".tsv", ".csv":
		default:
			return nil
		}

		ok, err := filepath.Match(pattern, filepath.Base(path))
		if err != nil {
			return err
		}
		if ok {
			matched = append(matched, path)
		}

		return nil
	})
	if err != nil {
		return nil, nil, nil, pfx.Err(err)
	}

	log.Println("Matched", len(matched), "files under", dir)
	if len(matched) == 0 {
		return nil, nil, nil, pfx.Err(fmt.Errorf("no files matched pattern %q in %s", pattern, dir))
	}

	mirna = NewTable("mirna")
	rppa = NewTable("rppa")
	cnv = NewTable("cnv")

	for _, path := range matched {
		name := strings.ToLower(filepath.Base(path))

		var (
			id         string
			cols, vals []string
			parseErr   error
			table      *Table
		)

		switch {
		case strings.Contains(name, "quantification") && strings.Contains(name, "mirbase21"):
			id, cols, vals, parseErr = ParseMiRNAQuant(path)
			table = mirna
		case strings.Contains(name, "rppa"):
			id, cols, vals, parseErr = ParseRPPA(path)
			table = rppa
		case strings.Contains(name, "seg"):
			id, cols, vals, parseErr = ParseSeg(path)
			table = cnv
		default:
			continue
		}

		if parseErr != nil {
			log.Printf("Failed to parse %s: %v\n", path, parseErr)
			continue
		}
		if cols == nil {
			log.Printf("Skipping %s: no usable value columns\n", path)
			continue
		}

		if err := table.AddSample(id, cols, vals); err != nil {
			return nil, nil, nil, err
		}
	}

	if len(mirna.IDs)+len(rppa.IDs)+len(cnv.IDs) == 0 {
		return nil, nil, nil, pfx.Err(fmt.Errorf("no data parsed from %d matched files", len(matched)))
	}

	return mirna, rppa, cnv, nil
}
