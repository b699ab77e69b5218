// consolidate merges TCGA colorectal-cancer omics sources (miRNA
// expression, RPPA protein abundance, and copy-number segment means) into
// one per-sample CSV. It either walks a GDC download directory and builds
// the three source tables from per-sample files, or reads three
// already-wide CSVs keyed by a sample identifier column.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/carbocation/crcomics"
	"github.com/carbocation/crcomics/consolidate"

	_ "github.com/carbocation/crcomics/compileinfoprint"
)

func main() {
	var inputDir, pattern string
	var mirnaCSV, rppaCSV, cnvCSV, idColumn string
	var joinFlag, naFill, output string

	flag.StringVar(&inputDir, "input", "", "GDC download directory holding per-sample miRNA/RPPA/seg files")
	flag.StringVar(&pattern, "pattern", "*", "Glob pattern applied to file names under -input")
	flag.StringVar(&mirnaCSV, "mirna", "", "Wide miRNA expression CSV (alternative to -input; requires -rppa and -cnv)")
	flag.StringVar(&rppaCSV, "rppa", "", "Wide RPPA CSV")
	flag.StringVar(&cnvCSV, "cnv", "", "Wide copy-number CSV")
	flag.StringVar(&idColumn, "idcol", "sample_id", "Name of the sample identifier column in -mirna/-rppa/-cnv files")
	flag.StringVar(&joinFlag, "join", "", "Join policy: 'inner' keeps samples present in every source, 'outer' keeps all samples and pads the gaps. Required.")
	flag.StringVar(&naFill, "na", "", "Fill value written for cells padded by an outer join")
	flag.StringVar(&output, "out", "crc_consolidated.csv", "Output CSV path")
	flag.Parse()

	if joinFlag == "" {
		flag.PrintDefaults()
		log.Fatalln("Please provide -join (inner or outer)")
	}

	policy, err := consolidate.ParseJoinPolicy(joinFlag)
	if err != nil {
		log.Fatalln(err)
	}

	tableMode := mirnaCSV != "" || rppaCSV != "" || cnvCSV != ""
	if inputDir == "" && !tableMode {
		flag.PrintDefaults()
		log.Fatalln("Please provide -input, or all of -mirna, -rppa, and -cnv")
	}
	if inputDir != "" && tableMode {
		log.Fatalln("-input and -mirna/-rppa/-cnv are mutually exclusive")
	}
	if tableMode && (mirnaCSV == "" || rppaCSV == "" || cnvCSV == "") {
		log.Fatalln("Table mode requires all of -mirna, -rppa, and -cnv")
	}

	if err := runAll(inputDir, pattern, mirnaCSV, rppaCSV, cnvCSV, idColumn, naFill, output, policy); err != nil {
		log.Fatalln(err)
	}
}

func runAll(inputDir, pattern, mirnaCSV, rppaCSV, cnvCSV, idColumn, naFill, output string, policy consolidate.JoinPolicy) error {
	var sources []*consolidate.Table

	if inputDir != "" {
		mirna, rppa, cnv, err := consolidate.Collect(crcomics.ExpandHome(inputDir), pattern)
		if err != nil {
			return err
		}

		for _, t := range []*consolidate.Table{mirna, rppa, cnv} {
			if len(t.IDs) == 0 {
				log.Println("No", t.Source, "files found; skipping that source")
				continue
			}
			log.Printf("Source %s: %d samples x %d columns\n", t.Source, len(t.IDs), len(t.Columns))
			sources = append(sources, t)
		}
	} else {
		for _, in := range []struct{ path, source string }{
			{mirnaCSV, "mirna"},
			{rppaCSV, "rppa"},
			{cnvCSV, "cnv"},
		} {
			t, err := consolidate.ReadTable(crcomics.ExpandHome(in.path), idColumn, in.source)
			if err != nil {
				return err
			}
			log.Printf("Source %s: %d samples x %d columns\n", t.Source, len(t.IDs), len(t.Columns))
			sources = append(sources, t)
		}
	}

	if len(sources) == 0 {
		return fmt.Errorf("no omics sources with data")
	}

	merged, err := consolidate.Merge(policy, sources...)
	if err != nil {
		return err
	}

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := merged.WriteCSV(out, naFill); err != nil {
		return err
	}

	log.Printf("Final shape: %d rows x %d columns\n", len(merged.IDs), len(merged.Columns)+1)
	log.Println("Consolidated data written to", output)

	return nil
}
