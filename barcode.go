package crcomics

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	tcgaBarcode = regexp.MustCompile(`^TCGA-[A-Z0-9]{2}-[A-Z0-9]{4}`)
	tcgaLoose   = regexp.MustCompile(`TCGA-[A-Z0-9-]+`)
	aliquotUUID = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
)

// NormalizeTCGABarcode reduces any TCGA barcode variant (such as a full
// aliquot barcode like TCGA-A6-2671-01A-01T-1410-13) to the
// participant-level TCGA-XX-YYYY form. Identifiers that do not begin
// with a TCGA barcode are returned unchanged.
func NormalizeTCGABarcode(id string) string {
	if m := tcgaBarcode.FindString(id); m != "" {
		return m
	}

	if strings.HasPrefix(id, "TCGA-") {
		parts := strings.Split(id, "-")
		if len(parts) >= 3 {
			return strings.Join([]string{"TCGA", parts[1], parts[2]}, "-")
		}
	}

	return id
}

// ExtractSampleID pulls a sample identifier out of a file path: a TCGA
// barcode if one is present in the file name, otherwise a GDC aliquot
// UUID, otherwise the normalized file name stem.
func ExtractSampleID(path string) string {
	name := filepath.Base(path)

	if m := tcgaLoose.FindString(name); m != "" {
		return NormalizeTCGABarcode(m)
	}

	if m := aliquotUUID.FindString(name); m != "" {
		return m
	}

	stem := strings.TrimSuffix(name, filepath.Ext(name))

	return NormalizeTCGABarcode(stem)
}
