package crcomics

import "testing"

func TestNormalizeTCGABarcode(t *testing.T) {
	for _, v := range []struct{ in, want string }{
		{"TCGA-A6-2671", "TCGA-A6-2671"},
		{"TCGA-A6-2671-01A-01T-1410-13", "TCGA-A6-2671"},
		{"TCGA-AA-3488-01A", "TCGA-AA-3488"},
		// A barcode not at the start of the identifier is not a barcode.
		{"xTCGA-A6-2671", "xTCGA-A6-2671"},
		{"not-a-barcode", "not-a-barcode"},
		{"", ""},
	} {
		if got := NormalizeTCGABarcode(v.in); got != v.want {
			t.Errorf("NormalizeTCGABarcode(%q) = %q, want %q", v.in, got, v.want)
		}
	}
}

func TestExtractSampleID(t *testing.T) {
	for _, v := range []struct{ in, want string }{
		{"GDC_download/TCGA-A6-2671-01A.mirbase21.isoforms.quantification.txt", "TCGA-A6-2671"},
		{"mdanderson.org_COADREAD.MDA_RPPA_Core.RPPA.TCGA-AA-3488.txt", "TCGA-AA-3488"},
		{"0f35c348-9b9e-4d30-8cf5-74ed0d9d5a85.seg.v2.txt", "0f35c348-9b9e-4d30-8cf5-74ed0d9d5a85"},
		{"somefile.txt", "somefile"},
	} {
		if got := ExtractSampleID(v.in); got != v.want {
			t.Errorf("ExtractSampleID(%q) = %q, want %q", v.in, got, v.want)
		}
	}
}
