package extract

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
)

// synthesizePDF builds a minimal one-page PDF in memory with fpdf, so the
// extractor test needs no checked-in binary fixture.
func synthesizePDF(t *testing.T, lines ...string) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	for _, line := range lines {
		pdf.Cell(40, 10, line)
		pdf.Ln(10)
	}

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestPDFExtractorReturnsPageCount(t *testing.T) {
	raw := synthesizePDF(t, "hello arivu", "second line")

	extractor := NewPDFExtractor()
	doc, err := extractor.Extract(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, 1, doc.PageCount)
}

func TestRegistryDispatchesByContentType(t *testing.T) {
	raw := synthesizePDF(t, "registry dispatch check")

	reg := NewRegistry()
	doc, err := reg.Extract(context.Background(), ContentPDF, raw)
	require.NoError(t, err)
	require.Equal(t, 1, doc.PageCount)

	_, err = reg.Extract(context.Background(), ContentType("unknown"), raw)
	require.Error(t, err)
}
