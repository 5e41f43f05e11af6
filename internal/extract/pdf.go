package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFExtractor extracts page text via pdfcpu, operating on in-memory bytes
// rather than a key-value storage key, since connectors hand back raw
// fetched bytes.
type PDFExtractor struct {
	tempDir string
}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{tempDir: filepath.Join(os.TempDir(), "arivu-pdf")}
}

func (p *PDFExtractor) Extract(ctx context.Context, raw []byte) (Document, error) {
	if err := os.MkdirAll(p.tempDir, 0o755); err != nil {
		return Document{}, fmt.Errorf("creating pdf extraction temp dir: %w", err)
	}

	tempFile := filepath.Join(p.tempDir, fmt.Sprintf("extract_%d.pdf", os.Getpid()))
	if err := os.WriteFile(tempFile, raw, 0o644); err != nil {
		return Document{}, fmt.Errorf("writing temp pdf file: %w", err)
	}
	defer os.Remove(tempFile)

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return Document{}, fmt.Errorf("reading pdf context: %w", err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(p.tempDir, fmt.Sprintf("pages_%d", os.Getpid()))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Document{}, fmt.Errorf("creating pdf page output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return Document{PageCount: pageCount}, fmt.Errorf("extracting pdf content: %w", err)
	}

	files, err := os.ReadDir(outDir)
	if err != nil {
		return Document{PageCount: pageCount}, fmt.Errorf("reading extracted pdf content: %w", err)
	}

	pageTexts := make(map[int]string, len(files))
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, f.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(f.Name(), "Content_page_%d", &pageNum); err != nil {
			continue
		}
		pageTexts[pageNum] = string(content)
	}

	var body strings.Builder
	for n := 1; n <= pageCount; n++ {
		text, ok := pageTexts[n]
		if !ok {
			continue
		}
		if body.Len() > 0 {
			body.WriteString("\n\n")
		}
		body.WriteString(text)
	}

	return Document{Text: body.String(), PageCount: pageCount}, nil
}
