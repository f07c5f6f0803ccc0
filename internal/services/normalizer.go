package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/slideforge/slideforge-backend/internal/models"
)

// MaxUploadBytes caps uploaded documents at 20 MiB.
const MaxUploadBytes = 20 * 1024 * 1024

// DocxExtractor pulls the raw text out of a Word container. The
// production extractor lives in docx.go; tests inject doubles to
// simulate an unavailable or failing extractor.
type DocxExtractor interface {
	ExtractText(data []byte) (string, error)
}

type Normalizer struct {
	docx DocxExtractor
}

func NewNormalizer(docx DocxExtractor) *Normalizer {
	return &Normalizer{docx: docx}
}

// Normalize classifies an uploaded file and produces the canonical
// input payload: PDF stays binary (base64 + mime type), .docx goes
// through the extractor, everything else is read as plain text.
func (n *Normalizer) Normalize(ctx context.Context, fileName, declaredMime string, r io.Reader, size int64) (models.InputSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if size > MaxUploadBytes {
		return nil, &IngestionError{Kind: IngestTooLarge, Err: fmt.Errorf("file is %d bytes", size)}
	}

	data, err := readCapped(r)
	if err != nil {
		return nil, err
	}

	switch {
	case declaredMime == "application/pdf" || hasExt(fileName, ".pdf"):
		return n.normalizePDF(fileName, data), nil
	case hasExt(fileName, ".docx"):
		return n.normalizeDocx(fileName, data)
	default:
		return models.TextInput{Content: string(data), FileName: fileName}, nil
	}
}

func (n *Normalizer) normalizePDF(fileName string, data []byte) models.InputSource {
	// The bytes go to the planner untouched either way; the inspection
	// only yields the page count shown in the analysis panel.
	pageCount := 0
	if reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data))); err == nil {
		pageCount = reader.NumPage()
	} else {
		log.Printf("pdf %q not inspectable: %v", fileName, err)
	}

	return models.FileInput{
		Data:      base64.StdEncoding.EncodeToString(data),
		MimeType:  "application/pdf",
		FileName:  fileName,
		PageCount: pageCount,
	}
}

func (n *Normalizer) normalizeDocx(fileName string, data []byte) (models.InputSource, error) {
	if n.docx == nil {
		return nil, &IngestionError{Kind: IngestExtractionFailed, Err: fmt.Errorf("word extractor not available")}
	}
	text, err := n.docx.ExtractText(data)
	if err != nil {
		return nil, &IngestionError{Kind: IngestExtractionFailed, Err: err}
	}
	return models.TextInput{Content: text, FileName: fileName}, nil
}

// readCapped reads the whole payload but refuses anything past the
// size limit, in case the declared size was missing or wrong.
func readCapped(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, &IngestionError{Kind: IngestExtractionFailed, Err: err}
	}
	if len(data) > MaxUploadBytes {
		return nil, &IngestionError{Kind: IngestTooLarge, Err: fmt.Errorf("payload exceeds %d bytes", MaxUploadBytes)}
	}
	return data, nil
}

func hasExt(fileName, ext string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ext)
}
