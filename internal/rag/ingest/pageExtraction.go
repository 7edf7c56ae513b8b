package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agropro-ai/agropro/pkg/logging"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

var logger = logging.NewLogger("DocumentExtraction")

// ExtractText pulls the full text out of a spooled document, dispatching on
// the file extension. Page and line texts are joined with "\n"; a document
// with no extractable text is an error, not an empty index.
func ExtractText(path string) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx", ".rtf":
		text, err = extractCat(path)
	case ".txt":
		text, err = extractTxt(path)
	default:
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []string
	numPages := f.NumPage()
	logger.Debug("extractPDF", "pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := protectExtract(page)
		if err != nil {
			// Skip the broken page, keep the rest of the document.
			logger.Warn("Failed to parse pdf page", "page", i, "error", err)
			continue
		}
		pages = append(pages, content)
	}
	return strings.Join(pages, "\n"), nil
}

func extractCat(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract document text: %w", err)
	}
	return text, nil
}

func extractTxt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return string(data), nil
}

// protectExtract guards GetPlainText, which can hang or panic on malformed
// page content, behind a goroutine with a timeout.
func protectExtract(page pdf.Page) (content string, err error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("pdf page extraction panicked: %v", r)}
			}
		}()
		c, e := page.GetPlainText(nil)
		resChan <- result{c, e}
	}()

	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(10 * time.Second):
		return "", errors.New("pdf page extraction timed out")
	}
}
