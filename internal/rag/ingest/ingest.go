package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// spoolCopyBufferSize bounds memory while streaming an upload to disk.
const spoolCopyBufferSize = 3 * 1024 * 1024

var (
	ErrFileTooLarge      = errors.New("file exceeds the upload size limit")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyDocument     = errors.New("document contains no extractable text")
)

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".rtf":  true,
}

func SupportedExtension(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Spool streams an upload to a temp file in dataDir using a bounded copy
// buffer. The caller checks the declared size beforehand; Spool still guards
// against streams that overrun maxBytes and deletes the partial file when
// they do. The returned path keeps the original extension so extraction can
// dispatch on it.
func Spool(dataDir string, filename string, maxBytes int64, r io.Reader) (string, error) {
	if !SupportedExtension(filename) {
		return "", ErrUnsupportedFormat
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return "", fmt.Errorf("create data dir failed: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	tmp, err := os.CreateTemp(dataDir, "upload_*"+ext)
	if err != nil {
		return "", fmt.Errorf("create spool file failed: %w", err)
	}

	buf := make([]byte, spoolCopyBufferSize)
	written, err := io.CopyBuffer(tmp, io.LimitReader(r, maxBytes+1), buf)
	closeErr := tmp.Close()

	switch {
	case err != nil:
		os.Remove(tmp.Name())
		return "", fmt.Errorf("spool upload failed: %w", err)
	case closeErr != nil:
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close spool file failed: %w", closeErr)
	case written > maxBytes:
		os.Remove(tmp.Name())
		return "", ErrFileTooLarge
	}
	return tmp.Name(), nil
}
