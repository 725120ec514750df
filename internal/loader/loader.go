package loader

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"docchat/internal/domain"
)

// Load reads a PDF or plain-text file into a Document. PDF pages keep their
// page numbers so chunks can cite them.
func Load(path string) (domain.Document, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Document{}, fmt.Errorf("%s: %w", path, domain.ErrDocumentNotFound)
		}
		return domain.Document{}, err
	}
	var (
		pages []domain.Page
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		pages, err = readPDF(path)
	case ".txt", ".md":
		pages, err = readText(path)
	default:
		return domain.Document{}, fmt.Errorf("unsupported file type %q: %w", filepath.Ext(path), domain.ErrInvalidInput)
	}
	if err != nil {
		return domain.Document{}, err
	}

	var content strings.Builder
	for _, p := range pages {
		content.WriteString(p.Text)
		content.WriteString("\n")
	}
	if strings.TrimSpace(content.String()) == "" {
		return domain.Document{}, fmt.Errorf("no text extracted from %s: %w", filepath.Base(path), domain.ErrInvalidInput)
	}
	return domain.Document{
		ID:      DocumentID(path),
		Path:    path,
		Content: content.String(),
		Pages:   pages,
	}, nil
}

// DocumentID derives a stable identifier from the document path.
func DocumentID(path string) string {
	h := sha1.Sum([]byte(path))
	return hex.EncodeToString(h[:8])
}

func readText(path string) ([]domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return []domain.Page{{Number: 1, Text: normalizeSpace(string(data))}}, nil
}

func readPDF(path string) (pages []domain.Page, err error) {
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("malformed pdf %s: %v: %w", filepath.Base(path), r, domain.ErrInvalidInput)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %v: %w", filepath.Base(path), err, domain.ErrInvalidInput)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %v: %w", i, err, domain.ErrInvalidInput)
		}
		text = normalizeSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, domain.Page{Number: i, Text: text})
	}
	return pages, nil
}

// normalizeSpace collapses runs of whitespace, including the hard line breaks
// PDF extraction leaves in the middle of sentences.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
