package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

type PDFParserService interface {
	ExtractText(filepath string) (string, error)
	ExtractTextFromBytes(data []byte) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) ExtractText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	content, err := p.ExtractTextFromBytes(data)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// ExtractTextFromBytes reads an in-memory PDF, such as a downloaded resume.
func (p *pdfParserService) ExtractTextFromBytes(data []byte) (content *PDFContent, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			content = nil
			err = fmt.Errorf("failed to parse PDF: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return &PDFContent{
		Text:      text,
		PageCount: totalPage,
	}, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
