package pdfutil

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Info validates that data is a readable PDF and reports its page count.
// Ingestion calls this before spending an extraction round trip on garbage.
func Info(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("empty pdf data")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("read pdf: %w", err)
	}
	pages := r.NumPage()
	if pages <= 0 {
		return 0, fmt.Errorf("pdf has no pages")
	}
	return pages, nil
}
