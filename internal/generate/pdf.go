package generate

import (
	"bytes"
	"fmt"
)

// MaxPDFBytes caps uploads at 10 MB.
const MaxPDFBytes = 10 * 1024 * 1024

var pdfMagic = []byte("%PDF-")

// CheckPDF validates an upload before the generation collaborator runs.
// Validation happens entirely before any state mutates.
func CheckPDF(data []byte, contentType string) error {
	if len(data) == 0 {
		return fmt.Errorf("uploaded file is empty")
	}
	if len(data) > MaxPDFBytes {
		return fmt.Errorf("file size must be less than 10MB")
	}
	if contentType != "application/pdf" && !bytes.HasPrefix(data, pdfMagic) {
		return fmt.Errorf("please upload a PDF file")
	}
	return nil
}
