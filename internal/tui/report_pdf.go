package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akyairhashvil/integrity/internal/config"
	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/go-pdf/fpdf"
)

// GeneratePDFReport writes a one page summary of boards into dir and returns
// the file path.
func GeneratePDFReport(boards []models.Board, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("Integrity Report: %s", now.Format(config.DateLayout)))
	pdf.Ln(12)

	for _, b := range boards {
		pdf.SetFont("Arial", "B", 14)
		pdf.Cell(0, 10, b.Person)
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, fmt.Sprintf("Last incident: %s", b.LastIncident.Format(config.DateLayout)))
		pdf.Ln(6)
		pdf.Cell(0, 8, flatten(FormatProgress(b.Progress)))
		pdf.Ln(6)
		pdf.Cell(0, 8, flatten(FormatHeadline(b.Result)))
		pdf.Ln(6)
		for _, line := range MinorRewards(b.Result, 0) {
			pdf.Cell(0, 8, "    "+strings.TrimSpace(line))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, 6, config.Tagline, "", "", false)

	filename := filepath.Join(dir, fmt.Sprintf("%s_%s.pdf", config.ReportPrefix, now.Format(config.DateLayout)))
	if err := pdf.OutputFileAndClose(filename); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return filename, nil
}

func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
