package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"talentflow/internal/formatters"
	"talentflow/internal/types"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	ResultsSheet = "Results"
)

// ReportInfo describes the run a report was generated from.
type ReportInfo struct {
	ArtifactVersion string
	GeneratedAt     time.Time
}

// levelColors shades result rows by predicted level.
var levelColors = map[string]string{
	types.LevelJunior:       "DDEBF7",
	types.LevelPleno:        "E2EFDA",
	types.LevelSenior:       "FFF2CC",
	types.LevelEspecialista: "FCE4D6",
}

var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
}

// WriteClassificationReport writes a batch result as an xlsx workbook with
// a summary sheet and one row per payload. The path gets an .xlsx suffix
// when it has none; the final path is returned.
func WriteClassificationReport(outputPath string, batch *types.BatchResult, info ReportInfo) (string, error) {
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath += ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return "", err
	}
	if _, err := f.NewSheet(ResultsSheet); err != nil {
		return "", err
	}

	if err := writeSummarySheet(f, batch, info); err != nil {
		return "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeResultsSheet(f, batch); err != nil {
		return "", fmt.Errorf("failed to create results sheet: %w", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return outputPath, nil
}

// sheetWriter keeps the first error of a run of cell writes.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) set(col string, row int, value any) {
	if w.err == nil {
		w.err = w.f.SetCellValue(w.sheet, fmt.Sprintf("%s%d", col, row), value)
	}
}

func (w *sheetWriter) style(from, to string, row, style int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(w.sheet, fmt.Sprintf("%s%d", from, row), fmt.Sprintf("%s%d", to, row), style)
	}
}

func (w *sheetWriter) width(col string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(w.sheet, col, col, width)
	}
}

func writeSummarySheet(f *excelize.File, batch *types.BatchResult, info ReportInfo) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: SummarySheet}
	w.width("A", 28)
	w.width("B", 40)

	row := 1
	w.set("A", row, "Experience Level Classification")
	w.style("A", "B", row, headerStyle)
	if w.err == nil {
		w.err = f.MergeCell(SummarySheet, "A1", "B1")
	}
	row += 2

	labelled := func(label string, value any) {
		w.set("A", row, label)
		w.style("A", "A", row, labelStyle)
		w.set("B", row, value)
		row++
	}
	labelled("Generated:", info.GeneratedAt.Format("2006-01-02 15:04:05"))
	labelled("Artifact version:", info.ArtifactVersion)
	labelled("Payloads:", len(batch.Items))
	labelled("Classified:", batch.Succeeded)
	labelled("Failed:", batch.Failed)
	labelled("Mean confidence:", fmt.Sprintf("%.4f", batch.MeanConfidence()))
	row++

	w.set("A", row, "By level")
	w.style("A", "B", row, headerStyle)
	row++
	for _, level := range formatters.LevelOrder(batch.ByLevel) {
		w.set("A", row, level)
		w.set("B", row, batch.ByLevel[level])
		row++
	}

	return w.err
}

func writeResultsSheet(f *excelize.File, batch *types.BatchResult) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorder,
	})
	if err != nil {
		return err
	}

	levelStyles := make(map[string]int, len(levelColors))
	for level, color := range levelColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: thinBorder,
		})
		if err != nil {
			return err
		}
		levelStyles[level] = style
	}
	failedStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Color: "9C0006"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Border: thinBorder,
	})
	if err != nil {
		return err
	}

	w := &sheetWriter{f: f, sheet: ResultsSheet}
	for col, width := range map[string]float64{"A": 24, "B": 16, "C": 12, "D": 68, "E": 30, "F": 50} {
		w.width(col, width)
	}

	headers := []string{"User", "Level", "Confidence", "Content Hash", "Source", "Error"}
	for i, header := range headers {
		col := string(rune('A' + i))
		w.set(col, 1, header)
		w.style(col, col, 1, headerStyle)
	}

	for i, item := range batch.Items {
		row := i + 2
		w.set("A", row, item.UserID)
		w.set("E", row, item.Source)
		if item.Result == nil {
			w.set("F", row, item.Error)
			w.style("A", "F", row, failedStyle)
			continue
		}
		w.set("B", row, item.Result.PredictedExperienceLevel)
		w.set("C", row, item.Result.ConfidenceScore)
		w.set("D", row, item.Result.ContentHash)
		if style, ok := levelStyles[item.Result.PredictedExperienceLevel]; ok {
			w.style("A", "F", row, style)
		}
	}
	if w.err != nil {
		return w.err
	}

	if len(batch.Items) > 0 {
		if err := f.AutoFilter(ResultsSheet, fmt.Sprintf("A1:F%d", len(batch.Items)+1), []excelize.AutoFilterOptions{}); err != nil {
			return err
		}
	}

	return f.SetPanes(ResultsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
