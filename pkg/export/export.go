// Package export writes job listings to Excel workbooks.
package export

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/nikogura/job-assistant/pkg/jobs"
)

const (
	// JobsSheet holds one row per job.
	JobsSheet = "Jobs"
	// SummarySheet holds aggregate figures.
	SummarySheet = "Summary"
)

//nolint:gochecknoglobals // column layout
var columns = []struct {
	header string
	width  float64
}{
	{"ID", 16},
	{"Title", 40},
	{"Company", 24},
	{"Location", 20},
	{"Score", 8},
	{"Source", 14},
	{"URL", 50},
	{"Reasoning", 80},
}

// Band is a score range for the summary sheet.
type Band struct {
	Label string
	Min   int
	Max   int
}

// Bands partition 0-100.
//
//nolint:gochecknoglobals // summary layout
var Bands = []Band{
	{Label: "80-100", Min: 80, Max: 100},
	{Label: "60-79", Min: 60, Max: 79},
	{Label: "40-59", Min: 40, Max: 59},
	{Label: "0-39", Min: 0, Max: 39},
}

// Summary is the aggregate shown on the summary sheet.
type Summary struct {
	Count   int
	Scored  int
	Average float64
	Bands   map[string]int
}

// Summarize counts jobs per score band and averages the scored ones.
func Summarize(list []jobs.Job) (summary Summary) {
	summary.Bands = make(map[string]int, len(Bands))
	summary.Count = len(list)

	total := 0
	for i := range list {
		if !list[i].Scored() {
			continue
		}
		score := list[i].ScoreValue()
		summary.Scored++
		total += score
		for _, b := range Bands {
			if score >= b.Min && score <= b.Max {
				summary.Bands[b.Label]++
				break
			}
		}
	}

	if summary.Scored > 0 {
		summary.Average = float64(total) / float64(summary.Scored)
	}

	return summary
}

// ExportJobs writes list to path, appending .xlsx when missing, and returns the final path.
func ExportJobs(list []jobs.Job, path string) (outPath string, err error) {
	outPath = path
	if !strings.EqualFold(filepath.Ext(outPath), ".xlsx") {
		outPath += ".xlsx"
	}

	f := excelize.NewFile()
	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrap(closeErr, "failed to close workbook")
		}
	}()

	err = f.SetSheetName("Sheet1", JobsSheet)
	if err != nil {
		err = errors.Wrap(err, "failed to name jobs sheet")
		return outPath, err
	}

	err = writeJobs(f, list)
	if err != nil {
		return outPath, err
	}

	err = writeSummary(f, Summarize(list))
	if err != nil {
		return outPath, err
	}

	err = f.SaveAs(outPath)
	if err != nil {
		err = errors.Wrapf(err, "failed to save workbook: %s", outPath)
		return outPath, err
	}

	return outPath, err
}

func writeJobs(f *excelize.File, list []jobs.Job) (err error) {
	var headerStyle int
	headerStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		err = errors.Wrap(err, "failed to create header style")
		return err
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.header
		col, _ := excelize.ColumnNumberToName(i + 1)
		err = f.SetColWidth(JobsSheet, col, col, c.width)
		if err != nil {
			err = errors.Wrap(err, "failed to set column width")
			return err
		}
	}

	err = f.SetSheetRow(JobsSheet, "A1", &header)
	if err != nil {
		err = errors.Wrap(err, "failed to write header")
		return err
	}

	last, _ := excelize.ColumnNumberToName(len(columns))
	err = f.SetCellStyle(JobsSheet, "A1", last+"1", headerStyle)
	if err != nil {
		err = errors.Wrap(err, "failed to style header")
		return err
	}

	for i := range list {
		job := list[i]

		var score any = ""
		if job.Scored() {
			score = job.ScoreValue()
		}

		reasoning := ""
		if job.Scoring != nil {
			reasoning = job.Scoring.Reasoning
		}

		row := []any{job.ID, job.Title, job.Company, job.Location, score, job.Source, job.URL, reasoning}

		var cell string
		cell, err = excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			err = errors.Wrap(err, "bad row coordinate")
			return err
		}

		err = f.SetSheetRow(JobsSheet, cell, &row)
		if err != nil {
			err = errors.Wrapf(err, "failed to write row for %s", job.ID)
			return err
		}
	}

	err = f.SetPanes(JobsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		err = errors.Wrap(err, "failed to freeze header")
		return err
	}

	return err
}

func writeSummary(f *excelize.File, summary Summary) (err error) {
	_, err = f.NewSheet(SummarySheet)
	if err != nil {
		err = errors.Wrap(err, "failed to create summary sheet")
		return err
	}

	rows := [][]any{
		{"Jobs", summary.Count},
		{"Scored", summary.Scored},
		{"Average score", summary.Average},
	}
	for _, b := range Bands {
		rows = append(rows, []any{"Score " + b.Label, summary.Bands[b.Label]})
	}

	for i := range rows {
		var cell string
		cell, err = excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			err = errors.Wrap(err, "bad row coordinate")
			return err
		}
		err = f.SetSheetRow(SummarySheet, cell, &rows[i])
		if err != nil {
			err = errors.Wrap(err, "failed to write summary")
			return err
		}
	}

	err = f.SetColWidth(SummarySheet, "A", "A", 18)
	if err != nil {
		err = errors.Wrap(err, "failed to set column width")
		return err
	}

	return err
}
