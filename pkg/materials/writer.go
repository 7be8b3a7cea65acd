package materials

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Writer saves generated materials as text files.
type Writer struct {
	CoverLettersDir string
	HighlightsDir   string
}

// CoverLetterPath is where the cover letter for id is written.
func (w *Writer) CoverLetterPath(id string) (path string) {
	path = filepath.Join(w.CoverLettersDir, id+"_cover_letter.txt")
	return path
}

// HighlightsPath is where the highlights for id are written.
func (w *Writer) HighlightsPath(id string) (path string) {
	path = filepath.Join(w.HighlightsDir, id+"_highlights.txt")
	return path
}

// WriteCoverLetter saves a cover letter and returns its path.
func (w *Writer) WriteCoverLetter(id, text string) (path string, err error) {
	path = w.CoverLetterPath(id)
	err = WriteText(text, path)
	return path, err
}

// WriteHighlights saves highlights and returns their path.
func (w *Writer) WriteHighlights(id, text string) (path string, err error) {
	path = w.HighlightsPath(id)
	err = WriteText(text, path)
	return path, err
}

// WriteText writes content to a file, creating its directory.
func WriteText(content, outputPath string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write file: %s", outputPath)
		return err
	}

	return err
}
