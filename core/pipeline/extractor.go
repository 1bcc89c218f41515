package pipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/siherrmann/checkmate/helper"
	"github.com/siherrmann/checkmate/model"
)

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = fmt.Errorf("pdftotext not found in PATH (install poppler: 'brew install poppler' or 'apt install poppler-utils')")

// CommandRunner executes an external command and returns its stdout
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CheckPDFToolAvailable checks whether pdftotext is installed
func CheckPDFToolAvailable() error {
	_, err := exec.LookPath("pdftotext")
	if err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// PDFExtractor creates an extractor that uses the poppler pdftotext and
// pdfinfo tools to pull text and document metadata out of a PDF file.
func PDFExtractor() ExtractFunc {
	return PDFExtractorWithRunner(execRunner{})
}

// PDFExtractorWithRunner creates a PDF extractor with a custom command runner.
// Used in tests to stub out the poppler tools.
func PDFExtractorWithRunner(runner CommandRunner) ExtractFunc {
	return func(ctx context.Context, path string) (*model.Extraction, error) {
		info, err := os.Stat(path)
		if err != nil {
			return nil, helper.NewError("stat file", err)
		}
		if info.IsDir() {
			return nil, helper.NewError("stat file", fmt.Errorf("%s is a directory", path))
		}

		output, err := runner.Run(ctx, "pdftotext", "-layout", path, "-")
		if err != nil {
			return nil, helper.NewError("pdftotext", err)
		}

		extraction := &model.Extraction{
			Text:         string(output),
			FileSize:     info.Size(),
			ModifiedTime: info.ModTime(),
		}

		// pdfinfo failures leave the metadata fields empty
		infoOutput, err := runner.Run(ctx, "pdfinfo", path)
		if err == nil {
			parsePDFInfo(string(infoOutput), extraction)
		}

		return extraction, nil
	}
}

// parsePDFInfo fills extraction metadata from pdfinfo key/value output
func parsePDFInfo(output string, extraction *model.Extraction) {
	for _, line := range strings.Split(output, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Pages":
			pages, err := strconv.Atoi(value)
			if err == nil {
				extraction.PageCount = pages
			}
		case "Title":
			extraction.Title = value
		case "Author":
			extraction.Author = value
		case "Subject":
			extraction.Subject = value
		case "CreationDate":
			created, err := time.Parse("Mon Jan _2 15:04:05 2006 MST", value)
			if err == nil {
				extraction.CreatedTime = created
			}
		}
	}
}
