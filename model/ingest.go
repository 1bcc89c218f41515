package model

import "time"

// IngestStatus is the terminal state of a single file's ingestion
type IngestStatus string

const (
	// IngestSuccess means the file was extracted, chunked, embedded and stored
	IngestSuccess IngestStatus = "success"
	// IngestWarning means the file was readable but contained no text;
	// nothing was stored
	IngestWarning IngestStatus = "warning"
	// IngestError means the file failed at some stage; the error is captured
	// in the result and never raised past the pipeline
	IngestError IngestStatus = "error"
)

// IngestResult reports the outcome of ingesting one file
type IngestResult struct {
	Status      IngestStatus   `json:"status"`
	Collection  CollectionType `json:"collection"`
	FilePath    string         `json:"file_path"`
	Filename    string         `json:"filename"`
	ChunksCount int            `json:"chunks_count,omitempty"`
	PageCount   int            `json:"page_count,omitempty"`
	FileSize    int64          `json:"file_size,omitempty"`
	UploadTime  time.Time      `json:"upload_time,omitempty"`
	Message     string         `json:"message,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// BatchSummary counts the per-status outcomes of a batch ingestion
type BatchSummary struct {
	Succeeded int `json:"succeeded"`
	Warned    int `json:"warned"`
	Failed    int `json:"failed"`
}

// SummarizeBatch tallies results by status
func SummarizeBatch(results []*IngestResult) BatchSummary {
	var summary BatchSummary
	for _, r := range results {
		switch r.Status {
		case IngestSuccess:
			summary.Succeeded++
		case IngestWarning:
			summary.Warned++
		case IngestError:
			summary.Failed++
		}
	}
	return summary
}
