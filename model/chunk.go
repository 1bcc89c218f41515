package model

import "time"

// Chunk represents one windowed slice of a document's extracted text.
// Within a collection, (Filename, ChunkIndex) is unique and chunk indices for
// a filename form a contiguous range starting at 0, so sorting by ChunkIndex
// reconstructs the document order.
type Chunk struct {
	ID         int64          `json:"id"`
	Collection CollectionType `json:"collection"`
	Filename   string         `json:"filename"`
	ChunkIndex int            `json:"chunk_index"`
	Content    string         `json:"content"`
	Embedding  []float32      `json:"embedding,omitempty"`
	UploadTime time.Time      `json:"upload_time"`
	PageCount  int            `json:"page_count"`
	FileSize   int64          `json:"file_size"`
	Metadata   Metadata       `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	// Results
	Distance float64 `json:"distance,omitempty"`
}

// FileInfo summarizes one distinct filename within a collection
type FileInfo struct {
	Filename   string    `json:"filename"`
	ChunkCount int       `json:"chunk_count"`
	PageCount  int       `json:"page_count"`
	FileSize   int64     `json:"file_size"`
	UploadTime time.Time `json:"upload_time"`
}
