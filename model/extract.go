package model

import "time"

// Extraction holds the text and metadata pulled out of a source PDF
type Extraction struct {
	Text         string    `json:"text"`
	PageCount    int       `json:"page_count"`
	FileSize     int64     `json:"file_size"`
	CreatedTime  time.Time `json:"created_time"`
	ModifiedTime time.Time `json:"modified_time"`
	Title        string    `json:"pdf_title,omitempty"`
	Author       string    `json:"pdf_author,omitempty"`
	Subject      string    `json:"pdf_subject,omitempty"`
}

// DocumentMetadata returns the extraction metadata in chunk storage form
func (e *Extraction) DocumentMetadata() Metadata {
	return Metadata{
		"pdf_title":     e.Title,
		"pdf_author":    e.Author,
		"pdf_subject":   e.Subject,
		"created_time":  e.CreatedTime,
		"modified_time": e.ModifiedTime,
	}
}
