package model

import "fmt"

// CollectionType selects one of the two isolated chunk collections.
// Checklist templates and target documents never share chunks, even when a
// filename exists in both.
type CollectionType string

const (
	// CollectionTemplate holds chunks of checklist template documents
	CollectionTemplate CollectionType = "template"
	// CollectionTarget holds chunks of the user documents being checked
	CollectionTarget CollectionType = "target"
)

// Valid returns an error for any value outside the closed set
func (c CollectionType) Valid() error {
	switch c {
	case CollectionTemplate, CollectionTarget:
		return nil
	default:
		return fmt.Errorf("invalid collection type %q", string(c))
	}
}
