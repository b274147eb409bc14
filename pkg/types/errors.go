package types

import "errors"

// Domain errors shared across the segmentation and anchoring engines.
var (
	ErrEmptyDocument   = errors.New("document has no content")
	ErrInvalidComments = errors.New("comments payload must be an object or an array of objects")
	ErrNoValidComments = errors.New("no valid comment pairs after filtering")
)
