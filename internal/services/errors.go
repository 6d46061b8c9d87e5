package services

import (
	"errors"
)

var (
	// ErrNotFound means the vote/cascade target row does not exist.
	ErrNotFound = errors.New("services: target not found")
	// ErrUnknownTarget means the target kind has no registered handler.
	ErrUnknownTarget = errors.New("services: unknown target kind")
	// ErrAttachmentTooLarge means a file exceeded MaxAttachmentSize.
	ErrAttachmentTooLarge = errors.New("services: attachment exceeds size limit")
)
