package services

import "errors"

// Analytics service errors
var (
	// Dataset errors
	ErrUnknownDatasetKind = errors.New("unknown dataset kind")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrDatasetNotFound    = errors.New("dataset not found")

	// Summary errors
	ErrBundleIncomplete = errors.New("not all datasets have been uploaded and validated")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
