package repo_errors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrStaleWrite means the row changed between read and conditional write.
	ErrStaleWrite = errors.New("row was modified concurrently")
)
