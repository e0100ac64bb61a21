package model

import (
	"errors"
	"fmt"
)

// Error taxonomy for the chunking engine. The first three are per-file
// conditions that route the file to fallback chunking; ErrAnalysisFailed
// covers anything unexpected.
var (
	ErrLanguageNotSupported = errors.New("language not supported")
	ErrFileTooLarge         = errors.New("file too large")
	ErrParse                = errors.New("parse tree contains syntax errors")
	ErrAnalysisFailed       = errors.New("analysis failed")
)

// FileError annotates an engine error with the file and pipeline stage.
type FileError struct {
	Path  string
	Stage string
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
