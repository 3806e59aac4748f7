package importer

import "fmt"

// ImportError wraps an error with the importer that produced it.
type ImportError struct {
	Importer string
	Err      error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Importer, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}
