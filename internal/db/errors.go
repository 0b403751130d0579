package db

import "fmt"

// LoadError represents a schema or write failure during the load stage.
// The store's state is undefined afterwards; callers should treat the run
// as failed and start over.
type LoadError struct {
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load failed: %v", e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// AnalysisError represents a query failure against the store, typically
// because no load ever completed against it.
type AnalysisError struct {
	Cause error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis query failed: %v", e.Cause)
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// NewLoadError wraps cause in a LoadError.
func NewLoadError(cause error) error {
	return &LoadError{Cause: cause}
}

// NewAnalysisError wraps cause in an AnalysisError.
func NewAnalysisError(cause error) error {
	return &AnalysisError{Cause: cause}
}
