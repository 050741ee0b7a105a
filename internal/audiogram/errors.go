package audiogram

import "fmt"

// FetchError reports that the threshold store could not be read
type FetchError struct {
	TestID string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch thresholds for %s: %v", e.TestID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NoDataError reports that the store holds no record for a test
type NoDataError struct {
	TestID string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no threshold data for hearing test %s", e.TestID)
}

// SurfaceMissingError reports that the target surface does not exist
type SurfaceMissingError struct {
	Surface string
}

func (e *SurfaceMissingError) Error() string {
	return fmt.Sprintf("rendering surface %q not found", e.Surface)
}
