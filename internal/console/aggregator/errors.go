package aggregator

import (
	"errors"
	"fmt"
)

// ErrFetchSuperseded reports that a fetch response arrived after a newer
// fetch had been issued. The stale response is discarded and the record
// set is left as the newer fetch decided it.
var ErrFetchSuperseded = errors.New("fetch superseded by a newer request")

// FetchError reports a failed attempt to load records from the platform
// API. The previously loaded record set stays untouched; no automatic
// retry is performed.
type FetchError struct {
	URL        string
	StatusCode int // zero when the request never produced a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClipboardError reports a failed clipboard write.
type ClipboardError struct {
	Err error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard write failed: %v", e.Err)
}

func (e *ClipboardError) Unwrap() error {
	return e.Err
}

// ExportError reports a failure to build or write an export.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("export %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("export failed: %v", e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
