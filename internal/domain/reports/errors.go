package reports

import "errors"

// ErrNotFound indicates a report ID that is not present in the current Store.
var ErrNotFound = errors.New("report not found")
