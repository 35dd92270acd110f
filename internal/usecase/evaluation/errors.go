package evaluation

import "errors"

// ErrSummaryNotFound indicates that the rated summary does not exist.
var ErrSummaryNotFound = errors.New("summary not found")
