package domain

import "errors"

// ErrNotFound marks an absent record. Repositories translate their driver's
// "no rows" signal into this error so callers can treat a missing profile or
// template as success-with-no-data rather than a backend failure.
var ErrNotFound = errors.New("record not found")
