package domain

import "errors"

// ErrSourceMissing reports that a dataset could not be found at all. Catalogs
// treat it as an empty dataset rather than a failure.
var ErrSourceMissing = errors.New("data source missing")
