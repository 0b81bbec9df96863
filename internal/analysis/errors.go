package analysis

import "errors"

// ErrEmptyTable is the only terminal condition in the pipeline: the holder
// source returned zero rows. Missing or misnamed columns never error, they
// degrade through the fallback rules in Normalize.
var ErrEmptyTable = errors.New("holder table has no rows")
