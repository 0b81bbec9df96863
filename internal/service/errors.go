package service

import "errors"

var (
	// ErrNoHoldings: the holder source has no disclosure rows for the ticker.
	// The only error that terminates an analysis run.
	ErrNoHoldings = errors.New("error no institutional holding data")
)
