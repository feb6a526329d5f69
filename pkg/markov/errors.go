package markov

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when a stream yields fewer symbols than
	// the model order, or when Finalize is called before any context was recorded.
	ErrInsufficientData = errors.New("markov: insufficient data")

	// ErrInvalidState is returned when an operation is used on the wrong side
	// of Finalize.
	ErrInvalidState = errors.New("markov: invalid state")

	// ErrNotReady is returned by Table.Sample before Compile. It matches
	// ErrInvalidState under errors.Is.
	ErrNotReady = fmt.Errorf("%w: table is not compiled", ErrInvalidState)

	// ErrInvalidOrder is returned by NewGenerator for an order below 1.
	ErrInvalidOrder = errors.New("markov: order must be at least 1")
)
