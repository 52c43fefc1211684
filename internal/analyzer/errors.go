package analyzer

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind classifies why a symbol could not be analyzed. Every kind is
// local to one symbol and never aborts a batch.
type ErrorKind string

const (
	// KindDataUnavailable means the provider fetch failed or returned
	// an empty series
	KindDataUnavailable ErrorKind = "data_unavailable"

	// KindInsufficientHistory means the series is shorter than the
	// minimum lookback
	KindInsufficientHistory ErrorKind = "insufficient_history"

	// KindTimeout means the per-symbol fetch exceeded its deadline
	KindTimeout ErrorKind = "timeout"
)

// AnalysisError is a typed per-symbol analysis failure
type AnalysisError struct {
	Kind   ErrorKind
	Symbol string
	Err    error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analyze %s: %s: %v", e.Symbol, e.Kind, e.Err)
	}
	return fmt.Sprintf("analyze %s: %s", e.Symbol, e.Kind)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// newError wraps a cause, promoting context deadline errors to the
// timeout kind
func newError(kind ErrorKind, symbol string, err error) *AnalysisError {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &AnalysisError{Kind: kind, Symbol: symbol, Err: err}
}

// KindOf extracts the error kind, defaulting to data_unavailable for
// untyped errors
func KindOf(err error) ErrorKind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindDataUnavailable
}
