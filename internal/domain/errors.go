package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a QueryError.
type ErrorKind string

const (
	KindTimeout      ErrorKind = "timeout"
	KindBadRequest   ErrorKind = "bad_request"
	KindUnknownCoin  ErrorKind = "unknown_coin"
	KindInvalidDate  ErrorKind = "invalid_date"
	KindUnavailable  ErrorKind = "unavailable"
	KindNotConnected ErrorKind = "not_connected"
)

// Sentinels for errors.Is matching against a QueryError's kind.
var (
	ErrTimeout      = errors.New("connection timed out")
	ErrBadRequest   = errors.New("400 bad request")
	ErrUnknownCoin  = errors.New("unknown coin or token name")
	ErrInvalidDate  = errors.New("invalid date")
	ErrUnavailable  = errors.New("remote service unavailable")
	ErrNotConnected = errors.New("not connected")
)

var sentinelByKind = map[ErrorKind]error{
	KindTimeout:      ErrTimeout,
	KindBadRequest:   ErrBadRequest,
	KindUnknownCoin:  ErrUnknownCoin,
	KindInvalidDate:  ErrInvalidDate,
	KindUnavailable:  ErrUnavailable,
	KindNotConnected: ErrNotConnected,
}

// QueryError is the single error type returned across the library boundary.
type QueryError struct {
	Kind       ErrorKind
	Suggestion string
	Detail     string
	Err        error
}

func (e *QueryError) Error() string {
	msg := sentinelByKind[e.Kind].Error()
	if e.Kind == KindUnknownCoin && e.Suggestion != "" {
		msg = fmt.Sprintf("%s. Did you mean %s?", msg, e.Suggestion)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *QueryError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *QueryError) Is(target error) bool {
	return sentinelByKind[e.Kind] == target
}

func NewError(kind ErrorKind, detail string, err error) *QueryError {
	return &QueryError{Kind: kind, Detail: detail, Err: err}
}

// UnknownCoin builds the resolution failure; suggestion may be empty.
func UnknownCoin(suggestion string) *QueryError {
	return &QueryError{Kind: KindUnknownCoin, Suggestion: suggestion}
}

// KindOf returns the kind of a QueryError anywhere in err's chain, or "".
func KindOf(err error) ErrorKind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

// SuggestionOf returns the did-you-mean token carried by err, if any.
func SuggestionOf(err error) string {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Suggestion
	}
	return ""
}
