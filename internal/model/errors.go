package model

import (
	"errors"
	"fmt"
	"time"
)

// NotFoundError means no data exists for the symbol after every resolution attempt.
type NotFoundError struct {
	Symbol string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no price data found for %s", e.Symbol)
}

// InsufficientDataError means the history is too short for the longest look-back.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough history: %d monthly closes, need %d", e.Have, e.Need)
}

// InvalidPriceError means a look-back price cannot be used as a divisor.
type InvalidPriceError struct {
	Months int
	Time   time.Time
	Price  float64
}

func (e *InvalidPriceError) Error() string {
	return fmt.Sprintf("invalid %d-month look-back price %.2f on %s",
		e.Months, e.Price, e.Time.Format("2006-01-02"))
}

// TransportError wraps a network or provider failure during a fetch.
type TransportError struct {
	Identifier string
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("data source unavailable for %s: %v", e.Identifier, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Error kinds exposed to clients.
const (
	KindNotFound         = "not_found"
	KindInsufficientData = "insufficient_data"
	KindInvalidPrice     = "invalid_price"
	KindTransport        = "transport"
	KindInternal         = "internal"
)

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	var (
		nf  *NotFoundError
		ins *InsufficientDataError
		ip  *InvalidPriceError
		tr  *TransportError
	)
	switch {
	case errors.As(err, &nf):
		return KindNotFound
	case errors.As(err, &ins):
		return KindInsufficientData
	case errors.As(err, &ip):
		return KindInvalidPrice
	case errors.As(err, &tr):
		return KindTransport
	default:
		return KindInternal
	}
}
