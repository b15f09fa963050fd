// Package errs defines the tagged-union error taxonomy shared by every
// package in updrm. Every package returns *errs.Error rather than a bare
// error, so a host binding can switch on Kind without string-matching
// messages.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies the category of failure. Names and semantics follow
// the error-handling table of the payload pipeline specification.
type Kind int

const (
	// IoFailure indicates a filesystem read or write failed.
	IoFailure Kind = iota
	// UnsupportedInputType indicates write's data argument was neither
	// text nor bytes.
	UnsupportedInputType
	// UnsupportedCarrier indicates the detector could not classify the
	// carrier as PNG or PDF.
	UnsupportedCarrier
	// InsufficientCapacity indicates a PNG carrier's bit capacity is
	// smaller than the outer frame requires.
	InsufficientCapacity
	// TruncatedCarrier indicates the carrier's sample/pixel stream was
	// exhausted before extraction finished.
	TruncatedCarrier
	// PayloadAbsent indicates no page of a PDF carrier held the
	// expected image XObject.
	PayloadAbsent
	// MisalignedEncoding indicates an encoded payload's length is not a
	// multiple of the total shard count.
	MisalignedEncoding
	// LengthMismatch indicates a framed length prefix declares more
	// bytes than are actually available.
	LengthMismatch
	// TruncatedFrame indicates fewer bytes than a length prefix's width
	// were available to unpack.
	TruncatedFrame
	// RsFailure indicates the Reed-Solomon kernel rejected the shard
	// set it was given.
	RsFailure
	// CarrierCodecFailure indicates the underlying PNG or PDF library
	// failed to parse or serialize the carrier.
	CarrierCodecFailure
)

func (k Kind) String() string {
	switch k {
	case IoFailure:
		return "IoFailure"
	case UnsupportedInputType:
		return "UnsupportedInputType"
	case UnsupportedCarrier:
		return "UnsupportedCarrier"
	case InsufficientCapacity:
		return "InsufficientCapacity"
	case TruncatedCarrier:
		return "TruncatedCarrier"
	case PayloadAbsent:
		return "PayloadAbsent"
	case MisalignedEncoding:
		return "MisalignedEncoding"
	case LengthMismatch:
		return "LengthMismatch"
	case TruncatedFrame:
		return "TruncatedFrame"
	case RsFailure:
		return "RsFailure"
	case CarrierCodecFailure:
		return "CarrierCodecFailure"
	default:
		return "Unknown"
	}
}

// Class is the three-way mapping a host binding raises exceptions from:
// an I/O error, a type error, or a generic value error.
type Class string

const (
	ClassIO    Class = "io"
	ClassType  Class = "type"
	ClassValue Class = "value"
)

// Class maps this error's Kind to the host-exception bucket the
// external-interfaces contract specifies: I/O failures raise an I/O
// error, input-type mismatches raise a type error, everything else
// raises a generic value error.
func (k Kind) Class() Class {
	switch k {
	case IoFailure:
		return ClassIO
	case UnsupportedInputType:
		return ClassType
	default:
		return ClassValue
	}
}

// Error is the tagged-union error value every updrm package returns.
type Error struct {
	Kind Kind
	Op   string
	err  error
}

// New builds an *Error of the given kind, tagging it with the
// operation name (e.g. "steg.Write", "shard.Decode") and wrapping cause
// with a stack trace if non-nil.
func New(kind Kind, op string, cause error) *Error {
	var wrapped error
	if cause != nil {
		wrapped = errors.Wrap(cause, op)
	}
	return &Error{Kind: kind, Op: op, err: wrapped}
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.err
}

// Class reports the host-exception bucket for this error.
func (e *Error) Class() Class {
	return e.Kind.Class()
}
