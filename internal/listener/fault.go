package listener

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind tells an operator whether restarting the listener is likely to help
type Kind int

const (
	// Transient faults come from a backend that may recover on its own
	Transient Kind = iota + 1
	// Fatal faults need a configuration or permission change
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Fault is returned by Run when the pull stops for any reason other than cancellation
type Fault struct {
	Kind Kind
	Code codes.Code
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s fault (%s): %v", f.Kind, f.Code, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Temporary reports whether the fault is transient
func (f *Fault) Temporary() bool {
	return f.Kind == Transient
}

// Classify maps a pull error to a Fault by its gRPC status code.
// Errors without a status are fatal. A nil error yields nil.
func Classify(err error) *Fault {
	if err == nil {
		return nil
	}
	var existing *Fault
	if errors.As(err, &existing) {
		return existing
	}

	s, ok := status.FromError(err)
	if !ok {
		return &Fault{Kind: Fatal, Code: codes.Unknown, Err: err}
	}

	switch s.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted,
		codes.Aborted, codes.Internal, codes.Unknown:
		return &Fault{Kind: Transient, Code: s.Code(), Err: err}
	default:
		return &Fault{Kind: Fatal, Code: s.Code(), Err: err}
	}
}
