package types

import "fmt"

// ErrorKind classifies a configuration load failure.
type ErrorKind string

const (
	ErrRead  ErrorKind = "read"
	ErrParse ErrorKind = "parse"
	ErrShape ErrorKind = "shape"
	ErrWrite ErrorKind = "write"
)

// LoadError is returned when a configuration source could not be turned
// into actions. Match on Kind with errors.As.
type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
