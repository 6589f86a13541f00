package persistence

import "fmt"

// ReadError reports a stored entry that could not be read or parsed. The
// state returned alongside it is still usable.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Key, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError reports a rejected write. The in-memory ledger is unaffected.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Key, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
