package wordbook

import (
	"errors"
	"fmt"

	"github.com/hupe1980/wordbook/internal/arena"
	"github.com/hupe1980/wordbook/internal/format"
	"github.com/hupe1980/wordbook/internal/store"
)

var (
	// ErrIO is matched by every *IOError.
	ErrIO = errors.New("i/o failed")

	// ErrAllocationFailed is returned when the memory budget refuses to grow
	// an arena or the entry store. The dictionary is left unchanged.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrClosed is returned when a closed dictionary is used.
	ErrClosed = errors.New("dictionary is closed")

	// ErrInvalidText is returned for text that cannot be persisted because it
	// contains the field separator or a newline.
	ErrInvalidText = errors.New("text contains ';' or a newline")
)

// IOError reports a failed Load or Write.
//
// It matches errors.Is(err, ErrIO), and the underlying error (for example
// blobstore.ErrNotFound for a missing file) can be accessed via errors.Unwrap.
type IOError struct {
	Op    string // "load" or "write"
	Name  string
	cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.cause)
}

func (e *IOError) Unwrap() error { return e.cause }

// Is makes every IOError match ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, arena.ErrAllocationFailed) || errors.Is(err, store.ErrAllocationFailed) {
		return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	if errors.Is(err, format.ErrInvalidText) {
		return fmt.Errorf("%w: %w", ErrInvalidText, err)
	}

	return err
}
