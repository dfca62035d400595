package Trees

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when removing from an empty tree.
	ErrEmpty = errors.New("Trees: empty tree")
	// ErrOutOfRange is wrapped by *RankError.
	ErrOutOfRange = errors.New("Trees: rank out of range")
	// ErrCapacity means the index type S is too narrow for the number of nodes.
	ErrCapacity = errors.New("Trees: tree size exceeds index type")
	// ErrUnknownBalance is returned when parsing a balance name fails.
	ErrUnknownBalance = errors.New("Trees: unknown balance")
)

// RankError reports a Select outside [0, Size).
type RankError struct {
	Rank, Size int
}

func (e *RankError) Error() string {
	return fmt.Sprintf("Trees: rank %d outside [0, %d)", e.Rank, e.Size)
}

func (e *RankError) Unwrap() error {
	return ErrOutOfRange
}

// InvalidSliceError is returned by From and Load when the input can't be laid out as a tree.
// Index is the position of the first offending element.
type InvalidSliceError struct {
	Index  int
	Reason string
}

func (e *InvalidSliceError) Error() string {
	return fmt.Sprintf("Trees: invalid slice at %d: %s", e.Index, e.Reason)
}
