package history

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrEmptyHistory is returned by Resolve when there is nothing to recall.
var ErrEmptyHistory = errors.New("history is empty")

// ParseError reports a recall argument that is not a valid integer.
type ParseError struct {
	Arg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid history index %q", e.Arg)
}

// RangeError reports a recall index outside [1, size].
type RangeError struct {
	Index int
	Size  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("history index %d out of range [1, %d]", e.Index, e.Size)
}

// Resolve interprets the argument of the r built-in against the store.
// An empty argument selects the most recently added entry. A positive
// integer N selects the N-th retained entry, 1-based from the oldest,
// matching the numbering the hist built-in prints. The store is never
// mutated here; the caller decides what to do with the resolved line.
func (historyManager *HistoryManager) Resolve(arg string) (string, error) {
	if len(historyManager.entries) == 0 {
		return "", ErrEmptyHistory
	}

	if arg == "" {
		return historyManager.entries[len(historyManager.entries)-1], nil
	}

	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", &ParseError{Arg: arg}
	}
	if n < 1 || n > len(historyManager.entries) {
		return "", &RangeError{Index: n, Size: len(historyManager.entries)}
	}

	return historyManager.entries[n-1], nil
}
