package history

import (
	"fmt"

	"github.com/samber/lo"
)

// HistorySize is the fixed capacity of the in-memory history buffer.
// The assignment this shell implements pins it at 10; it is deliberately
// not configurable.
const HistorySize = 10

// HistoryManager holds the last HistorySize command lines in chronological
// order. It is owned by the shell loop and mutated only through Add; the
// recall resolver and the hist built-in read from it.
type HistoryManager struct {
	entries []string
}

func NewHistoryManager() *HistoryManager {
	return &HistoryManager{
		entries: make([]string, 0, HistorySize),
	}
}

// Add appends a command line verbatim, evicting the oldest entry once the
// buffer is full.
func (historyManager *HistoryManager) Add(line string) {
	if len(historyManager.entries) == HistorySize {
		historyManager.entries = historyManager.entries[1:]
	}
	historyManager.entries = append(historyManager.entries, line)
}

// Entries returns a copy of the retained lines, oldest first.
func (historyManager *HistoryManager) Entries() []string {
	entries := make([]string, len(historyManager.entries))
	copy(entries, historyManager.entries)
	return entries
}

// Size returns the current entry count. The interactive prompt shows
// Size()+1 as the ordinal of the command about to be entered.
func (historyManager *HistoryManager) Size() int {
	return len(historyManager.entries)
}

// Format renders the retained entries the way the hist built-in prints
// them, one line per entry, numbered from 1 (oldest retained entry).
// An empty history formats to zero lines.
func (historyManager *HistoryManager) Format() []string {
	return lo.Map(historyManager.entries, func(entry string, i int) string {
		return fmt.Sprintf("  %d: %s", i+1, entry)
	})
}
