package history

import (
	"log/slog"
	"sync"

	"github.com/funvibe/quill/internal/errs"
)

// Lines is the in-memory view of the history a line editor walks. It
// satisfies the History interface of golang.org/x/term. Added lines are
// written through to the store when there is one.
type Lines struct {
	mu      sync.Mutex
	entries []string
	max     int
	store   *Store
	logger  *slog.Logger
}

// NewLines loads up to max recent lines from store. A nil store keeps the
// history in memory only.
func NewLines(store *Store, max int, logger *slog.Logger) (*Lines, error) {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Lines{max: max, store: store, logger: logger}
	if store == nil {
		return l, nil
	}
	cmds, err := store.Last(max)
	if err != nil {
		return nil, err
	}
	for _, c := range cmds {
		l.entries = append(l.entries, c.Text)
	}
	return l, nil
}

// Add records a line. Empty lines and repeats of the previous line are
// skipped.
func (l *Lines) Add(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry == "" || (len(l.entries) > 0 && l.entries[len(l.entries)-1] == entry) {
		return
	}
	l.entries = append(l.entries, entry)
	if l.max > 0 && len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
	if l.store != nil {
		if _, err := l.store.AddCmd(entry); err != nil {
			l.logger.Warn("history write failed", "error", err)
		}
	}
}

func (l *Lines) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// At returns the idx-th line counting back from the most recent, 0 being
// the last one added.
func (l *Lines) At(idx int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 || idx >= len(l.entries) {
		errs.Internal("history index %d out of range for %d lines", idx, len(l.entries))
	}
	return l.entries[len(l.entries)-1-idx]
}
