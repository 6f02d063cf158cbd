package history

import (
	"errors"
)

var ErrEndOfHistory = errors.New("end of history")

// Walker steps back through the stored lines starting with a prefix,
// newest first, skipping lines it has already returned.
type Walker struct {
	store  *Store
	prefix string
	upto   int
	seen   map[string]bool
}

// NewWalker starts a walk before the next line to be stored.
func NewWalker(store *Store, prefix string) (*Walker, error) {
	upto, err := store.NextCmdSeq()
	if err != nil {
		return nil, err
	}
	return &Walker{store: store, prefix: prefix, upto: upto, seen: map[string]bool{}}, nil
}

func (w *Walker) Prefix() string { return w.prefix }

// Prev returns the previous matching line.
func (w *Walker) Prev() (Cmd, error) {
	for {
		cmd, err := w.store.PrevCmd(w.upto, w.prefix)
		if errors.Is(err, ErrNoMatchingCmd) {
			return Cmd{}, ErrEndOfHistory
		}
		if err != nil {
			return Cmd{}, err
		}
		w.upto = cmd.Seq
		if !w.seen[cmd.Text] {
			w.seen[cmd.Text] = true
			return cmd, nil
		}
	}
}
