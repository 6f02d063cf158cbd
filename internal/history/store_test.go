package history

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestAddCmd(t *testing.T) {
	s, _ := openTemp(t)
	if seq, err := s.NextCmdSeq(); err != nil || seq != 1 {
		t.Fatalf("NextCmdSeq = %d, %v", seq, err)
	}
	for i, line := range []string{"int x = 1;", "x + 1;", "println(x);"} {
		seq, err := s.AddCmd(line)
		if err != nil {
			t.Fatal(err)
		}
		if seq != i+1 {
			t.Errorf("seq = %d, want %d", seq, i+1)
		}
	}

	got, err := s.Last(2)
	if err != nil {
		t.Fatal(err)
	}
	want := []Cmd{{"x + 1;", 2}, {"println(x);", 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Last (-want +got):\n%s", diff)
	}
	if seq, _ := s.NextCmdSeq(); seq != 4 {
		t.Errorf("NextCmdSeq = %d, want 4", seq)
	}
}

func TestPrevCmd(t *testing.T) {
	s, _ := openTemp(t)
	for _, line := range []string{"print(1);", "x;", "print(2);"} {
		if _, err := s.AddCmd(line); err != nil {
			t.Fatal(err)
		}
	}
	tests := []struct {
		upto   int
		prefix string
		want   Cmd
		err    error
	}{
		{10, "print", Cmd{"print(2);", 3}, nil},
		{3, "print", Cmd{"print(1);", 1}, nil},
		{3, "", Cmd{"x;", 2}, nil},
		{1, "", Cmd{}, ErrNoMatchingCmd},
		{10, "nope", Cmd{}, ErrNoMatchingCmd},
	}
	for _, tt := range tests {
		got, err := s.PrevCmd(tt.upto, tt.prefix)
		if !errors.Is(err, tt.err) {
			t.Errorf("PrevCmd(%d, %q) err = %v, want %v", tt.upto, tt.prefix, err, tt.err)
			continue
		}
		if got != tt.want {
			t.Errorf("PrevCmd(%d, %q) = %v, want %v", tt.upto, tt.prefix, got, tt.want)
		}
	}
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	s.AddCmd("a;")
	s.AddCmd("b;")
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Last(5)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Cmd{{"a;", 1}, {"b;", 2}}, got); diff != "" {
		t.Errorf("Last (-want +got):\n%s", diff)
	}
}

func TestLines(t *testing.T) {
	s, _ := openTemp(t)
	s.AddCmd("old;")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	l, err := NewLines(s, 3, logger)
	if err != nil {
		t.Fatal(err)
	}
	l.Add("one;")
	l.Add("one;")
	l.Add("")
	l.Add("two;")
	l.Add("three;")

	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}
	var got []string
	for i := 0; i < l.Len(); i++ {
		got = append(got, l.At(i))
	}
	if diff := cmp.Diff([]string{"three;", "two;", "one;"}, got); diff != "" {
		t.Errorf("At (-want +got):\n%s", diff)
	}

	stored, _ := s.Last(10)
	if len(stored) != 4 {
		t.Errorf("stored %d lines, want every accepted line", len(stored))
	}
}

func TestLinesWithoutStore(t *testing.T) {
	l, err := NewLines(nil, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	l.Add("x;")
	if l.Len() != 1 || l.At(0) != "x;" {
		t.Errorf("in-memory history lost the line")
	}
}

func TestWalker(t *testing.T) {
	s, _ := openTemp(t)
	for _, line := range []string{"print(1);", "x;", "print(2);", "print(1);"} {
		if _, err := s.AddCmd(line); err != nil {
			t.Fatal(err)
		}
	}
	w, err := NewWalker(s, "print")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for {
		cmd, err := w.Prev()
		if errors.Is(err, ErrEndOfHistory) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, cmd.Text)
	}
	if diff := cmp.Diff([]string{"print(1);", "print(2);"}, got); diff != "" {
		t.Errorf("walk (-want +got):\n%s", diff)
	}
	if w.Prefix() != "print" {
		t.Errorf("Prefix = %q", w.Prefix())
	}
}
