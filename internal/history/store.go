// Package history keeps REPL input lines in a bbolt database. Lines are
// stored in the "cmd" bucket under big-endian sequence numbers, so a cursor
// walks them in input order.
package history

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketCmd = "cmd"

// ErrNoMatchingCmd is returned when no stored line matches a query.
var ErrNoMatchingCmd = errors.New("no matching command line")

// Cmd is a stored line with its sequence number.
type Cmd struct {
	Text string
	Seq  int
}

type Store struct {
	db *bolt.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// NextCmdSeq returns the sequence number the next line will get.
func (s *Store) NextCmdSeq() (int, error) {
	var seq uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		seq = tx.Bucket([]byte(bucketCmd)).Sequence() + 1
		return nil
	})
	return int(seq), err
}

// AddCmd stores a line and returns its sequence number.
func (s *Store) AddCmd(cmd string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		var err error
		seq, err = b.NextSequence()
		if err != nil {
			return err
		}
		return b.Put(marshalSeq(seq), []byte(cmd))
	})
	return int(seq), err
}

// Last returns up to n of the most recent lines in input order.
func (s *Store) Last(n int) ([]Cmd, error) {
	var cmds []Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Last(); k != nil && len(cmds) < n; k, v = c.Prev() {
			cmds = append(cmds, Cmd{Text: string(v), Seq: int(unmarshalSeq(k))})
		}
		return nil
	})
	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}
	return cmds, err
}

// PrevCmd finds the last line before upto (exclusive) starting with
// prefix.
func (s *Store) PrevCmd(upto int, prefix string) (Cmd, error) {
	var cmd Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		p := []byte(prefix)

		var v []byte
		k, _ := c.Seek(marshalSeq(uint64(upto)))
		if k == nil {
			k, v = c.Last()
		} else {
			k, v = c.Prev()
		}
		for ; k != nil; k, v = c.Prev() {
			if bytes.HasPrefix(v, p) {
				cmd = Cmd{Text: string(v), Seq: int(unmarshalSeq(k))}
				return nil
			}
		}
		return ErrNoMatchingCmd
	})
	return cmd, err
}

func marshalSeq(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}

func unmarshalSeq(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}
