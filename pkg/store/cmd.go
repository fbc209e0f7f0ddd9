package store

import (
	"encoding/binary"

	bolt "go.etcd.io/bbolt"
	. "src.ggexpr.dev/pkg/store/storedefs"
)

func init() {
	initDB["create history bucket"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketCmd))
		return err
	}
}

// Keys of the history bucket are big-endian sequence numbers, so cursor order
// is chronological.
func seqKey(seq uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, seq)
}

func keySeq(k []byte) int { return int(binary.BigEndian.Uint64(k)) }

func (s *dbStore) NextCmdSeq() (int, error) {
	var next int
	err := s.db.View(func(tx *bolt.Tx) error {
		next = int(tx.Bucket([]byte(bucketCmd)).Sequence()) + 1
		return nil
	})
	return next, err
}

func (s *dbStore) AddCmd(text string) (int, error) {
	var seq uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		var err error
		if seq, err = b.NextSequence(); err != nil {
			return err
		}
		return b.Put(seqKey(seq), []byte(text))
	})
	return int(seq), err
}

func (s *dbStore) Cmd(seq int) (string, error) {
	var text string
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketCmd)).Get(seqKey(uint64(seq)))
		if v == nil {
			return ErrNoMatchingCmd
		}
		text = string(v)
		return nil
	})
	return text, err
}

func (s *dbStore) Cmds(from, upto int) ([]Cmd, error) {
	var cmds []Cmd
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Seek(seqKey(uint64(from))); k != nil && keySeq(k) < upto; k, v = c.Next() {
			cmds = append(cmds, Cmd{Text: string(v), Seq: keySeq(k)})
		}
		return nil
	})
	return cmds, err
}

func (s *dbStore) LastCmds(n int) ([]Cmd, error) {
	cmds := []Cmd{}
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketCmd)).Cursor()
		for k, v := c.Last(); k != nil && len(cmds) < n; k, v = c.Prev() {
			cmds = append(cmds, Cmd{Text: string(v), Seq: keySeq(k)})
		}
		return nil
	})
	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}
	return cmds, err
}

func (s *dbStore) TrimCmds(keep int) (int, error) {
	deleted := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCmd))
		excess := b.Stats().KeyN - keep
		c := b.Cursor()
		// Restart from the oldest key after each delete, since bbolt cursors
		// skip an element when stepping after Delete.
		for k, _ := c.First(); k != nil && deleted < excess; k, _ = c.First() {
			if err := c.Delete(); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	return deleted, err
}
