package store

import (
	bolt "go.etcd.io/bbolt"
	. "src.ggexpr.dev/pkg/store/storedefs"
)

func init() {
	initDB["create binding bucket"] = func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketBinding))
		return err
	}
}

func (s *dbStore) SetBinding(name, code string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketBinding))
		return b.Put([]byte(name), []byte(code))
	})
}

func (s *dbStore) Binding(name string) (string, error) {
	var code string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketBinding))
		v := b.Get([]byte(name))
		if v == nil {
			return ErrNoBinding
		}
		code = string(v)
		return nil
	})
	return code, err
}

func (s *dbStore) DelBinding(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketBinding))
		return b.Delete([]byte(name))
	})
}

func (s *dbStore) Bindings() ([]Binding, error) {
	var bindings []Binding
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketBinding)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			bindings = append(bindings, Binding{Name: string(k), Code: string(v)})
		}
		return nil
	})
	return bindings, err
}
