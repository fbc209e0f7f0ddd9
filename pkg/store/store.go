// Package store defines the permanent storage service, backed by a bbolt
// database file. It keeps the history of the REPL and bindings saved across
// sessions.
package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
	"src.ggexpr.dev/pkg/logutil"
	. "src.ggexpr.dev/pkg/store/storedefs"
)

var logger = logutil.GetLogger("[store] ")

// Names of buckets.
const (
	bucketCmd     = "cmd"
	bucketBinding = "binding"
)

// Functions to run when opening a database, keyed by description.
var initDB = map[string](func(*bolt.Tx) error){}

// DBStore is the permanent storage backend for the REPL.
type DBStore interface {
	Store
	Close() error
}

type dbStore struct {
	db *bolt.DB
}

// NewStore creates a new Store from the given file.
func NewStore(dbname string) (DBStore, error) {
	db, err := bolt.Open(dbname, 0644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbname, err)
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a new Store from a bolt DB.
func NewStoreFromDB(db *bolt.DB) (DBStore, error) {
	logger.Println("initializing store")
	defer logger.Println("initialized store")
	st := &dbStore{db: db}

	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			err := fn(tx)
			if err != nil {
				return fmt.Errorf("failed to %s: %w", name, err)
			}
		}
		return nil
	})
	return st, err
}

// Close closes the store.
func (s *dbStore) Close() error {
	return s.db.Close()
}
