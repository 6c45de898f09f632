package repositories

import (
	"context"
	"fmt"
	"os"
	"sync"

	"inkpot/app/models"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the badger database shared by the badger-backed repositories.
type Store struct {
	db       *badger.DB
	mutex    sync.RWMutex
	dbPath   string
	isTestDB bool
}

// Open opens (or creates) a badger database at path. An empty path or
// "test_db" opens a throwaway database in a fresh temporary directory.
func Open(path string) (*Store, error) {
	isTest := false
	if path == "" || path == "test_db" {
		tempPath, err := os.MkdirTemp("", "inkpot_test_db_")
		if err != nil {
			return nil, fmt.Errorf("error creating temp dir: %w", err)
		}
		path = tempPath
		isTest = true
	}
	opts := badger.DefaultOptions(path).
		WithLogger(nil).
		WithSyncWrites(false).
		WithNumVersionsToKeep(1).
		WithNumGoroutines(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	if isTest {
		if err := db.DropAll(); err != nil {
			return nil, fmt.Errorf("failed to drop all keys: %w", err)
		}
	}
	return &Store{db: db, dbPath: path, isTestDB: isTest}, nil
}

// OpenInMemory opens a badger database that lives only in memory.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying database handle.
func (s *Store) DB() *badger.DB { return s.db }

// Posts returns a post repository over this store.
func (s *Store) Posts() *BadgerPostRepository { return NewBadgerPostRepository(s.db) }

// Comments returns a comment repository over this store.
func (s *Store) Comments() *BadgerCommentRepository { return NewBadgerCommentRepository(s.db) }

// Tags returns a tag repository over this store.
func (s *Store) Tags() *BadgerTagRepository { return NewBadgerTagRepository(s.db) }

// SaveProfile stores the public profile joined onto posts and comments by author id.
func (s *Store) SaveProfile(ctx context.Context, id string, author models.Author) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := marshalEntity(author)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(profileKey(id), data)
	})
}

// Close closes the database, removing it from disk when it was a test database.
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := s.db.Close(); err != nil {
		return err
	}
	if s.isTestDB {
		if err := os.RemoveAll(s.dbPath); err != nil {
			return fmt.Errorf("failed to cleanup test database: %w", err)
		}
	}
	return nil
}

// Clear drops every key in the database.
func (s *Store) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

// loadAuthor resolves an author id to its profile; unknown ids yield nil.
func loadAuthor(txn *badger.Txn, id *string) (*models.Author, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	item, err := txn.Get(profileKey(*id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var author models.Author
	if err := item.Value(func(val []byte) error {
		return unmarshalEntity(val, &author)
	}); err != nil {
		return nil, err
	}
	return &author, nil
}

// countPrefix counts keys under prefix without fetching values.
func countPrefix(txn *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	n := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		n++
	}
	return n
}

// keyTails returns the last key field of every key under prefix, in key order.
func keyTails(txn *badger.Txn, prefix []byte) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var out []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		out = append(out, lastField(it.Item().KeyCopy(nil)))
	}
	return out
}
