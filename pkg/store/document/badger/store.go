// Package badger implements the document store on BadgerDB.
//
// Key namespace:
//
//	Data Type  Key Format            Value Type
//	=================================================
//	Users      u:<userID>            models.User (JSON)
//	Albums     a:<albumID>           models.AlbumDetails (JSON)
//	Images     i:<ownerID>/<name>    models.Image (JSON)
//
// Album ids are UUIDs and image file names never contain '/', so the
// namespaces cannot collide and owner-scoped prefix scans are well defined.
package badger

import (
	"context"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

const (
	prefixUser  = "u:"
	prefixAlbum = "a:"
	prefixImage = "i:"
)

func keyUser(id string) []byte {
	return []byte(prefixUser + id)
}

func keyAlbum(albumID string) []byte {
	return []byte(prefixAlbum + albumID)
}

func keyImage(ownerID, fileName string) []byte {
	return []byte(prefixImage + ownerID + "/" + fileName)
}

// keyImageOwnerPrefix is the scan prefix covering every image of one owner.
func keyImageOwnerPrefix(ownerID string) []byte {
	return []byte(prefixImage + ownerID + "/")
}

// Config holds BadgerDB backend configuration.
type Config struct {
	// Path is the database directory. Created if missing.
	Path string `mapstructure:"path" yaml:"path" validate:"required"`

	// InMemory runs the database without persistence. Used by tests.
	InMemory bool `mapstructure:"in_memory" yaml:"in_memory"`
}

// Store is the BadgerDB-backed document store.
type Store struct {
	db *badger.DB

	users  userCollection
	albums albumCollection
	images imageCollection
}

var _ document.Store = (*Store)(nil)

// NewStore opens the database at cfg.Path.
func NewStore(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	s := &Store{db: db}
	s.users = userCollection{db: db}
	s.albums = albumCollection{db: db}
	s.images = imageCollection{db: db}
	return s, nil
}

func (s *Store) Users() document.UserCollection   { return &s.users }
func (s *Store) Albums() document.AlbumCollection { return &s.albums }
func (s *Store) Images() document.ImageCollection { return &s.images }

// HealthCheck verifies the database accepts reads.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("health:probe"))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// countPrefix counts keys under prefix.
func countPrefix(db *badger.DB, prefix []byte) (int, error) {
	count := 0
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
