package badger

import (
	"context"
	"encoding/json"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

type albumCollection struct {
	db *badger.DB
}

func (c *albumCollection) Get(ctx context.Context, albumID string) (*models.AlbumDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var album models.AlbumDetails
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyAlbum(albumID))
		if err == badger.ErrKeyNotFound {
			return document.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &album)
		})
	})
	if err != nil {
		return nil, err
	}
	return &album, nil
}

func (c *albumCollection) Put(ctx context.Context, album *models.AlbumDetails) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		val, err := json.Marshal(album)
		if err != nil {
			return fmt.Errorf("marshal album: %w", err)
		}
		return txn.Set(keyAlbum(album.ID), val)
	})
}

func (c *albumCollection) Delete(ctx context.Context, albumID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		key := keyAlbum(albumID)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return document.ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func (c *albumCollection) ByOwner(ctx context.Context, ownerID string) ([]models.AlbumDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var albums []models.AlbumDetails
	err := c.scan(func(album models.AlbumDetails) {
		if album.OwnerID == ownerID {
			albums = append(albums, album)
		}
	})
	if err != nil {
		return nil, err
	}
	return albums, nil
}

func (c *albumCollection) All(ctx context.Context) ([]models.AlbumDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var albums []models.AlbumDetails
	err := c.scan(func(album models.AlbumDetails) {
		albums = append(albums, album)
	})
	if err != nil {
		return nil, err
	}
	return albums, nil
}

func (c *albumCollection) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := c.scan(func(album models.AlbumDetails) {
		if !album.Tombstone() {
			count++
		}
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (c *albumCollection) scan(visit func(models.AlbumDetails)) error {
	return c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixAlbum)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var album models.AlbumDetails
				if err := json.Unmarshal(val, &album); err != nil {
					return err
				}
				visit(album)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
