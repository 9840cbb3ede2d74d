package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

type imageCollection struct {
	db *badger.DB
}

func (c *imageCollection) Get(ctx context.Context, ownerID, fileName string) (*models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var image models.Image
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyImage(ownerID, fileName))
		if err == badger.ErrKeyNotFound {
			return document.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &image)
		})
	})
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (c *imageCollection) Put(ctx context.Context, image *models.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		return putImage(txn, image)
	})
}

func (c *imageCollection) Delete(ctx context.Context, ownerID, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		key := keyImage(ownerID, fileName)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return document.ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func (c *imageCollection) ByOwner(ctx context.Context, ownerID string) ([]models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var images []models.Image
	err := c.scanOwner(ownerID, func(image models.Image) {
		images = append(images, image)
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (c *imageCollection) ByAlbum(ctx context.Context, ownerID, albumID string) ([]models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var images []models.Image
	err := c.scanOwner(ownerID, func(image models.Image) {
		if image.ContainedIn(albumID) {
			images = append(images, image)
		}
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// Link adds albumID to each named image inside one transaction. Existence of
// every image is checked before any write so a missing image leaves the set
// untouched.
func (c *imageCollection) Link(ctx context.Context, ownerID string, fileNames []string, albumID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		images := make([]*models.Image, 0, len(fileNames))
		for _, name := range fileNames {
			image, err := getImage(txn, ownerID, name)
			if err != nil {
				return err
			}
			images = append(images, image)
		}

		for _, image := range images {
			if image.ContainedIn(albumID) {
				continue
			}
			image.ContainingAlbums = append(image.ContainingAlbums, albumID)
			if err := putImage(txn, image); err != nil {
				return err
			}
		}
		return nil
	})
}

// Unlink removes albumID from each named image inside one transaction.
// Orphaned images are deleted and returned.
func (c *imageCollection) Unlink(ctx context.Context, ownerID string, fileNames []string, albumID string) ([]models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var orphaned []models.Image
	err := c.db.Update(func(txn *badger.Txn) error {
		orphaned = orphaned[:0]
		for _, name := range fileNames {
			image, err := getImage(txn, ownerID, name)
			if err == document.ErrNotFound {
				continue
			}
			if err != nil {
				return err
			}
			if !image.ContainedIn(albumID) {
				continue
			}

			image.ContainingAlbums = slices.DeleteFunc(image.ContainingAlbums, func(id string) bool {
				return id == albumID
			})

			if image.Orphaned() {
				if err := txn.Delete(keyImage(ownerID, name)); err != nil {
					return err
				}
				orphaned = append(orphaned, *image)
				continue
			}
			if err := putImage(txn, image); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orphaned, nil
}

func (c *imageCollection) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return countPrefix(c.db, []byte(prefixImage))
}

func (c *imageCollection) scanOwner(ownerID string, visit func(models.Image)) error {
	return c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyImageOwnerPrefix(ownerID)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var image models.Image
				if err := json.Unmarshal(val, &image); err != nil {
					return err
				}
				visit(image)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func getImage(txn *badger.Txn, ownerID, fileName string) (*models.Image, error) {
	item, err := txn.Get(keyImage(ownerID, fileName))
	if err == badger.ErrKeyNotFound {
		return nil, document.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var image models.Image
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &image)
	}); err != nil {
		return nil, err
	}
	return &image, nil
}

func putImage(txn *badger.Txn, image *models.Image) error {
	val, err := json.Marshal(image)
	if err != nil {
		return fmt.Errorf("marshal image: %w", err)
	}
	return txn.Set(keyImage(image.OwnerID, image.FileName), val)
}
