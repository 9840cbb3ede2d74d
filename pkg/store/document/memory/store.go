// Package memory implements the document store on in-process maps. It is
// used by tests and by single-node deployments that do not need durability.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/Roky360/fotogo-bakcend/pkg/models"
	"github.com/Roky360/fotogo-bakcend/pkg/store/document"
)

// Store is the map-backed document store. One mutex guards all three
// collections so cross-collection invariants observed by tests hold under
// concurrent access.
type Store struct {
	mu sync.RWMutex

	users  map[string]models.User
	albums map[string]models.AlbumDetails
	images map[string]map[string]models.Image // ownerID -> fileName -> image

	userCol  userCollection
	albumCol albumCollection
	imageCol imageCollection
}

var _ document.Store = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{
		users:  make(map[string]models.User),
		albums: make(map[string]models.AlbumDetails),
		images: make(map[string]map[string]models.Image),
	}
	s.userCol = userCollection{s: s}
	s.albumCol = albumCollection{s: s}
	s.imageCol = imageCollection{s: s}
	return s
}

func (s *Store) Users() document.UserCollection   { return &s.userCol }
func (s *Store) Albums() document.AlbumCollection { return &s.albumCol }
func (s *Store) Images() document.ImageCollection { return &s.imageCol }

func (s *Store) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

type userCollection struct {
	s *Store
}

func (c *userCollection) Get(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	user, ok := c.s.users[id]
	if !ok {
		return nil, document.ErrNotFound
	}
	return &user, nil
}

func (c *userCollection) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	_, ok := c.s.users[id]
	return ok, nil
}

func (c *userCollection) Put(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	c.s.users[user.ID] = *user
	return nil
}

func (c *userCollection) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if _, ok := c.s.users[id]; !ok {
		return document.ErrNotFound
	}
	delete(c.s.users, id)
	return nil
}

func (c *userCollection) All(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	users := make([]models.User, 0, len(c.s.users))
	for _, user := range c.s.users {
		users = append(users, user)
	}
	return users, nil
}

func (c *userCollection) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return len(c.s.users), nil
}

type albumCollection struct {
	s *Store
}

func (c *albumCollection) Get(ctx context.Context, albumID string) (*models.AlbumDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	album, ok := c.s.albums[albumID]
	if !ok {
		return nil, document.ErrNotFound
	}
	return &album, nil
}

func (c *albumCollection) Put(ctx context.Context, album *models.AlbumDetails) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	c.s.albums[album.ID] = *album
	return nil
}

func (c *albumCollection) Delete(ctx context.Context, albumID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if _, ok := c.s.albums[albumID]; !ok {
		return document.ErrNotFound
	}
	delete(c.s.albums, albumID)
	return nil
}

func (c *albumCollection) ByOwner(ctx context.Context, ownerID string) ([]models.AlbumDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var albums []models.AlbumDetails
	for _, album := range c.s.albums {
		if album.OwnerID == ownerID {
			albums = append(albums, album)
		}
	}
	return albums, nil
}

func (c *albumCollection) All(ctx context.Context) ([]models.AlbumDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	albums := make([]models.AlbumDetails, 0, len(c.s.albums))
	for _, album := range c.s.albums {
		albums = append(albums, album)
	}
	return albums, nil
}

func (c *albumCollection) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	count := 0
	for _, album := range c.s.albums {
		if !album.Tombstone() {
			count++
		}
	}
	return count, nil
}

type imageCollection struct {
	s *Store
}

func (c *imageCollection) Get(ctx context.Context, ownerID, fileName string) (*models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	image, ok := c.s.images[ownerID][fileName]
	if !ok {
		return nil, document.ErrNotFound
	}
	image.ContainingAlbums = slices.Clone(image.ContainingAlbums)
	return &image, nil
}

func (c *imageCollection) Put(ctx context.Context, image *models.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	c.putLocked(image)
	return nil
}

func (c *imageCollection) putLocked(image *models.Image) {
	owned, ok := c.s.images[image.OwnerID]
	if !ok {
		owned = make(map[string]models.Image)
		c.s.images[image.OwnerID] = owned
	}
	stored := *image
	stored.ContainingAlbums = slices.Clone(image.ContainingAlbums)
	owned[image.FileName] = stored
}

func (c *imageCollection) Delete(ctx context.Context, ownerID, fileName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if _, ok := c.s.images[ownerID][fileName]; !ok {
		return document.ErrNotFound
	}
	delete(c.s.images[ownerID], fileName)
	return nil
}

func (c *imageCollection) ByOwner(ctx context.Context, ownerID string) ([]models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var images []models.Image
	for _, image := range c.s.images[ownerID] {
		image.ContainingAlbums = slices.Clone(image.ContainingAlbums)
		images = append(images, image)
	}
	return images, nil
}

func (c *imageCollection) ByAlbum(ctx context.Context, ownerID, albumID string) ([]models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var images []models.Image
	for _, image := range c.s.images[ownerID] {
		if image.ContainedIn(albumID) {
			image.ContainingAlbums = slices.Clone(image.ContainingAlbums)
			images = append(images, image)
		}
	}
	return images, nil
}

func (c *imageCollection) Link(ctx context.Context, ownerID string, fileNames []string, albumID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	for _, name := range fileNames {
		if _, ok := c.s.images[ownerID][name]; !ok {
			return document.ErrNotFound
		}
	}

	for _, name := range fileNames {
		image := c.s.images[ownerID][name]
		if image.ContainedIn(albumID) {
			continue
		}
		image.ContainingAlbums = append(slices.Clone(image.ContainingAlbums), albumID)
		c.s.images[ownerID][name] = image
	}
	return nil
}

func (c *imageCollection) Unlink(ctx context.Context, ownerID string, fileNames []string, albumID string) ([]models.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	var orphaned []models.Image
	for _, name := range fileNames {
		image, ok := c.s.images[ownerID][name]
		if !ok || !image.ContainedIn(albumID) {
			continue
		}

		image.ContainingAlbums = slices.DeleteFunc(slices.Clone(image.ContainingAlbums), func(id string) bool {
			return id == albumID
		})

		if image.Orphaned() {
			delete(c.s.images[ownerID], name)
			orphaned = append(orphaned, image)
			continue
		}
		c.s.images[ownerID][name] = image
	}
	return orphaned, nil
}

func (c *imageCollection) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	count := 0
	for _, owned := range c.s.images {
		count += len(owned)
	}
	return count, nil
}
