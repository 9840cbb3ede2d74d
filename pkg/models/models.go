// Package models defines the domain records shared by the wire protocol,
// the service layer, and the document store.
//
// Albums and images are id-keyed records that reference each other by id
// only: an Image lists the albums containing it in ContainingAlbums, and
// album membership queries resolve that set through the store. No record
// embeds another record.
package models

import (
	"time"
)

// DateRange holds the start and end dates an album covers.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// GeoPoint is an optional latitude/longitude pair attached to an image.
type GeoPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// AlbumDetails is the server-authoritative album record.
//
// LastModified is monotonically non-decreasing: every mutation of the album
// or of its membership (add/remove images) bumps it. Differential sync
// compares it, not album content, to decide staleness.
type AlbumDetails struct {
	OwnerID        string    `json:"owner_id"`
	ID             string    `json:"album_id"`
	Name           string    `json:"name"`
	DateRange      DateRange `json:"date_range"`
	LastModified   time.Time `json:"last_modified"`
	IsBuilt        bool      `json:"is_built"`
	Tags           []int     `json:"tags"`
	PermittedUsers []string  `json:"permitted_users"`
	CoverImage     string    `json:"cover_image,omitempty"`
}

// Tombstone reports whether the record is a sync tombstone: a placeholder
// carrying only the album id, signalling the client to purge the album from
// its cache. The sentinel is the empty owner id, not a missing field.
func (a *AlbumDetails) Tombstone() bool {
	return a.OwnerID == ""
}

// NewTombstone returns a tombstone record for the given album id.
func NewTombstone(albumID string) AlbumDetails {
	return AlbumDetails{ID: albumID}
}

// Image is an uploaded photo record. FileName is the identity key.
//
// ContainingAlbums is the containment relation to albums, maintained as a
// deduplicated set. An image must be contained in at least one album to
// exist; a record whose set became empty during an unlink is deleted rather
// than persisted orphaned.
type Image struct {
	OwnerID          string    `json:"owner_id"`
	FileName         string    `json:"file_name"`
	Timestamp        time.Time `json:"timestamp"`
	URL              string    `json:"url,omitempty"`
	Location         *GeoPoint `json:"location,omitempty"`
	Tag              *int      `json:"tag,omitempty"`
	ContainingAlbums []string  `json:"containing_albums"`
}

// ContainedIn reports whether the image is linked to the given album.
func (i *Image) ContainedIn(albumID string) bool {
	for _, id := range i.ContainingAlbums {
		if id == albumID {
			return true
		}
	}
	return false
}

// Orphaned reports whether the image has no containing albums left.
func (i *Image) Orphaned() bool {
	return len(i.ContainingAlbums) == 0
}

// Privilege levels stored on user records.
const (
	PrivilegeAdmin = 0
	PrivilegeUser  = 1

	// PrivilegeUnregistered is returned by check-user-exists for an
	// authenticated token whose account has no user record yet. It is
	// never stored.
	PrivilegeUnregistered = -1
)

// User is an account record. The id comes from the identity provider and is
// never generated server-side.
type User struct {
	ID             string `json:"uid"`
	Email          string `json:"email"`
	DisplayName    string `json:"name"`
	PhotoURL       string `json:"photo_url,omitempty"`
	PrivilegeLevel int    `json:"privilege_level"`
}

// IsAdmin reports whether the user may run admin operations.
func (u *User) IsAdmin() bool {
	return u.PrivilegeLevel == PrivilegeAdmin
}

// Statistics holds system-wide counts for the admin statistics operation.
type Statistics struct {
	UserCount  int `json:"usr_count"`
	AlbumCount int `json:"albm_count"`
	ImageCount int `json:"img_count"`
}
