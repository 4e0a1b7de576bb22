package repositories

import (
	"context"
	"time"

	"tunehub/internal/adapters/persistence/models"
)

// UserRepository defines the identity store interface. The auth and
// permission services only ever talk to this interface, never to a
// concrete backend.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIdentifier resolves a username, email or phone number
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsConflict(ctx context.Context, username string, email, phone *string) (bool, error)
	// UpdateRolePermissions patches role and/or the permission override doc
	UpdateRolePermissions(ctx context.Context, id string, role, permissions *string) (*models.User, error)
	// SetResetTicket overwrites any prior live reset ticket (last writer wins)
	SetResetTicket(ctx context.Context, id string, ticket *string, expiry *time.Time) error
	// ConsumeResetTicket atomically verifies a live ticket, writes the new
	// password hash and clears the ticket. Returns the identity, or nil when
	// the ticket is unknown, expired or already consumed.
	ConsumeResetTicket(ctx context.Context, ticket, hashedPassword string) (*models.User, error)
	// ClearExpiredResetTickets removes tickets whose expiry has elapsed
	ClearExpiredResetTickets(ctx context.Context) (int64, error)
}

// SongRepository defines song storage
type SongRepository interface {
	Create(ctx context.Context, song *models.Song) error
	GetByID(ctx context.Context, id string) (*models.Song, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Song, error)
	ListAll(ctx context.Context) ([]*models.Song, error)
	FindByArtistAlbum(ctx context.Context, artistName, albumName string) ([]*models.Song, error)
	Update(ctx context.Context, song *models.Song) error
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	DetachArtist(ctx context.Context, artistID string) error
}

// PlaylistFilter narrows playlist listings
type PlaylistFilter struct {
	Status    string
	ViewerID  string // include this user's own playlists regardless of status
	AdminView bool   // see everything
}

// PlaylistRepository defines playlist storage
type PlaylistRepository interface {
	Create(ctx context.Context, playlist *models.Playlist, songIDs []string) error
	GetByID(ctx context.Context, id string) (*models.Playlist, error)
	List(ctx context.Context, filter PlaylistFilter) ([]*models.Playlist, error)
	Update(ctx context.Context, playlist *models.Playlist, songIDs []string) error
	Delete(ctx context.Context, id string) error
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*models.Playlist, error)
}

// ArtistRepository defines artist storage
type ArtistRepository interface {
	Create(ctx context.Context, artist *models.Artist) error
	GetByID(ctx context.Context, id string) (*models.Artist, error)
	GetByName(ctx context.Context, name string) (*models.Artist, error)
	Delete(ctx context.Context, id string) error
}

// AlbumRepository defines album storage
type AlbumRepository interface {
	Create(ctx context.Context, album *models.Album) error
	GetByNameAndArtist(ctx context.Context, name, artistID string) (*models.Album, error)
	GetByName(ctx context.Context, name string) (*models.Album, error)
	DetachArtist(ctx context.Context, artistID string) error
}

// VideoFilter narrows video listings
type VideoFilter struct {
	ArtistID string
	SongID   string
	Query    string
	Limit    int
}

// VideoRepository defines video storage
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id string) (*models.Video, error)
	List(ctx context.Context, filter VideoFilter) ([]*models.Video, error)
	Delete(ctx context.Context, id string) error
	DetachArtist(ctx context.Context, artistID string) error
}
