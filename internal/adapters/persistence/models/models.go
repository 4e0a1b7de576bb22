package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Playlist statuses
const (
	PlaylistPrivate = "private"
	PlaylistPending = "pending"
	PlaylistPublic  = "public"
)

// DefaultCover is used when no cover image was uploaded
const DefaultCover = "/images/default_cover.png"

// User represents users table
type User struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	Username         string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email            *string        `gorm:"uniqueIndex;size:100" json:"email"`
	Phone            *string        `gorm:"uniqueIndex;size:20" json:"phone"`
	Password         string         `gorm:"size:255;not null" json:"-"`
	Role             string         `gorm:"size:20;default:'user'" json:"role"`
	Permissions      string         `gorm:"type:text" json:"permissions"`
	ResetToken       *string        `gorm:"size:36;index" json:"-"`
	ResetTokenExpiry *time.Time     `json:"-"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// HasLiveResetTicket reports whether the user carries an unexpired reset ticket
func (u *User) HasLiveResetTicket() bool {
	return u.ResetToken != nil && u.ResetTokenExpiry != nil && time.Now().Before(*u.ResetTokenExpiry)
}

// UserResponse DTO
type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Role        string    `json:"role"`
	Permissions string    `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		Role:        u.Role,
		Permissions: u.Permissions,
		CreatedAt:   u.CreatedAt,
	}
}

// Artist represents artists table
type Artist struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:200;not null" json:"name"`
	Index     string    `gorm:"size:1;index" json:"index"` // A-Z or '#'
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Artist) TableName() string {
	return "artists"
}

// Album represents albums table
type Album struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Name       string    `gorm:"size:200;not null;index" json:"name"`
	ArtistID   *string   `gorm:"size:36;index" json:"artist_id"`
	ArtistName string    `gorm:"size:200" json:"artist_name"`
	Cover      string    `gorm:"size:255" json:"cover"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Artist *Artist `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
}

func (Album) TableName() string {
	return "albums"
}

// Song represents songs table. Files is a JSON document mapping media
// kinds to storage paths: audio/image are strings, lrcs/sheets are
// arrays, category is a plain label.
type Song struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:300;not null;index" json:"title"`
	ArtistID    *string   `gorm:"size:36;index" json:"artist_id"`
	ArtistName  string    `gorm:"size:200;index" json:"artist_name"`
	AlbumID     *string   `gorm:"size:36;index" json:"album_id"`
	AlbumName   string    `gorm:"size:200;index" json:"album_name"`
	Files       string    `gorm:"type:text" json:"files"`
	Genre       string    `gorm:"size:100" json:"genre"`
	Language    string    `gorm:"size:50" json:"language"`
	ReleaseDate string    `gorm:"size:20" json:"release_date"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Artist    *Artist    `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	Album     *Album     `gorm:"foreignKey:AlbumID" json:"album,omitempty"`
	Playlists []Playlist `gorm:"many2many:playlist_songs" json:"-"`
}

func (Song) TableName() string {
	return "songs"
}

// FilesDoc decodes the files document. Unparsable content comes back as
// an empty document, never an error.
func (s *Song) FilesDoc() map[string]interface{} {
	doc := map[string]interface{}{}
	if s.Files == "" {
		return doc
	}
	if err := json.Unmarshal([]byte(s.Files), &doc); err != nil {
		return map[string]interface{}{}
	}
	return doc
}

// SetFilesDoc encodes doc back into the files column
func (s *Song) SetFilesDoc(doc map[string]interface{}) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return
	}
	s.Files = string(raw)
}

// SongResponse DTO: same shape as Song but with files decoded
type SongResponse struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	ArtistID    *string                `json:"artist_id"`
	ArtistName  string                 `json:"artist_name"`
	AlbumID     *string                `json:"album_id"`
	AlbumName   string                 `json:"album_name"`
	Files       map[string]interface{} `json:"files"`
	Genre       string                 `json:"genre,omitempty"`
	Language    string                 `json:"language,omitempty"`
	ReleaseDate string                 `json:"release_date,omitempty"`
	Description string                 `json:"description,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	Artist      *Artist                `json:"artist,omitempty"`
	Album       *Album                 `json:"album,omitempty"`
}

func (s *Song) ToResponse() *SongResponse {
	return &SongResponse{
		ID:          s.ID,
		Title:       s.Title,
		ArtistID:    s.ArtistID,
		ArtistName:  s.ArtistName,
		AlbumID:     s.AlbumID,
		AlbumName:   s.AlbumName,
		Files:       s.FilesDoc(),
		Genre:       s.Genre,
		Language:    s.Language,
		ReleaseDate: s.ReleaseDate,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		Artist:      s.Artist,
		Album:       s.Album,
	}
}

// Playlist represents playlists table
type Playlist struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Tags        string    `gorm:"size:255" json:"tags"`
	Cover       string    `gorm:"size:255" json:"cover"`
	CreatorID   string    `gorm:"size:36;not null;index" json:"creator_id"`
	Status      string    `gorm:"size:20;not null;default:'private';index" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Creator *User  `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Songs   []Song `gorm:"many2many:playlist_songs" json:"songs"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// Video represents videos table
type Video struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Code       string    `gorm:"uniqueIndex;size:36" json:"uuid"`
	Title      string    `gorm:"size:300;not null" json:"title"`
	ArtistID   *string   `gorm:"size:36;index" json:"artist_id"`
	ArtistName string    `gorm:"size:200" json:"artist_name"`
	SongID     *string   `gorm:"size:36;index" json:"song_id"`
	Src        string    `gorm:"size:255;not null" json:"src"`
	Cover      string    `gorm:"size:255" json:"cover"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Artist *Artist `gorm:"foreignKey:ArtistID" json:"artist,omitempty"`
	Song   *Song   `gorm:"foreignKey:SongID" json:"song,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Artist{},
		&Album{},
		&Song{},
		&Playlist{},
		&Video{},
	)
}
