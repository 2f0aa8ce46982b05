package models

import (
	"time"
)

// Song is the aggregate root of the catalog. Deleting a song cascades to
// its summary and, when they lose their last reference, its artists/album.
type Song struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// (Title, ReleasedYear, Language) is the natural key. A second upload
	// with the same triple is a duplicate, never a silent merge.
	Title        string `gorm:"not null;uniqueIndex:idx_songs_title_year_lang" json:"title"`
	ReleasedYear int    `gorm:"uniqueIndex:idx_songs_title_year_lang" json:"releasedYear"`
	Language     string `gorm:"size:50;uniqueIndex:idx_songs_title_year_lang" json:"language"`

	Type          string  `gorm:"size:10" json:"type"` // file extension: mp3, flac, ...
	Duration      float64 `json:"duration"`            // seconds
	SongURL       string  `gorm:"uniqueIndex;not null" json:"songUrl"`
	CoverImageURL string  `json:"coverImageUrl"`
	Key           string  `json:"key"` // storage key (songs/...)

	AlbumID *uint    `gorm:"index" json:"albumId,omitempty"`
	Album   *Album   `json:"album,omitempty"`
	Artists []Artist `gorm:"many2many:song_artists;" json:"artists,omitempty"`
	Genres  []Genre  `gorm:"many2many:genre_songs;" json:"genres,omitempty"`
}

// Artist is shared across songs and looked up by unique name.
type Artist struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name           string `gorm:"uniqueIndex;not null" json:"name"`
	Bio            string `json:"bio"`
	ArtistCoverURL string `json:"artistCoverUrl"`

	Songs  []Song  `gorm:"many2many:song_artists;" json:"songs,omitempty"`
	Albums []Album `gorm:"many2many:artist_albums;" json:"albums,omitempty"`
}

// Album is shared across songs and looked up by unique name.
type Album struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name          string `gorm:"uniqueIndex;not null" json:"name"`
	ReleaseYear   int    `json:"releaseYear"`
	AlbumCoverURL string `json:"albumCoverUrl"`

	Songs []Song `gorm:"foreignKey:AlbumID" json:"songs,omitempty"`
}

// Genre groups songs by a free-form genre string.
type Genre struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name  string `gorm:"uniqueIndex;not null" json:"name"`
	Songs []Song `gorm:"many2many:genre_songs;" json:"songs,omitempty"`
}
