package models

import (
	"time"

	"gorm.io/gorm"
)

// LyricsData holds the structured lyric payload stored on a summary.
type LyricsData struct {
	HasLyrics bool     `json:"hasLyrics"`
	Lyrics    []string `json:"lyrics,omitempty"`
	Writers   string   `json:"writers,omitempty"`
	PoweredBy string   `json:"poweredBy,omitempty"`
}

// DescriptionData is the generated display text for a song.
type DescriptionData struct {
	About       string `json:"about"`
	Description string `json:"description"`
}

// SongSummary is the 1:1 denormalized companion of a Song. It shares the
// song's id and lifecycle.
type SongSummary struct {
	SongID    uint      `gorm:"primarykey" json:"songId"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Song *Song `gorm:"foreignKey:SongID" json:"song,omitempty"`

	FileSize  int64    `json:"fileSize"`
	PlayCount int      `json:"playCount"`
	Genres    []string `gorm:"serializer:json" json:"genre"`
	Copyright string   `json:"copyright"`

	LyricsData      LyricsData      `gorm:"serializer:json" json:"lyricsData"`
	DescriptionData DescriptionData `gorm:"serializer:json" json:"descriptionData"`

	Key string `json:"key"` // original storage key of the audio object
}

// BeforeSave drops writer/attribution fields when the song has no lyrics.
func (s *SongSummary) BeforeSave(tx *gorm.DB) error {
	if !s.LyricsData.HasLyrics {
		s.LyricsData.Lyrics = nil
		s.LyricsData.Writers = ""
		s.LyricsData.PoweredBy = ""
	}
	return nil
}
