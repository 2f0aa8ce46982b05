package api

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/models"
)

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (s *Server) GetAllSongs(c *gin.Context) {
	var songs []models.Song
	err := s.db.DB.Preload("Album").Preload("Artists").
		Order("created_at desc").Find(&songs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(songs), "songs": songs})
}

func (s *Server) GetSongByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var song models.Song
	err := s.db.DB.Preload("Album").Preload("Artists").First(&song, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song Not Found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, song)
}

func (s *Server) GetSongsByAlbum(c *gin.Context) {
	id, ok := paramID(c, "albumId")
	if !ok {
		return
	}

	var album models.Album
	err := s.db.DB.Preload("Songs.Album").Preload("Songs.Artists").First(&album, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Album Not Found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"album": gin.H{
			"id":            album.ID,
			"name":          album.Name,
			"releaseYear":   album.ReleaseYear,
			"albumCoverUrl": album.AlbumCoverURL,
		},
		"songs": album.Songs,
	})
}

func (s *Server) GetSongsByArtist(c *gin.Context) {
	id, ok := paramID(c, "artistId")
	if !ok {
		return
	}

	var artist models.Artist
	err := s.db.DB.Preload("Songs.Album").Preload("Songs.Artists").First(&artist, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist Not Found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artist": gin.H{
			"id":             artist.ID,
			"name":           artist.Name,
			"bio":            artist.Bio,
			"artistCoverUrl": artist.ArtistCoverURL,
		},
		"songs": artist.Songs,
	})
}

func (s *Server) GetAlbumsByArtist(c *gin.Context) {
	id, ok := paramID(c, "artistId")
	if !ok {
		return
	}

	var artist models.Artist
	err := s.db.DB.Preload("Albums").First(&artist, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artist Not Found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artist": gin.H{"id": artist.ID, "name": artist.Name},
		"albums": artist.Albums,
	})
}

func (s *Server) GetSongSummaryByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var summary models.SongSummary
	err := s.db.DB.Preload("Song.Album").Preload("Song.Artists").First(&summary, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song Summary Not Found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetDownloadLink hands out a time-limited signed URL with an attachment
// disposition, so the browser downloads instead of streaming.
func (s *Server) GetDownloadLink(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var song models.Song
	err := s.db.DB.First(&song, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && song.SongURL == "") {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found or no url available"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	fileName := path.Base(song.Key)
	downloadURL, err := s.store.SignedURL(song.Key,
		fmt.Sprintf("attachment; filename=%q", fileName))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"downloadUrl": downloadURL})
}

func (s *Server) DeleteSong(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	song, err := s.catalog.DeleteSong(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete song"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Song deleted successfully", "song": song.Title})
}
