package api

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/audio"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/catalog"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/metadata"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/models"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/staging"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/storage"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/utils"
)

// PreviewUpload stages the uploaded audio, conditionally compresses it, and
// returns the extracted metadata. Nothing is persisted; the client gets a
// tempPath token to echo back on save.
func (s *Server) PreviewUpload(c *gin.Context) {
	// 1. Get File
	fileHeader, err := c.FormFile("song")
	if err != nil {
		previews.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// 2. Stage it on disk under the sanitized name
	file, err := fileHeader.Open()
	if err != nil {
		previews.WithLabelValues("failure").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to open file"})
		return
	}
	defer file.Close()

	token, size, err := s.staged.Stage(file, utils.SongFileKey(fileHeader.Filename))
	if err != nil {
		previews.WithLabelValues("failure").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server storage error"})
		return
	}

	// 3. Compression is best-effort: any failure keeps the original bytes
	token, size = s.maybeCompress(token, size)

	path, err := s.staged.Path(token)
	if err != nil {
		previews.WithLabelValues("failure").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract metadata"})
		return
	}

	// 4. Extract tags; defaults cover anything unreadable
	preview := metadata.Extract(path, fileHeader.Filename)
	preview.FileSize = size
	preview.TempPath = token

	previews.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, preview)
}

// maybeCompress re-encodes oversized audio and swaps the staged file for
// the smaller one. The threshold is fixed policy; everything below it, and
// every compression failure, passes the original through unchanged.
func (s *Server) maybeCompress(token string, size int64) (string, int64) {
	if size < audio.CompressionThreshold || !audio.IsSupportedFormat(token) {
		return token, size
	}

	path, err := s.staged.Path(token)
	if err != nil {
		return token, size
	}

	outPath, err := audio.Compress(path, audio.DefaultTargetBitrate)
	if err != nil {
		log.Printf("Warning: compression failed, keeping original: %v", err)
		return token, size
	}

	info, err := os.Stat(outPath)
	if err != nil {
		os.Remove(outPath)
		return token, size
	}

	newToken, err := s.staged.Rename(token, outPath)
	if err != nil {
		os.Remove(outPath)
		return token, size
	}
	log.Printf("Compressed %s: %d -> %d bytes", staging.BaseName(token), size, info.Size())
	return newToken, info.Size()
}

// SaveSong is the commit phase: duplicate pre-check, audio upload keyed by
// the staged file name, cover resolution, then the catalog upsert.
func (s *Server) SaveSong(c *gin.Context) {
	timer := prometheus.NewTimer(saveDuration)
	defer timer.ObserveDuration()

	// 1. Resolve the staged file (or accept a fresh upload)
	tempPath := c.PostForm("tempPath")
	if tempPath == "" {
		fileHeader, err := c.FormFile("song")
		if err != nil {
			saves.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
			return
		}
		file, err := fileHeader.Open()
		if err != nil {
			saves.WithLabelValues("failure").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "File open error"})
			return
		}
		tempPath, _, err = s.staged.Stage(file, utils.SongFileKey(fileHeader.Filename))
		file.Close()
		if err != nil {
			saves.WithLabelValues("failure").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server storage error"})
			return
		}
	}
	// Staged bytes are request-scoped; drop them on every exit path.
	defer s.staged.Remove(tempPath)

	filePath, err := s.staged.Path(tempPath)
	if err != nil {
		saves.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "Missing file path"})
		return
	}

	// 2. Re-validate required fields
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		saves.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: title"})
		return
	}
	releasedYear, _ := strconv.Atoi(c.PostForm("releasedYear"))
	language := c.PostForm("language")
	duration, _ := strconv.ParseFloat(c.PostForm("duration"), 64)

	songKey := storage.SongPrefix + staging.BaseName(tempPath)

	// 3. Duplicate pre-check — fail before any storage side effect
	existing, err := s.catalog.FindSong(title, releasedYear, language)
	if err != nil {
		saves.WithLabelValues("failure").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save song"})
		return
	}
	if existing != nil {
		saves.WithLabelValues("duplicate").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": "Song already exists in DB", "songId": existing.ID})
		return
	}

	// 4. Upload the audio, unless the key already holds an object
	songURL, err := s.uploadSong(filePath, songKey)
	if err != nil {
		saves.WithLabelValues("failure").Inc()
		log.Printf("Song upload failed for %s: %v", songKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save song"})
		return
	}

	// 5. Covers: song cover always overwrites, album cover dedups on exists
	coverURL := s.covers.Resolve(filePath, c.PostForm("coverImageKey"), c.PostForm("clientCoverImageUrl"), false)
	albumCoverURL := s.covers.Resolve(filePath, c.PostForm("albumCoverKey"), c.PostForm("clientAlbumCoverUrl"), true)

	info, _ := os.Stat(filePath)
	var fileSize int64
	if info != nil {
		fileSize = info.Size()
	}

	in := catalog.SaveInput{
		Title:        title,
		AlbumName:    c.PostForm("album"),
		ReleasedYear: releasedYear,
		Language:     language,
		Type:         c.PostForm("type"),
		Duration:     duration,
		Genres:       formGenres(c),
		Artists:      parseSingers(c),
		Lyrics:       parseLyrics(c.PostForm("lyricsData")),
		SongURL:      songURL,
		CoverURL:     coverURL,
		AlbumCover:   albumCoverURL,
		SongKey:      songKey,
		FileSize:     fileSize,
		Copyright:    c.PostForm("copyright"),
	}

	// 6. Catalog upsert
	songID, err := s.catalog.SaveSong(in)
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateSong) {
			// Lost the race after the pre-check; the winner's id is the answer.
			saves.WithLabelValues("duplicate").Inc()
			if winner, ferr := s.catalog.FindSong(title, releasedYear, language); ferr == nil && winner != nil {
				c.JSON(http.StatusConflict, gin.H{"error": "Song already exists in DB", "songId": winner.ID})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": "Song already exists in DB"})
			return
		}
		saves.WithLabelValues("failure").Inc()
		// Uploaded objects are not rolled back here; the sweeper reconciles
		// keys no catalog row references.
		log.Printf("Save failed after upload, objects may be orphaned: %s %s %s: %v",
			songKey, c.PostForm("coverImageKey"), c.PostForm("albumCoverKey"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save song"})
		return
	}

	saves.WithLabelValues("success").Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "Song Saved Successfully", "songId": songID})
}

func (s *Server) uploadSong(filePath, songKey string) (string, error) {
	exists, err := s.store.Exists(songKey)
	if err != nil {
		return "", err
	}
	if exists {
		// Same key, same bytes policy: reuse the object and its URL.
		return s.store.ObjectURL(songKey), nil
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(songKey))
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return s.store.Upload(songKey, f, contentType)
}

// parseSingers accepts singersInfo as a JSON array, falling back to the
// plain artists[] form field. Malformed JSON degrades to no artists.
func parseSingers(c *gin.Context) []catalog.ArtistInput {
	if raw := c.PostForm("singersInfo"); raw != "" {
		var artists []catalog.ArtistInput
		if err := json.Unmarshal([]byte(raw), &artists); err == nil {
			return artists
		}
		return nil
	}

	names := c.PostFormArray("artists")
	artists := make([]catalog.ArtistInput, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			artists = append(artists, catalog.ArtistInput{Name: name})
		}
	}
	return artists
}

func parseLyrics(raw string) models.LyricsData {
	var lyrics models.LyricsData
	if raw == "" {
		return lyrics
	}
	if err := json.Unmarshal([]byte(raw), &lyrics); err != nil {
		return models.LyricsData{}
	}
	return lyrics
}

func formGenres(c *gin.Context) []string {
	genres := c.PostFormArray("genre")
	if len(genres) == 1 && strings.Contains(genres[0], ",") {
		genres = strings.Split(genres[0], ",")
	}
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}
