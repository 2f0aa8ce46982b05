package catalog

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"gorm.io/gorm"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/models"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/storage"
)

// ErrDuplicateSong means a song with the same (title, releasedYear,
// language) triple already exists. The database unique index is the sole
// arbiter, so concurrent saves of the same triple produce exactly one row.
var ErrDuplicateSong = errors.New("song already exists")

// Service is the catalog upsert engine. It resolves or creates the
// normalized entity graph around a new song. The sub-writes are sequential,
// not wrapped in one transaction; the song row is created before its
// back-links, and its unique index stops duplicates.
type Service struct {
	db    *gorm.DB
	store *storage.Client

	playCountMin       int
	playCountMax       int
	artistDisplayLimit int
}

func New(db *gorm.DB, store *storage.Client, playMin, playMax, artistLimit int) *Service {
	if playMax < playMin {
		playMin, playMax = playMax, playMin
	}
	return &Service{
		db:                 db,
		store:              store,
		playCountMin:       playMin,
		playCountMax:       playMax,
		artistDisplayLimit: artistLimit,
	}
}

// ArtistInput is one entry of the client's singersInfo payload.
type ArtistInput struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	ImageURL string `json:"imageUrl"`
}

// SaveInput carries everything the upsert engine needs for one song.
type SaveInput struct {
	Title        string
	AlbumName    string
	ReleasedYear int
	Language     string
	Type         string
	Duration     float64
	Genres       []string
	Artists      []ArtistInput
	Lyrics       models.LyricsData
	SongURL      string
	CoverURL     string
	AlbumCover   string
	SongKey      string
	FileSize     int64
	Copyright    string
}

// FindSong looks up a song by its natural key. Returns (nil, nil) when
// absent.
func (s *Service) FindSong(title string, releasedYear int, language string) (*models.Song, error) {
	var song models.Song
	err := s.db.Where("title = ? AND released_year = ? AND language = ?",
		title, releasedYear, language).First(&song).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &song, nil
}

// SaveSong persists the song and its surrounding graph in dependency order:
// artists, album, song row, back-links, genres, summary. Returns the new
// song id, or ErrDuplicateSong when the natural key is already taken.
func (s *Service) SaveSong(in SaveInput) (uint, error) {
	// 1. Artists (find-or-create, additive backfill)
	artists := make([]models.Artist, 0, len(in.Artists))
	for _, a := range in.Artists {
		if strings.TrimSpace(a.Name) == "" {
			continue
		}
		artist, err := s.findOrCreateArtist(a)
		if err != nil {
			return 0, fmt.Errorf("resolve artist %q: %w", a.Name, err)
		}
		artists = append(artists, *artist)
	}

	// 2. Album (find-or-create; a find never mutates the stored row)
	var album *models.Album
	if in.AlbumName != "" {
		var err error
		album, err = s.findOrCreateAlbum(in.AlbumName, in.ReleasedYear, in.AlbumCover)
		if err != nil {
			return 0, fmt.Errorf("resolve album %q: %w", in.AlbumName, err)
		}
	}

	// 3. Song row — the unique triple index arbitrates here
	song := models.Song{
		Title:         in.Title,
		ReleasedYear:  in.ReleasedYear,
		Language:      in.Language,
		Type:          in.Type,
		Duration:      in.Duration,
		SongURL:       in.SongURL,
		CoverImageURL: in.CoverURL,
		Key:           in.SongKey,
	}
	if album != nil {
		song.AlbumID = &album.ID
	}
	if err := s.db.Create(&song).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateSong
		}
		return 0, fmt.Errorf("create song: %w", err)
	}

	// 4. Back-links (join tables give set semantics)
	songRef := models.Song{ID: song.ID}
	for i := range artists {
		if err := s.db.Model(&artists[i]).Association("Songs").Append(&songRef); err != nil {
			return 0, fmt.Errorf("link artist %q: %w", artists[i].Name, err)
		}
		if album != nil {
			if err := s.db.Model(&artists[i]).Association("Albums").Append(&models.Album{ID: album.ID}); err != nil {
				return 0, fmt.Errorf("link artist %q to album: %w", artists[i].Name, err)
			}
		}
	}

	// 5. Genres
	for _, name := range in.Genres {
		if strings.TrimSpace(name) == "" {
			continue
		}
		genre, err := s.findOrCreateGenre(name)
		if err != nil {
			return 0, fmt.Errorf("resolve genre %q: %w", name, err)
		}
		if err := s.db.Model(genre).Association("Songs").Append(&songRef); err != nil {
			return 0, fmt.Errorf("link genre %q: %w", name, err)
		}
	}

	// 6-7. Summary with generated description and seeded play count
	names := make([]string, len(in.Artists))
	for i, a := range in.Artists {
		names[i] = a.Name
	}
	summary := models.SongSummary{
		SongID:          song.ID,
		FileSize:        in.FileSize,
		PlayCount:       s.seedPlayCount(),
		Genres:          in.Genres,
		Copyright:       in.Copyright,
		LyricsData:      in.Lyrics,
		DescriptionData: BuildDescription(in.Title, in.Language, names, in.AlbumName, in.ReleasedYear, in.Duration, s.artistDisplayLimit),
		Key:             in.SongKey,
	}
	if err := s.db.Create(&summary).Error; err != nil {
		return 0, fmt.Errorf("create summary: %w", err)
	}

	return song.ID, nil
}

// seedPlayCount draws uniformly from the configured band so fresh entries
// look organically popular. Display cosmetics, not a correctness value.
func (s *Service) seedPlayCount() int {
	return s.playCountMin + rand.Intn(s.playCountMax-s.playCountMin+1)
}

// findOrCreateArtist creates optimistically and falls back to a find when
// the unique name index reports a concurrent winner. Bio and cover are only
// backfilled into empty fields; a stored value is never overwritten.
func (s *Service) findOrCreateArtist(in ArtistInput) (*models.Artist, error) {
	artist := models.Artist{Name: in.Name, Bio: in.Bio, ArtistCoverURL: in.ImageURL}
	err := s.db.Create(&artist).Error
	if err == nil {
		return &artist, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	var existing models.Artist
	if err := s.db.Where("name = ?", in.Name).First(&existing).Error; err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if existing.Bio == "" && in.Bio != "" {
		updates["bio"] = in.Bio
		existing.Bio = in.Bio
	}
	if existing.ArtistCoverURL == "" && in.ImageURL != "" {
		updates["artist_cover_url"] = in.ImageURL
		existing.ArtistCoverURL = in.ImageURL
	}
	if len(updates) > 0 {
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &existing, nil
}

func (s *Service) findOrCreateAlbum(name string, releaseYear int, coverURL string) (*models.Album, error) {
	album := models.Album{Name: name, ReleaseYear: releaseYear, AlbumCoverURL: coverURL}
	err := s.db.Create(&album).Error
	if err == nil {
		return &album, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	var existing models.Album
	if err := s.db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *Service) findOrCreateGenre(name string) (*models.Genre, error) {
	genre := models.Genre{Name: name}
	err := s.db.Create(&genre).Error
	if err == nil {
		return &genre, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	var existing models.Genre
	if err := s.db.Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// DeleteSong removes a song and cascades: its summary always; artists and
// the album only when this was their last song; storage objects for the
// song audio, its cover, and a dying album's cover. Genres emptied by the
// unlink are pruned. Returns the deleted song for the response payload.
func (s *Service) DeleteSong(id uint) (*models.Song, error) {
	var song models.Song
	if err := s.db.Preload("Artists").Preload("Album").Preload("Genres").First(&song, id).Error; err != nil {
		return nil, err
	}

	// Storage objects first; a failed delete is logged, not fatal, so the
	// catalog row never outlives a half-done cascade.
	if song.Key != "" {
		if err := s.store.Delete(song.Key); err != nil {
			log.Printf("Warning: delete %s: %v", song.Key, err)
		}
	}
	if song.CoverImageURL != "" {
		coverKey := storage.CoverPrefix + lastSegment(song.CoverImageURL)
		if err := s.store.Delete(coverKey); err != nil {
			log.Printf("Warning: delete %s: %v", coverKey, err)
		}
	}

	// Summary shares the song's id and lifecycle.
	if err := s.db.Delete(&models.SongSummary{SongID: song.ID}).Error; err != nil {
		return nil, err
	}

	// Unlink join rows, then drop the row itself.
	if err := s.db.Model(&song).Association("Artists").Clear(); err != nil {
		return nil, err
	}
	if err := s.db.Model(&song).Association("Genres").Clear(); err != nil {
		return nil, err
	}
	if err := s.db.Delete(&models.Song{}, song.ID).Error; err != nil {
		return nil, err
	}

	// Artists: delete when this was their last song, otherwise they stay.
	for i := range song.Artists {
		artist := &song.Artists[i]
		if s.db.Model(artist).Association("Songs").Count() > 0 {
			continue
		}
		if err := s.db.Model(artist).Association("Albums").Clear(); err != nil {
			return nil, err
		}
		if err := s.db.Delete(&models.Artist{}, artist.ID).Error; err != nil {
			return nil, err
		}
	}

	// Album: same reference-counted rule, plus its stored cover.
	if song.Album != nil {
		var remaining int64
		if err := s.db.Model(&models.Song{}).Where("album_id = ?", song.Album.ID).Count(&remaining).Error; err != nil {
			return nil, err
		}
		if remaining == 0 {
			if song.Album.AlbumCoverURL != "" {
				albumKey := storage.AlbumPrefix + lastSegment(song.Album.AlbumCoverURL)
				if err := s.store.Delete(albumKey); err != nil {
					log.Printf("Warning: delete %s: %v", albumKey, err)
				}
			}
			if err := s.db.Delete(&models.Album{}, song.Album.ID).Error; err != nil {
				return nil, err
			}
		}
	}

	// Genres with no songs left are pruned.
	for i := range song.Genres {
		genre := &song.Genres[i]
		if s.db.Model(genre).Association("Songs").Count() > 0 {
			continue
		}
		if err := s.db.Delete(&models.Genre{}, genre.ID).Error; err != nil {
			return nil, err
		}
	}

	return &song, nil
}

func lastSegment(url string) string {
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}
