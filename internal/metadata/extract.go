package metadata

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/utils"
)

// Extract parses the embedded tags of the audio file at path into a Preview.
// originalName is the client's file name; it feeds the title fallback and
// the derived type. Corrupt or unsupported input yields the all-fallback
// preview, never an error.
func Extract(path, originalName string) Preview {
	p := fallbackPreview(originalName)

	f, err := os.Open(path)
	if err != nil {
		log.Printf("Warning: cannot open %s for extraction: %v", path, err)
		return p
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		log.Printf("Warning: tag parse failed for %s: %v", originalName, err)
		p.Duration = probeDuration(path)
		return p
	}

	if t := strings.TrimSpace(m.Title()); t != "" {
		p.Title = t
	}
	p.Album = strings.TrimSpace(m.Album())
	p.Artists = splitArtists(m.Artist())
	if y := m.Year(); y != 0 {
		p.ReleasedYear = &y
	}
	if g := strings.TrimSpace(m.Genre()); g != "" {
		p.Genre = []string{g}
	}
	p.Language = rawText(m, "TLAN", "LANGUAGE", "language")
	p.Duration = probeDuration(path)

	if pic := m.Picture(); pic != nil {
		p.CoverImageKey, p.AlbumCoverKey = coverKeys(p, pic)
	}

	return p
}

func fallbackPreview(originalName string) Preview {
	return Preview{
		Title:   utils.StripExt(utils.SongFileKey(originalName)),
		Artists: []string{},
		Genre:   []string{},
		Type:    fileType(originalName),
	}
}

func fileType(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// splitArtists breaks a joined artist tag ("A; B", "A / B") into names.
func splitArtists(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '/'
	})
	artists := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			artists = append(artists, name)
		}
	}
	return artists
}

// rawText digs a text frame out of the raw tag map, trying ID3 and Vorbis
// key variants the way different containers spell them.
func rawText(m tag.Metadata, keys ...string) string {
	raw := m.Raw()
	for _, k := range keys {
		for _, variant := range []string{k, strings.ToUpper(k), strings.ToLower(k)} {
			if v, ok := raw[variant]; ok {
				if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	return ""
}

// coverKeys derives the two storage keys for an embedded picture. The song
// cover key carries a date+random suffix so every upload is unique; the
// album cover key omits it so repeated uploads for one album converge on
// the same object.
func coverKeys(p Preview, pic *tag.Picture) (coverKey, albumKey string) {
	width, height := imageDimensions(pic.Data)
	ext := imageExt(pic)

	sanTitle := utils.SanitizeName(p.Title)
	sanAlbum := utils.SanitizeName(p.Album)

	coverKey = fmt.Sprintf("covers/%s-%s-%d-%s-%dx%d.%s",
		sanTitle, p.Language, p.Year(), uniqueStamp(), width, height, ext)
	albumKey = fmt.Sprintf("albums/%s-%s-%d-%dx%d.%s",
		sanAlbum, p.Language, p.Year(), width, height, ext)
	return coverKey, albumKey
}

func imageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		log.Printf("Warning: cannot decode cover image dimensions: %v", err)
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

func imageExt(pic *tag.Picture) string {
	if pic.Ext != "" {
		return strings.TrimPrefix(pic.Ext, ".")
	}
	if parts := strings.SplitN(pic.MIMEType, "/", 2); len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}
	return "jpg"
}

// uniqueStamp is YYYYMMDD plus a 6-digit random number.
func uniqueStamp() string {
	return fmt.Sprintf("%s%06d", time.Now().Format("20060102"), 100000+rand.Intn(900000))
}
