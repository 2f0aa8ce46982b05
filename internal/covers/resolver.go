package covers

import (
	"bytes"
	"log"
	"os"

	"github.com/dhowden/tag"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/storage"
)

// Resolver derives a public cover-image URL for a song or album.
type Resolver struct {
	store *storage.Client
}

func NewResolver(store *storage.Client) *Resolver {
	return &Resolver{store: store}
}

// Resolve uploads the file's embedded picture under key and returns the
// canonical URL. With checkExists set, an already-present key short-circuits
// the upload — album covers are shared across songs and must not be
// clobbered by a later upload with a different embedded image. Without a
// derived key a client-supplied URL is trusted verbatim. Failures degrade
// to "" and never block a save.
func (r *Resolver) Resolve(path, key, clientURL string, checkExists bool) string {
	if path == "" {
		return ""
	}

	if key == "" {
		return clientURL
	}

	pic, err := embeddedPicture(path)
	if err != nil {
		log.Printf("Warning: cover extraction failed for %s: %v", path, err)
		return ""
	}
	if pic == nil {
		return ""
	}

	if checkExists {
		exists, err := r.store.Exists(key)
		if err != nil {
			// Unknown presence: uploading could overwrite a shared cover,
			// so skip rather than guess.
			log.Printf("Warning: existence check failed for %s: %v", key, err)
			return ""
		}
		if exists {
			return r.store.ObjectURL(key)
		}
	}

	if _, err := r.store.Upload(key, bytes.NewReader(pic.Data), pic.MIMEType); err != nil {
		log.Printf("Warning: cover upload failed for %s: %v", key, err)
		return ""
	}
	return r.store.ObjectURL(key)
}

func embeddedPicture(path string) (*tag.Picture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}
	return m.Picture(), nil
}
