package covers

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	id3v2 "github.com/bogem/id3v2/v2"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/storage"
)

func newTestResolver(t *testing.T) (*Resolver, *storage.Client, string) {
	t.Helper()
	root := t.TempDir()
	store := storage.NewWithProvider(storage.NewLocalProvider(root), "test-bucket", "us-east-1")
	return NewResolver(store), store, root
}

func fixtureWithArt(t *testing.T, art []byte) string {
	t.Helper()

	tg := id3v2.NewEmptyTag()
	tg.SetVersion(3)
	tg.SetTitle("Fixture")
	if art != nil {
		tg.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/png",
			PictureType: id3v2.PTFrontCover,
			Picture:     art,
		})
	}

	path := filepath.Join(t.TempDir(), "fixture.mp3")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := tg.WriteTo(f); err != nil {
		t.Fatal(err)
	}
	return path
}

func pixel(t *testing.T, shade uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.Pix[0] = shade
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestResolveUploadsEmbeddedPicture(t *testing.T) {
	r, store, root := newTestResolver(t)
	path := fixtureWithArt(t, pixel(t, 0))

	url := r.Resolve(path, "covers/song-en-2021-x-1x1.png", "", false)
	if want := store.ObjectURL("covers/song-en-2021-x-1x1.png"); url != want {
		t.Errorf("url = %q, want %q", url, want)
	}
	if _, err := os.Stat(filepath.Join(root, "test-bucket", "covers", "song-en-2021-x-1x1.png")); err != nil {
		t.Errorf("object not stored: %v", err)
	}
}

func TestResolveSharedCoverNotClobbered(t *testing.T) {
	r, store, _ := newTestResolver(t)
	key := "albums/blue-en-2021-1x1.png"

	first := pixel(t, 0)
	if _, err := store.Upload(key, bytes.NewReader(first), "image/png"); err != nil {
		t.Fatal(err)
	}

	// A later save carrying different embedded art must reuse the stored
	// object, not replace it.
	path := fixtureWithArt(t, pixel(t, 255))
	url := r.Resolve(path, key, "", true)
	if want := store.ObjectURL(key); url != want {
		t.Errorf("url = %q, want %q", url, want)
	}

	objects, err := store.List("albums/")
	if err != nil || len(objects) != 1 {
		t.Fatalf("List = %v, %v", objects, err)
	}
}

func TestResolveOverwritesWithoutCheck(t *testing.T) {
	r, store, root := newTestResolver(t)
	key := "covers/song.png"

	if _, err := store.Upload(key, bytes.NewReader([]byte("old")), "image/png"); err != nil {
		t.Fatal(err)
	}

	art := pixel(t, 9)
	path := fixtureWithArt(t, art)
	if url := r.Resolve(path, key, "", false); url == "" {
		t.Fatal("resolve failed")
	}

	got, err := os.ReadFile(filepath.Join(root, "test-bucket", "covers", "song.png"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, art) {
		t.Errorf("object not overwritten")
	}
}

func TestResolveClientURLFallback(t *testing.T) {
	r, _, _ := newTestResolver(t)
	path := fixtureWithArt(t, nil)

	if got := r.Resolve(path, "", "https://img.example/c.jpg", false); got != "https://img.example/c.jpg" {
		t.Errorf("got %q, want client url", got)
	}
}

func TestResolveDegradesToEmpty(t *testing.T) {
	r, _, _ := newTestResolver(t)

	if got := r.Resolve("", "covers/x.png", "u", false); got != "" {
		t.Errorf("empty path: got %q", got)
	}
	if got := r.Resolve(fixtureWithArt(t, nil), "covers/x.png", "u", false); got != "" {
		t.Errorf("no embedded art: got %q", got)
	}

	garbage := filepath.Join(t.TempDir(), "bad.mp3")
	if err := os.WriteFile(garbage, []byte("junk"), 0644); err != nil {
		t.Fatal(err)
	}
	if got := r.Resolve(garbage, "covers/x.png", "u", false); got != "" {
		t.Errorf("unreadable tags: got %q", got)
	}
}
