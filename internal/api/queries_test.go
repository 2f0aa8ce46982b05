package api

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/catalog"
)

func seedSong(t *testing.T, srv *Server, title string, year int) uint {
	t.Helper()

	key := "songs/" + strings.ToLower(title) + ".mp3"
	if _, err := srv.store.Upload(key, strings.NewReader("audio"), "audio/mpeg"); err != nil {
		t.Fatal(err)
	}
	id, err := srv.catalog.SaveSong(catalog.SaveInput{
		Title:        title,
		AlbumName:    "Seed Album",
		ReleasedYear: year,
		Language:     "en",
		Duration:     120,
		Genres:       []string{"Pop"},
		Artists:      []catalog.ArtistInput{{Name: "Seed Artist"}},
		SongURL:      srv.store.ObjectURL(key),
		SongKey:      key,
	})
	if err != nil {
		t.Fatalf("seed %q: %v", title, err)
	}
	return id
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestGetAllSongs(t *testing.T) {
	srv := newTestServer(t, "")
	seedSong(t, srv, "First", 2020)
	seedSong(t, srv, "Second", 2021)

	w := get(srv, "/songs")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Count int `json:"count"`
		Songs []struct {
			Title string `json:"title"`
		} `json:"songs"`
	}
	decodeJSON(t, w, &resp)
	if resp.Count != 2 || len(resp.Songs) != 2 {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestGetSongByID(t *testing.T) {
	srv := newTestServer(t, "")
	id := seedSong(t, srv, "Solo", 2020)

	w := get(srv, "/song/"+itoa(id))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var song struct {
		Title   string `json:"title"`
		Artists []struct {
			Name string `json:"name"`
		} `json:"artists"`
	}
	decodeJSON(t, w, &song)
	if song.Title != "Solo" || len(song.Artists) != 1 {
		t.Errorf("song = %+v", song)
	}

	if w := get(srv, "/song/99999"); w.Code != http.StatusNotFound {
		t.Errorf("unknown id = %d", w.Code)
	}
	if w := get(srv, "/song/not-a-number"); w.Code != http.StatusBadRequest {
		t.Errorf("bad id = %d", w.Code)
	}
}

func TestGetSongsByAlbumAndArtist(t *testing.T) {
	srv := newTestServer(t, "")
	seedSong(t, srv, "One", 2020)
	seedSong(t, srv, "Two", 2021)

	w := get(srv, "/album/1")
	if w.Code != http.StatusOK {
		t.Fatalf("album status = %d: %s", w.Code, w.Body.String())
	}
	var albumResp struct {
		Album struct {
			Name string `json:"name"`
		} `json:"album"`
		Songs []struct{} `json:"songs"`
	}
	decodeJSON(t, w, &albumResp)
	if albumResp.Album.Name != "Seed Album" || len(albumResp.Songs) != 2 {
		t.Errorf("album resp = %+v", albumResp)
	}

	w = get(srv, "/artist/1")
	if w.Code != http.StatusOK {
		t.Fatalf("artist status = %d: %s", w.Code, w.Body.String())
	}
	var artistResp struct {
		Artist struct {
			Name string `json:"name"`
		} `json:"artist"`
		Songs []struct{} `json:"songs"`
	}
	decodeJSON(t, w, &artistResp)
	if artistResp.Artist.Name != "Seed Artist" || len(artistResp.Songs) != 2 {
		t.Errorf("artist resp = %+v", artistResp)
	}

	w = get(srv, "/artist/1/albums")
	if w.Code != http.StatusOK {
		t.Fatalf("artist albums status = %d: %s", w.Code, w.Body.String())
	}
	var albumsResp struct {
		Albums []struct {
			Name string `json:"name"`
		} `json:"albums"`
	}
	decodeJSON(t, w, &albumsResp)
	if len(albumsResp.Albums) != 1 || albumsResp.Albums[0].Name != "Seed Album" {
		t.Errorf("albums resp = %+v", albumsResp)
	}

	if w := get(srv, "/album/999"); w.Code != http.StatusNotFound {
		t.Errorf("unknown album = %d", w.Code)
	}
	if w := get(srv, "/artist/999"); w.Code != http.StatusNotFound {
		t.Errorf("unknown artist = %d", w.Code)
	}
}

func TestGetSongSummary(t *testing.T) {
	srv := newTestServer(t, "")
	id := seedSong(t, srv, "Summed", 2020)

	w := get(srv, "/song_summary/"+itoa(id))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var summary struct {
		PlayCount       int `json:"playCount"`
		DescriptionData struct {
			About string `json:"about"`
		} `json:"descriptionData"`
	}
	decodeJSON(t, w, &summary)
	if summary.PlayCount == 0 || summary.DescriptionData.About != "About Summed" {
		t.Errorf("summary = %+v", summary)
	}

	if w := get(srv, "/song_summary/999"); w.Code != http.StatusNotFound {
		t.Errorf("unknown summary = %d", w.Code)
	}
}

func TestGetDownloadLink(t *testing.T) {
	srv := newTestServer(t, "")
	id := seedSong(t, srv, "Fetchable", 2020)

	w := get(srv, "/download/"+itoa(id))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		DownloadURL string `json:"downloadUrl"`
	}
	decodeJSON(t, w, &resp)
	if !strings.HasPrefix(resp.DownloadURL, "file://") {
		t.Errorf("downloadUrl = %q", resp.DownloadURL)
	}

	if w := get(srv, "/download/999"); w.Code != http.StatusNotFound {
		t.Errorf("unknown song = %d", w.Code)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
