package catalog

import (
	"fmt"
	"strings"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/models"
)

// FormatDuration renders seconds as zero-padded MM:SS, flooring fractions.
func FormatDuration(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// FormatArtists joins artist names for display. Small lists read as natural
// language ("A and B", "A, B and C"); past limit the tail collapses into
// ", and others".
func FormatArtists(names []string, limit int) string {
	switch {
	case len(names) == 0:
		return ""
	case len(names) == 1:
		return names[0]
	case len(names) == 2:
		return names[0] + " and " + names[1]
	case len(names) <= limit:
		return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
	}
	return strings.Join(names[:limit-1], ", ") + ", and others"
}

// BuildDescription generates the summary display text for a song.
func BuildDescription(title, language string, artistNames []string, albumName string, year int, duration float64, artistLimit int) models.DescriptionData {
	singers := FormatArtists(artistNames, artistLimit)
	return models.DescriptionData{
		About: fmt.Sprintf("About %s", title),
		Description: fmt.Sprintf(
			"Listen to %s online. %s is a %s language song and is sung by %s. "+
				"%s, from the album %s, was released in the year %d. "+
				"The duration of the song is %s.",
			title, title, language, singers, title, albumName, year, FormatDuration(duration)),
	}
}
