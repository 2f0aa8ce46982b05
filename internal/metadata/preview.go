package metadata

// Preview is the non-persistent extraction result returned to the client
// form. Every field has a fallback; extraction never hard-fails a request.
type Preview struct {
	Title         string   `json:"title"`
	Album         string   `json:"album"`
	Artists       []string `json:"artists"`
	ReleasedYear  *int     `json:"releasedYear"`
	Genre         []string `json:"genre"`
	Language      string   `json:"language"`
	Duration      float64  `json:"duration"`
	Type          string   `json:"type"`
	CoverImageKey string   `json:"coverImageKey,omitempty"`
	AlbumCoverKey string   `json:"albumCoverKey,omitempty"`

	// Filled by the preview handler, not the extractor.
	FileSize int64  `json:"fileSize"`
	TempPath string `json:"tempPath,omitempty"`
}

// Year returns the released year or 0 when unknown.
func (p *Preview) Year() int {
	if p.ReleasedYear == nil {
		return 0
	}
	return *p.ReleasedYear
}
