package metadata

import (
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"

	flac "github.com/go-flac/go-flac"
)

// probeDuration reads the stream duration in seconds via ffprobe. FLAC
// files fall back to the STREAMINFO block when ffprobe is unavailable.
// Unreadable input reports 0; the preview defaults handle the rest.
func probeDuration(path string) float64 {
	out, err := exec.Command("ffprobe",
		"-v", "quiet", "-print_format", "json", "-show_format", path).Output()
	if err == nil {
		var data struct {
			Format struct {
				Duration string `json:"duration"`
			} `json:"format"`
		}
		if json.Unmarshal(out, &data) == nil {
			if d, err := strconv.ParseFloat(data.Format.Duration, 64); err == nil && d > 0 {
				return d
			}
		}
	}

	if strings.HasSuffix(strings.ToLower(path), ".flac") {
		return flacDuration(path)
	}
	return 0
}

// flacDuration decodes the STREAMINFO block by hand: bytes 10-12 hold the
// 20-bit sample rate, the low nibble of byte 13 plus bytes 14-17 the 36-bit
// total sample count.
func flacDuration(path string) float64 {
	f, err := flac.ParseFile(path)
	if err != nil {
		return 0
	}

	for _, block := range f.Meta {
		if block.Type != flac.StreamInfo || len(block.Data) < 18 {
			continue
		}
		d := block.Data
		sampleRate := uint32(d[10])<<12 | uint32(d[11])<<4 | uint32(d[12])>>4
		totalSamples := uint64(d[13]&0x0F)<<32 |
			uint64(d[14])<<24 | uint64(d[15])<<16 | uint64(d[16])<<8 | uint64(d[17])
		if sampleRate == 0 {
			return 0
		}
		return float64(totalSamples) / float64(sampleRate)
	}
	return 0
}
