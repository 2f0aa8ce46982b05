package audio

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/utils"
)

const (
	// CompressionThreshold is the upload size at which re-encoding kicks in.
	CompressionThreshold = 6 * 1024 * 1024

	// DefaultTargetBitrate bounds the re-encode in kbps.
	DefaultTargetBitrate = 128
)

var supportedExtensions = []string{
	".mp3", ".flac", ".wav", ".ogg", ".m4a", ".aac", ".wma", ".aiff", ".alac", ".opus",
}

func IsSupportedFormat(filename string) bool {
	lower := strings.ToLower(filename)
	for _, ext := range supportedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ProbeBitrate reads the current bitrate in kbps via ffprobe.
func ProbeBitrate(path string) (int, error) {
	out, err := exec.Command("ffprobe",
		"-v", "quiet", "-print_format", "json", "-show_format", path).Output()
	if err != nil {
		return 0, err
	}

	var data struct {
		Format struct {
			BitRate string `json:"bit_rate"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out, &data); err != nil {
		return 0, err
	}

	bps, err := strconv.Atoi(data.Format.BitRate)
	if err != nil {
		return 0, fmt.Errorf("unreadable bit_rate %q: %w", data.Format.BitRate, err)
	}
	return bps / 1000, nil
}

// Compress re-encodes the file to mp3 at the lower of its current bitrate
// and targetKbps, so already-low-bitrate audio is never up-converted. It
// returns the path of the re-encoded file ("<base>-compressed.mp3" next to
// the input); the caller owns its removal. On any failure the partial
// output is removed before returning.
func Compress(inputPath string, targetKbps int) (string, error) {
	current, err := ProbeBitrate(inputPath)
	if err != nil {
		return "", fmt.Errorf("bitrate probe: %w", err)
	}

	bitrate := targetKbps
	if current > 0 && current < bitrate {
		bitrate = current
	}

	outPath := utils.StripExt(inputPath) + "-compressed.mp3"
	cmd := exec.Command("ffmpeg", "-y",
		"-i", inputPath,
		"-vn",
		"-c:a", "libmp3lame",
		"-b:a", fmt.Sprintf("%dk", bitrate),
		"-f", "mp3",
		outPath,
	)
	if err := cmd.Run(); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("ffmpeg encode: %w", err)
	}
	return outPath, nil
}
