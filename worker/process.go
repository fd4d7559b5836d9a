package worker

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mp3editor-backend/audio"
	"mp3editor-backend/config"
	"mp3editor-backend/models"
	"mp3editor-backend/mp3scan"
)

// Process applies trim/pitch/speed to src and writes the result to dst,
// carrying the source's ID3 tags over. Trim happens on decoded PCM; pitch
// and speed go through an ffmpeg filter chain on the intermediate WAV.
func Process(cfg *config.Config, src, dst string, req models.AudioProcessRequest) models.ProcessResult {
	data, err := os.ReadFile(src)
	if err != nil {
		return models.ProcessResult{Error: err.Error()}
	}
	if _, err := mp3scan.Sniff(data); err != nil {
		return models.ProcessResult{Error: err.Error()}
	}
	pcm, err := audio.DecodeMP3(data)
	if err != nil {
		return models.ProcessResult{Error: err.Error()}
	}
	trimmed := pcm.TrimFraction(req.TrimStart, req.TrimEnd)

	tmpDir, err := os.MkdirTemp("", "mp3worker")
	if err != nil {
		return models.ProcessResult{Error: err.Error()}
	}
	defer os.RemoveAll(tmpDir)

	wavPath := filepath.Join(tmpDir, "trimmed.wav")
	if err := trimmed.WriteWAV(wavPath); err != nil {
		return models.ProcessResult{Error: err.Error()}
	}

	if req.PitchShift == 0 && req.Speed == 1.0 {
		if err := audio.EncodeMP3(cfg.LameBin, wavPath, dst); err != nil {
			return models.ProcessResult{Error: err.Error()}
		}
	} else {
		filter := FilterChain(req.PitchShift, req.Speed, trimmed.SampleRate)
		cmd := exec.Command(cfg.FFmpegBin, "-y", "-i", wavPath,
			"-af", filter,
			"-acodec", "libmp3lame", "-q:a", "2",
			dst)
		if out, err := cmd.CombinedOutput(); err != nil {
			return models.ProcessResult{Error: fmt.Sprintf("ffmpeg error: %v: %s", err, tail(out))}
		}
	}

	copyTags(src, dst)

	return models.ProcessResult{Success: true}
}

// FilterChain builds the ffmpeg -af argument for a pitch/speed change.
// Pitch shifting resamples (asetrate raises pitch and tempo together), so
// the tempo factor divides out the rate change to keep pitch and speed
// independent knobs. atempo only accepts 0.5–2.0 per instance; values
// outside get chained.
func FilterChain(pitchShift int, speed float64, sampleRate int) string {
	var filters []string

	tempo := speed
	if pitchShift != 0 {
		rate := math.Pow(2, float64(pitchShift)/12.0)
		filters = append(filters,
			fmt.Sprintf("asetrate=%d", int(float64(sampleRate)*rate)),
			fmt.Sprintf("aresample=%d", sampleRate))
		tempo = speed / rate
	}

	if tempo != 1.0 {
		for tempo < 0.5 || tempo > 2.0 {
			if tempo < 0.5 {
				filters = append(filters, "atempo=0.5")
				tempo /= 0.5
			} else {
				filters = append(filters, "atempo=2.0")
				tempo /= 2.0
			}
		}
		if tempo != 1.0 {
			filters = append(filters, fmt.Sprintf("atempo=%g", tempo))
		}
	}

	if len(filters) == 0 {
		return "anull"
	}
	return strings.Join(filters, ",")
}

// tail bounds subprocess output quoted in error messages.
func tail(out []byte) string {
	s := strings.TrimSpace(string(out))
	if len(s) > 500 {
		s = s[len(s)-500:]
	}
	return s
}
