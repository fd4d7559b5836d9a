// Package audio decodes MP3 files to raw PCM and encodes PCM back to MP3
// via the LAME command-line encoder.
package audio

import (
	"fmt"
	"os"
	"os/exec"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/tosone/minimp3"
)

const bytesPerSample = 2 // minimp3 emits 16-bit little-endian samples

// PCM is a fully decoded track.
type PCM struct {
	Data       []byte // interleaved 16-bit LE samples
	SampleRate int
	Channels   int
}

// SampleCount returns the number of per-channel sample frames.
func (p *PCM) SampleCount() int {
	return len(p.Data) / bytesPerSample / p.Channels
}

// Duration in seconds.
func (p *PCM) Duration() float64 {
	return float64(p.SampleCount()) / float64(p.SampleRate)
}

// DecodeMP3 decodes an entire MP3 stream into memory.
func DecodeMP3(mp3Data []byte) (*PCM, error) {
	decoder, data, err := minimp3.DecodeFull(mp3Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %v", err)
	}
	defer decoder.Close()

	return &PCM{
		Data:       data,
		SampleRate: decoder.SampleRate,
		Channels:   decoder.Channels,
	}, nil
}

// TrimFraction slices pcm to the [start, end] window expressed as fractions
// of total duration. Offsets are aligned to whole sample frames so channels
// stay interleaved correctly.
func (p *PCM) TrimFraction(start, end float64) *PCM {
	frameBytes := bytesPerSample * p.Channels
	totalFrames := len(p.Data) / frameBytes

	startFrame := int(float64(totalFrames) * start)
	endFrame := int(float64(totalFrames) * end)
	if startFrame < 0 {
		startFrame = 0
	}
	if endFrame > totalFrames {
		endFrame = totalFrames
	}
	if endFrame < startFrame {
		endFrame = startFrame
	}

	return &PCM{
		Data:       p.Data[startFrame*frameBytes : endFrame*frameBytes],
		SampleRate: p.SampleRate,
		Channels:   p.Channels,
	}
}

// WriteWAV encodes pcm into a WAV file at path.
func (p *PCM) WriteWAV(path string) error {
	if len(p.Data)%bytesPerSample != 0 {
		return fmt.Errorf("PCM data length must be even for 16-bit samples")
	}

	sampleCount := len(p.Data) / bytesPerSample
	samples := make([]int, sampleCount)
	for i := range sampleCount {
		low := int16(p.Data[i*2])
		high := int16(p.Data[i*2+1])
		samples[i] = int(low | (high << 8))
	}

	buf := &gaudio.IntBuffer{
		Format: &gaudio.Format{
			NumChannels: p.Channels,
			SampleRate:  p.SampleRate,
		},
		Data: samples,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %v", err)
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, p.SampleRate, 16, p.Channels, 1)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to encode WAV: %v", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to close WAV encoder: %v", err)
	}
	return nil
}

// EncodeMP3 converts a WAV file into an MP3 file using LAME.
func EncodeMP3(lameBin, wavPath, mp3Path string) error {
	cmd := exec.Command(lameBin, "--preset", "standard", "-h", "--nohist", "--silent", wavPath, mp3Path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to encode MP3 (lame not installed?): %v: %s", err, out)
	}
	return nil
}
