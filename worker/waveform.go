package worker

import (
	"os"

	"mp3editor-backend/audio"
	"mp3editor-backend/models"
	"mp3editor-backend/mp3scan"
)

// DefaultWaveformSamples matches what the display layer asks for when it
// does not say otherwise. MaxWaveformSamples bounds what a caller can
// request over argv: the count sizes an allocation, so an absurd value
// must not be honored.
const (
	DefaultWaveformSamples = 200
	MaxWaveformSamples     = 4096
)

func clampSampleCount(n int) int {
	if n <= 0 {
		return DefaultWaveformSamples
	}
	if n > MaxWaveformSamples {
		return MaxWaveformSamples
	}
	return n
}

// Waveform decodes the whole track and reduces it to a fixed-size peak
// envelope normalized to [0,1].
func Waveform(path string, sampleCount int) models.WaveformSummary {
	sampleCount = clampSampleCount(sampleCount)

	data, err := os.ReadFile(path)
	if err != nil {
		return models.WaveformSummary{Error: err.Error()}
	}
	if _, err := mp3scan.Sniff(data); err != nil {
		return models.WaveformSummary{Error: err.Error()}
	}
	pcm, err := audio.DecodeMP3(data)
	if err != nil {
		return models.WaveformSummary{Error: err.Error()}
	}

	return models.WaveformSummary{
		Waveform: envelope(pcm.Data, sampleCount),
		Duration: pcm.Duration(),
	}
}

// envelope buckets the interleaved 16-bit samples and keeps the peak
// amplitude of each bucket, normalized against the track-wide peak. A
// silent track yields all zeros rather than dividing by zero.
func envelope(pcmData []byte, buckets int) []float64 {
	sampleCount := len(pcmData) / 2
	samples := func(i int) int {
		s := int16(pcmData[i*2]) | int16(pcmData[i*2+1])<<8
		v := int(s)
		if v < 0 {
			v = -v
		}
		return v
	}

	peak := 0
	for i := 0; i < sampleCount; i++ {
		if v := samples(i); v > peak {
			peak = v
		}
	}

	out := make([]float64, buckets)
	if sampleCount == 0 || peak == 0 {
		return out
	}

	chunk := sampleCount / buckets
	if chunk < 1 {
		chunk = 1
	}
	for b := 0; b < buckets; b++ {
		start := b * chunk
		if start >= sampleCount {
			break
		}
		end := start + chunk
		if end > sampleCount {
			end = sampleCount
		}
		max := 0
		for i := start; i < end; i++ {
			if v := samples(i); v > max {
				max = v
			}
		}
		out[b] = float64(max) / float64(peak)
	}
	return out
}
