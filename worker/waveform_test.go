package worker

import (
	"encoding/binary"
	"testing"
)

func pcmBytes(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestEnvelope(t *testing.T) {
	// Track peak is 4000; bucket peaks are 2000 and 4000.
	data := pcmBytes(1000, -2000, 4000, 500)
	got := envelope(data, 2)

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != 0.5 || got[1] != 1.0 {
		t.Errorf("envelope = %v, want [0.5 1.0]", got)
	}
}

func TestEnvelope_ValuesStayNormalized(t *testing.T) {
	data := pcmBytes(-32768, 32767, 100, -100, 0, 12000, -15000, 3)
	for i, v := range envelope(data, 4) {
		if v < 0 || v > 1 {
			t.Errorf("bucket %d = %v, outside [0,1]", i, v)
		}
	}
}

func TestEnvelope_SilentTrack(t *testing.T) {
	data := pcmBytes(0, 0, 0, 0)
	for i, v := range envelope(data, 2) {
		if v != 0 {
			t.Errorf("bucket %d = %v, want 0 for silence", i, v)
		}
	}
}

func TestEnvelope_MoreBucketsThanSamples(t *testing.T) {
	data := pcmBytes(1000, 2000)
	got := envelope(data, 8)
	if len(got) != 8 {
		t.Fatalf("len = %d, want 8", len(got))
	}
	// Trailing buckets past the end of the track stay at zero.
	for i := 2; i < 8; i++ {
		if got[i] != 0 {
			t.Errorf("bucket %d = %v, want 0", i, got[i])
		}
	}
}

func TestClampSampleCount(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, DefaultWaveformSamples},
		{-5, DefaultWaveformSamples},
		{50, 50},
		{MaxWaveformSamples, MaxWaveformSamples},
		{1_000_000_000, MaxWaveformSamples},
	}
	for _, tc := range tests {
		if got := clampSampleCount(tc.in); got != tc.want {
			t.Errorf("clampSampleCount(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestEnvelope_EmptyInput(t *testing.T) {
	got := envelope(nil, 4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	for i, v := range got {
		if v != 0 {
			t.Errorf("bucket %d = %v, want 0", i, v)
		}
	}
}
