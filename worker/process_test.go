package worker

import "testing"

func TestFilterChain(t *testing.T) {
	tests := []struct {
		name  string
		pitch int
		speed float64
		want  string
	}{
		{"identity", 0, 1.0, "anull"},
		{"speed only", 0, 1.5, "atempo=1.5"},
		{"slow down", 0, 0.5, "atempo=0.5"},
		{"octave up keeps duration", 12, 1.0, "asetrate=88200,aresample=44100,atempo=0.5"},
		{"octave down keeps duration", -12, 1.0, "asetrate=22050,aresample=44100,atempo=2"},
		{"octave down doubled speed chains atempo", -12, 2.0, "asetrate=22050,aresample=44100,atempo=2.0,atempo=2"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterChain(tc.pitch, tc.speed, 44100)
			if got != tc.want {
				t.Errorf("FilterChain(%d, %v) = %q, want %q", tc.pitch, tc.speed, got, tc.want)
			}
		})
	}
}

func TestFilterChain_PitchResampleTarget(t *testing.T) {
	// One semitone up: 44100 * 2^(1/12) ≈ 46722.
	got := FilterChain(1, 1.0, 44100)
	want := "asetrate=46722,aresample=44100"
	if len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("FilterChain(1, 1.0) = %q, want prefix %q", got, want)
	}
}
