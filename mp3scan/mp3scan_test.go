package mp3scan

import (
	"bytes"
	"testing"
)

// frameHeader is a valid MPEG1 Layer III header: 128 kbps, 44100 Hz,
// no padding, stereo.
var frameHeader = []byte{0xFF, 0xFB, 0x90, 0x00}

func mp3Frame() []byte {
	frame := make([]byte, 417)
	copy(frame, frameHeader)
	return frame
}

func id3v2Block(payload int) []byte {
	b := []byte{'I', 'D', '3', 4, 0, 0,
		byte((payload >> 21) & 0x7F),
		byte((payload >> 14) & 0x7F),
		byte((payload >> 7) & 0x7F),
		byte(payload & 0x7F),
	}
	return append(b, make([]byte, payload)...)
}

func TestSniff_BareFrame(t *testing.T) {
	info, err := Sniff(mp3Frame())
	if err != nil {
		t.Fatal(err)
	}
	if info.ID3v2Size != 0 {
		t.Errorf("ID3v2Size = %d, want 0", info.ID3v2Size)
	}
	if info.Bitrate != 128000 || info.SampleRate != 44100 {
		t.Errorf("info = %+v", info)
	}
	if info.FrameLength != 417 {
		t.Errorf("FrameLength = %d, want 417", info.FrameLength)
	}
}

func TestSniff_WithID3v2Block(t *testing.T) {
	data := append(id3v2Block(64), mp3Frame()...)
	info, err := Sniff(data)
	if err != nil {
		t.Fatal(err)
	}
	if info.ID3v2Size != 74 {
		t.Errorf("ID3v2Size = %d, want 74", info.ID3v2Size)
	}
	if info.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", info.SampleRate)
	}
}

func TestSniff_PaddingBeforeFirstFrame(t *testing.T) {
	data := append(make([]byte, 100), mp3Frame()...)
	if _, err := Sniff(data); err != nil {
		t.Errorf("should tolerate leading padding: %v", err)
	}
}

func TestSniff_RejectsNonMP3(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"riff header", append([]byte("RIFF....WAVE"), make([]byte, 100)...)},
		{"text file", bytes.Repeat([]byte("hello world "), 50)},
		{"id3 block only", id3v2Block(32)},
		{"empty", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Sniff(tc.data); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
