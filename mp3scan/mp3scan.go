// Package mp3scan validates MP3 input before the expensive decode path:
// it skips a leading ID3v2 block and checks the first audio frame header,
// so a mis-selected file fails with a clear diagnostic instead of a
// decoder error deep inside a waveform or process run.
package mp3scan

import (
	"fmt"
)

// Info summarizes the head of an MP3 file.
type Info struct {
	ID3v2Size   int // bytes occupied by the ID3v2 block, header included; 0 if absent
	Bitrate     int // bits per second of the first frame
	SampleRate  int
	ChannelMode int
	FrameLength int
}

// lookup tables, MPEG1 Layer III
var bitrateTable = [16]int{
	0, 32, 40, 48, 56, 64, 80, 96,
	112, 128, 160, 192, 224, 256, 320, 0,
}
var sampleRateTable = [4]int{44100, 48000, 32000, 0}

// syncSafeToInt decodes the 7-bit-per-byte ID3v2 size field.
func syncSafeToInt(b []byte) int {
	return int(b[0]&0x7F)<<21 |
		int(b[1]&0x7F)<<14 |
		int(b[2]&0x7F)<<7 |
		int(b[3]&0x7F)
}

// id3v2Size returns the total size of a leading ID3v2 block, or 0.
func id3v2Size(data []byte) int {
	if len(data) < 10 || string(data[:3]) != "ID3" {
		return 0
	}
	return 10 + syncSafeToInt(data[6:10])
}

// parseFrameHeader decodes one 4-byte MP3 frame header.
func parseFrameHeader(b []byte) (*Info, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("truncated frame header")
	}
	header := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])

	if (header & 0xFFE00000) != 0xFFE00000 {
		return nil, fmt.Errorf("invalid sync word: 0x%08X", header)
	}

	bitrateIdx := int((header >> 12) & 0xF)
	sampleRateIdx := int((header >> 10) & 0x3)
	padding := (header>>9)&0x1 == 1
	channelMode := int((header >> 6) & 0x3)

	bitrate := bitrateTable[bitrateIdx] * 1000
	sampleRate := sampleRateTable[sampleRateIdx]
	if bitrate == 0 || sampleRate == 0 {
		return nil, fmt.Errorf("unsupported bitrate or samplerate")
	}

	frameLen := (144*bitrate)/sampleRate + btoi(padding)

	return &Info{
		Bitrate:     bitrate,
		SampleRate:  sampleRate,
		ChannelMode: channelMode,
		FrameLength: frameLen,
	}, nil
}

// Sniff checks that data looks like an MP3 stream: an optional ID3v2 block
// followed by a valid audio frame header within the first few bytes.
func Sniff(data []byte) (*Info, error) {
	tagSize := id3v2Size(data)
	if tagSize >= len(data) {
		return nil, fmt.Errorf("no audio data after ID3v2 block")
	}
	rest := data[tagSize:]

	// Tolerate a little padding between the tag and the first frame.
	const searchWindow = 4096
	limit := len(rest) - 4
	if limit > searchWindow {
		limit = searchWindow
	}
	for i := 0; i <= limit; i++ {
		info, err := parseFrameHeader(rest[i : i+4])
		if err == nil {
			info.ID3v2Size = tagSize
			return info, nil
		}
	}
	return nil, fmt.Errorf("not an MP3 file: no valid frame header found")
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
