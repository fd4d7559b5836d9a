// Package models contains the wire types shared by the bridge, the worker
// and the HTTP handlers. The json field names are the process-boundary
// contract and must not change.
package models

// TagRecord is the canonical snapshot of a file's ID3 metadata. It doubles
// as the read response and the write request at the worker boundary.
//
// A record with Error set carries no usable field values; callers must show
// the error and leave their own state untouched.
type TagRecord struct {
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	Genre       string `json:"genre"`
	Year        string `json:"year"`
	Track       string `json:"track"`
	Disc        string `json:"disc"`
	BPM         string `json:"bpm"`
	Compilation bool   `json:"compilation"`

	// Artwork travels base64-encoded so the JSON envelope stays text-safe.
	ArtworkData   string `json:"artwork_data,omitempty"`
	ArtworkMime   string `json:"artwork_mime,omitempty"`
	ArtworkDelete bool   `json:"artwork_delete,omitempty"`

	// WhereFrom is the macOS download-origin URL, stored as an extended
	// file attribute rather than an ID3 frame.
	WhereFrom string `json:"where_from,omitempty"`

	Error   string `json:"error,omitempty"`
	Success bool   `json:"success,omitempty"`
}

// Failed reports whether the record is an error response.
func (r *TagRecord) Failed() bool {
	return r.Error != ""
}

// Equal compares all tag fields by value. Artwork data is compared
// byte-exact (the base64 text is a faithful proxy for the bytes).
// Error/Success are transport acknowledgements and do not participate.
func (r *TagRecord) Equal(o *TagRecord) bool {
	return r.Title == o.Title &&
		r.Artist == o.Artist &&
		r.Album == o.Album &&
		r.Genre == o.Genre &&
		r.Year == o.Year &&
		r.Track == o.Track &&
		r.Disc == o.Disc &&
		r.BPM == o.BPM &&
		r.Compilation == o.Compilation &&
		r.ArtworkData == o.ArtworkData &&
		r.ArtworkMime == o.ArtworkMime &&
		r.ArtworkDelete == o.ArtworkDelete &&
		r.WhereFrom == o.WhereFrom
}

// TagPatch is the write request at the worker boundary. Fields are
// tri-state: a nil field is left untouched, a present-but-empty field
// deletes the corresponding frame. This keeps "the caller didn't name
// artist" distinct from "the caller cleared artist" on the wire.
type TagPatch struct {
	Title       *string `json:"title"`
	Artist      *string `json:"artist"`
	Album       *string `json:"album"`
	Genre       *string `json:"genre"`
	Year        *string `json:"year"`
	Track       *string `json:"track"`
	Disc        *string `json:"disc"`
	BPM         *string `json:"bpm"`
	Compilation *bool   `json:"compilation"`

	ArtworkData   *string `json:"artwork_data"`
	ArtworkMime   *string `json:"artwork_mime"`
	ArtworkDelete bool    `json:"artwork_delete"`

	WhereFrom *string `json:"where_from"`
}

// Patch converts a full record into a write request naming every field.
// The editor saves whole records; partial patches come from direct worker
// invocations.
func (r TagRecord) Patch() TagPatch {
	return TagPatch{
		Title:         &r.Title,
		Artist:        &r.Artist,
		Album:         &r.Album,
		Genre:         &r.Genre,
		Year:          &r.Year,
		Track:         &r.Track,
		Disc:          &r.Disc,
		BPM:           &r.BPM,
		Compilation:   &r.Compilation,
		ArtworkData:   &r.ArtworkData,
		ArtworkMime:   &r.ArtworkMime,
		ArtworkDelete: r.ArtworkDelete,
		WhereFrom:     &r.WhereFrom,
	}
}

// Audio process bounds. Values outside are clamped, not rejected, so a
// slider pegged past the end still produces a valid request.
const (
	MinPitchShift = -12
	MaxPitchShift = 12
	MinSpeed      = 0.5
	MaxSpeed      = 2.0

	// MinTrimSpan keeps trim handles from crossing; fractions of duration.
	MinTrimSpan = 0.02
)

// AudioProcessRequest describes a trim/pitch/speed transformation. Trim
// positions are fractions of total duration, not timestamps; the worker
// converts them to sample offsets.
type AudioProcessRequest struct {
	TrimStart  float64 `json:"trim_start"`
	TrimEnd    float64 `json:"trim_end"`
	PitchShift int     `json:"pitch_shift"`
	Speed      float64 `json:"speed"`
}

// NewAudioProcessRequest clamps every parameter into its legal range and
// enforces TrimStart < TrimEnd with at least MinTrimSpan between them.
// The end handle wins when the two would overlap: the start is pushed back.
func NewAudioProcessRequest(trimStart, trimEnd float64, pitchShift int, speed float64) AudioProcessRequest {
	trimStart = clampFloat(trimStart, 0, 1)
	trimEnd = clampFloat(trimEnd, 0, 1)
	if trimEnd-trimStart < MinTrimSpan {
		trimStart = trimEnd - MinTrimSpan
		if trimStart < 0 {
			trimStart = 0
			trimEnd = MinTrimSpan
		}
	}

	if pitchShift < MinPitchShift {
		pitchShift = MinPitchShift
	} else if pitchShift > MaxPitchShift {
		pitchShift = MaxPitchShift
	}

	return AudioProcessRequest{
		TrimStart:  trimStart,
		TrimEnd:    trimEnd,
		PitchShift: pitchShift,
		Speed:      clampFloat(speed, MinSpeed, MaxSpeed),
	}
}

// Identity reports whether the request would leave the audio untouched.
func (r AudioProcessRequest) Identity() bool {
	return r.TrimStart == 0 && r.TrimEnd == 1 && r.PitchShift == 0 && r.Speed == 1.0
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WaveformSummary is the downsampled amplitude envelope of a whole track.
// Samples are normalized to [0,1]; Duration is in seconds.
type WaveformSummary struct {
	Waveform []float64 `json:"waveform"`
	Duration float64   `json:"duration"`
	Error    string    `json:"error,omitempty"`
}

// ProcessResult acknowledges a write or process command.
type ProcessResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
