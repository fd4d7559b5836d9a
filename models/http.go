package models

// HTTP request/response shapes for the editor API. These wrap the wire
// types; the GUI front end is their only consumer.

// LoadRequest selects a file for editing.
type LoadRequest struct {
	Path string `json:"path" binding:"required"`
}

// SessionResponse is the full view of an edit session.
type SessionResponse struct {
	ID           string              `json:"id"`
	Path         string              `json:"path"`
	Current      TagRecord           `json:"current"`
	Original     TagRecord           `json:"original"`
	Audio        AudioProcessRequest `json:"audio"`
	Waveform     []float64           `json:"waveform,omitempty"`
	Duration     float64             `json:"duration,omitempty"`
	TagsChanged  bool                `json:"tags_changed"`
	AudioChanged bool                `json:"audio_changed"`
	// Alert carries a dismissible user-facing diagnostic (e.g. a failed
	// read at load time).
	Alert string `json:"alert,omitempty"`
}

// UpdateTagsRequest edits text fields and/or the compilation flag. Absent
// fields are left alone.
type UpdateTagsRequest struct {
	Fields      map[string]string `json:"fields"`
	Compilation *bool             `json:"compilation"`
}

// SaveRequest controls how the tag save writes to disk. The default is
// copy-then-write; overwriting the original in place requires an explicit
// confirmation from the user.
type SaveRequest struct {
	Overwrite bool `json:"overwrite"`
	Confirmed bool `json:"confirmed"`
}

// SaveResponse reports where the record was persisted.
type SaveResponse struct {
	Success   bool   `json:"success"`
	SavedPath string `json:"saved_path,omitempty"`
	Error     string `json:"error,omitempty"`
}

// AudioUpdateRequest adjusts the pending audio transform.
type AudioUpdateRequest struct {
	TrimStart  float64 `json:"trim_start"`
	TrimEnd    float64 `json:"trim_end"`
	PitchShift int     `json:"pitch_shift"`
	Speed      float64 `json:"speed"`
}

// ProcessRequest runs the pending audio transform to a destination file.
type ProcessRequest struct {
	DestPath string `json:"dest_path"`
}

// ErrorResponse is the uniform failure envelope for the API.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
