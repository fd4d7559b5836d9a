// Package session tracks the editable state of a loaded MP3: the current
// field values, the last-persisted snapshot, and the diff between them.
package session

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"mp3editor-backend/models"
)

// ArtworkState distinguishes "artwork untouched" from "artwork replaced"
// from "artwork deleted". A plain optional cannot represent the deleted
// case: after a delete, current and a never-had-artwork original both hold
// no bytes, yet the session is dirty.
type ArtworkState int

const (
	ArtworkUnchanged ArtworkState = iota
	ArtworkReplaced
	ArtworkDeleted
)

// FilterDigits strips every non-digit rune. It is a pure function of the
// text (idempotent, cursor-independent) so the editing layer can apply it
// on every keystroke.
func FilterDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// numericFields are constrained to digit-only text at the editing boundary.
var numericFields = map[string]bool{
	"year":  true,
	"track": true,
	"disc":  true,
	"bpm":   true,
}

// TagSession holds the current and original tag records for one file.
type TagSession struct {
	current  models.TagRecord
	original models.TagRecord
	artwork  ArtworkState
}

// Load resets both current and original to rec. A failed read loads empty
// defaults on both sides instead, so the session starts clean rather than
// reporting stale dirty state; the record's error is returned for display.
func (s *TagSession) Load(rec models.TagRecord) string {
	s.artwork = ArtworkUnchanged
	if rec.Failed() {
		s.current = models.TagRecord{}
		s.original = models.TagRecord{}
		return rec.Error
	}
	rec.Error = ""
	rec.Success = false
	rec.ArtworkDelete = false
	s.current = rec
	s.original = rec
	return ""
}

// SetField updates one text field. Numeric fields are digit-filtered here;
// filtering already-filtered text is a no-op.
func (s *TagSession) SetField(name, value string) error {
	if numericFields[name] {
		value = FilterDigits(value)
	}
	switch name {
	case "title":
		s.current.Title = value
	case "artist":
		s.current.Artist = value
	case "album":
		s.current.Album = value
	case "genre":
		s.current.Genre = value
	case "year":
		s.current.Year = value
	case "track":
		s.current.Track = value
	case "disc":
		s.current.Disc = value
	case "bpm":
		s.current.BPM = value
	case "where_from":
		s.current.WhereFrom = value
	default:
		return fmt.Errorf("unknown tag field %q", name)
	}
	return nil
}

func (s *TagSession) SetCompilation(v bool) {
	s.current.Compilation = v
}

// SetArtwork replaces the embedded artwork with data.
func (s *TagSession) SetArtwork(data []byte, mime string) {
	s.current.ArtworkData = base64.StdEncoding.EncodeToString(data)
	s.current.ArtworkMime = mime
	s.current.ArtworkDelete = false
	s.artwork = ArtworkReplaced
}

// DeleteArtwork marks the artwork for removal on the next save. The session
// counts as changed even when the original never had artwork.
func (s *TagSession) DeleteArtwork() {
	s.current.ArtworkData = ""
	s.current.ArtworkMime = ""
	s.current.ArtworkDelete = true
	s.artwork = ArtworkDeleted
}

// Changed is recomputed from scratch on every call, never cached.
func (s *TagSession) Changed() bool {
	if s.artwork == ArtworkDeleted {
		return true
	}
	return !s.current.Equal(&s.original)
}

// Restore discards all edits, returning current to the original snapshot.
// It never contacts the worker.
func (s *TagSession) Restore() {
	s.current = s.original
	s.artwork = ArtworkUnchanged
}

// Commit makes the just-persisted values the new baseline. Called only
// after a successful write. A pending artwork deletion has now been
// applied, so the delete flag resets and no-artwork becomes the baseline.
func (s *TagSession) Commit() {
	s.current.ArtworkDelete = false
	s.original = s.current
	s.artwork = ArtworkUnchanged
}

// Current returns the record to send on save.
func (s *TagSession) Current() models.TagRecord {
	rec := s.current
	if s.artwork == ArtworkDeleted {
		rec.ArtworkDelete = true
	}
	return rec
}

func (s *TagSession) Original() models.TagRecord {
	return s.original
}

func (s *TagSession) Artwork() ArtworkState {
	return s.artwork
}

// AudioSession tracks trim/pitch/speed edits. The original is implicit:
// the neutral identity transform.
type AudioSession struct {
	current models.AudioProcessRequest
}

func NewAudioSession() *AudioSession {
	return &AudioSession{current: models.NewAudioProcessRequest(0, 1, 0, 1.0)}
}

// Set clamps and stores the requested transform.
func (s *AudioSession) Set(trimStart, trimEnd float64, pitchShift int, speed float64) {
	s.current = models.NewAudioProcessRequest(trimStart, trimEnd, pitchShift, speed)
}

func (s *AudioSession) Changed() bool {
	return !s.current.Identity()
}

// Restore resets to the identity transform.
func (s *AudioSession) Restore() {
	s.current = models.NewAudioProcessRequest(0, 1, 0, 1.0)
}

// Commit is called after a successful process run: the written file already
// embodies the transform, so the pending edit resets to identity.
func (s *AudioSession) Commit() {
	s.Restore()
}

func (s *AudioSession) Current() models.AudioProcessRequest {
	return s.current
}

// FileSession bundles the per-file edit state behind one lock. Exactly one
// save may be outstanding per session at any time; the HTTP layer maps a
// rejected BeginSave to a conflict response instead of trusting UI button
// disabling alone.
type FileSession struct {
	ID   string
	Path string

	mu       sync.Mutex
	tags     TagSession
	audio    *AudioSession
	waveform models.WaveformSummary
	saving   bool
}

// Load populates the session from a freshly read record and waveform,
// returning the read error (if any) for display.
func (f *FileSession) Load(rec models.TagRecord, wave models.WaveformSummary) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waveform = wave
	f.audio = NewAudioSession()
	return f.tags.Load(rec)
}

// WithTags runs fn with the tag session locked.
func (f *FileSession) WithTags(fn func(*TagSession) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(&f.tags)
}

// WithAudio runs fn with the audio session locked.
func (f *FileSession) WithAudio(fn func(*AudioSession) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f.audio)
}

// Snapshot returns a consistent view of the session for responses.
func (f *FileSession) Snapshot() (current, original models.TagRecord, audio models.AudioProcessRequest, wave models.WaveformSummary, tagsChanged, audioChanged bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tags.Current(), f.tags.Original(), f.audio.Current(), f.waveform,
		f.tags.Changed(), f.audio.Changed()
}

// BeginSave reserves the session's single save slot. It fails when another
// save is already in flight.
func (f *FileSession) BeginSave() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saving {
		return false
	}
	f.saving = true
	return true
}

func (f *FileSession) EndSave() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saving = false
}

// Manager owns all live file sessions, keyed by generated ID. Loading a
// file always creates a fresh session; clearing discards it wholesale.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*FileSession
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*FileSession)}
}

// Create registers a new session for path and returns it.
func (m *Manager) Create(path string) *FileSession {
	f := &FileSession{
		ID:    uuid.NewString(),
		Path:  path,
		audio: NewAudioSession(),
	}
	m.mu.Lock()
	m.sessions[f.ID] = f
	m.mu.Unlock()
	return f
}

func (m *Manager) Get(id string) (*FileSession, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.sessions[id]
	return f, ok
}

// Remove clears a session (file deselected).
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}
