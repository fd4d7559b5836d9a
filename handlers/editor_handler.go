// Package handlers exposes the edit sessions over HTTP. Handlers are glue:
// field edits go to the session model, file work goes through the bridge.
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"mp3editor-backend/models"
	"mp3editor-backend/session"
)

// Bridge is the worker-process boundary the handlers talk through. It is
// an interface so tests can substitute a stub for the real subprocess
// runner.
type Bridge interface {
	ReadTags(ctx context.Context, path string) models.TagRecord
	WriteTags(ctx context.Context, path string, record models.TagRecord) models.TagRecord
	GetWaveform(ctx context.Context, path string, sampleCount int) models.WaveformSummary
	ProcessAudio(ctx context.Context, sourcePath, destPath string, request models.AudioProcessRequest) models.ProcessResult
}

type EditorHandler struct {
	bridge   Bridge
	sessions *session.Manager
}

func NewEditorHandler(bridge Bridge) *EditorHandler {
	return &EditorHandler{
		bridge:   bridge,
		sessions: session.NewManager(),
	}
}

func (h *EditorHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "MP3 editor API is running",
		"version": "1.0.0",
	})
}

// LoadFile reads tags and waveform for a path and opens a fresh session.
// A failed read still opens a session, loaded with empty defaults, and the
// diagnostic rides along for the UI to present.
func (h *EditorHandler) LoadFile(c *gin.Context) {
	var req models.LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if !isValidMP3File(req.Path) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid file format. Only MP3 files are supported"})
		return
	}

	rec := h.bridge.ReadTags(c.Request.Context(), req.Path)
	wave := h.bridge.GetWaveform(c.Request.Context(), req.Path, 200)

	f := h.sessions.Create(req.Path)
	alert := f.Load(rec, wave)

	c.JSON(http.StatusOK, h.sessionResponse(f, alert))
}

func (h *EditorHandler) GetFile(c *gin.Context) {
	f, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown session"})
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(f, ""))
}

// UpdateTags applies field edits. Numeric fields are digit-filtered by the
// session; the response reflects the filtered values.
func (h *EditorHandler) UpdateTags(c *gin.Context) {
	f, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown session"})
		return
	}
	var req models.UpdateTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	err := f.WithTags(func(t *session.TagSession) error {
		for name, value := range req.Fields {
			if err := t.SetField(name, value); err != nil {
				return err
			}
		}
		if req.Compilation != nil {
			t.SetCompilation(*req.Compilation)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.sessionResponse(f, ""))
}

// SetArtwork replaces the embedded artwork from a multipart upload.
func (h *EditorHandler) SetArtwork(c *gin.Context) {
	f, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown session"})
		return
	}

	file, header, err := c.Request.FormFile("artwork")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "artwork file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("failed to read artwork: %v", err)})
		return
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = mimeFromExt(header.Filename)
	}

	f.WithTags(func(t *session.TagSession) error {
		t.SetArtwork(data, mime)
		return nil
	})
	c.JSON(http.StatusOK, h.sessionResponse(f, ""))
}

// DeleteArtwork marks the artwork for removal on the next save.
func (h *EditorHandler) DeleteArtwork(c *gin.Context) {
	f, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown session"})
		return
	}
	f.WithTags(func(t *session.TagSession) error {
		t.DeleteArtwork()
		return nil
	})
	c.JSON(http.StatusOK, h.sessionResponse(f, ""))
}

// Restore discards all pending edits, tag and audio alike, without
// touching the worker.
func (h *EditorHandler) Restore(c *gin.Context) {
	f, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown session"})
		return
	}
	f.WithTags(func(t *session.TagSession) error {
		t.Restore()
		return nil
	})
	f.WithAudio(func(a *session.AudioSession) error {
		a.Restore()
		return nil
	})
	c.JSON(http.StatusOK, h.sessionResponse(f, ""))
}

// SaveTags persists the current record. Copy-then-write is the default so
// a bad write never destroys the original; overwriting in place demands
// confirmed=true. At most one save per session may be in flight.
func (h *EditorHandler) SaveTags(c *gin.Context) {
	f, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown session"})
		return
	}
	var req models.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	if req.Overwrite && !req.Confirmed {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "overwriting the original requires confirmation"})
		return
	}

	if !f.BeginSave() {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "a save is already in progress for this file"})
		return
	}
	defer f.EndSave()

	destPath := f.Path
	if !req.Overwrite {
		destPath = copyPath(f.Path)
		// A failed copy aborts before any write request is issued, so both
		// current and original state stay untouched and the user can retry.
		if err := copyFile(f.Path, destPath); err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("failed to copy file: %v", err)})
			return
		}
	}

	var record models.TagRecord
	f.WithTags(func(t *session.TagSession) error {
		record = t.Current()
		return nil
	})

	res := h.bridge.WriteTags(c.Request.Context(), destPath, record)
	if res.Failed() {
		c.JSON(http.StatusUnprocessableEntity, models.SaveResponse{Error: res.Error})
		return
	}

	f.WithTags(func(t *session.TagSession) error {
		t.Commit()
		return nil
	})
	c.JSON(http.StatusOK, models.SaveResponse{Success: true, SavedPath: destPath})
}

// UpdateAudio adjusts the pending trim/pitch/speed transform. Out-of-range
// values are clamped, not rejected.
func (h *EditorHandler) UpdateAudio(c *gin.Context) {
	f, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown session"})
		return
	}
	var req models.AudioUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	f.WithAudio(func(a *session.AudioSession) error {
		a.Set(req.TrimStart, req.TrimEnd, req.PitchShift, req.Speed)
		return nil
	})
	c.JSON(http.StatusOK, h.sessionResponse(f, ""))
}

// ProcessAudio runs the pending transform through the worker, writing dst.
// Shares the save slot with SaveTags: one outstanding write per file.
func (h *EditorHandler) ProcessAudio(c *gin.Context) {
	f, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown session"})
		return
	}
	var req models.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return
	}
	destPath := req.DestPath
	if destPath == "" {
		destPath = processedPath(f.Path)
	}

	if !f.BeginSave() {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "a save is already in progress for this file"})
		return
	}
	defer f.EndSave()

	var request models.AudioProcessRequest
	f.WithAudio(func(a *session.AudioSession) error {
		request = a.Current()
		return nil
	})

	res := h.bridge.ProcessAudio(c.Request.Context(), f.Path, destPath, request)
	if res.Error != "" {
		c.JSON(http.StatusUnprocessableEntity, models.SaveResponse{Error: res.Error})
		return
	}

	f.WithAudio(func(a *session.AudioSession) error {
		a.Commit()
		return nil
	})
	c.JSON(http.StatusOK, models.SaveResponse{Success: true, SavedPath: destPath})
}

// ClearFile discards a session (file deselected).
func (h *EditorHandler) ClearFile(c *gin.Context) {
	if !h.sessions.Remove(c.Param("id")) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "unknown session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *EditorHandler) sessionResponse(f *session.FileSession, alert string) models.SessionResponse {
	current, original, audio, wave, tagsChanged, audioChanged := f.Snapshot()
	return models.SessionResponse{
		ID:           f.ID,
		Path:         f.Path,
		Current:      current,
		Original:     original,
		Audio:        audio,
		Waveform:     wave.Waveform,
		Duration:     wave.Duration,
		TagsChanged:  tagsChanged,
		AudioChanged: audioChanged,
		Alert:        alert,
	}
}

func isValidMP3File(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".mp3"
}

func mimeFromExt(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// copyPath derives the save-as-copy destination: "song.mp3" →
// "song copy.mp3", then "song copy 2.mp3" and so on. Earlier copies are
// never overwritten; only the confirmed overwrite path touches an
// existing file.
func copyPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	dest := base + " copy" + ext
	for n := 2; fileExists(dest); n++ {
		dest = fmt.Sprintf("%s copy %d%s", base, n, ext)
	}
	return dest
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func processedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + " processed" + ext
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
