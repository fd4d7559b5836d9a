// Package worker implements the mp3worker commands: read, write, waveform
// and process. It is only ever driven as a subprocess through the bridge;
// all results travel as a single JSON document on stdout.
package worker

import (
	"encoding/base64"
	"strings"

	"github.com/bogem/id3v2/v2"

	"mp3editor-backend/models"
)

// ReadTags reads the ID3 record for an MP3 file. A file without a tag block
// yields empty fields, not an error.
func ReadTags(path string) models.TagRecord {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return models.TagRecord{Error: err.Error()}
	}
	defer tag.Close()

	get := func(id string) string {
		return strings.TrimSpace(tag.GetTextFrame(id).Text)
	}

	// ID3v2.3 stores the year in TYER, v2.4 in TDRC (first four chars).
	year := get("TYER")
	if year == "" {
		if tdrc := get("TDRC"); len(tdrc) >= 4 {
			year = tdrc[:4]
		}
	}

	// Track and disc may be "n/total"; only the position is edited.
	track, _, _ := strings.Cut(get("TRCK"), "/")
	disc, _, _ := strings.Cut(get("TPOS"), "/")

	rec := models.TagRecord{
		Title:       get("TIT2"),
		Artist:      get("TPE1"),
		Album:       get("TALB"),
		Genre:       get("TCON"),
		Year:        year,
		Track:       track,
		Disc:        disc,
		BPM:         get("TBPM"),
		Compilation: get("TCMP") == "1",
		WhereFrom:   readWhereFrom(path),
	}

	for _, fr := range tag.GetFrames(tag.CommonID("Attached picture")) {
		if pic, ok := fr.(id3v2.PictureFrame); ok {
			rec.ArtworkData = base64.StdEncoding.EncodeToString(pic.Picture)
			rec.ArtworkMime = pic.MimeType
			break
		}
	}

	return rec
}

// WriteTags applies patch to the file at path. Only fields the patch
// names are touched: an empty value deletes the corresponding frame, an
// absent field leaves whatever the file already carries.
func WriteTags(path string, patch models.TagPatch) models.TagRecord {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return models.TagRecord{Error: err.Error()}
	}
	defer tag.Close()

	setOrDelete := func(id string, value *string) {
		if value == nil {
			return
		}
		if *value != "" {
			tag.AddTextFrame(id, id3v2.EncodingUTF8, *value)
		} else {
			tag.DeleteFrames(id)
		}
	}

	setOrDelete("TIT2", patch.Title)
	setOrDelete("TPE1", patch.Artist)
	setOrDelete("TALB", patch.Album)
	setOrDelete("TCON", patch.Genre)
	setOrDelete("TYER", patch.Year)
	setOrDelete("TRCK", patch.Track)
	setOrDelete("TPOS", patch.Disc)
	setOrDelete("TBPM", patch.BPM)

	if patch.Compilation != nil {
		if *patch.Compilation {
			tag.AddTextFrame("TCMP", id3v2.EncodingUTF8, "1")
		} else {
			tag.DeleteFrames("TCMP")
		}
	}

	apicID := tag.CommonID("Attached picture")
	if patch.ArtworkDelete {
		tag.DeleteFrames(apicID)
	} else if patch.ArtworkData != nil && *patch.ArtworkData != "" {
		picture, err := base64.StdEncoding.DecodeString(*patch.ArtworkData)
		if err != nil {
			return models.TagRecord{Error: "invalid artwork data: " + err.Error()}
		}
		mime := "image/jpeg"
		if patch.ArtworkMime != nil && *patch.ArtworkMime != "" {
			mime = *patch.ArtworkMime
		}
		tag.DeleteFrames(apicID)
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    mime,
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     picture,
		})
	}

	if err := tag.Save(); err != nil {
		return models.TagRecord{Error: err.Error()}
	}

	// The where-from attribute lives outside the tag block; failures here
	// must not fail the save.
	if patch.WhereFrom != nil {
		writeWhereFrom(path, *patch.WhereFrom)
	}

	return models.TagRecord{Success: true}
}

// copyTags duplicates every ID3 frame from src onto dst. Best-effort: a
// processed file without tags is still a valid result.
func copyTags(src, dst string) {
	srcTag, err := id3v2.Open(src, id3v2.Options{Parse: true})
	if err != nil {
		return
	}
	defer srcTag.Close()
	if !srcTag.HasFrames() {
		return
	}

	dstTag, err := id3v2.Open(dst, id3v2.Options{Parse: true})
	if err != nil {
		return
	}
	defer dstTag.Close()

	for id, frames := range srcTag.AllFrames() {
		for _, fr := range frames {
			dstTag.AddFrame(id, fr)
		}
	}
	_ = dstTag.Save()
}
