package metadata

import (
	"fmt"
	"path/filepath"

	"reelforge/internal/session"
)

// Derive builds the session metadata for a session directory.
func Derive(sessionDir string) (SessionMetadata, error) {
	abs, err := filepath.Abs(sessionDir)
	if err != nil {
		return SessionMetadata{}, fmt.Errorf("resolve session dir %q: %w", sessionDir, err)
	}
	sess, err := session.ParseName(filepath.Base(abs))
	if err != nil {
		return SessionMetadata{}, err
	}
	sess.Dir = abs

	notes, _, err := LoadNotes(abs)
	if err != nil {
		return SessionMetadata{}, err
	}

	highlight := notesHighlight(notes)
	if highlight == "" {
		highlight = DefaultHighlight
	}

	meta := SessionMetadata{
		SessionDate:   sess.ISODate(),
		SessionNumber: sess.Index,
		Highlight:     highlight,
		Tags:          notesTags(notes),
		Notes:         notes,
		Clips:         []ClipMetadata{},
		NotesText:     LoadNotesText(abs),
		Session:       sess,
	}
	for clip := range session.SessionClips(sess) {
		meta.Clips = append(meta.Clips, clipMetadata(clip))
	}
	return meta, nil
}
