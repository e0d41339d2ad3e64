package session

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"reelforge/internal/services"
)

const (
	// RenderedDir holds pipeline output inside a session and is never scanned.
	RenderedDir = "rendered"
	// TitleCardName is a brand asset that sometimes lands in session folders.
	TitleCardName = "title_card.mp4"
)

var mediaExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".mkv": {},
}

// IsMedia reports whether name passes the media filter.
func IsMedia(name string) bool {
	if strings.EqualFold(name, TitleCardName) {
		return false
	}
	_, ok := mediaExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Discover validates root and returns a lazy sequence over every clip in every
// session beneath it. Directories that do not parse as sessions are ignored;
// unreadable subfolders are skipped.
func Discover(root string) (iter.Seq[Clip], error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrNotADirectory, "discover", "stat root", root, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrNotADirectory, "discover", "stat root", root, nil)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}

	return func(yield func(Clip) bool) {
		for _, sess := range Sessions(abs) {
			for clip := range SessionClips(sess) {
				if !yield(clip) {
					return
				}
			}
		}
	}, nil
}

// Sessions lists the session directories directly under root in name order.
// A missing or unreadable root yields nothing.
func Sessions(root string) []Session {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	sessions := make([]Session, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sess, err := ParseName(entry.Name())
		if err != nil {
			continue
		}
		sess.Dir = filepath.Join(root, entry.Name())
		sessions = append(sessions, sess)
	}
	return sessions
}

// SessionClips yields the clips of one session. Every subfolder except
// rendered/ is scanned; unrecognized ones are labelled TypeUnknown.
func SessionClips(sess Session) iter.Seq[Clip] {
	return func(yield func(Clip) bool) {
		folders, err := os.ReadDir(sess.Dir)
		if err != nil {
			return
		}
		for _, folder := range folders {
			if !folder.IsDir() || folder.Name() == RenderedDir || strings.HasPrefix(folder.Name(), ".") {
				continue
			}
			dir := filepath.Join(sess.Dir, folder.Name())
			files, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, file := range files {
				if file.IsDir() || !IsMedia(file.Name()) {
					continue
				}
				path := filepath.Join(dir, file.Name())
				orientation, clipType := Classify(path)
				clip := Clip{
					Path:        path,
					Stem:        Stem(path),
					Type:        clipType,
					Orientation: orientation,
					Session:     sess,
				}
				if !yield(clip) {
					return
				}
			}
		}
	}
}

// ClipAt builds the Clip for a single file laid out as
// <session>/<subfolder>/<file>. The session directory name must parse.
func ClipAt(path string) (Clip, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Clip{}, fmt.Errorf("resolve clip %q: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Clip{}, services.Wrap(services.ErrMissingAsset, "session", "stat clip", abs, err)
	}
	if !info.Mode().IsRegular() {
		return Clip{}, services.Wrap(services.ErrMissingAsset, "session", "stat clip", abs+" is not a regular file", nil)
	}

	sessDir := filepath.Dir(filepath.Dir(abs))
	sess, err := ParseName(filepath.Base(sessDir))
	if err != nil {
		return Clip{}, err
	}
	sess.Dir = sessDir
	orientation, clipType := Classify(abs)
	return Clip{
		Path:        abs,
		Stem:        Stem(abs),
		Type:        clipType,
		Orientation: orientation,
		Session:     sess,
	}, nil
}
