package session

import (
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Orientation is the output aspect: wide (16:9) or vertical (9:16).
type Orientation string

const (
	Wide     Orientation = "wide"
	Vertical Orientation = "vertical"
)

// IsVertical reports whether the orientation is vertical.
func (o Orientation) IsVertical() bool {
	return o == Vertical
}

// ClipType is taken from the clip's parent folder.
type ClipType string

const (
	TypeHits     ClipType = "hits"
	TypeMisses   ClipType = "misses"
	TypeMontages ClipType = "montages"
	TypeOuttakes ClipType = "outtakes"
	TypeUnknown  ClipType = "unknown"
)

// KnownTypes lists the recognized session subfolders in display order.
var KnownTypes = []ClipType{TypeHits, TypeMisses, TypeMontages, TypeOuttakes}

// Label returns a human-friendly type name ("Hits", "Outtakes").
func (t ClipType) Label() string {
	return cases.Title(language.Und).String(string(t))
}

// ParseClipType maps a folder name onto a ClipType.
func ParseClipType(name string) ClipType {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, known := range KnownTypes {
		if string(known) == lowered {
			return known
		}
	}
	return TypeUnknown
}

// Clip is one source media file within a session. Path is its identity.
type Clip struct {
	Path        string
	Stem        string
	Type        ClipType
	Orientation Orientation
	Session     Session
}

// Filename returns the base name of the clip.
func (c Clip) Filename() string {
	return filepath.Base(c.Path)
}

// Format returns the lowercase container extension without the dot.
func (c Clip) Format() string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(c.Path)), ".")
}

var verticalSuffixes = []string{"-vertical", "-vert"}

// Stem returns the filename without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OrientationOf inspects only the stem suffix. Container metadata and aspect
// ratio are never consulted; output naming depends on this rule.
func OrientationOf(stem string) Orientation {
	lowered := strings.ToLower(stem)
	for _, suffix := range verticalSuffixes {
		if strings.HasSuffix(lowered, suffix) {
			return Vertical
		}
	}
	return Wide
}

// Classify returns the orientation and clip type for a clip path.
func Classify(path string) (Orientation, ClipType) {
	orientation := OrientationOf(Stem(path))
	parent := filepath.Base(filepath.Dir(path))
	return orientation, ParseClipType(parent)
}

// DefaultOutputPrefix is used when no brand prefix is configured.
const DefaultOutputPrefix = "Fortnite-montage"

// OutputFilename builds <prefix>-<YYYYMMDD>[-video<N>][-vert].mp4. The
// -videoN segment appears only when the session name carried an index.
func OutputFilename(prefix string, sess Session, orientation Orientation) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultOutputPrefix
	}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte('-')
	b.WriteString(sess.CompactDate())
	if sess.Indexed {
		b.WriteString("-video")
		b.WriteString(strconv.Itoa(sess.Index))
	}
	if orientation.IsVertical() {
		b.WriteString("-vert")
	}
	b.WriteString(".mp4")
	return b.String()
}
