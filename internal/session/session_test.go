package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"reelforge/internal/services"
	"reelforge/internal/session"
	"reelforge/internal/testsupport"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name        string
		wantIndex   int
		wantIndexed bool
		wantErr     bool
	}{
		{"2025.01.05", 1, false, false},
		{"2025.01.05.2", 2, true, false},
		{"2025.01.05.12", 12, true, false},
		{"2025-01-05", 0, false, true},
		{"2025.1.5", 0, false, true},
		{"2025.02.30", 0, false, true},
		{"2025.01.05.0", 0, false, true},
		{"2025.01.05.x", 0, false, true},
		{"notes", 0, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sess, err := session.ParseName(tc.name)
			if tc.wantErr {
				if !errors.Is(err, services.ErrInvalidSessionFormat) {
					t.Fatalf("expected ErrInvalidSessionFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseName: %v", err)
			}
			if sess.Index != tc.wantIndex || sess.Indexed != tc.wantIndexed {
				t.Fatalf("unexpected index %d indexed=%v", sess.Index, sess.Indexed)
			}
			if sess.Name() != tc.name {
				t.Fatalf("Name() = %q, want %q", sess.Name(), tc.name)
			}
		})
	}
}

func TestSessionDateFormats(t *testing.T) {
	sess, err := session.ParseName("2025.03.07.2")
	if err != nil {
		t.Fatalf("ParseName: %v", err)
	}
	checks := map[string]string{
		sess.DottedDate():    "2025.03.07",
		sess.ISODate():       "2025-03-07",
		sess.CompactDate():   "20250307",
		sess.DisplayDate():   "March 7, 2025",
		sess.OverlayDate():   "March 07, 2025",
		sess.RecordingDate(): "2025-03-07T00:00:00Z",
	}
	for got, want := range checks {
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path            string
		wantOrientation session.Orientation
		wantType        session.ClipType
	}{
		{"/nas/2025.01.05/hits/clip1.mp4", session.Wide, session.TypeHits},
		{"/nas/2025.01.05/hits/clip1-vert.mp4", session.Vertical, session.TypeHits},
		{"/nas/2025.01.05/misses/clip2-VERTICAL.mov", session.Vertical, session.TypeMisses},
		{"/nas/2025.01.05/Outtakes/clip-Vert.mkv", session.Vertical, session.TypeOuttakes},
		{"/nas/2025.01.05/montages/vertical-clip.mp4", session.Wide, session.TypeMontages},
		{"/nas/2025.01.05/clip_vert.mp4", session.Wide, session.TypeUnknown},
		{"/nas/2025.01.05/bloopers/a-vert.mp4", session.Vertical, session.TypeUnknown},
	}
	for _, tc := range tests {
		orientation, clipType := session.Classify(tc.path)
		if orientation != tc.wantOrientation || clipType != tc.wantType {
			t.Errorf("Classify(%q) = (%s, %s), want (%s, %s)", tc.path, orientation, clipType, tc.wantOrientation, tc.wantType)
		}
	}
}

func TestClipTypeLabel(t *testing.T) {
	if got := session.TypeOuttakes.Label(); got != "Outtakes" {
		t.Fatalf("Label() = %q", got)
	}
}

func TestOutputFilename(t *testing.T) {
	plain, _ := session.ParseName("2025.01.05")
	indexed, _ := session.ParseName("2025.01.05.2")
	tests := []struct {
		prefix      string
		sess        session.Session
		orientation session.Orientation
		want        string
	}{
		{"", plain, session.Wide, "Fortnite-montage-20250105.mp4"},
		{"", plain, session.Vertical, "Fortnite-montage-20250105-vert.mp4"},
		{"", indexed, session.Wide, "Fortnite-montage-20250105-video2.mp4"},
		{"Fortnite-montage", indexed, session.Vertical, "Fortnite-montage-20250105-video2-vert.mp4"},
		{"Brand", plain, session.Wide, "Brand-20250105.mp4"},
	}
	for _, tc := range tests {
		if got := session.OutputFilename(tc.prefix, tc.sess, tc.orientation); got != tc.want {
			t.Errorf("OutputFilename(%q, %s) = %q, want %q", tc.prefix, tc.sess.Name(), got, tc.want)
		}
	}
}

func TestDiscoverRejectsMissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent")
	if _, err := session.Discover(missing); !errors.Is(err, services.ErrNotADirectory) {
		t.Fatalf("expected ErrNotADirectory, got %v", err)
	}

	file := filepath.Join(t.TempDir(), "file.txt")
	testsupport.WriteFile(t, file, 1)
	if _, err := session.Discover(file); !errors.Is(err, services.ErrNotADirectory) {
		t.Fatalf("expected ErrNotADirectory for file root, got %v", err)
	}
}

func TestDiscoverWalksSessions(t *testing.T) {
	root := t.TempDir()
	first := testsupport.SessionDir(t, root, "2025.01.05")
	second := testsupport.SessionDir(t, root, "2025.01.06.2")
	ignored := testsupport.SessionDir(t, root, "misc")

	want := []string{
		testsupport.Clip(t, first, "bloopers", "odd.mp4"),
		testsupport.Clip(t, first, "hits", "a.mp4"),
		testsupport.Clip(t, first, "hits", "b-vert.MOV"),
		testsupport.Clip(t, second, "outtakes", "c.mkv"),
	}
	testsupport.Clip(t, first, "hits", "notes.txt")
	testsupport.Clip(t, first, "hits", "Title_Card.mp4")
	testsupport.Clip(t, first, session.RenderedDir, "Fortnite-montage-20250105.mp4")
	testsupport.Clip(t, ignored, "hits", "skip.mp4")
	testsupport.WriteFile(t, filepath.Join(root, "2025.01.07"), 1)

	seq, err := session.Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	var got []string
	var clips []session.Clip
	for clip := range seq {
		got = append(got, clip.Path)
		clips = append(clips, clip)
	}
	if !slices.Equal(got, want) {
		t.Fatalf("discovered %v\nwant %v", got, want)
	}
	if clips[0].Type != session.TypeUnknown {
		t.Fatalf("expected unknown type for bloopers, got %s", clips[0].Type)
	}
	if clips[2].Orientation != session.Vertical || clips[2].Stem != "b-vert" || clips[2].Format() != "mov" {
		t.Fatalf("unexpected vertical clip: %#v", clips[2])
	}
	if !clips[3].Session.Indexed || clips[3].Session.Dir != second {
		t.Fatalf("unexpected session on clip: %#v", clips[3].Session)
	}
}

func TestDiscoverIsLazyAndStoppable(t *testing.T) {
	root := t.TempDir()
	sess := testsupport.SessionDir(t, root, "2025.01.05")
	testsupport.Clip(t, sess, "hits", "a.mp4")
	testsupport.Clip(t, sess, "hits", "b.mp4")

	seq, err := session.Discover(root)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	// Sessions created after Discover returns are still visited.
	late := testsupport.SessionDir(t, root, "2025.01.09")
	testsupport.Clip(t, late, "hits", "late.mp4")

	count := 0
	for range seq {
		count++
		if count == 1 {
			break
		}
	}
	if count != 1 {
		t.Fatalf("expected early stop, got %d", count)
	}

	total := 0
	for range seq {
		total++
	}
	if total != 3 {
		t.Fatalf("expected 3 clips on full walk, got %d", total)
	}
}

func TestSessionClipsSkipsUnreadableFolder(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	root := t.TempDir()
	dir := testsupport.SessionDir(t, root, "2025.01.05")
	testsupport.Clip(t, dir, "hits", "a.mp4")
	locked := filepath.Join(dir, "misses")
	testsupport.Clip(t, dir, "misses", "b.mp4")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	sessions := session.Sessions(root)
	if len(sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions))
	}
	var got []string
	for clip := range session.SessionClips(sessions[0]) {
		got = append(got, clip.Filename())
	}
	if !slices.Equal(got, []string{"a.mp4"}) {
		t.Fatalf("unexpected clips %v", got)
	}
}

func TestIsMedia(t *testing.T) {
	cases := map[string]bool{
		"a.mp4":          true,
		"a.MKV":          true,
		"a.mov":          true,
		"a.avi":          false,
		"notes.json":     false,
		"title_card.mp4": false,
		"TITLE_CARD.MP4": false,
	}
	for name, want := range cases {
		if got := session.IsMedia(name); got != want {
			t.Errorf("IsMedia(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestClipAt(t *testing.T) {
	root := t.TempDir()
	dir := testsupport.SessionDir(t, root, "2025.03.07.2")
	path := testsupport.Clip(t, dir, "montages", "finale-VERT.mkv")

	clip, err := session.ClipAt(path)
	if err != nil {
		t.Fatalf("ClipAt: %v", err)
	}
	if clip.Stem != "finale-VERT" || clip.Type != session.TypeMontages || clip.Orientation != session.Vertical {
		t.Fatalf("unexpected clip %+v", clip)
	}
	if clip.Session.Dir != dir || clip.Session.Index != 2 {
		t.Fatalf("unexpected session %+v", clip.Session)
	}

	if _, err := session.ClipAt(filepath.Join(dir, "montages", "gone.mp4")); !errors.Is(err, services.ErrMissingAsset) {
		t.Fatalf("expected ErrMissingAsset for missing clip, got %v", err)
	}

	loose := filepath.Join(root, "loose", "sub", "clip.mp4")
	testsupport.WriteFile(t, loose, 8)
	if _, err := session.ClipAt(loose); !errors.Is(err, services.ErrInvalidSessionFormat) {
		t.Fatalf("expected ErrInvalidSessionFormat, got %v", err)
	}
}
