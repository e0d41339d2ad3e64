package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"reelforge/internal/config"
	"reelforge/internal/metadata"
	"reelforge/internal/services"
	"reelforge/internal/session"
	"reelforge/internal/testsupport"
)

type fakePlatform struct {
	authErr      error
	uploadErr    error
	playlistErr  error
	calls        []string
	upload       Upload
	thumbnail    string
	playlist     string
	recordedDate string
}

func (f *fakePlatform) Authenticate(context.Context) error {
	f.calls = append(f.calls, "authenticate")
	return f.authErr
}

func (f *fakePlatform) Upload(_ context.Context, up Upload) (string, error) {
	f.calls = append(f.calls, "upload")
	f.upload = up
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "vid123", nil
}

func (f *fakePlatform) SetThumbnail(_ context.Context, _ string, path string) error {
	f.calls = append(f.calls, "thumbnail")
	f.thumbnail = path
	return nil
}

func (f *fakePlatform) AddToPlaylist(_ context.Context, playlistID, _ string) error {
	f.calls = append(f.calls, "playlist")
	f.playlist = playlistID
	return f.playlistErr
}

func (f *fakePlatform) SetRecordingDate(_ context.Context, _ string, date string) error {
	f.calls = append(f.calls, "recording_date")
	f.recordedDate = date
	return nil
}

type fakeThumbnails struct{ calls int }

func (f *fakeThumbnails) Extract(_ context.Context, _ string, out string) (string, error) {
	f.calls++
	return out, os.WriteFile(out, []byte("jpg"), 0o644)
}

type fakeDescriptions struct {
	text string
	err  error
}

func (f fakeDescriptions) Describe(context.Context, metadata.SessionMetadata, session.Orientation) (string, error) {
	return f.text, f.err
}

type fixture struct {
	cfg        *config.Config
	platform   *fakePlatform
	thumbs     *fakeThumbnails
	sessionDir string
	request    Request
}

func newFixture(t *testing.T, clipName string, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	sessionDir := testsupport.SessionDir(t, cfg.Paths.NASRoot, "2025.07.01")
	clip := testsupport.Clip(t, sessionDir, "hits", clipName)
	if err := os.WriteFile(filepath.Join(sessionDir, "notes.json"), []byte(`{"highlight":"Triple snipe","tags":["Snipes","fortnite"]}`), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	orientation, _ := session.Classify(clip)
	rendered := filepath.Join(sessionDir, "rendered", "Fortnite-montage-20250701.mp4")
	testsupport.WriteFile(t, rendered, 32)
	return &fixture{
		cfg:        cfg,
		platform:   &fakePlatform{},
		thumbs:     &fakeThumbnails{},
		sessionDir: sessionDir,
		request: Request{
			RenderedFile: rendered,
			SessionDir:   sessionDir,
			SourceStem:   session.Stem(clip),
			Orientation:  orientation,
		},
	}
}

func (f *fixture) orchestrator(descriptions DescriptionSource, opts ...Option) *Orchestrator {
	opts = append([]Option{WithClock(func() time.Time {
		return time.Date(2025, 7, 2, 12, 0, 0, 0, time.UTC)
	})}, opts...)
	return NewOrchestrator(f.cfg, f.platform, descriptions, f.thumbs, metadata.NewArchive(f.cfg.Paths.ArchiveDir), nil, opts...)
}

func TestPublishWideRunsEveryStage(t *testing.T) {
	f := newFixture(t, "snipe.mp4", testsupport.WithPlaylists("PL-wide", "PL-vert"))
	res, err := f.orchestrator(fakeDescriptions{text: "Gramps did it again"}).Publish(context.Background(), f.request)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	wantCalls := []string{"authenticate", "upload", "thumbnail", "playlist", "recording_date"}
	if !slices.Equal(f.platform.calls, wantCalls) {
		t.Fatalf("calls = %v, want %v", f.platform.calls, wantCalls)
	}
	up := f.platform.upload
	if up.Title != "#Fortnite #Solo #Zerobuild #Highlights with Gramps from July 1, 2025" {
		t.Fatalf("unexpected title %q", up.Title)
	}
	if up.Description != "Gramps did it again" {
		t.Fatalf("unexpected description %q", up.Description)
	}
	if up.Privacy != PrivacyPublic || up.CategoryID != "20" {
		t.Fatalf("unexpected privacy/category %s/%s", up.Privacy, up.CategoryID)
	}
	wantTags := []string{"Fortnite", "Zero Build", "Solo", "Gramps", "CoolHandGramps", "Snipes"}
	if !slices.Equal(up.Tags, wantTags) {
		t.Fatalf("tags = %v, want %v", up.Tags, wantTags)
	}
	if f.platform.playlist != "PL-wide" {
		t.Fatalf("unexpected playlist %q", f.platform.playlist)
	}
	if f.platform.recordedDate != "2025-07-01T00:00:00Z" {
		t.Fatalf("unexpected recording date %q", f.platform.recordedDate)
	}
	if !strings.HasSuffix(f.platform.thumbnail, "Fortnite-montage-20250701.jpg") {
		t.Fatalf("unexpected thumbnail %q", f.platform.thumbnail)
	}

	if res.VideoURL != "https://youtu.be/vid123" || res.Stage != StageDone || res.Digest == "" {
		t.Fatalf("unexpected result %#v", res)
	}
	wantArchive := filepath.Join(f.cfg.Paths.ArchiveDir, "2025.07.01", "snipe.json")
	if res.ArchivePath != wantArchive {
		t.Fatalf("archive path = %s, want %s", res.ArchivePath, wantArchive)
	}
	rec, err := metadata.NewArchive(f.cfg.Paths.ArchiveDir).Load(wantArchive)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !slices.Equal(rec.YouTubeURLs, []string{"https://youtu.be/vid123"}) || rec.Highlight != "Triple snipe" {
		t.Fatalf("unexpected record %#v", rec)
	}
	if rec.PublishedAt != "2025-07-02T12:00:00Z" {
		t.Fatalf("unexpected published_at %q", rec.PublishedAt)
	}
	if !res.CleanedUp {
		t.Fatal("expected cleanup")
	}
	if _, err := os.Stat(f.sessionDir); !os.IsNotExist(err) {
		t.Fatalf("expected session removed, stat err=%v", err)
	}
}

func TestPublishTitleSuffixFromArchiveCount(t *testing.T) {
	f := newFixture(t, "snipe.mp4")
	dateDir := filepath.Join(f.cfg.Paths.ArchiveDir, "2025.07.01")
	testsupport.WriteFile(t, filepath.Join(dateDir, "a.json"), 2)
	testsupport.WriteFile(t, filepath.Join(dateDir, "b.json"), 2)
	testsupport.WriteFile(t, filepath.Join(dateDir, "notes.txt"), 2)

	res, err := f.orchestrator(nil).Publish(context.Background(), f.request)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !strings.HasSuffix(res.Title, "July 1, 2025 Video 3") {
		t.Fatalf("unexpected title %q", res.Title)
	}
}

func TestPublishVerticalSkipsThumbnail(t *testing.T) {
	f := newFixture(t, "snipe-vert.mp4", testsupport.WithPlaylists("PL-wide", "PL-vert"), testsupport.WithDebug(true))
	res, err := f.orchestrator(nil).Publish(context.Background(), f.request)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if f.thumbs.calls != 0 || slices.Contains(f.platform.calls, "thumbnail") {
		t.Fatalf("vertical uploads must not get a thumbnail: %v", f.platform.calls)
	}
	if f.platform.playlist != "PL-vert" {
		t.Fatalf("unexpected playlist %q", f.platform.playlist)
	}
	if f.platform.upload.Privacy != PrivacyPrivate {
		t.Fatalf("debug uploads must be private, got %s", f.platform.upload.Privacy)
	}
	if f.platform.upload.Description != f.cfg.Brand.FallbackDescription {
		t.Fatalf("expected fallback description, got %q", f.platform.upload.Description)
	}
	if res.CleanedUp {
		t.Fatal("debug mode must keep the session")
	}
	if _, err := os.Stat(f.sessionDir); err != nil {
		t.Fatalf("expected session kept: %v", err)
	}
}

func TestPublishPlaylistSkippedWhenUnconfigured(t *testing.T) {
	f := newFixture(t, "snipe.mp4")
	if _, err := f.orchestrator(nil).Publish(context.Background(), f.request); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if slices.Contains(f.platform.calls, "playlist") {
		t.Fatalf("playlist must be skipped: %v", f.platform.calls)
	}
}

func TestPublishDescriptionFailureFallsBack(t *testing.T) {
	f := newFixture(t, "snipe.mp4")
	if _, err := f.orchestrator(fakeDescriptions{err: errors.New("rate limited")}).Publish(context.Background(), f.request); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if f.platform.upload.Description != f.cfg.Brand.FallbackDescription {
		t.Fatalf("expected fallback description, got %q", f.platform.upload.Description)
	}
}

func TestPublishFailures(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*fixture)
		stage  Stage
		marker error
	}{
		{
			name:   "authentication",
			setup:  func(f *fixture) { f.platform.authErr = errors.New("token expired") },
			stage:  StageAuthenticate,
			marker: services.ErrAuthentication,
		},
		{
			name:   "metadata not found",
			setup:  func(f *fixture) { f.request.SourceStem = "other" },
			stage:  StageResolveMetadata,
			marker: services.ErrMetadataNotFound,
		},
		{
			name: "notes parse",
			setup: func(f *fixture) {
				_ = os.WriteFile(filepath.Join(f.sessionDir, "notes.json"), []byte("{not json"), 0o644)
			},
			stage:  StageResolveMetadata,
			marker: services.ErrNotesParse,
		},
		{
			name:   "upload",
			setup:  func(f *fixture) { f.platform.uploadErr = errors.New("quota exceeded") },
			stage:  StageUpload,
			marker: services.ErrUpload,
		},
		{
			name: "playlist",
			setup: func(f *fixture) {
				f.cfg.YouTube.PlaylistWide = "PL-wide"
				f.platform.playlistErr = errors.New("playlist gone")
			},
			stage:  StagePlaylist,
			marker: services.ErrUpload,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "snipe.mp4")
			tt.setup(f)
			res, err := f.orchestrator(nil).Publish(context.Background(), f.request)
			var stageErr *StageError
			if !errors.As(err, &stageErr) || stageErr.Stage != tt.stage {
				t.Fatalf("expected stage %s error, got %v", tt.stage, err)
			}
			if res.Stage != tt.stage {
				t.Fatalf("result stage = %s, want %s", res.Stage, tt.stage)
			}
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected marker %v, got %v", tt.marker, err)
			}
			if _, statErr := os.Stat(f.sessionDir); statErr != nil {
				t.Fatalf("failed publish must not clean up: %v", statErr)
			}
		})
	}
}

func TestPublishPersistFailureIsUnarchived(t *testing.T) {
	f := newFixture(t, "snipe.mp4")
	if err := os.MkdirAll(filepath.Join(f.cfg.Paths.ArchiveDir, "2025.07.01", "snipe.json"), 0o755); err != nil {
		t.Fatal(err)
	}
	res, err := f.orchestrator(nil).Publish(context.Background(), f.request)
	var unarchived *UnarchivedError
	if !errors.As(err, &unarchived) {
		t.Fatalf("expected UnarchivedError, got %v", err)
	}
	if unarchived.VideoURL != "https://youtu.be/vid123" || res.VideoURL != unarchived.VideoURL {
		t.Fatalf("expected video url on error, got %q / %q", unarchived.VideoURL, res.VideoURL)
	}
	if !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("expected persistence cause, got %v", err)
	}
	if services.FailureStatus(err) != "unarchived" {
		t.Fatalf("unexpected failure status %s", services.FailureStatus(err))
	}
}

func TestPublishCleanupFailureIsWarningOnly(t *testing.T) {
	f := newFixture(t, "snipe.mp4")
	o := f.orchestrator(nil, WithRemoveAll(func(string) error { return errors.New("device busy") }))
	res, err := o.Publish(context.Background(), f.request)
	if err != nil {
		t.Fatalf("cleanup failure must not fail publish: %v", err)
	}
	if res.CleanedUp || res.ArchivePath == "" {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestPublishCleanupWaitsForSiblingClips(t *testing.T) {
	f := newFixture(t, "snipe.mp4")
	testsupport.Clip(t, f.sessionDir, "montages", "b.mp4")
	o := f.orchestrator(nil)

	res, err := o.Publish(context.Background(), f.request)
	if err != nil {
		t.Fatalf("Publish first clip: %v", err)
	}
	if res.CleanedUp {
		t.Fatal("session with an unpublished clip must be kept")
	}
	if _, err := os.Stat(filepath.Join(f.sessionDir, "montages", "b.mp4")); err != nil {
		t.Fatalf("sibling clip must stay on disk: %v", err)
	}

	second := f.request
	second.SourceStem = "b"
	res, err = o.Publish(context.Background(), second)
	if err != nil {
		t.Fatalf("Publish second clip: %v", err)
	}
	if !res.CleanedUp {
		t.Fatal("expected cleanup once every clip is archived")
	}
	if _, err := os.Stat(f.sessionDir); !os.IsNotExist(err) {
		t.Fatalf("expected session removed, stat err=%v", err)
	}
}

func TestPublishRefusesArchivedClip(t *testing.T) {
	f := newFixture(t, "snipe.mp4")
	testsupport.WriteFile(t, filepath.Join(f.cfg.Paths.ArchiveDir, "2025.07.01", "snipe.json"), 2)

	_, err := f.orchestrator(nil).Publish(context.Background(), f.request)
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageResolveMetadata {
		t.Fatalf("expected resolve_metadata failure, got %v", err)
	}
	if slices.Contains(f.platform.calls, "upload") {
		t.Fatal("archived clip must not be uploaded again")
	}
}

func TestPublishKeepsSessionWhenStemsCollide(t *testing.T) {
	f := newFixture(t, "snipe.mp4")
	testsupport.Clip(t, f.sessionDir, "misses", "snipe.mp4")

	res, err := f.orchestrator(nil).Publish(context.Background(), f.request)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if res.CleanedUp || res.ArchivePath == "" {
		t.Fatalf("unexpected result %#v", res)
	}
	if _, err := os.Stat(filepath.Join(f.sessionDir, "misses", "snipe.mp4")); err != nil {
		t.Fatalf("clip sharing the stem must stay on disk: %v", err)
	}
}

func TestTitle(t *testing.T) {
	sess, _ := session.ParseName("2025.12.05.3")
	prefix := "#Fortnite #Solo #Zerobuild #Highlights with Gramps from"
	if got := Title(prefix, sess, 0); got != prefix+" December 5, 2025" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := Title(prefix, sess, 1); got != prefix+" December 5, 2025 Video 2" {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestMergeTags(t *testing.T) {
	got := MergeTags([]string{"Fortnite", "Solo"}, []string{" solo ", "", "Clutch", "FORTNITE", "Clutch"})
	if !slices.Equal(got, []string{"Fortnite", "Solo", "Clutch"}) {
		t.Fatalf("unexpected tags %v", got)
	}
}

type recordingCompleter struct {
	system, user string
}

func (r *recordingCompleter) Complete(_ context.Context, system, user string) (string, error) {
	r.system, r.user = system, user
	return "  generated  ", nil
}

func TestGeneratedDescriptionsPromptSelection(t *testing.T) {
	sess, _ := session.ParseName("2025.07.01")
	client := &recordingCompleter{}
	gen := NewGeneratedDescriptions(client)
	gen.seed = func() int { return 42 }

	generic := metadata.SessionMetadata{Highlight: metadata.DefaultHighlight, Session: sess}
	text, err := gen.Describe(context.Background(), generic, session.Wide)
	if err != nil || text != "generated" {
		t.Fatalf("Describe = %q, %v", text, err)
	}
	if !strings.Contains(client.user, "Cool-Hand Gramps") || !strings.Contains(client.user, "Entropy seed: 42") {
		t.Fatalf("expected montage prompt, got %q", client.user)
	}

	custom := metadata.SessionMetadata{Highlight: "Triple snipe", NotesText: "Won with 1 HP", Session: sess}
	if _, err := gen.Describe(context.Background(), custom, session.Vertical); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	for _, want := range []string{"Fortnite Shorts video from July 1, 2025", "Highlight: Triple snipe", "Won with 1 HP"} {
		if !strings.Contains(client.user, want) {
			t.Fatalf("highlight prompt missing %q: %q", want, client.user)
		}
	}
}

type scriptedCompleter struct {
	prompts []string
	results []error
}

func (s *scriptedCompleter) Complete(_ context.Context, _, user string) (string, error) {
	s.prompts = append(s.prompts, user)
	if err := s.results[len(s.prompts)-1]; err != nil {
		return "", err
	}
	return "generic fun", nil
}

func TestGeneratedDescriptionsHighlightFallsBackToMontage(t *testing.T) {
	sess, _ := session.ParseName("2025.07.01")
	custom := metadata.SessionMetadata{Highlight: "Triple snipe", Session: sess}

	client := &scriptedCompleter{results: []error{errors.New("rate limited"), nil}}
	gen := NewGeneratedDescriptions(client)
	gen.seed = func() int { return 7 }
	text, err := gen.Describe(context.Background(), custom, session.Wide)
	if err != nil || text != "generic fun" {
		t.Fatalf("Describe = %q, %v", text, err)
	}
	if len(client.prompts) != 2 {
		t.Fatalf("expected highlight then montage prompt, got %d calls", len(client.prompts))
	}
	if !strings.Contains(client.prompts[0], "Highlight: Triple snipe") || !strings.Contains(client.prompts[1], "Entropy seed: 7") {
		t.Fatalf("unexpected prompt order: %q", client.prompts)
	}

	failing := &scriptedCompleter{results: []error{errors.New("rate limited"), errors.New("down")}}
	if _, err := NewGeneratedDescriptions(failing).Describe(context.Background(), custom, session.Wide); err == nil {
		t.Fatal("expected error when both prompts fail")
	}

	generic := metadata.SessionMetadata{Highlight: metadata.DefaultHighlight, Session: sess}
	once := &scriptedCompleter{results: []error{errors.New("down")}}
	if _, err := NewGeneratedDescriptions(once).Describe(context.Background(), generic, session.Wide); err == nil || len(once.prompts) != 1 {
		t.Fatalf("generic sessions try the montage prompt once, got %d calls, err=%v", len(once.prompts), err)
	}
}

func TestGeneratedDescriptionsUnconfigured(t *testing.T) {
	if _, err := NewGeneratedDescriptions(nil).Describe(context.Background(), metadata.SessionMetadata{}, session.Wide); err == nil {
		t.Fatal("expected error without a client")
	}
}
