package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bowmanhq/bowman/pkg/aim"
	"github.com/bowmanhq/bowman/pkg/errors"
)

func ptr[T any](v T) *T { return &v }

func fixedClock(t *testing.T) {
	t.Helper()
	now := time.Date(2025, 6, 22, 10, 30, 0, 0, time.UTC)
	clock = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	t.Cleanup(func() { clock = time.Now })
}

func initRepo(t *testing.T) (*FileStore, aim.ID) {
	t.Helper()
	fixedClock(t)
	dir := filepath.Join(t.TempDir(), "my-project")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	s, id, err := Init(context.Background(), dir, aim.Draft{
		Title:         "Root Aim",
		Description:   "Top level goal",
		Tags:          []string{"core"},
		RepositoryURL: "https://example.com/my-project",
	})
	if err != nil {
		t.Fatalf("Init() = %v", err)
	}
	return s, id
}

func TestInitLayout(t *testing.T) {
	s, id := initRepo(t)
	ctx := context.Background()

	for _, p := range []string{"aims", "contributions", "meta.json", "aims/" + id.ID + ".json"} {
		if _, err := os.Stat(filepath.Join(s.root, p)); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}

	meta, err := s.Meta(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Version != "1.0.0" || meta.RootAimID != id {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Repository.Name != "my-project" || meta.Repository.URL != "https://example.com/my-project" {
		t.Errorf("repository = %+v", meta.Repository)
	}

	root, err := s.Aim(ctx, id.ID)
	if err != nil {
		t.Fatal(err)
	}
	if root.Status != aim.StatusNotReached || *root.Metadata.Position != aim.RootPosition {
		t.Errorf("root = %+v", root)
	}
}

func TestInitWritesIndentedJSON(t *testing.T) {
	s, _ := initRepo(t)
	data, err := os.ReadFile(filepath.Join(s.root, "meta.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "{\n  \"version\": \"1.0.0\",") {
		t.Errorf("meta.json not indented:\n%s", data)
	}
	if !strings.Contains(string(data), `"repoLink": null`) {
		t.Errorf("meta.json should carry a null repoLink:\n%s", data)
	}
}

func TestInitErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := initRepo(t)

	_, _, err := Init(ctx, s.Path(), aim.Draft{Title: "t", Description: "d"})
	if !errors.Is(err, errors.ErrCodeAlreadyInitialized) {
		t.Errorf("second Init = %v, want ALREADY_INITIALIZED", err)
	}

	_, _, err = Init(ctx, t.TempDir(), aim.Draft{Title: "t"})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Init without description = %v", err)
	}

	_, _, err = Init(ctx, "", aim.Draft{Title: "t", Description: "d"})
	if errors.UserMessage(err) != "Path is required" {
		t.Errorf("Init with empty path = %v", err)
	}
}

func TestOpen(t *testing.T) {
	s, _ := initRepo(t)
	if _, err := Open(s.Path()); err != nil {
		t.Errorf("Open(initialized) = %v", err)
	}
	if _, err := Open(t.TempDir()); !errors.Is(err, errors.ErrCodeRepoNotInitialized) {
		t.Errorf("Open(empty) = %v, want REPO_NOT_INITIALIZED", err)
	}
	if _, err := Open("relative/path"); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("Open(relative) = %v, want INVALID_PATH", err)
	}
}

func TestAimNotFound(t *testing.T) {
	s, _ := initRepo(t)
	ctx := context.Background()

	_, err := s.Aim(ctx, "aim_missing")
	if !errors.Is(err, errors.ErrCodeAimNotFound) || errors.UserMessage(err) != "Aim not found" {
		t.Errorf("Aim(missing) = %v", err)
	}
	if _, err := s.Aim(ctx, "../../etc/passwd"); !errors.Is(err, errors.ErrCodeInvalidAimID) {
		t.Errorf("Aim(traversal) = %v", err)
	}
}

func TestMetaNotFound(t *testing.T) {
	s, _ := initRepo(t)
	if err := os.Remove(filepath.Join(s.root, "meta.json")); err != nil {
		t.Fatal(err)
	}
	_, err := s.Meta(context.Background())
	if !errors.Is(err, errors.ErrCodeMetaNotFound) || errors.UserMessage(err) != "Meta file not found" {
		t.Errorf("Meta() = %v", err)
	}
}

func TestCreateAndUpdateAim(t *testing.T) {
	s, rootID := initRepo(t)
	ctx := context.Background()

	id, err := s.CreateAim(ctx, aim.Draft{Title: "Child", Description: "Sub goal", Effort: ptr(9.0)})
	if err != nil {
		t.Fatal(err)
	}
	if id == rootID {
		t.Fatal("CreateAim reused the root id")
	}
	a, err := s.Aim(ctx, id.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p := *a.Metadata.Position; p == aim.RootPosition {
		t.Errorf("new aim placed on the root: %v", p)
	}
	if a.Effort() != 9 {
		t.Errorf("Effort = %v", a.Effort())
	}

	aims, err := s.Aims(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(aims) != 2 || aims[0].ID != rootID || aims[1].ID != id {
		t.Errorf("Aims() order = %v", aims)
	}

	updated, err := s.UpdateAim(ctx, id.ID, aim.Patch{Status: ptr(aim.StatusReached)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != aim.StatusReached || updated.Title != "Child" {
		t.Errorf("UpdateAim = %+v", updated)
	}
	reread, _ := s.Aim(ctx, id.ID)
	if reread.Status != aim.StatusReached || reread.LastModified == reread.Created {
		t.Errorf("update not persisted: %+v", reread)
	}

	if _, err := s.UpdateAim(ctx, "aim_missing", aim.Patch{}); !errors.Is(err, errors.ErrCodeAimNotFound) {
		t.Errorf("UpdateAim(missing) = %v", err)
	}
	if _, err := s.CreateAim(ctx, aim.Draft{Title: "no description"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("CreateAim(invalid) = %v", err)
	}
}

func TestContributions(t *testing.T) {
	s, rootID := initRepo(t)
	ctx := context.Background()

	childID, _ := s.CreateAim(ctx, aim.Draft{Title: "Child", Description: "d"})

	in, err := s.Incoming(ctx, rootID.ID)
	if err != nil || in == nil || len(in) != 0 {
		t.Errorf("Incoming before any contribution = (%v, %v), want empty list", in, err)
	}

	c := aim.Contribution{
		FromAim:     childID,
		ToAim:       rootID,
		Explanation: "child unlocks root",
		Type:        aim.TypeEnables,
		Strength:    0.8,
	}
	if err := s.CreateContribution(ctx, c); err != nil {
		t.Fatal(err)
	}

	in, err = s.Incoming(ctx, rootID.ID)
	if err != nil || len(in) != 1 {
		t.Fatalf("Incoming = (%v, %v)", in, err)
	}
	if in[0].FromAim != childID || in[0].Strength != 0.8 || in[0].Created == "" {
		t.Errorf("incoming = %+v", in[0])
	}

	out, err := s.Outgoing(ctx, childID.ID)
	if err != nil || len(out) != 1 || out[0].ToAim != rootID {
		t.Errorf("Outgoing = (%v, %v)", out, err)
	}

	raw, err := os.ReadFile(filepath.Join(s.root, "contributions", childID.ID, "to", rootID.ID+".json"))
	if err != nil {
		t.Fatal(err)
	}
	var ref map[string]any
	if err := json.Unmarshal(raw, &ref); err != nil {
		t.Fatal(err)
	}
	if len(ref) != 2 {
		t.Errorf("reference file should hold only toAim and created, got %v", ref)
	}

	missing := c
	missing.FromAim = aim.LocalID("aim_ghost")
	if err := s.CreateContribution(ctx, missing); !errors.Is(err, errors.ErrCodeAimNotFound) {
		t.Errorf("CreateContribution(missing aim) = %v", err)
	}
	self := c
	self.ToAim = self.FromAim
	if err := s.CreateContribution(ctx, self); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("CreateContribution(self) = %v", err)
	}
}

func TestTagsAndSearch(t *testing.T) {
	s, _ := initRepo(t)
	ctx := context.Background()

	drafts := []aim.Draft{
		{Title: "Write docs", Description: "Document the API", Tags: []string{"docs", "core"}},
		{Title: "Fix parser", Description: "Edge cases", StatusNote: "blocked on review", Tags: []string{"bug"}},
		{Title: "Landing page", Description: "Marketing site", Tags: []string{"web"}},
	}
	for _, d := range drafts {
		if _, err := s.CreateAim(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	tags, err := s.Tags(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []aim.TagCount{
		{Name: "core", Count: 2},
		{Name: "bug", Count: 1},
		{Name: "docs", Count: 1},
		{Name: "web", Count: 1},
	}
	if len(tags) != len(want) {
		t.Fatalf("Tags() = %v", tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("Tags()[%d] = %v, want %v", i, tags[i], want[i])
		}
	}

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"tag any-of", Query{Tags: []string{"bug", "web"}}, []string{"Fix parser", "Landing page"}},
		{"text in title", Query{Text: "PARSER"}, []string{"Fix parser"}},
		{"text in status note", Query{Text: "review"}, []string{"Fix parser"}},
		{"text in tag", Query{Text: "doc"}, []string{"Write docs"}},
		{"tag and text", Query{Tags: []string{"core"}, Text: "api"}, []string{"Write docs"}},
		{"limit", Query{Limit: 2}, []string{"Root Aim", "Write docs"}},
		{"no match", Query{Text: "nothing"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if got == nil {
				t.Fatal("Search should return a non-nil list")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Search() returned %d aims, want %d", len(got), len(tt.want))
			}
			for i, title := range tt.want {
				if got[i].Title != title {
					t.Errorf("result[%d] = %q, want %q", i, got[i].Title, title)
				}
			}
		})
	}
}

func TestConcurrentWrites(t *testing.T) {
	s, _ := initRepo(t)
	clock = time.Now
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateAim(ctx, aim.Draft{Title: "t", Description: "d"}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	aims, err := s.Aims(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(aims) != 17 {
		t.Errorf("Aims() = %d, want 17", len(aims))
	}
}
