package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bowmanhq/bowman/pkg/aim"
	"github.com/bowmanhq/bowman/pkg/errors"
)

// Directory and file names inside a repository.
const (
	QuiverDir        = ".quiver"
	metaFile         = "meta.json"
	aimsDir          = "aims"
	contributionsDir = "contributions"
)

// FileStore reads and writes a .quiver directory.
type FileStore struct {
	root   string // <repo>/.quiver
	repo   string
	logger *log.Logger
	mu     sync.RWMutex
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the logger used for write events.
func WithLogger(l *log.Logger) Option {
	return func(s *FileStore) { s.logger = l }
}

// Exists reports whether repoPath contains a .quiver directory.
func Exists(repoPath string) bool {
	info, err := os.Stat(filepath.Join(repoPath, QuiverDir))
	return err == nil && info.IsDir()
}

// Open opens an initialized repository.
func Open(repoPath string, opts ...Option) (*FileStore, error) {
	if err := errors.ValidateRepoPath(repoPath); err != nil {
		return nil, err
	}
	if !Exists(repoPath) {
		return nil, errors.New(errors.ErrCodeRepoNotInitialized, "no %s directory found in %s", QuiverDir, repoPath)
	}
	return newFileStore(repoPath, opts), nil
}

// Init creates the .quiver layout in repoPath with root as its root aim.
// The root aim is placed at [aim.RootPosition] unless the draft positions it.
func Init(ctx context.Context, repoPath string, root aim.Draft, opts ...Option) (*FileStore, aim.ID, error) {
	if err := errors.ValidateRepoPath(repoPath); err != nil {
		return nil, aim.ID{}, err
	}
	if err := root.Validate(); err != nil {
		return nil, aim.ID{}, err
	}
	if Exists(repoPath) {
		return nil, aim.ID{}, errors.New(errors.ErrCodeAlreadyInitialized, "%s directory already exists", QuiverDir)
	}

	s := newFileStore(repoPath, opts)
	start := time.Now()
	id, err := s.init(root)
	observeWrite(ctx, "init", start, &err)
	if err != nil {
		return nil, aim.ID{}, err
	}
	s.logger.Debug("initialized repository", "path", repoPath, "root", id.ID)
	return s, id, nil
}

func newFileStore(repoPath string, opts []Option) *FileStore {
	s := &FileStore{
		root:   filepath.Join(repoPath, QuiverDir),
		repo:   repoPath,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FileStore) init(root aim.Draft) (aim.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dir := range []string{aimsDir, contributionsDir} {
		if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
			return aim.ID{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	now := clock()
	id := aim.NewID()
	a := root.Build(id, aim.RootPosition, now)
	if err := s.writeJSON(s.aimPath(id.ID), a); err != nil {
		return aim.ID{}, err
	}

	ts := aim.Timestamp(now)
	meta := aim.Meta{
		Version:      aim.MetaVersion,
		RootAimID:    id,
		Created:      ts,
		LastModified: ts,
		Repository:   aim.Repository{Name: repoName(s.repo), URL: root.RepositoryURL},
	}
	if err := s.writeJSON(filepath.Join(s.root, metaFile), meta); err != nil {
		return aim.ID{}, err
	}
	return id, nil
}

// repoName is the last path segment, or "unknown".
func repoName(path string) string {
	name := filepath.Base(filepath.Clean(path))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "unknown"
	}
	return name
}

// Path returns the repository directory (the parent of .quiver).
func (s *FileStore) Path() string { return s.repo }

// Meta implements Store.
func (s *FileStore) Meta(ctx context.Context) (m *aim.Meta, err error) {
	defer observeRead(ctx, "meta", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()

	m = &aim.Meta{}
	if err := readJSON(filepath.Join(s.root, metaFile), m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetaNotFound, err, "Meta file not found")
	}
	return m, nil
}

// Aim implements Store.
func (s *FileStore) Aim(ctx context.Context, id string) (a *aim.Aim, err error) {
	defer observeRead(ctx, "aim", time.Now(), &err)
	if err := errors.ValidateAimID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readAim(id)
}

func (s *FileStore) readAim(id string) (*aim.Aim, error) {
	a := &aim.Aim{}
	if err := readJSON(s.aimPath(id), a); err != nil {
		return nil, errors.Wrap(errors.ErrCodeAimNotFound, err, "Aim not found")
	}
	return a, nil
}

// Aims implements Store. Aims are ordered by creation time.
func (s *FileStore) Aims(ctx context.Context) (aims []aim.Aim, err error) {
	defer observeRead(ctx, "aims", time.Now(), &err)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readAims()
}

func (s *FileStore) readAims() ([]aim.Aim, error) {
	aims, err := readDir[aim.Aim](filepath.Join(s.root, aimsDir))
	if err != nil {
		return nil, fmt.Errorf("read aims: %w", err)
	}
	sortAims(aims)
	return aims, nil
}

// Incoming implements Store. A missing directory yields an empty list.
func (s *FileStore) Incoming(ctx context.Context, id string) (cs []aim.Contribution, err error) {
	defer observeRead(ctx, "contributions", time.Now(), &err)
	if err := errors.ValidateAimID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	cs, err = readDir[aim.Contribution](filepath.Join(s.root, contributionsDir, id, string(DirFrom)))
	if err != nil {
		return nil, fmt.Errorf("read contributions: %w", err)
	}
	return cs, nil
}

// Outgoing implements Store. A missing directory yields an empty list.
func (s *FileStore) Outgoing(ctx context.Context, id string) (refs []aim.ContributionRef, err error) {
	defer observeRead(ctx, "references", time.Now(), &err)
	if err := errors.ValidateAimID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	refs, err = readDir[aim.ContributionRef](filepath.Join(s.root, contributionsDir, id, string(DirTo)))
	if err != nil {
		return nil, fmt.Errorf("read contribution references: %w", err)
	}
	return refs, nil
}

// CreateAim implements Store. Aims without a position are placed on a
// spiral around the root.
func (s *FileStore) CreateAim(ctx context.Context, d aim.Draft) (id aim.ID, err error) {
	defer observeWrite(ctx, "aim", time.Now(), &err)
	if err := d.Validate(); err != nil {
		return aim.ID{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readAims()
	if err != nil {
		return aim.ID{}, err
	}
	id = aim.NewID()
	a := d.Build(id, SpawnPosition(aim.RootPosition, len(existing)), clock())
	if err := s.writeJSON(s.aimPath(id.ID), a); err != nil {
		return aim.ID{}, err
	}
	s.logger.Debug("created aim", "id", id.ID, "title", a.Title)
	return id, nil
}

// UpdateAim implements Store.
func (s *FileStore) UpdateAim(ctx context.Context, id string, p aim.Patch) (a *aim.Aim, err error) {
	defer observeWrite(ctx, "aim", time.Now(), &err)
	if err := errors.ValidateAimID(id); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err = s.readAim(id)
	if err != nil {
		return nil, err
	}
	p.Apply(a, clock())
	if err := s.writeJSON(s.aimPath(id), a); err != nil {
		return nil, err
	}
	s.logger.Debug("updated aim", "id", id)
	return a, nil
}

// CreateContribution implements Store. Both aims must exist. The full
// contribution is written on the target side and a reference on the source
// side.
func (s *FileStore) CreateContribution(ctx context.Context, c aim.Contribution) (err error) {
	defer observeWrite(ctx, "contribution", time.Now(), &err)
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range []string{c.FromAim.ID, c.ToAim.ID} {
		if _, err := os.Stat(s.aimPath(id)); err != nil {
			return errors.New(errors.ErrCodeAimNotFound, "Aim not found: %s", id)
		}
	}
	if c.Created == "" {
		c.Created = aim.Timestamp(clock())
	}

	from, into := c.FromAim.ID, c.ToAim.ID
	if err := s.writeJSON(filepath.Join(s.root, contributionsDir, into, string(DirFrom), from+".json"), c); err != nil {
		return err
	}
	ref := aim.ContributionRef{ToAim: c.ToAim, Created: c.Created}
	if err := s.writeJSON(filepath.Join(s.root, contributionsDir, from, string(DirTo), into+".json"), ref); err != nil {
		return err
	}
	s.logger.Debug("created contribution", "from", from, "to", into, "type", c.Type)
	return nil
}

// Tags implements Store.
func (s *FileStore) Tags(ctx context.Context) ([]aim.TagCount, error) {
	aims, err := s.Aims(ctx)
	if err != nil {
		return nil, err
	}
	return CountTags(aims), nil
}

// Search implements Store.
func (s *FileStore) Search(ctx context.Context, q Query) ([]aim.Aim, error) {
	aims, err := s.Aims(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(aims, q), nil
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) aimPath(id string) string {
	return filepath.Join(s.root, aimsDir, id+".json")
}

// writeJSON writes v indented with two spaces, creating parent directories.
func (s *FileStore) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// readDir decodes every *.json file in dir, in file name order. A missing
// directory yields an empty, non-nil slice.
func readDir[T any](dir string) ([]T, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		var v T
		if err := readJSON(filepath.Join(dir, e.Name()), &v); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

var _ Store = (*FileStore)(nil)
