package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bowmanhq/bowman/pkg/aim"
	"github.com/bowmanhq/bowman/pkg/cache"
	"github.com/bowmanhq/bowman/pkg/errors"
)

// Collection names.
const (
	collMeta          = "meta"
	collAims          = "aims"
	collContributions = "contributions"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI      string
	Database string
	Logger   *log.Logger
}

// MongoStore keeps the .quiver documents in MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger *log.Logger
}

// OpenMongo connects to MongoDB and pings the server, retrying with backoff.
func OpenMongo(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri and database are required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "connect to mongo")
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "ping mongo")
	}

	l := cfg.Logger
	if l == nil {
		l = log.Default()
	}
	return &MongoStore{client: client, db: client.Database(cfg.Database), logger: l}, nil
}

// Init writes meta and the root aim into an empty database.
func (s *MongoStore) Init(ctx context.Context, repoName string, root aim.Draft) (id aim.ID, err error) {
	defer observeWrite(ctx, "init", time.Now(), &err)
	if err := root.Validate(); err != nil {
		return aim.ID{}, err
	}
	n, err := s.db.Collection(collMeta).CountDocuments(ctx, bson.M{})
	if err != nil {
		return aim.ID{}, fmt.Errorf("check meta: %w", err)
	}
	if n > 0 {
		return aim.ID{}, errors.New(errors.ErrCodeAlreadyInitialized, "database %s is already initialized", s.db.Name())
	}

	now := clock()
	id = aim.NewID()
	a := root.Build(id, aim.RootPosition, now)
	if _, err := s.db.Collection(collAims).InsertOne(ctx, a); err != nil {
		return aim.ID{}, fmt.Errorf("insert root aim: %w", err)
	}
	ts := aim.Timestamp(now)
	meta := aim.Meta{
		Version:      aim.MetaVersion,
		RootAimID:    id,
		Created:      ts,
		LastModified: ts,
		Repository:   aim.Repository{Name: repoName, URL: root.RepositoryURL},
	}
	if _, err := s.db.Collection(collMeta).InsertOne(ctx, meta); err != nil {
		return aim.ID{}, fmt.Errorf("insert meta: %w", err)
	}
	s.logger.Debug("initialized database", "db", s.db.Name(), "root", id.ID)
	return id, nil
}

// Meta implements Store.
func (s *MongoStore) Meta(ctx context.Context) (m *aim.Meta, err error) {
	defer observeRead(ctx, "meta", time.Now(), &err)
	m = &aim.Meta{}
	if err := s.db.Collection(collMeta).FindOne(ctx, bson.M{}).Decode(m); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrap(errors.ErrCodeMetaNotFound, err, "Meta file not found")
		}
		return nil, fmt.Errorf("read meta: %w", err)
	}
	return m, nil
}

// Aim implements Store.
func (s *MongoStore) Aim(ctx context.Context, id string) (a *aim.Aim, err error) {
	defer observeRead(ctx, "aim", time.Now(), &err)
	if err := errors.ValidateAimID(id); err != nil {
		return nil, err
	}
	return s.findAim(ctx, id)
}

func (s *MongoStore) findAim(ctx context.Context, id string) (*aim.Aim, error) {
	a := &aim.Aim{}
	if err := s.db.Collection(collAims).FindOne(ctx, bson.M{"id.id": id}).Decode(a); err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrap(errors.ErrCodeAimNotFound, err, "Aim not found")
		}
		return nil, fmt.Errorf("read aim: %w", err)
	}
	return a, nil
}

// Aims implements Store.
func (s *MongoStore) Aims(ctx context.Context) (aims []aim.Aim, err error) {
	defer observeRead(ctx, "aims", time.Now(), &err)
	opts := options.Find().SetSort(bson.D{{Key: "created", Value: 1}, {Key: "id.id", Value: 1}})
	cur, err := s.db.Collection(collAims).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("read aims: %w", err)
	}
	aims = []aim.Aim{}
	if err := cur.All(ctx, &aims); err != nil {
		return nil, fmt.Errorf("read aims: %w", err)
	}
	return aims, nil
}

// Incoming implements Store.
func (s *MongoStore) Incoming(ctx context.Context, id string) (cs []aim.Contribution, err error) {
	defer observeRead(ctx, "contributions", time.Now(), &err)
	if err := errors.ValidateAimID(id); err != nil {
		return nil, err
	}
	return s.findContributions(ctx, bson.M{"toAim.id": id}, "fromAim.id")
}

// Outgoing implements Store.
func (s *MongoStore) Outgoing(ctx context.Context, id string) (refs []aim.ContributionRef, err error) {
	defer observeRead(ctx, "references", time.Now(), &err)
	if err := errors.ValidateAimID(id); err != nil {
		return nil, err
	}
	cs, err := s.findContributions(ctx, bson.M{"fromAim.id": id}, "toAim.id")
	if err != nil {
		return nil, err
	}
	refs = make([]aim.ContributionRef, len(cs))
	for i, c := range cs {
		refs[i] = aim.ContributionRef{ToAim: c.ToAim, Created: c.Created}
	}
	return refs, nil
}

func (s *MongoStore) findContributions(ctx context.Context, filter bson.M, sortKey string) ([]aim.Contribution, error) {
	cur, err := s.db.Collection(collContributions).Find(ctx, filter, options.Find().SetSort(bson.D{{Key: sortKey, Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("read contributions: %w", err)
	}
	cs := []aim.Contribution{}
	if err := cur.All(ctx, &cs); err != nil {
		return nil, fmt.Errorf("read contributions: %w", err)
	}
	return cs, nil
}

// CreateAim implements Store.
func (s *MongoStore) CreateAim(ctx context.Context, d aim.Draft) (id aim.ID, err error) {
	defer observeWrite(ctx, "aim", time.Now(), &err)
	if err := d.Validate(); err != nil {
		return aim.ID{}, err
	}
	n, err := s.db.Collection(collAims).CountDocuments(ctx, bson.M{})
	if err != nil {
		return aim.ID{}, fmt.Errorf("count aims: %w", err)
	}
	id = aim.NewID()
	a := d.Build(id, SpawnPosition(aim.RootPosition, int(n)), clock())
	if _, err := s.db.Collection(collAims).InsertOne(ctx, a); err != nil {
		return aim.ID{}, fmt.Errorf("insert aim: %w", err)
	}
	s.logger.Debug("created aim", "id", id.ID, "title", a.Title)
	return id, nil
}

// UpdateAim implements Store.
func (s *MongoStore) UpdateAim(ctx context.Context, id string, p aim.Patch) (a *aim.Aim, err error) {
	defer observeWrite(ctx, "aim", time.Now(), &err)
	if err := errors.ValidateAimID(id); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	a, err = s.findAim(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Apply(a, clock())
	if _, err := s.db.Collection(collAims).ReplaceOne(ctx, bson.M{"id.id": id}, a); err != nil {
		return nil, fmt.Errorf("update aim: %w", err)
	}
	return a, nil
}

// CreateContribution implements Store. A second contribution between the
// same pair replaces the first, matching the one-file-per-pair layout.
func (s *MongoStore) CreateContribution(ctx context.Context, c aim.Contribution) (err error) {
	defer observeWrite(ctx, "contribution", time.Now(), &err)
	if err := c.Validate(); err != nil {
		return err
	}
	for _, id := range []string{c.FromAim.ID, c.ToAim.ID} {
		if _, err := s.findAim(ctx, id); err != nil {
			return err
		}
	}
	if c.Created == "" {
		c.Created = aim.Timestamp(clock())
	}
	filter := bson.M{"fromAim.id": c.FromAim.ID, "toAim.id": c.ToAim.ID}
	if _, err := s.db.Collection(collContributions).ReplaceOne(ctx, filter, c, options.Replace().SetUpsert(true)); err != nil {
		return fmt.Errorf("write contribution: %w", err)
	}
	return nil
}

// Tags implements Store.
func (s *MongoStore) Tags(ctx context.Context) ([]aim.TagCount, error) {
	aims, err := s.Aims(ctx)
	if err != nil {
		return nil, err
	}
	return CountTags(aims), nil
}

// Search implements Store.
func (s *MongoStore) Search(ctx context.Context, q Query) ([]aim.Aim, error) {
	aims, err := s.Aims(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(aims, q), nil
}

// Drop deletes the database. Used by tests.
func (s *MongoStore) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

// Close implements Store.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
