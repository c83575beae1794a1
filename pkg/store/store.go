// Package store persists aims and contributions.
//
// The canonical backend is [FileStore], which reads and writes the JSON
// documents of a .quiver directory inside a project repository:
//
//	.quiver/
//	  meta.json
//	  aims/<aimId>.json
//	  contributions/<intoId>/from/<fromId>.json   incoming, full contribution
//	  contributions/<fromId>/to/<intoId>.json     outgoing, reference only
//
// [MongoStore] keeps the same documents in MongoDB for shared deployments.
// Both implement [Store]; [LoadGraph] snapshots either one for rendering.
package store

import (
	"context"
	"time"

	"github.com/bowmanhq/bowman/pkg/aim"
	"github.com/bowmanhq/bowman/pkg/errors"
	"github.com/bowmanhq/bowman/pkg/observability"
)

// DefaultSearchLimit caps search results when the query sets no limit.
const DefaultSearchLimit = 20

// Store is the aim repository.
type Store interface {
	Meta(ctx context.Context) (*aim.Meta, error)
	Aim(ctx context.Context, id string) (*aim.Aim, error)
	Aims(ctx context.Context) ([]aim.Aim, error)

	// Incoming lists the contributions flowing into id.
	Incoming(ctx context.Context, id string) ([]aim.Contribution, error)
	// Outgoing lists references to the aims id contributes to.
	Outgoing(ctx context.Context, id string) ([]aim.ContributionRef, error)

	CreateAim(ctx context.Context, d aim.Draft) (aim.ID, error)
	UpdateAim(ctx context.Context, id string, p aim.Patch) (*aim.Aim, error)
	CreateContribution(ctx context.Context, c aim.Contribution) error

	Tags(ctx context.Context) ([]aim.TagCount, error)
	Search(ctx context.Context, q Query) ([]aim.Aim, error)

	Close() error
}

// Direction selects one side of an aim's contributions.
type Direction string

const (
	// DirFrom lists incoming contributions.
	DirFrom Direction = "from"
	// DirTo lists outgoing references.
	DirTo Direction = "to"
)

// ParseDirection accepts "from" or "to".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirFrom, DirTo:
		return d, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "direction must be \"from\" or \"to\", got %q", s)
}

// Contributions returns Incoming or Outgoing for dir as a JSON-ready value.
func Contributions(ctx context.Context, s Store, id string, dir Direction) (any, error) {
	if dir == DirTo {
		return s.Outgoing(ctx, id)
	}
	return s.Incoming(ctx, id)
}

// Query filters aims. Tags match when an aim carries any of them; Text is a
// case-insensitive substring of title, description, status note or a tag.
type Query struct {
	Text string   `json:"text"`
	Tags []string `json:"tags"`
	// Limit caps the results; 0 means DefaultSearchLimit.
	Limit int `json:"limit"`
}

// clock is replaced in tests.
var clock = time.Now

// observeRead reports a read to the store hooks. It is deferred with a
// pointer to the named error result.
func observeRead(ctx context.Context, kind string, start time.Time, err *error) {
	observability.Store().OnRead(ctx, kind, time.Since(start), *err)
}

func observeWrite(ctx context.Context, kind string, start time.Time, err *error) {
	observability.Store().OnWrite(ctx, kind, time.Since(start), *err)
}
