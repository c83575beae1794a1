package aim

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/bowmanhq/bowman/pkg/errors"
	"github.com/bowmanhq/bowman/pkg/geom/connector"
	"github.com/bowmanhq/bowman/pkg/geom/vec2"
)

// =============================================================================
// Constants
// =============================================================================

// Aim statuses.
const (
	StatusNotReached = "not_reached"
	StatusReached    = "reached"
)

// Contribution types.
const (
	TypePrerequisite = "prerequisite"
	TypeEnables      = "enables"
	TypeSupports     = "supports"
	TypeRelated      = "related"
)

// Map footprint of an aim.
const (
	MinRadius = 20.0
	MaxRadius = 100.0

	// DefaultEffort sizes aims that carry no effort.
	DefaultEffort = 30.0

	// radiusPerSqrtEffort grows the circle with the square root of effort.
	radiusPerSqrtEffort = 5.0
)

// RootPosition is where a freshly initialized repository places its root aim.
var RootPosition = Position{X: 400, Y: 200}

// idPrefix starts every generated aim id.
const idPrefix = "aim_"

// =============================================================================
// Identifiers
// =============================================================================

// ID identifies an aim. RepoLink points at another repository for aims that
// live elsewhere and is nil for local aims.
type ID struct {
	RepoLink *string `json:"repoLink" bson:"repoLink"`
	ID       string  `json:"id" bson:"id"`
}

// LocalID returns the ID of an aim in the current repository.
func LocalID(id string) ID {
	return ID{ID: id}
}

// NewID generates a fresh local aim id.
func NewID() ID {
	return LocalID(idPrefix + uuid.NewString())
}

// =============================================================================
// Aim
// =============================================================================

// Position is a point on the aim map.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Metadata holds map placement and sizing for an aim.
type Metadata struct {
	Effort   *float64  `json:"effort,omitempty" bson:"effort,omitempty"`
	Position *Position `json:"position,omitempty" bson:"position,omitempty"`
}

// Aim is a goal node, stored as .quiver/aims/<id>.json.
type Aim struct {
	ID           ID        `json:"id" bson:"id"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	Status       string    `json:"status" bson:"status"`
	StatusNote   string    `json:"statusNote,omitempty" bson:"statusNote,omitempty"`
	Assignees    []string  `json:"assignees" bson:"assignees"`
	Tags         []string  `json:"tags" bson:"tags"`
	Created      string    `json:"created" bson:"created"`
	LastModified string    `json:"lastModified" bson:"lastModified"`
	TargetDate   string    `json:"targetDate,omitempty" bson:"targetDate,omitempty"`
	Metadata     *Metadata `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Effort returns the aim's effort, or zero when unset.
func (a *Aim) Effort() float64 {
	if a.Metadata == nil || a.Metadata.Effort == nil {
		return 0
	}
	return *a.Metadata.Effort
}

// Pos returns the aim's map position, or the origin when unset.
func (a *Aim) Pos() vec2.Vec2 {
	if a.Metadata == nil || a.Metadata.Position == nil {
		return vec2.Create()
	}
	return vec2.FromValues(a.Metadata.Position.X, a.Metadata.Position.Y)
}

// Radius returns the aim's circle radius. Aims without effort are sized as
// if they had [DefaultEffort].
func (a *Aim) Radius() float64 {
	if e := a.Effort(); e > 0 {
		return Radius(e)
	}
	return Radius(DefaultEffort)
}

// Circle returns the aim's footprint on the map.
func (a *Aim) Circle() connector.Circle {
	return connector.Circle{Pos: a.Pos(), R: a.Radius()}
}

// HasTag reports whether the aim carries tag.
func (a *Aim) HasTag(tag string) bool {
	return slices.Contains(a.Tags, tag)
}

// Radius maps effort to a circle radius: 20 + 5*sqrt(effort), clamped to
// [MinRadius, MaxRadius].
func Radius(effort float64) float64 {
	r := MinRadius + math.Sqrt(effort)*radiusPerSqrtEffort
	return math.Max(MinRadius, math.Min(MaxRadius, r))
}

// ValidateStatus checks an aim status value.
func ValidateStatus(s string) error {
	switch s {
	case StatusNotReached, StatusReached:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidStatus, "invalid status: %q", s)
}

// =============================================================================
// Contribution
// =============================================================================

// Contribution is a directed, weighted edge from one aim into another.
// It is stored as .quiver/contributions/<toAim>/from/<fromAim>.json.
type Contribution struct {
	FromAim     ID             `json:"fromAim" bson:"fromAim"`
	ToAim       ID             `json:"toAim" bson:"toAim"`
	Explanation string         `json:"explanation" bson:"explanation"`
	Type        string         `json:"type" bson:"type"`
	Strength    float64        `json:"strength" bson:"strength"`
	Created     string         `json:"created" bson:"created"`
	Metadata    map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Validate checks that the contribution can be stored.
func (c *Contribution) Validate() error {
	if err := errors.ValidateAimID(c.FromAim.ID); err != nil {
		return err
	}
	if err := errors.ValidateAimID(c.ToAim.ID); err != nil {
		return err
	}
	if c.FromAim.ID == c.ToAim.ID {
		return errors.New(errors.ErrCodeInvalidInput, "an aim cannot contribute to itself")
	}
	if err := ValidateType(c.Type); err != nil {
		return err
	}
	if c.Strength < 0 || math.IsNaN(c.Strength) || math.IsInf(c.Strength, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "strength must be a non-negative number")
	}
	return nil
}

// ContributionRef records an outgoing contribution on the source side.
// It is stored as .quiver/contributions/<fromAim>/to/<toAim>.json.
type ContributionRef struct {
	ToAim   ID     `json:"toAim" bson:"toAim"`
	Created string `json:"created" bson:"created"`
}

// ValidateType checks a contribution type value.
func ValidateType(t string) error {
	switch t {
	case TypePrerequisite, TypeEnables, TypeSupports, TypeRelated:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidType, "invalid contribution type: %q", t)
}

// =============================================================================
// Repository Meta
// =============================================================================

// MetaVersion is the .quiver layout version written by this package.
const MetaVersion = "1.0.0"

// Repository names the project a .quiver directory belongs to.
type Repository struct {
	Name string `json:"name" bson:"name"`
	URL  string `json:"url" bson:"url"`
}

// Meta is .quiver/meta.json, the pointer to the root aim.
type Meta struct {
	Version      string     `json:"version" bson:"version"`
	RootAimID    ID         `json:"rootAimId" bson:"rootAimId"`
	Created      string     `json:"created" bson:"created"`
	LastModified string     `json:"lastModified" bson:"lastModified"`
	Repository   Repository `json:"repository" bson:"repository"`
}

// TagCount is a tag with the number of aims using it.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Timestamp formats t the way stored documents carry times.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
