package aim

import (
	"strings"
	"time"

	"github.com/bowmanhq/bowman/pkg/errors"
)

// Draft carries the client-supplied fields of a new aim.
type Draft struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	StatusNote    string    `json:"statusNote,omitempty"`
	Assignees     []string  `json:"assignees,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	TargetDate    string    `json:"targetDate,omitempty"`
	Effort        *float64  `json:"effort,omitempty"`
	Metadata      *Metadata `json:"metadata,omitempty"`
	RepositoryURL string    `json:"repositoryUrl,omitempty"`
}

// Validate requires a title and a description.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Description) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "title and description are required")
	}
	if d.Effort != nil && *d.Effort < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "effort cannot be negative")
	}
	return errors.ValidateURL(d.RepositoryURL)
}

// Build turns the draft into a stored aim. pos is used when the draft's
// metadata carries no position.
func (d *Draft) Build(id ID, pos Position, now time.Time) Aim {
	ts := Timestamp(now)
	meta := &Metadata{Position: &pos, Effort: d.Effort}
	if d.Metadata != nil {
		if d.Metadata.Position != nil {
			p := *d.Metadata.Position
			meta.Position = &p
		}
		if d.Metadata.Effort != nil && d.Effort == nil {
			meta.Effort = d.Metadata.Effort
		}
	}
	return Aim{
		ID:           id,
		Title:        d.Title,
		Description:  d.Description,
		Status:       StatusNotReached,
		StatusNote:   d.StatusNote,
		Assignees:    nonNil(d.Assignees),
		Tags:         nonNil(d.Tags),
		Created:      ts,
		LastModified: ts,
		TargetDate:   d.TargetDate,
		Metadata:     meta,
	}
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	StatusNote  *string   `json:"statusNote,omitempty"`
	Assignees   *[]string `json:"assignees,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	TargetDate  *string   `json:"targetDate,omitempty"`
	Metadata    *Metadata `json:"metadata,omitempty"`
}

// Validate checks the fields that are set.
func (p *Patch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "title cannot be empty")
	}
	if p.Status != nil {
		if err := ValidateStatus(*p.Status); err != nil {
			return err
		}
	}
	if p.Metadata != nil && p.Metadata.Effort != nil && *p.Metadata.Effort < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "effort cannot be negative")
	}
	return nil
}

// Apply writes the set fields into a and bumps LastModified.
// Metadata is merged field by field.
func (p *Patch) Apply(a *Aim, now time.Time) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.StatusNote != nil {
		a.StatusNote = *p.StatusNote
	}
	if p.Assignees != nil {
		a.Assignees = nonNil(*p.Assignees)
	}
	if p.Tags != nil {
		a.Tags = nonNil(*p.Tags)
	}
	if p.TargetDate != nil {
		a.TargetDate = *p.TargetDate
	}
	if p.Metadata != nil {
		if a.Metadata == nil {
			a.Metadata = &Metadata{}
		}
		if p.Metadata.Effort != nil {
			e := *p.Metadata.Effort
			a.Metadata.Effort = &e
		}
		if p.Metadata.Position != nil {
			pos := *p.Metadata.Position
			a.Metadata.Position = &pos
		}
	}
	a.LastModified = Timestamp(now)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
