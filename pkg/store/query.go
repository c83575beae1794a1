package store

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/bowmanhq/bowman/pkg/aim"
)

// CountTags counts tag usage across aims, most used first. Ties sort by name.
func CountTags(aims []aim.Aim) []aim.TagCount {
	counts := make(map[string]int)
	for _, a := range aims {
		for _, t := range a.Tags {
			counts[t]++
		}
	}
	out := make([]aim.TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, aim.TagCount{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b aim.TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Filter applies q to aims and truncates to the limit. Text is matched
// as given, surrounding whitespace included.
func Filter(aims []aim.Aim, q Query) []aim.Aim {
	text := strings.ToLower(q.Text)
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	out := []aim.Aim{}
	for _, a := range aims {
		if len(out) == limit {
			break
		}
		if len(q.Tags) > 0 && !slices.ContainsFunc(q.Tags, a.HasTag) {
			continue
		}
		if text != "" && !matchesText(&a, text) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matchesText(a *aim.Aim, text string) bool {
	if strings.Contains(strings.ToLower(a.Title), text) ||
		strings.Contains(strings.ToLower(a.Description), text) ||
		strings.Contains(strings.ToLower(a.StatusNote), text) {
		return true
	}
	return slices.ContainsFunc(a.Tags, func(t string) bool {
		return strings.Contains(strings.ToLower(t), text)
	})
}

// sortAims orders aims by creation time, then id, so listings are stable.
func sortAims(aims []aim.Aim) {
	slices.SortFunc(aims, func(a, b aim.Aim) int {
		if c := cmp.Compare(a.Created, b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID.ID, b.ID.ID)
	})
}

// spawnSpacing is the distance between consecutive aims on the placement
// spiral.
const spawnSpacing = 150.0

// goldenAngle spreads spiral points evenly.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// SpawnPosition places the n-th aim (n >= 1) on a spiral around root.
func SpawnPosition(root aim.Position, n int) aim.Position {
	if n <= 0 {
		return root
	}
	r := spawnSpacing * math.Sqrt(float64(n))
	theta := float64(n) * goldenAngle
	return aim.Position{
		X: math.Round(root.X + r*math.Cos(theta)),
		Y: math.Round(root.Y + r*math.Sin(theta)),
	}
}
