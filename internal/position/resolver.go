// Package position decomposes free-text position descriptions into
// canonical position groups.
package position

import (
	"strings"

	"github.com/gearpost/fitment/internal/model"
)

// vocabulary maps lower-cased tokens, including the catalog abbreviations
// manufacturers use, to canonical positions.
var vocabulary = map[string]model.Position{
	"front":  model.PositionFront,
	"fr":     model.PositionFront,
	"frt":    model.PositionFront,
	"rear":   model.PositionRear,
	"rr":     model.PositionRear,
	"left":   model.PositionLeft,
	"lh":     model.PositionLeft,
	"l":      model.PositionLeft,
	"right":  model.PositionRight,
	"rh":     model.PositionRight,
	"r":      model.PositionRight,
	"upper":  model.PositionUpper,
	"upr":    model.PositionUpper,
	"lower":  model.PositionLower,
	"lwr":    model.PositionLower,
	"inner":  model.PositionInner,
	"outer":  model.PositionOuter,
	"center": model.PositionCenter,
	"centre": model.PositionCenter,
}

// clauseSeparators split a position description into independent clauses,
// each of which becomes its own position group.
var clauseSeparators = []string{",", " and ", "&", "/", ";"}

// Extract converts position text into position groups. Keywords that
// co-occur in one clause combine ("Front Left" → {Front, Left}); separate
// clauses yield separate groups. Empty text means the position was never
// stated ({N/A}); text with a "varies" marker, or with no recognizable
// keyword at all, means it cannot be pinned down ({Varies}).
func Extract(positionText string) []model.PositionGroup {
	text := strings.TrimSpace(positionText)
	if text == "" {
		return []model.PositionGroup{model.NewPositionGroup(model.PositionNA)}
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "varies") || strings.Contains(lower, "various") {
		return []model.PositionGroup{model.NewPositionGroup(model.PositionVaries)}
	}

	var groups []model.PositionGroup
	for _, clause := range splitClauses(lower) {
		group := resolveClause(clause)
		if len(group) == 0 {
			continue
		}
		groups = append(groups, group)
	}

	if len(groups) == 0 {
		return []model.PositionGroup{model.NewPositionGroup(model.PositionVaries)}
	}
	return groups
}

func splitClauses(text string) []string {
	clauses := []string{text}
	for _, sep := range clauseSeparators {
		var next []string
		for _, c := range clauses {
			next = append(next, strings.Split(c, sep)...)
		}
		clauses = next
	}
	return clauses
}

func resolveClause(clause string) model.PositionGroup {
	var positions []model.Position
	for _, tok := range strings.Fields(clause) {
		tok = strings.Trim(tok, ".,;:()")
		if p, ok := vocabulary[tok]; ok {
			positions = append(positions, p)
		}
	}
	return model.NewPositionGroup(positions...)
}
