package model

import "strings"

// Position is one canonical positional tag from the PCDB vocabulary.
type Position string

// Canonical position constants.
const (
	PositionFront  Position = "Front"
	PositionRear   Position = "Rear"
	PositionLeft   Position = "Left"
	PositionRight  Position = "Right"
	PositionUpper  Position = "Upper"
	PositionLower  Position = "Lower"
	PositionInner  Position = "Inner"
	PositionOuter  Position = "Outer"
	PositionCenter Position = "Center"
	PositionNA     Position = "N/A"
	PositionVaries Position = "Varies"
)

// AllPositions lists the canonical vocabulary in display order.
var AllPositions = []Position{
	PositionFront, PositionRear, PositionLeft, PositionRight,
	PositionUpper, PositionLower, PositionInner, PositionOuter,
	PositionCenter, PositionNA, PositionVaries,
}

// IsCanonical reports whether p belongs to the canonical vocabulary.
func (p Position) IsCanonical() bool {
	for _, c := range AllPositions {
		if p == c {
			return true
		}
	}
	return false
}

// PositionGroup is one coherent positional assertion, e.g. Front+Left.
// Order follows the canonical vocabulary, not input order.
type PositionGroup []Position

// NewPositionGroup builds a group in canonical order with duplicates removed.
func NewPositionGroup(positions ...Position) PositionGroup {
	seen := make(map[Position]bool, len(positions))
	for _, p := range positions {
		seen[p] = true
	}
	var group PositionGroup
	for _, c := range AllPositions {
		if seen[c] {
			group = append(group, c)
		}
	}
	return group
}

// Contains reports whether the group carries the given tag.
func (g PositionGroup) Contains(p Position) bool {
	for _, have := range g {
		if have == p {
			return true
		}
	}
	return false
}

// Equal reports whether two groups carry the same tags.
func (g PositionGroup) Equal(other PositionGroup) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if g[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders the group as space-joined tags ("Front Left"). This is
// also the persisted form, so it must stay stable.
func (g PositionGroup) String() string {
	parts := make([]string, len(g))
	for i, p := range g {
		parts[i] = string(p)
	}
	return strings.Join(parts, " ")
}

// ParsePositionGroup decodes the persisted space-joined form.
func ParsePositionGroup(s string) PositionGroup {
	var positions []Position
	for _, tok := range strings.Fields(s) {
		positions = append(positions, Position(tok))
	}
	return NewPositionGroup(positions...)
}
