// Package parser converts raw part application strings into structured
// PartApplication records.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/model"
)

// yearRangeRegex matches "2015-2018", "2015 - 2018", "2015 to 2018" or a
// bare "2015". Years outside the vehicle era are rejected separately.
var yearRangeRegex = regexp.MustCompile(`\b(\d{4})(?:\s*(?:-|–|to)\s*(\d{4}))?\b`)

const (
	minVehicleYear = 1900
	maxVehicleYear = 2099
)

// positionKeywords are the core positional vocabulary tokens. A segment
// counts as positional only when it contains at least one of these.
var positionKeywords = map[string]bool{
	"front": true, "rear": true, "left": true, "right": true,
	"upper": true, "lower": true, "inner": true, "outer": true,
	"center": true, "varies": true,
}

// positionFillers may appear inside a positional segment without making
// it a vehicle segment ("Front and Rear", "Varies with Application").
var positionFillers = map[string]bool{
	"and": true, "or": true, "&": true, "side": true, "sides": true,
	"with": true, "application": true, "n/a": true, "na": true,
	"fr": true, "frt": true, "rr": true, "lh": true, "rh": true,
	"upr": true, "lwr": true, "l": true, "r": true,
}

// Parse converts one raw application string into a PartApplication. It
// fails when no year token or no vehicle description can be located.
func Parse(raw string) (*model.PartApplication, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty input", common.ErrParseFailed)
	}

	start, end, remainder, err := extractYears(text)
	if err != nil {
		return nil, err
	}

	vehicleText, positionText := splitSegments(remainder)
	if vehicleText == "" {
		return nil, fmt.Errorf("%w: no vehicle description in %q", common.ErrParseFailed, raw)
	}

	return &model.PartApplication{
		RawText:      raw,
		YearStart:    start,
		YearEnd:      end,
		VehicleText:  vehicleText,
		PositionText: positionText,
	}, nil
}

// ExpandYearRange returns start..end inclusive, erroring on a reversed range.
func ExpandYearRange(start, end int) ([]int, error) {
	if end < start {
		return nil, fmt.Errorf("%w: year range %d-%d is reversed", common.ErrParseFailed, start, end)
	}
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years, nil
}

// extractYears locates the first plausible year token, returning the range
// and the input with that token removed.
func extractYears(text string) (start, end int, remainder string, err error) {
	for _, loc := range yearRangeRegex.FindAllStringSubmatchIndex(text, -1) {
		s, _ := strconv.Atoi(text[loc[2]:loc[3]])
		if s < minVehicleYear || s > maxVehicleYear {
			continue
		}
		e := s
		if loc[4] >= 0 {
			e, _ = strconv.Atoi(text[loc[4]:loc[5]])
			if e < minVehicleYear || e > maxVehicleYear {
				continue
			}
		}
		remainder = strings.TrimSpace(text[:loc[0]] + " " + text[loc[1]:])
		return s, e, remainder, nil
	}
	return 0, 0, "", fmt.Errorf("%w: no year token in %q", common.ErrParseFailed, text)
}

// splitSegments divides the year-stripped remainder into vehicle text and
// position text. Comma-separated segments are classified whole: a segment
// is positional only when every alphabetic token belongs to the positional
// vocabulary, so a model name that merely contains a positional word stays
// in the vehicle description. A trailing run of bare positional keywords
// inside a vehicle segment is split off as position text.
func splitSegments(remainder string) (vehicleText, positionText string) {
	var vehicleParts, positionParts []string

	for _, segment := range strings.Split(remainder, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if isPositionalSegment(segment) {
			positionParts = append(positionParts, segment)
			continue
		}
		vehicle, trailing := splitTrailingPositions(segment)
		if vehicle != "" {
			vehicleParts = append(vehicleParts, vehicle)
		}
		if trailing != "" {
			positionParts = append(positionParts, trailing)
		}
	}

	return strings.Join(vehicleParts, ", "), strings.Join(positionParts, ", ")
}

// isPositionalSegment reports whether every token of the segment is
// positional vocabulary, with at least one core keyword present.
func isPositionalSegment(segment string) bool {
	hasKeyword := false
	for _, tok := range tokenize(segment) {
		switch {
		case positionKeywords[tok]:
			hasKeyword = true
		case positionFillers[tok]:
		case isNumeric(tok):
		default:
			return false
		}
	}
	return hasKeyword
}

// splitTrailingPositions peels a run of positional keywords off the end of
// a vehicle segment ("Toyota Camry 2.5L Front Left" → position "Front Left").
func splitTrailingPositions(segment string) (vehicle, positions string) {
	tokens := strings.Fields(segment)
	cut := len(tokens)
	hasKeyword := false
	for cut > 0 {
		tok := normalizeToken(tokens[cut-1])
		if positionKeywords[tok] {
			hasKeyword = true
			cut--
			continue
		}
		if positionFillers[tok] {
			cut--
			continue
		}
		break
	}
	if !hasKeyword || cut == 0 {
		return segment, ""
	}
	return strings.Join(tokens[:cut], " "), strings.Join(tokens[cut:], " ")
}

func tokenize(segment string) []string {
	fields := strings.Fields(segment)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, normalizeToken(f))
	}
	return tokens
}

func normalizeToken(tok string) string {
	return strings.ToLower(strings.Trim(tok, ".,;:()"))
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) && r != '.' {
			return false
		}
	}
	return tok != ""
}
