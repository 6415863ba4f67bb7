package position

import (
	"testing"

	"github.com/gearpost/fitment/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []model.PositionGroup
	}{
		{
			name:  "combined keywords form one group",
			input: "Front Left",
			want: []model.PositionGroup{
				model.NewPositionGroup(model.PositionFront, model.PositionLeft),
			},
		},
		{
			name:  "and splits into independent groups",
			input: "Front and Rear",
			want: []model.PositionGroup{
				model.NewPositionGroup(model.PositionFront),
				model.NewPositionGroup(model.PositionRear),
			},
		},
		{
			name:  "comma splits groups",
			input: "Front Left, Rear Right",
			want: []model.PositionGroup{
				model.NewPositionGroup(model.PositionFront, model.PositionLeft),
				model.NewPositionGroup(model.PositionRear, model.PositionRight),
			},
		},
		{
			name:  "empty text is not applicable",
			input: "",
			want:  []model.PositionGroup{model.NewPositionGroup(model.PositionNA)},
		},
		{
			name:  "varies phrase",
			input: "Varies with Application",
			want:  []model.PositionGroup{model.NewPositionGroup(model.PositionVaries)},
		},
		{
			name:  "unrecognizable text varies",
			input: "see catalog notes",
			want:  []model.PositionGroup{model.NewPositionGroup(model.PositionVaries)},
		},
		{
			name:  "catalog abbreviations",
			input: "FR LH",
			want: []model.PositionGroup{
				model.NewPositionGroup(model.PositionFront, model.PositionLeft),
			},
		},
		{
			name:  "slash separated sides",
			input: "Upper/Lower",
			want: []model.PositionGroup{
				model.NewPositionGroup(model.PositionUpper),
				model.NewPositionGroup(model.PositionLower),
			},
		},
		{
			name:  "duplicates collapse",
			input: "Front Front Left",
			want: []model.PositionGroup{
				model.NewPositionGroup(model.PositionFront, model.PositionLeft),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_GroupOrderIsCanonical(t *testing.T) {
	got := Extract("Left Front")
	assert.Equal(t, "Front Left", got[0].String())
}
