package monitor

import (
	"regexp"
	"testing"

	"github.com/renteasy/messenger/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestInitials(t *testing.T) {
	tcases := []struct {
		name         string
		participants []types.Participant
		expected     string
	}{
		{
			name: "two participants",
			participants: []types.Participant{
				{Name: "Ada"},
				{Name: "Mr. Bello"},
			},
			expected: "AM",
		},
		{
			name: "extra participants are ignored",
			participants: []types.Participant{
				{Name: "Ada"},
				{Name: "Mr. Bello"},
				{Name: "Chioma"},
			},
			expected: "AM",
		},
		{
			name:         "single participant",
			participants: []types.Participant{{Name: "ada"}},
			expected:     "A",
		},
		{
			name:         "blank name",
			participants: []types.Participant{{Name: "  "}, {Name: "Ada"}},
			expected:     "?A",
		},
		{
			name:     "no participants",
			expected: "?",
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			conv := types.Conversation{Participants: tc.participants}
			assert.Equal(t, tc.expected, Initials(conv), "expected initials to match")
		})
	}
}

func TestStringColor(t *testing.T) {
	colorRe := regexp.MustCompile(`^#[0-9A-F]{6}$`)

	first := StringColor("AM")
	assert.Regexp(t, colorRe, first, "expected a hex color")
	assert.Equal(t, first, StringColor("AM"), "expected the same input to give a stable color")
	assert.Regexp(t, colorRe, StringColor(""), "expected even the empty string to produce a color")
}
