package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tcases := []struct {
		name     string
		input    string
		expected Role
	}{
		{
			name:     "tenant",
			input:    "tenant",
			expected: RoleTenant,
		},
		{
			name:     "landlord",
			input:    "landlord",
			expected: RoleLandlord,
		},
		{
			name:     "manager with surrounding whitespace",
			input:    "  manager ",
			expected: RoleManager,
		},
		{
			name:     "admin uppercased",
			input:    "ADMIN",
			expected: RoleAdmin,
		},
		{
			name:     "unknown falls back to tenant",
			input:    "superuser",
			expected: RoleTenant,
		},
		{
			name:     "empty falls back to tenant",
			input:    "",
			expected: RoleTenant,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseRole(tc.input), "expected role to match for input %q", tc.input)
		})
	}
}

func TestRole_ReadKey(t *testing.T) {
	assert.Equal(t, RoleManager, RoleManager.ReadKey(), "expected known role to be its own read key")
	assert.Equal(t, RoleTenant, Role("visitor").ReadKey(), "expected unknown role to use the tenant read key")
}

func TestCapabilitiesFor(t *testing.T) {
	tcases := []struct {
		name            string
		role            Role
		canSend         bool
		canFilterByRole bool
	}{
		{name: "tenant", role: RoleTenant, canSend: true},
		{name: "landlord", role: RoleLandlord, canSend: true},
		{name: "manager", role: RoleManager},
		{name: "admin", role: RoleAdmin, canFilterByRole: true},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			caps := CapabilitiesFor(Actor{Id: "u1", Role: tc.role})
			assert.Equal(t, tc.canSend, caps.CanSend, "expected CanSend to match for role %s", tc.role)
			assert.Equal(t, tc.canFilterByRole, caps.CanFilterByRole, "expected CanFilterByRole to match for role %s", tc.role)
		})
	}
}

func TestAttachment_Classification(t *testing.T) {
	tcases := []struct {
		name    string
		att     Attachment
		isVideo bool
		isImage bool
	}{
		{
			name:    "mp4 suffix",
			att:     Attachment("tour.mp4"),
			isVideo: true,
		},
		{
			name:    "video content type in data url",
			att:     Attachment("data:video/webm;base64,AAAA"),
			isVideo: true,
		},
		{
			name:    "image data url",
			att:     Attachment("data:image/png;base64,AAAA"),
			isImage: true,
		},
		{
			name: "empty is neither",
			att:  Attachment(""),
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.isVideo, tc.att.IsVideo(), "expected IsVideo to match")
			assert.Equal(t, tc.isImage, tc.att.IsImage(), "expected IsImage to match")
		})
	}
}

func TestMessage_ReadTracking(t *testing.T) {
	msg := Message{
		Id:       "MSG-1",
		SenderId: "tenant-1",
		ReadBy:   map[Role]bool{RoleTenant: true},
	}

	assert.True(t, msg.IsReadBy(RoleTenant), "expected message to be read by tenant")
	assert.False(t, msg.IsReadBy(RoleManager), "expected message to be unread by manager")
	assert.False(t, msg.ReadByAnyone(RoleTenant), "expected no reader besides the sender's role-class")

	msg.ReadBy[RoleLandlord] = true
	assert.True(t, msg.ReadByAnyone(RoleTenant), "expected landlord read to count for the sender receipt")

	var empty Message
	assert.False(t, empty.IsReadBy(RoleTenant), "expected nil read map to mean unread")
}

func TestConversation_Participants(t *testing.T) {
	conv := Conversation{
		Id: "CONV-1",
		Participants: []Participant{
			{Id: "tenant-1", Name: "Ada", Role: RoleTenant},
			{Id: "landlord-1", Name: "Mr. Bello", Role: RoleLandlord},
		},
	}

	assert.True(t, conv.HasParticipant("tenant-1"), "expected tenant to be a participant")
	assert.False(t, conv.HasParticipant("manager-1"), "expected manager not to be a participant")

	others := conv.Others("tenant-1")
	assert.Len(t, others, 1, "expected one counterparty")
	assert.Equal(t, "landlord-1", others[0].Id, "expected the landlord to remain")

	assert.Nil(t, conv.LastMessage(), "expected no last message on an empty thread")
	conv.Messages = []Message{{Id: "MSG-1"}, {Id: "MSG-2"}}
	assert.Equal(t, "MSG-2", conv.LastMessage().Id, "expected the newest message")
}
