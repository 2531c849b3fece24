package policy

import (
	"testing"

	"github.com/renteasy/messenger/internal/types"
	"github.com/stretchr/testify/assert"
)

func lagosConversation() types.Conversation {
	return types.Conversation{
		Id:        "CONV-1",
		ListingId: "LST-9",
		State:     "Lagos",
		Lga:       "Ikeja",
		Participants: []types.Participant{
			{Id: "tenant-1", Name: "Ada", Role: types.RoleTenant},
			{Id: "landlord-1", Name: "Mr. Bello", Role: types.RoleLandlord},
		},
	}
}

func TestCanView(t *testing.T) {
	conv := lagosConversation()

	tcases := []struct {
		name    string
		actor   types.Actor
		canView bool
	}{
		{
			name:    "admin sees everything",
			actor:   types.Actor{Id: "admin-1", Role: types.RoleAdmin},
			canView: true,
		},
		{
			name:    "participating tenant",
			actor:   types.Actor{Id: "tenant-1", Role: types.RoleTenant},
			canView: true,
		},
		{
			name:    "non-participating tenant",
			actor:   types.Actor{Id: "tenant-2", Role: types.RoleTenant},
			canView: false,
		},
		{
			name:    "participating landlord",
			actor:   types.Actor{Id: "landlord-1", Role: types.RoleLandlord},
			canView: true,
		},
		{
			name:    "manager assigned to the listing",
			actor:   types.Actor{Id: "manager-1", Role: types.RoleManager, Assignments: []string{"LST-9"}},
			canView: true,
		},
		{
			name:    "manager assigned to the state, case-insensitive",
			actor:   types.Actor{Id: "manager-1", Role: types.RoleManager, Assignments: []string{"lagos"}},
			canView: true,
		},
		{
			name:    "manager assigned to the LGA",
			actor:   types.Actor{Id: "manager-1", Role: types.RoleManager, Assignments: []string{"IKEJA"}},
			canView: true,
		},
		{
			name:    "manager with unrelated assignments",
			actor:   types.Actor{Id: "manager-1", Role: types.RoleManager, Assignments: []string{"LST-44", "Abuja"}},
			canView: false,
		},
		{
			name:    "manager with no assignments falls back to participation",
			actor:   types.Actor{Id: "manager-1", Role: types.RoleManager},
			canView: false,
		},
		{
			name:    "manager matched by nothing but participation",
			actor:   types.Actor{Id: "tenant-1", Role: types.RoleManager, Assignments: []string{"Abuja"}},
			canView: true,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.canView, CanView(conv, tc.actor), "expected visibility to match for %s", tc.name)
		})
	}
}

func TestCanView_EmptyAssignmentTokensAreIgnored(t *testing.T) {
	conv := lagosConversation()
	conv.State = ""
	conv.Lga = ""

	manager := types.Actor{Id: "manager-1", Role: types.RoleManager, Assignments: []string{""}}
	assert.False(t, CanView(conv, manager), "expected an empty token to match nothing")
}

func TestVisibleConversations_PreservesOrder(t *testing.T) {
	mine := lagosConversation()
	foreign := types.Conversation{
		Id: "CONV-2",
		Participants: []types.Participant{
			{Id: "tenant-2", Role: types.RoleTenant},
			{Id: "landlord-1", Role: types.RoleLandlord},
		},
	}
	second := lagosConversation()
	second.Id = "CONV-3"

	tenant := types.Actor{Id: "tenant-1", Role: types.RoleTenant}
	visible := VisibleConversations([]types.Conversation{mine, foreign, second}, tenant)

	assert.Len(t, visible, 2, "expected the foreign conversation to be filtered out")
	assert.Equal(t, "CONV-1", visible[0].Id, "expected store order to be preserved")
	assert.Equal(t, "CONV-3", visible[1].Id, "expected store order to be preserved")
}
