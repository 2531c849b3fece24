package client

import (
	"net/url"
	"testing"

	"github.com/renteasy/messenger/internal/store"
	"github.com/renteasy/messenger/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFromQuery(t *testing.T) {
	tcases := []struct {
		name   string
		params url.Values
	}{
		{
			name:   "canonical parameters",
			params: url.Values{"listing": {"LST-9"}, "landlord": {"landlord-1"}},
		},
		{
			name:   "legacy propertyId alias",
			params: url.Values{"propertyId": {"LST-9"}, "landlordId": {"landlord-1"}},
		},
		{
			name:   "legacy property alias",
			params: url.Values{"property": {"LST-9"}, "landlordName": {"landlord-1"}},
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			session, view, _, writer := newTestSession(t, types.Actor{Id: "tenant-1", Name: "Ada", Role: types.RoleTenant})

			require.NoError(t, session.OpenFromQuery(tc.params), "expected the query to open a conversation")

			convs := writer.LoadAll()
			require.Len(t, convs, 1, "expected one conversation created")
			assert.Equal(t, "LST-9", convs[0].ListingId, "expected the listing from the query")
			assert.True(t, convs[0].HasParticipant("tenant-1"), "expected the actor as a participant")
			assert.True(t, convs[0].HasParticipant("landlord-1"), "expected the landlord as a participant")

			require.NotNil(t, view.thread, "expected the new conversation to be opened")
			assert.Equal(t, convs[0].Id, view.thread.ConversationId, "expected the created conversation active")
		})
	}
}

func TestOpenFromQuery_GeographicTags(t *testing.T) {
	session, _, _, writer := newTestSession(t, types.Actor{Id: "tenant-1", Name: "Ada", Role: types.RoleTenant})

	params := url.Values{
		"listing":  {"LST-9"},
		"landlord": {"landlord-1"},
		"state":    {"Lagos"},
		"lga":      {"Ikeja"},
	}
	require.NoError(t, session.OpenFromQuery(params), "expected the query to open a conversation")

	convs := writer.LoadAll()
	require.Len(t, convs, 1, "expected one conversation created")
	assert.Equal(t, "Lagos", convs[0].State, "expected the state tag copied from the query")
	assert.Equal(t, "Ikeja", convs[0].Lga, "expected the LGA tag copied from the query")
}

func TestOpenFromQuery_NoListing(t *testing.T) {
	session, view, _, writer := newTestSession(t, types.Actor{Id: "tenant-1", Name: "Ada", Role: types.RoleTenant})
	seedConversation(t, writer)

	require.NoError(t, session.OpenFromQuery(url.Values{}), "expected a bare open to succeed")

	assert.Empty(t, writer.LoadAll()[1:], "expected no conversation created")
	assert.Len(t, view.items, 1, "expected the existing list rendered")
	assert.Nil(t, view.thread, "expected nothing selected")
}

func TestOpenFromQuery_ReusesExistingConversation(t *testing.T) {
	session, _, _, writer := newTestSession(t, types.Actor{Id: "tenant-1", Name: "Ada", Role: types.RoleTenant})
	conv := seedConversation(t, writer)

	params := url.Values{"listing": {"LST-9"}, "landlord": {"landlord-1"}}
	require.NoError(t, session.OpenFromQuery(params), "expected the query to open a conversation")

	convs := writer.LoadAll()
	require.Len(t, convs, 1, "expected the existing conversation reused")
	assert.Equal(t, conv.Id, convs[0].Id, "expected no duplicate for the same listing and parties")
}

func TestOpenOrCreateConversation(t *testing.T) {
	session, _, _, writer := newTestSession(t, types.Actor{Id: "tenant-1", Name: "Ada", Role: types.RoleTenant})

	target, err := session.OpenOrCreateConversation(ConversationParams{
		ListingId:    "LST-9",
		LandlordId:   "landlord-1",
		LandlordName: "Mr. Bello",
	})
	require.NoError(t, err, "expected the conversation to be created")
	assert.Equal(t, "messages?landlord=landlord-1&listing=LST-9", target, "expected the messages-view URL")

	convs := writer.LoadAll()
	require.Len(t, convs, 1, "expected one conversation created")
	assert.Equal(t, "Mr. Bello", convs[0].Participants[1].Name, "expected the landlord's display name")
}

func TestOpenFromQuery_ResolvesLandlordFromDirectory(t *testing.T) {
	session, _, _, writer := newTestSession(t, types.Actor{Id: "tenant-1", Name: "Ada", Role: types.RoleTenant})
	require.NoError(t, session.storage.SetItem(store.UsersKey, `[{"id":"landlord-1","name":"Mr. Bello","role":"landlord"}]`), "expected users write to succeed")

	params := url.Values{"listing": {"LST-9"}, "landlord": {"Mr. Bello"}}
	require.NoError(t, session.OpenFromQuery(params), "expected the query to open a conversation")

	convs := writer.LoadAll()
	require.Len(t, convs, 1, "expected one conversation created")
	assert.True(t, convs[0].HasParticipant("landlord-1"), "expected the name reference resolved to the profile id")
}
