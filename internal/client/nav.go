package client

import (
	"net/url"

	"github.com/renteasy/messenger/internal/types"
)

// Query parameter aliases accepted by the messaging view. Listing pages
// have linked here with several spellings over time; all are honored.
var (
	listingParams  = []string{"listing", "propertyId", "property"}
	landlordParams = []string{"landlord", "landlordId", "landlordName"}
)

// ConversationParams is the programmatic contract other pages use to
// start a conversation about a listing.
type ConversationParams struct {
	ListingId    string
	LandlordId   string
	LandlordName string
}

// OpenFromQuery applies the navigation contract: given the view's query
// parameters, find or create the conversation for the listing and
// counterparty and open it. Without a listing parameter it just renders
// the current state.
func (s *Session) OpenFromQuery(params url.Values) error {
	listing := firstParam(params, listingParams)
	if listing == "" {
		s.Refresh()
		return nil
	}

	landlordRef := firstParam(params, landlordParams)
	landlord := s.dir.ResolveLandlord(landlordRef, "")
	self := types.Participant{Id: s.actor.Id, Name: s.actor.Name, Role: s.actor.Role}

	conv, err := s.store.FindOrCreate(listing, landlord, self, params.Get("state"), params.Get("lga"), s.actor.Assignments)
	if err != nil {
		return err
	}
	return s.Select(conv.Id)
}

// OpenOrCreateConversation resolves or creates a conversation for the
// listing and returns the messages-view URL carrying the resulting
// identifiers, which the caller navigates to.
func (s *Session) OpenOrCreateConversation(p ConversationParams) (string, error) {
	landlord := s.dir.ResolveLandlord(p.LandlordId, p.LandlordName)
	self := types.Participant{Id: s.actor.Id, Name: s.actor.Name, Role: s.actor.Role}

	if _, err := s.store.FindOrCreate(p.ListingId, landlord, self, "", "", s.actor.Assignments); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("listing", p.ListingId)
	q.Set("landlord", landlord.Id)
	return "messages?" + q.Encode(), nil
}

func firstParam(params url.Values, names []string) string {
	for _, name := range names {
		if v := params.Get(name); v != "" {
			return v
		}
	}
	return ""
}
