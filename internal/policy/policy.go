// Package policy decides which conversations an actor may see. The
// functions here are pure: they are re-evaluated on every render and
// keep no state.
package policy

import (
	"strings"

	"github.com/renteasy/messenger/internal/types"
)

// CanView reports whether the actor may see the conversation.
//
// Admins see everything. Tenants and landlords see conversations they
// participate in. Managers match on any of: an assignment token equal to
// the conversation's listing id, or equal (case-insensitively) to its
// state or LGA tag, or being a named participant. A manager with no
// assignment list at all falls back to participation alone. The OR
// across signals is deliberate: a manager who cannot be matched by
// geography still sees conversations they were explicitly added to.
func CanView(conv types.Conversation, actor types.Actor) bool {
	switch actor.Role {
	case types.RoleAdmin:
		return true
	case types.RoleTenant, types.RoleLandlord:
		return conv.HasParticipant(actor.Id)
	case types.RoleManager:
		if len(actor.Assignments) == 0 {
			return conv.HasParticipant(actor.Id)
		}
		return matchesAssignment(conv, actor.Assignments) || conv.HasParticipant(actor.Id)
	default:
		return conv.HasParticipant(actor.Id)
	}
}

func matchesAssignment(conv types.Conversation, assignments []string) bool {
	for _, a := range assignments {
		if a == "" {
			continue
		}
		if conv.ListingId != "" && conv.ListingId == a {
			return true
		}
		if conv.State != "" && strings.EqualFold(conv.State, a) {
			return true
		}
		if conv.Lga != "" && strings.EqualFold(conv.Lga, a) {
			return true
		}
	}
	return false
}

// VisibleConversations filters the collection down to what the actor may
// see, preserving store order.
func VisibleConversations(convs []types.Conversation, actor types.Actor) []types.Conversation {
	visible := make([]types.Conversation, 0, len(convs))
	for _, c := range convs {
		if CanView(c, actor) {
			visible = append(visible, c)
		}
	}
	return visible
}
