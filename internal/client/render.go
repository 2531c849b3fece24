package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/renteasy/messenger/internal/presence"
	"github.com/renteasy/messenger/internal/store"
	"github.com/renteasy/messenger/internal/types"
)

func (s *Session) buildListItems(visible []types.Conversation, activeId string) []ListItem {
	items := make([]ListItem, 0, len(visible))
	for _, conv := range visible {
		items = append(items, ListItem{
			Id:       conv.Id,
			Title:    ParticipantNames(conv.Participants, " • "),
			Subtitle: listingLabel(conv.ListingId),
			Unread:   store.UnreadCount(conv, s.actor.Role),
			Active:   conv.Id == activeId,
		})
	}
	return items
}

func (s *Session) buildThread() *ThreadView {
	if s.active == nil {
		return nil
	}
	return BuildThread(s.active, s.actor, s.caps, s.presence)
}

// BuildThread assembles the open-thread view model. The monitor view
// reuses it with view-only capabilities.
func BuildThread(conv *types.Conversation, actor types.Actor, caps types.Capabilities, tracker *presence.Tracker) *ThreadView {
	others := conv.Others(actor.Id)

	header := ParticipantNames(others, " & ")
	if header == "" {
		header = ParticipantNames(conv.Participants, " & ")
	}

	thread := &ThreadView{
		ConversationId: conv.Id,
		Header:         header,
		PresenceLine:   presenceLine(others, tracker),
		ListingId:      conv.ListingId,
		CanSend:        caps.CanSend,
	}

	now := time.Now()
	key := actor.Role.ReadKey()
	for i := range conv.Messages {
		msg := &conv.Messages[i]
		mv := MessageView{
			Id:             msg.Id,
			Mine:           msg.SenderId == actor.Id,
			SenderId:       msg.SenderId,
			Text:           msg.Text,
			Attachment:     msg.Attachment,
			AttachmentKind: attachmentKind(msg.Attachment),
			Age:            presence.RelativeTime(msg.Timestamp, now),
		}
		if mv.Mine {
			if msg.ReadByAnyone(key) {
				mv.Receipt = "✓"
			} else {
				mv.Receipt = "⏺"
			}
		}
		if (actor.Role == types.RoleManager || actor.Role == types.RoleAdmin) && !msg.IsReadBy(key) {
			mv.UnreadHighlight = true
		}
		thread.Messages = append(thread.Messages, mv)
	}
	return thread
}

func presenceLine(others []types.Participant, tracker *presence.Tracker) string {
	parts := make([]string, 0, len(others))
	for _, p := range others {
		if desc := tracker.Describe(p.Id); desc != "" {
			parts = append(parts, p.Name+" — "+desc)
		} else {
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(parts, " • ")
}

func ParticipantNames(parts []types.Participant, sep string) string {
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, p.Name+roleTag(p.Role))
	}
	return strings.Join(names, sep)
}

func roleTag(r types.Role) string {
	switch r {
	case types.RoleManager:
		return " (mgr)"
	case types.RoleAdmin:
		return " (admin)"
	default:
		return ""
	}
}

func listingLabel(listingId string) string {
	if listingId == "" {
		return "General"
	}
	return "Listing: " + listingId
}

func summaryLine(n int) string {
	return fmt.Sprintf("%d conversations", n)
}

func attachmentKind(a types.Attachment) string {
	switch {
	case a == "":
		return ""
	case a.IsVideo():
		return "video"
	default:
		return "image"
	}
}
