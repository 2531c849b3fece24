package store

import (
	"fmt"

	"github.com/renteasy/messenger/internal/policy"
	"github.com/renteasy/messenger/internal/types"
)

// MarkRead flags every message in the conversation as read for the
// role-class and reports whether anything actually changed. Read flags
// are monotonic: they are set lazily and never cleared.
func MarkRead(conv *types.Conversation, role types.Role) bool {
	key := role.ReadKey()
	changed := false
	for i := range conv.Messages {
		if conv.Messages[i].ReadBy == nil {
			conv.Messages[i].ReadBy = make(map[types.Role]bool)
		}
		if !conv.Messages[i].ReadBy[key] {
			conv.Messages[i].ReadBy[key] = true
			changed = true
		}
	}
	return changed
}

func UnreadCount(conv types.Conversation, role types.Role) int {
	key := role.ReadKey()
	count := 0
	for i := range conv.Messages {
		if !conv.Messages[i].IsReadBy(key) {
			count++
		}
	}
	return count
}

// TotalUnread is the aggregate badge value: unread messages summed over
// every conversation the actor may see.
func TotalUnread(convs []types.Conversation, actor types.Actor) int {
	total := 0
	for _, c := range convs {
		if !policy.CanView(c, actor) {
			continue
		}
		total += UnreadCount(c, actor.Role)
	}
	return total
}

// MarkConversationRead marks the stored conversation read for the
// role-class, persisting only when at least one flag changed so an idle
// reopen does not trigger a cross-tab notification storm.
func (s *ConversationStore) MarkConversationRead(convId string, role types.Role) (types.Conversation, bool, error) {
	convs := s.LoadAll()
	for i := range convs {
		if convs[i].Id != convId {
			continue
		}

		if !MarkRead(&convs[i], role) {
			return convs[i], false, nil
		}
		if err := s.SaveAll(convs); err != nil {
			return types.Conversation{}, false, err
		}
		return convs[i], true, nil
	}
	return types.Conversation{}, false, fmt.Errorf("conversation %q: %w", convId, ErrNotFound)
}
