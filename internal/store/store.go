// Package store owns the durable conversation collection. It is the only
// component that reads or writes the shared conversations blob; every
// view goes through it.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/renteasy/messenger/internal/localstore"
	"github.com/renteasy/messenger/internal/types"
	"github.com/teris-io/shortid"
)

// Storage keys shared with every other tab of the profile.
const (
	ConversationsKey = "conversations"
	UpdatedAtKey     = "convos_updated_at"
	OnlineUsersKey   = "onlineUsers"
	UsersKey         = "users"
)

type ConversationStore struct {
	log     *log.Logger
	storage localstore.Store
}

func NewConversationStore(logger *log.Logger, storage localstore.Store) *ConversationStore {
	return &ConversationStore{
		log:     logger,
		storage: storage,
	}
}

// LoadAll returns the full conversation collection. A corrupt or missing
// blob resets to an empty collection; the caller never sees an error.
func (s *ConversationStore) LoadAll() []types.Conversation {
	raw, ok, err := s.storage.GetItem(ConversationsKey)
	if err != nil {
		s.log.Println("read conversations:", err)
		return []types.Conversation{}
	}
	if !ok || raw == "" {
		return []types.Conversation{}
	}

	convs, err := decodeConversations([]byte(raw))
	if err != nil {
		s.log.Println("corrupt conversations blob, resetting:", err)
		if err := s.storage.RemoveItem(ConversationsKey); err != nil {
			s.log.Println("remove conversations:", err)
		}
		return []types.Conversation{}
	}
	return convs
}

// SaveAll persists the full collection and bumps the change marker so
// other tabs observe the write.
func (s *ConversationStore) SaveAll(convs []types.Conversation) error {
	data, err := json.Marshal(convs)
	if err != nil {
		return fmt.Errorf("encode conversations: %w", err)
	}
	if err := s.storage.SetItem(ConversationsKey, string(data)); err != nil {
		return fmt.Errorf("save conversations: %w", err)
	}

	// aux marker so tabs listening on either key can react
	marker := strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := s.storage.SetItem(UpdatedAtKey, marker); err != nil {
		s.log.Println("bump change marker:", err)
	}
	return nil
}

func (s *ConversationStore) FindById(id string) (types.Conversation, bool) {
	for _, c := range s.LoadAll() {
		if c.Id == id {
			return c, true
		}
	}
	return types.Conversation{}, false
}

// FindOrCreate returns the conversation for (listingId, counterparty,
// self) if one exists, otherwise creates it. Geographic tags are copied
// onto new conversations for manager visibility matching, and a manager
// participant is attached when the actor's assignment data names the
// listing and the user directory knows a manager for it.
func (s *ConversationStore) FindOrCreate(listingId string, counterparty, self types.Participant, state, lga string, assignments []string) (types.Conversation, error) {
	convs := s.LoadAll()
	for _, c := range convs {
		if c.ListingId == listingId && c.HasParticipant(counterparty.Id) && c.HasParticipant(self.Id) {
			return c, nil
		}
	}

	conv := types.Conversation{
		Id:           genId("CONV"),
		ListingId:    listingId,
		State:        state,
		Lga:          lga,
		Participants: []types.Participant{self, counterparty},
		Messages:     []types.Message{},
	}

	if listingId != "" && containsToken(assignments, listingId) {
		dir := NewDirectory(s.log, s.storage)
		if mgr, ok := dir.ManagerFor(listingId); ok {
			conv.Participants = append(conv.Participants, types.Participant{
				Id:   mgr.Id,
				Name: mgr.Name,
				Role: types.RoleManager,
			})
		}
	}

	convs = append(convs, conv)
	if err := s.SaveAll(convs); err != nil {
		return types.Conversation{}, err
	}
	return conv, nil
}

// Append adds a message to the named conversation and persists the
// collection. The message's read map is stamped for the sender's
// role-class: a sender has implicitly read their own message.
func (s *ConversationStore) Append(convId string, msg types.Message, senderRole types.Role) (types.Conversation, error) {
	convs := s.LoadAll()
	for i := range convs {
		if convs[i].Id != convId {
			continue
		}

		if msg.ReadBy == nil {
			msg.ReadBy = make(map[types.Role]bool)
		}
		msg.ReadBy[senderRole.ReadKey()] = true

		convs[i].Messages = append(convs[i].Messages, msg)
		if err := s.SaveAll(convs); err != nil {
			return types.Conversation{}, err
		}
		return convs[i], nil
	}
	return types.Conversation{}, fmt.Errorf("conversation %q: %w", convId, ErrNotFound)
}

// NewMessage builds a message from the actor's draft, stamped with a
// fresh id and the current instant.
func NewMessage(senderId, text string, attachment types.Attachment) types.Message {
	return types.Message{
		Id:         genId("MSG"),
		SenderId:   senderId,
		Text:       text,
		Attachment: attachment,
		Timestamp:  time.Now().UTC().Round(time.Millisecond),
		ReadBy:     make(map[types.Role]bool),
	}
}

func genId(prefix string) string {
	id, err := shortid.Generate()
	if err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return prefix + "-" + id
}
