package store

import (
	"encoding/json"
	"time"

	"github.com/renteasy/messenger/internal/types"
)

// Earlier front-ends wrote the same blob with drifting field names:
// "sender" for senderId, flat readByManager/readByAdmin flags instead of
// the readBy map, and propertyId for listingId. All of that is absorbed
// here, once, at load time. Consumers only ever see the canonical schema.

type rawConversation struct {
	Id           string              `json:"id"`
	ListingId    string              `json:"listingId"`
	PropertyId   string              `json:"propertyId"`
	State        string              `json:"state"`
	Lga          string              `json:"lga"`
	Participants []types.Participant `json:"participants"`
	Messages     []rawMessage        `json:"messages"`
}

type rawMessage struct {
	Id            string           `json:"id"`
	SenderId      string           `json:"senderId"`
	Sender        string           `json:"sender"`
	Text          string           `json:"text"`
	Attachment    types.Attachment `json:"attachment"`
	Timestamp     flexTime         `json:"timestamp"`
	ReadBy        map[string]bool  `json:"readBy"`
	ReadByManager *bool            `json:"readByManager"`
	ReadByAdmin   *bool            `json:"readByAdmin"`
}

func decodeConversations(data []byte) ([]types.Conversation, error) {
	var raw []rawConversation
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	convs := make([]types.Conversation, 0, len(raw))
	for _, rc := range raw {
		conv := types.Conversation{
			Id:           rc.Id,
			ListingId:    rc.ListingId,
			State:        rc.State,
			Lga:          rc.Lga,
			Participants: rc.Participants,
			Messages:     make([]types.Message, 0, len(rc.Messages)),
		}
		if conv.ListingId == "" {
			conv.ListingId = rc.PropertyId
		}
		for _, rm := range rc.Messages {
			conv.Messages = append(conv.Messages, rm.canonical())
		}
		convs = append(convs, conv)
	}
	return convs, nil
}

func (rm rawMessage) canonical() types.Message {
	msg := types.Message{
		Id:         rm.Id,
		SenderId:   rm.SenderId,
		Text:       rm.Text,
		Attachment: rm.Attachment,
		Timestamp:  rm.Timestamp.Time,
		ReadBy:     make(map[types.Role]bool),
	}
	if msg.SenderId == "" {
		msg.SenderId = rm.Sender
	}

	for key, read := range rm.ReadBy {
		role := types.Role(key)
		if role.Valid() && read {
			msg.ReadBy[role] = true
		}
	}
	if rm.ReadByManager != nil && *rm.ReadByManager {
		msg.ReadBy[types.RoleManager] = true
	}
	if rm.ReadByAdmin != nil && *rm.ReadByAdmin {
		msg.ReadBy[types.RoleAdmin] = true
	}
	return msg
}

// flexTime accepts both the canonical ISO-8601 encoding and the legacy
// millisecond epoch numbers older blobs carried. Unparseable values are
// left at the zero instant rather than failing the whole load.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			t.Time = parsed
		}
		return nil
	}

	var ms int64
	if err := json.Unmarshal(b, &ms); err == nil {
		t.Time = time.UnixMilli(ms).UTC()
	}
	return nil
}
