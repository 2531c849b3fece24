package types

import (
	"strings"
	"time"
)

type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a stored role string to a Role. Unknown values fall back
// to tenant, matching the read-key rule.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleTenant:
		return RoleTenant
	case RoleLandlord:
		return RoleLandlord
	case RoleManager:
		return RoleManager
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleTenant
	}
}

// ReadKey returns the role-class key used for read tracking on messages.
func (r Role) ReadKey() Role {
	switch r {
	case RoleTenant, RoleLandlord, RoleManager, RoleAdmin:
		return r
	default:
		return RoleTenant
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleLandlord, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Actor is the currently operating user. It is always passed explicitly;
// no component reads identity from ambient state.
type Actor struct {
	Id   string
	Name string
	Role Role
	// Assignments holds a manager's listing/state/lga tokens used for
	// conversation visibility matching.
	Assignments []string
}

// Capabilities describes what the UI may expose for an actor.
type Capabilities struct {
	CanSend         bool
	CanFilterByRole bool
}

func CapabilitiesFor(a Actor) Capabilities {
	return Capabilities{
		CanSend:         a.Role == RoleTenant || a.Role == RoleLandlord,
		CanFilterByRole: a.Role == RoleAdmin,
	}
}

type Participant struct {
	Id   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Attachment is a self-contained data blob (data URL) embedded in a message.
type Attachment string

// IsVideo classifies the attachment by filename/content heuristic.
func (a Attachment) IsVideo() bool {
	s := strings.ToLower(string(a))
	return strings.HasSuffix(s, ".mp4") || strings.Contains(s, "video")
}

func (a Attachment) IsImage() bool {
	return a != "" && !a.IsVideo()
}

type Message struct {
	Id         string        `json:"id"`
	SenderId   string        `json:"senderId"`
	Text       string        `json:"text"`
	Attachment Attachment    `json:"attachment,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	ReadBy     map[Role]bool `json:"readBy"`
}

// IsReadBy reports whether the message has been read by the given role-class.
func (m *Message) IsReadBy(r Role) bool {
	return m.ReadBy != nil && m.ReadBy[r.ReadKey()]
}

// ReadByAnyone reports whether any role-class other than the sender's has
// read the message. Used for the sender-side read receipt.
func (m *Message) ReadByAnyone(senderKey Role) bool {
	for key, read := range m.ReadBy {
		if read && key != senderKey.ReadKey() {
			return true
		}
	}
	return false
}

type Conversation struct {
	Id        string `json:"id"`
	ListingId string `json:"listingId,omitempty"`
	// State and Lga are geographic tags copied from the referenced
	// listing, used only for manager visibility matching.
	State        string        `json:"state,omitempty"`
	Lga          string        `json:"lga,omitempty"`
	Participants []Participant `json:"participants"`
	Messages     []Message     `json:"messages"`
}

func (c *Conversation) HasParticipant(id string) bool {
	for _, p := range c.Participants {
		if p.Id == id {
			return true
		}
	}
	return false
}

// Others returns the participants other than the given user.
func (c *Conversation) Others(selfId string) []Participant {
	var others []Participant
	for _, p := range c.Participants {
		if p.Id != selfId {
			others = append(others, p)
		}
	}
	return others
}

// LastMessage returns the newest message, or nil if the thread is empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// PresenceRecord is the ephemeral last-seen heartbeat for a user.
type PresenceRecord struct {
	LastSeen time.Time `json:"lastSeen"`
	Name     string    `json:"name"`
	Role     Role      `json:"role"`
}

// User is a known profile in the shared users blob, consulted when
// resolving a counterparty by id or name.
type User struct {
	Id                 string   `json:"id"`
	Name               string   `json:"name"`
	Role               Role     `json:"role"`
	AssignedProperties []string `json:"assignedProperties,omitempty"`
}
