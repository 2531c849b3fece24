package client

import "github.com/renteasy/messenger/internal/types"

// View is the rendering surface for a messaging session. Front-ends
// implement it; the session pushes fresh view models on every state
// change. Implementations must not call back into the session from
// inside a render.
type View interface {
	RenderConversationList(items []ListItem, summary string)
	// RenderThread receives nil while no conversation is selected.
	RenderThread(thread *ThreadView)
	RenderUnreadBadge(total int)
	// Notice surfaces a one-line user-facing message.
	Notice(text string)
	SetTyping(visible bool)
}

// ListItem is one entry in the conversation list.
type ListItem struct {
	Id       string
	Title    string
	Subtitle string
	Unread   int
	Active   bool
}

// ThreadView is the open conversation.
type ThreadView struct {
	ConversationId string
	Header         string
	PresenceLine   string
	ListingId      string
	Messages       []MessageView
	CanSend        bool
}

type MessageView struct {
	Id              string
	Mine            bool
	SenderId        string
	Text            string
	Attachment      types.Attachment
	AttachmentKind  string // "", "image" or "video"
	Age             string
	Receipt         string // sender-side read receipt, own messages only
	UnreadHighlight bool
}
