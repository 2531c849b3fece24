// Package client drives the participant messaging view: conversation
// list, open thread, send flow and cross-tab refresh. One Session is one
// open tab.
package client

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/renteasy/messenger/internal/localstore"
	"github.com/renteasy/messenger/internal/policy"
	"github.com/renteasy/messenger/internal/presence"
	"github.com/renteasy/messenger/internal/stats"
	"github.com/renteasy/messenger/internal/store"
	"github.com/renteasy/messenger/internal/types"
)

const typingDecay = 1800 * time.Millisecond

type Session struct {
	id       string
	log      *log.Logger
	storage  localstore.Store
	store    *store.ConversationStore
	dir      *store.Directory
	presence *presence.Tracker
	actor    types.Actor
	caps     types.Capabilities
	view     View
	notifier Notifier
	stats    stats.StatsProvider

	mu      sync.Mutex
	active  *types.Conversation
	visible bool

	typingMu    sync.Mutex
	typingTimer *time.Timer
}

func NewSession(logger *log.Logger, storage localstore.Store, actor types.Actor, view View, notifier Notifier, sp stats.StatsProvider) *Session {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if sp == nil {
		sp = stats.Nop{}
	}
	return &Session{
		id:       uuid.NewString(),
		log:      logger,
		storage:  storage,
		store:    store.NewConversationStore(logger, storage),
		dir:      store.NewDirectory(logger, storage),
		presence: presence.NewTracker(logger, storage, sp),
		actor:    actor,
		caps:     types.CapabilitiesFor(actor),
		view:     view,
		notifier: notifier,
		stats:    sp,
		visible:  true,
	}
}

func (s *Session) Id() string {
	return s.id
}

func (s *Session) Actor() types.Actor {
	return s.actor
}

// Run owns the session's background work: the presence heartbeat and the
// cross-tab storage events. It blocks until the context is cancelled. A
// non-positive heartbeat interval uses the default.
func (s *Session) Run(ctx context.Context, heartbeatInterval time.Duration) {
	go s.presence.Run(ctx, s.actor, heartbeatInterval)

	for {
		select {
		case ev, ok := <-s.storage.Events():
			if !ok {
				return
			}
			s.handleStorageEvent(ev)
		case <-ctx.Done():
			return
		}
	}
}

// Refresh re-reads the store and renders everything.
func (s *Session) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.render(s.store.LoadAll())
}

// Select opens a conversation from the list, marking it read for the
// actor's role-class.
func (s *Session) Select(convId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, changed, err := s.store.MarkConversationRead(convId, s.actor.Role)
	if err != nil {
		s.view.Notice("Conversation not found.")
		return err
	}
	if changed {
		s.log.Printf("marked conversation %q read for %s", convId, s.actor.Role)
	}

	s.active = &conv
	s.render(s.store.LoadAll())
	return nil
}

// Send appends a message to the active conversation. The attachment, if
// any, is fully read into an embedded blob before the message is
// finalized; the context cancels a slow read. View-only roles and sends
// with no selection are rejected with a notice and no state change.
func (s *Session) Send(ctx context.Context, text, attachmentPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		s.view.Notice("Select a conversation first.")
		return ErrNoConversation
	}
	if !s.caps.CanSend {
		s.view.Notice("Only tenants and landlords may send messages. Managers and admins are view-only.")
		return ErrReadOnlyRole
	}

	text = strings.TrimSpace(text)
	if text == "" && attachmentPath == "" {
		return ErrEmptyMessage
	}

	var attachment types.Attachment
	if attachmentPath != "" {
		var err error
		attachment, err = EncodeAttachment(ctx, attachmentPath)
		if err != nil {
			s.view.Notice("Could not read attachment.")
			return err
		}
	}

	msg := store.NewMessage(s.actor.Id, text, attachment)
	conv, err := s.store.Append(s.active.Id, msg, s.actor.Role)
	if err != nil {
		s.view.Notice("Conversation no longer exists.")
		return err
	}

	s.active = &conv
	s.stats.Incr(stats.MessagesSent)
	s.render(s.store.LoadAll())
	return nil
}

// Typing records a keystroke in the input. The indicator is local-only
// and decays after a short quiet period; nothing is persisted or shown
// to the counterpart.
func (s *Session) Typing() {
	s.typingMu.Lock()
	defer s.typingMu.Unlock()

	s.view.SetTyping(true)
	if s.typingTimer != nil {
		s.typingTimer.Stop()
	}
	s.typingTimer = time.AfterFunc(typingDecay, func() {
		s.view.SetTyping(false)
	})
}

// SetVisible tracks whether this tab is foregrounded; background tabs
// stay silent on new messages.
func (s *Session) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = visible
}

func (s *Session) handleStorageEvent(ev localstore.Event) {
	if ev.Key != store.ConversationsKey && ev.Key != store.UpdatedAtKey {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Incr(stats.StoreReloads)
	convs := s.store.LoadAll()

	if s.active != nil {
		if updated, ok := findConversation(convs, s.active.Id); ok {
			newUnread := store.UnreadCount(updated, s.actor.Role) > 0
			s.active = &updated
			if newUnread && s.visible {
				s.playNotify()
			}
		}
	}

	s.render(convs)
}

func (s *Session) playNotify() {
	if err := s.notifier.Notify(); err != nil {
		// autoplay-style failures degrade to the fallback tone and
		// never block the refresh
		s.log.Println("notification sound:", err)
		s.notifier.Fallback()
	}
	s.stats.Incr(stats.NotificationsPlayed)
}

func findConversation(convs []types.Conversation, id string) (types.Conversation, bool) {
	for _, c := range convs {
		if c.Id == id {
			return c, true
		}
	}
	return types.Conversation{}, false
}

// render pushes the full view model. Callers hold s.mu.
func (s *Session) render(convs []types.Conversation) {
	visible := policy.VisibleConversations(convs, s.actor)

	var activeId string
	if s.active != nil {
		activeId = s.active.Id
	}
	s.view.RenderConversationList(s.buildListItems(visible, activeId), summaryLine(len(visible)))
	s.view.RenderThread(s.buildThread())
	s.view.RenderUnreadBadge(store.TotalUnread(convs, s.actor))
}
