// Package monitor is the read-only conversation view for admins and
// managers. It renders through the same store and visibility policy as
// the participant view, adds filtering, and never exposes a compose
// surface.
package monitor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/renteasy/messenger/internal/client"
	"github.com/renteasy/messenger/internal/localstore"
	"github.com/renteasy/messenger/internal/policy"
	"github.com/renteasy/messenger/internal/presence"
	"github.com/renteasy/messenger/internal/stats"
	"github.com/renteasy/messenger/internal/store"
	"github.com/renteasy/messenger/internal/types"
)

// DefaultPollInterval is the refresh fallback in case the storage
// notification channel is unreliable.
const DefaultPollInterval = 10 * time.Second

type FilterMode string

const (
	FilterAll      FilterMode = "all"
	FilterUnread   FilterMode = "unread"
	FilterTenants  FilterMode = "tenants"
	FilterManagers FilterMode = "managers"
	FilterAssigned FilterMode = "assigned"
)

// Filter narrows the visible conversation list. Query matches
// case-insensitively over participant names, the last-message preview
// and the listing reference.
type Filter struct {
	Mode  FilterMode
	Query string
}

type View interface {
	RenderList(items []Item)
	// RenderThread receives nil while nothing is selected.
	RenderThread(thread *client.ThreadView)
	Notice(text string)
}

// Item is one monitor list entry.
type Item struct {
	Id        string
	Title     string
	Preview   string
	Time      string
	Unread    int
	AnyOnline bool
	Initials  string
	Color     string
}

type Monitor struct {
	log      *log.Logger
	storage  localstore.Store
	store    *store.ConversationStore
	presence *presence.Tracker
	actor    types.Actor
	caps     types.Capabilities
	view     View
	notifier client.Notifier
	stats    stats.StatsProvider

	mu        sync.Mutex
	filter    Filter
	activeId  string
	lastHash  string
	lastCount int
}

func New(logger *log.Logger, storage localstore.Store, actor types.Actor, view View, notifier client.Notifier, sp stats.StatsProvider) *Monitor {
	if notifier == nil {
		notifier = client.NopNotifier{}
	}
	if sp == nil {
		sp = stats.Nop{}
	}
	return &Monitor{
		log:      logger,
		storage:  storage,
		store:    store.NewConversationStore(logger, storage),
		presence: presence.NewTracker(logger, storage, sp),
		actor:    actor,
		caps:     types.Capabilities{}, // strictly view-only
		view:     view,
		notifier: notifier,
		stats:    sp,
		filter:   Filter{Mode: FilterAll},
	}
}

func (m *Monitor) Actor() types.Actor {
	return m.actor
}

// Run handles cross-tab storage events and the polling fallback until
// the context is cancelled.
func (m *Monitor) Run(ctx context.Context, pollInterval time.Duration) {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-m.storage.Events():
			if !ok {
				return
			}
			m.handleStorageEvent(ev)
		case <-ticker.C:
			m.poll()
		case <-ctx.Done():
			return
		}
	}
}

// Refresh re-reads the store and renders the filtered list.
func (m *Monitor) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.render(m.store.LoadAll())
}

// SetFilter applies a new filter and re-renders. Role-based modes are
// reserved for admins; managers keep free-text search and unread-only.
func (m *Monitor) SetFilter(f Filter) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !types.CapabilitiesFor(m.actor).CanFilterByRole {
		switch f.Mode {
		case FilterTenants, FilterManagers, FilterAssigned:
			f.Mode = FilterAll
		}
	}
	m.filter = f
	m.render(m.store.LoadAll())
}

// Open selects a conversation. markRead stamps the actor's role-class
// read flag; the polling path re-opens without re-marking.
func (m *Monitor) Open(convId string, markRead bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open(convId, markRead)
}

func (m *Monitor) open(convId string, markRead bool) error {
	if markRead {
		_, _, err := m.store.MarkConversationRead(convId, m.actor.Role)
		if err != nil {
			m.view.Notice("Conversation not found.")
			return err
		}
	} else if _, ok := m.store.FindById(convId); !ok {
		m.view.Notice("Conversation not found.")
		return store.ErrNotFound
	}

	m.activeId = convId
	m.render(m.store.LoadAll())
	return nil
}

func (m *Monitor) handleStorageEvent(ev localstore.Event) {
	if ev.Key != store.ConversationsKey && ev.Key != store.UpdatedAtKey {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	convs := m.store.LoadAll()
	if len(convs) > m.lastCount {
		if err := m.notifier.Notify(); err != nil {
			m.notifier.Fallback()
		}
		m.stats.Incr(stats.NotificationsPlayed)
	}

	if m.activeId != "" {
		// re-mark so the thread reflects the monitor having seen it
		if _, changed, err := m.store.MarkConversationRead(m.activeId, m.actor.Role); err == nil && changed {
			convs = m.store.LoadAll()
		}
	}
	m.render(convs)
}

// poll is the interval fallback: a cheap change hash avoids re-rendering
// an unchanged collection.
func (m *Monitor) poll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	convs := m.store.LoadAll()
	hash := changeHash(convs)
	if hash == m.lastHash {
		return
	}
	m.lastHash = hash
	m.stats.Incr(stats.MonitorRefreshes)

	if m.activeId != "" {
		if _, ok := findConversation(convs, m.activeId); !ok {
			m.activeId = ""
		}
	}
	m.render(convs)
}

// render pushes the filtered, newest-first list and the open thread.
// Callers hold m.mu.
func (m *Monitor) render(convs []types.Conversation) {
	m.lastCount = len(convs)
	m.lastHash = changeHash(convs)

	visible := policy.VisibleConversations(convs, m.actor)
	// newest first for the monitor
	reversed := make([]types.Conversation, 0, len(visible))
	for i := len(visible) - 1; i >= 0; i-- {
		reversed = append(reversed, visible[i])
	}

	filtered := m.applyFilter(reversed)

	items := make([]Item, 0, len(filtered))
	for _, conv := range filtered {
		items = append(items, m.buildItem(conv))
	}
	m.view.RenderList(items)

	if m.activeId == "" {
		m.view.RenderThread(nil)
		return
	}
	if conv, ok := findConversation(convs, m.activeId); ok {
		thread := client.BuildThread(&conv, m.actor, m.caps, m.presence)
		thread.Header = "Monitoring: " + client.ParticipantNames(conv.Participants, " & ")
		m.view.RenderThread(thread)
	} else {
		m.view.RenderThread(nil)
	}
}

func (m *Monitor) buildItem(conv types.Conversation) Item {
	item := Item{
		Id:        conv.Id,
		Title:     client.ParticipantNames(conv.Participants, " • "),
		Preview:   "No messages yet",
		Unread:    store.UnreadCount(conv, m.actor.Role),
		AnyOnline: m.presence.AnyOnline(participantIds(conv)),
		Initials:  Initials(conv),
	}
	item.Color = StringColor(item.Initials)

	if last := conv.LastMessage(); last != nil {
		item.Preview = previewText(last.Text)
		item.Time = last.Timestamp.Local().Format("3:04:05 PM")
	}
	return item
}

func (m *Monitor) applyFilter(convs []types.Conversation) []types.Conversation {
	out := make([]types.Conversation, 0, len(convs))
	query := strings.ToLower(strings.TrimSpace(m.filter.Query))

	for _, conv := range convs {
		if !m.matchesMode(conv) {
			continue
		}
		if query != "" && !matchesQuery(conv, query) {
			continue
		}
		out = append(out, conv)
	}
	return out
}

func (m *Monitor) matchesMode(conv types.Conversation) bool {
	switch m.filter.Mode {
	case FilterUnread:
		return store.UnreadCount(conv, m.actor.Role) > 0
	case FilterTenants:
		return hasRole(conv, types.RoleTenant)
	case FilterManagers:
		return hasRole(conv, types.RoleManager)
	case FilterAssigned:
		for _, a := range m.actor.Assignments {
			if a != "" && conv.ListingId == a {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func matchesQuery(conv types.Conversation, query string) bool {
	var names strings.Builder
	for _, p := range conv.Participants {
		names.WriteString(strings.ToLower(p.Name))
		names.WriteString(" ")
	}
	if strings.Contains(names.String(), query) {
		return true
	}
	if last := conv.LastMessage(); last != nil && strings.Contains(strings.ToLower(last.Text), query) {
		return true
	}
	return strings.Contains(strings.ToLower(conv.ListingId), query)
}

func hasRole(conv types.Conversation, role types.Role) bool {
	for _, p := range conv.Participants {
		if p.Role == role {
			return true
		}
	}
	return false
}

func participantIds(conv types.Conversation) []string {
	ids := make([]string, 0, len(conv.Participants))
	for _, p := range conv.Participants {
		ids = append(ids, p.Id)
	}
	return ids
}

func findConversation(convs []types.Conversation, id string) (types.Conversation, bool) {
	for _, c := range convs {
		if c.Id == id {
			return c, true
		}
	}
	return types.Conversation{}, false
}

const previewLimit = 60

func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLimit {
		return text
	}
	return string(runes[:previewLimit]) + "…"
}

// changeHash is the cheap change-detection key: conversation count plus
// the latest message timestamp.
func changeHash(convs []types.Conversation) string {
	var latest time.Time
	for _, c := range convs {
		if last := c.LastMessage(); last != nil && last.Timestamp.After(latest) {
			latest = last.Timestamp
		}
	}
	return fmt.Sprintf("%d|%s", len(convs), latest.Format(time.RFC3339Nano))
}
