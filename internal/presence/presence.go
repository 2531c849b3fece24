// Package presence simulates online status with short-TTL heartbeats in
// the shared storage area. There is no offline event; a user is offline
// exactly when their last heartbeat is stale.
package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/renteasy/messenger/internal/localstore"
	"github.com/renteasy/messenger/internal/stats"
	"github.com/renteasy/messenger/internal/store"
	"github.com/renteasy/messenger/internal/types"
)

const (
	// DefaultInterval is how often an open tab refreshes its heartbeat.
	DefaultInterval = 20 * time.Second
	// onlineWindow is how long a heartbeat counts as "online".
	onlineWindow = 90 * time.Second
)

type Tracker struct {
	log     *log.Logger
	storage localstore.Store
	stats   stats.StatsProvider
	now     func() time.Time
}

func NewTracker(logger *log.Logger, storage localstore.Store, sp stats.StatsProvider) *Tracker {
	if sp == nil {
		sp = stats.Nop{}
	}
	return &Tracker{
		log:     logger,
		storage: storage,
		stats:   sp,
		now:     time.Now,
	}
}

// Heartbeat upserts the actor's presence record with the current instant.
func (t *Tracker) Heartbeat(actor types.Actor) error {
	records := t.records()
	records[actor.Id] = types.PresenceRecord{
		LastSeen: t.now().UTC(),
		Name:     actor.Name,
		Role:     actor.Role,
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode presence: %w", err)
	}
	if err := t.storage.SetItem(store.OnlineUsersKey, string(data)); err != nil {
		return fmt.Errorf("save presence: %w", err)
	}
	t.stats.Incr(stats.Heartbeats)
	return nil
}

// Run beats immediately and then on every interval tick until the
// context is cancelled.
func (t *Tracker) Run(ctx context.Context, actor types.Actor, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	if err := t.Heartbeat(actor); err != nil {
		t.log.Println("heartbeat:", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := t.Heartbeat(actor); err != nil {
				t.log.Println("heartbeat:", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (t *Tracker) IsOnline(userId string) bool {
	rec, ok := t.records()[userId]
	return ok && t.now().Sub(rec.LastSeen) < onlineWindow
}

// AnyOnline reports whether any of the given users has a fresh heartbeat.
func (t *Tracker) AnyOnline(userIds []string) bool {
	records := t.records()
	now := t.now()
	for _, id := range userIds {
		if rec, ok := records[id]; ok && now.Sub(rec.LastSeen) < onlineWindow {
			return true
		}
	}
	return false
}

// Describe renders a user's presence for display: "Online" while the
// heartbeat is fresh, "last seen <relative>" for a stale record, and the
// empty string when the user was never seen.
func (t *Tracker) Describe(userId string) string {
	rec, ok := t.records()[userId]
	if !ok {
		return ""
	}
	if t.now().Sub(rec.LastSeen) < onlineWindow {
		return "Online"
	}
	return "last seen " + RelativeTime(rec.LastSeen, t.now())
}

func (t *Tracker) records() map[string]types.PresenceRecord {
	records := make(map[string]types.PresenceRecord)

	raw, ok, err := t.storage.GetItem(store.OnlineUsersKey)
	if err != nil {
		t.log.Println("read presence:", err)
		return records
	}
	if !ok || raw == "" {
		return records
	}
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		t.log.Println("corrupt presence blob:", err)
		return make(map[string]types.PresenceRecord)
	}
	return records
}

// RelativeTime buckets an instant the way the thread view renders
// message ages: moments / minutes / hours, then an absolute date.
func RelativeTime(ts, now time.Time) string {
	diff := now.Sub(ts)
	switch {
	case diff < time.Minute:
		return "moments ago"
	case diff < time.Hour:
		return fmt.Sprintf("%d min ago", int(math.Round(diff.Minutes())))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%d hr ago", int(math.Round(diff.Hours())))
	default:
		return ts.Local().Format("Jan 2, 2006 3:04 PM")
	}
}
