package localstore

import "sync"

// MemStorage is an in-memory storage area shared by any number of tab
// handles. It exists for tests and for simulating several tabs of the
// same browser profile inside one process.
type MemStorage struct {
	mu    sync.Mutex
	items map[string]string
	tabs  map[*MemTab]struct{}
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		items: make(map[string]string),
		tabs:  make(map[*MemTab]struct{}),
	}
}

// OpenTab returns a new handle on the shared area. Writes through one
// handle raise events on every other open handle, never on the writer.
func (ms *MemStorage) OpenTab() *MemTab {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	tab := &MemTab{
		area:   ms,
		events: make(chan Event, eventChannelBuffer),
	}
	ms.tabs[tab] = struct{}{}
	return tab
}

func (ms *MemStorage) set(writer *MemTab, key, value string, remove bool) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if remove {
		delete(ms.items, key)
	} else {
		ms.items[key] = value
	}

	for tab := range ms.tabs {
		if tab == writer {
			continue
		}
		select {
		case tab.events <- Event{Key: key}:
		default:
			// slow tab, drop the event
		}
	}
}

type MemTab struct {
	area   *MemStorage
	events chan Event

	closeOnce sync.Once
}

var _ Store = (*MemTab)(nil)

func (t *MemTab) GetItem(key string) (string, bool, error) {
	t.area.mu.Lock()
	defer t.area.mu.Unlock()

	v, ok := t.area.items[key]
	return v, ok, nil
}

func (t *MemTab) SetItem(key, value string) error {
	t.area.set(t, key, value, false)
	return nil
}

func (t *MemTab) RemoveItem(key string) error {
	t.area.set(t, key, "", true)
	return nil
}

func (t *MemTab) Events() <-chan Event {
	return t.events
}

func (t *MemTab) Close() error {
	t.closeOnce.Do(func() {
		t.area.mu.Lock()
		delete(t.area.tabs, t)
		t.area.mu.Unlock()
		close(t.events)
	})
	return nil
}
