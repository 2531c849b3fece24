// Package localstore provides a small keyed blob store with the same
// contract as browser profile storage: values are strings keyed by name,
// writes are atomic per key, and change events are delivered to every
// open handle except the one that made the write.
package localstore

// Event signals that another handle wrote or removed a key.
type Event struct {
	Key string
}

type Store interface {
	// GetItem returns the value for key and whether it exists.
	GetItem(key string) (string, bool, error)
	// SetItem stores value under key and notifies other handles.
	SetItem(key, value string) error
	// RemoveItem deletes key and notifies other handles.
	RemoveItem(key string) error
	// Events delivers change notifications for writes made elsewhere.
	// The channel is buffered; events are dropped rather than blocking
	// a slow consumer.
	Events() <-chan Event
	Close() error
}
