package localstore

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

const eventChannelBuffer = 64

// FileStore keeps one file per key under a data directory. Writes go to a
// dotted temp file and are renamed into place, so readers in other
// processes never observe a partial value. Change events come from an
// fsnotify watcher on the directory; the store's own writes are counted
// and suppressed so only foreign writes surface on Events.
type FileStore struct {
	dir        string
	instanceId string
	log        *log.Logger
	watcher    *fsnotify.Watcher
	events     chan Event

	mu         sync.Mutex
	selfWrites map[string]int

	done chan struct{}
}

func NewFileStore(dir string, logger *log.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch data dir: %w", err)
	}

	fs := &FileStore{
		dir:        dir,
		instanceId: uuid.NewString(),
		log:        logger,
		watcher:    watcher,
		events:     make(chan Event, eventChannelBuffer),
		selfWrites: make(map[string]int),
		done:       make(chan struct{}),
	}

	go fs.watch()
	return fs, nil
}

// InstanceId identifies this handle, distinguishing it from other
// processes sharing the same data directory.
func (fs *FileStore) InstanceId() string {
	return fs.instanceId
}

func (fs *FileStore) GetItem(key string) (string, bool, error) {
	data, err := os.ReadFile(fs.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %q: %w", key, err)
	}
	return string(data), true, nil
}

func (fs *FileStore) SetItem(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	tmp := filepath.Join(fs.dir, "."+fs.instanceId+"-"+key)
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}

	fs.selfWrites[key]++
	if err := os.Rename(tmp, fs.path(key)); err != nil {
		fs.selfWrites[key]--
		os.Remove(tmp)
		return fmt.Errorf("commit %q: %w", key, err)
	}
	return nil
}

func (fs *FileStore) RemoveItem(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.selfWrites[key]++
	if err := os.Remove(fs.path(key)); err != nil {
		fs.selfWrites[key]--
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

func (fs *FileStore) Events() <-chan Event {
	return fs.events
}

func (fs *FileStore) Close() error {
	close(fs.done)
	return fs.watcher.Close()
}

func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.dir, key)
}

func (fs *FileStore) watch() {
	for {
		select {
		case ev, ok := <-fs.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) {
				continue
			}

			key := filepath.Base(ev.Name)
			if strings.HasPrefix(key, ".") {
				// temp file traffic, never a committed value
				continue
			}

			if fs.ownWrite(key) {
				continue
			}

			select {
			case fs.events <- Event{Key: key}:
			default:
				fs.log.Printf("dropping change event for %q, channel full", key)
			}
		case err, ok := <-fs.watcher.Errors:
			if !ok {
				return
			}
			fs.log.Println("watcher error:", err)
		case <-fs.done:
			return
		}
	}
}

// ownWrite reports whether a pending self-write accounts for the observed
// filesystem event, consuming it if so.
func (fs *FileStore) ownWrite(key string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.selfWrites[key] > 0 {
		fs.selfWrites[key]--
		if fs.selfWrites[key] == 0 {
			delete(fs.selfWrites, key)
		}
		return true
	}
	return false
}
