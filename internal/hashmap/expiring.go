package hashmap

import (
	"sync"
	"time"

	"github.com/tasklet/task-server/internal/task"
)

type expiringEntry[V any] struct {
	raw      V
	inserted time.Time
}

// ExpiringMap is a thread safe hash map whose values expire after a fixed lifetime.
// Expired values are never returned, but their memory is only reclaimed by the
// cleanup task scheduled through ScheduleCleanupTask.
type ExpiringMap[K comparable, V any] struct {
	mtx        sync.RWMutex
	underlying map[K]*expiringEntry[V]
	lifetime   time.Duration

	cleanupTask *task.RepeatingTask
}

// NewExpiring creates a new expiring map whose values exist for the given lifetime
func NewExpiring[K comparable, V any](lifetime time.Duration) *ExpiringMap[K, V] {
	return &ExpiringMap[K, V]{
		underlying: make(map[K]*expiringEntry[V]),
		lifetime:   lifetime,
	}
}

// ScheduleCleanupTask schedules the task that removes expired values in a specific interval.
// Call StopCleanupTask as soon as the map is no longer needed as the map would not be
// garbage collected otherwise.
func (obj *ExpiringMap[K, V]) ScheduleCleanupTask(tick time.Duration) {
	if obj.cleanupTask != nil {
		return
	}
	obj.cleanupTask = task.NewRepeating(func() {
		obj.mtx.Lock()
		defer obj.mtx.Unlock()
		for key, entry := range obj.underlying {
			if time.Since(entry.inserted) > obj.lifetime {
				delete(obj.underlying, key)
			}
		}
	}, tick)
	obj.cleanupTask.Start()
}

// StopCleanupTask stops the cleanup task
func (obj *ExpiringMap[K, V]) StopCleanupTask() {
	if obj.cleanupTask == nil {
		return
	}
	obj.cleanupTask.Stop(true)
	obj.cleanupTask = nil
}

// Lookup returns the value assigned to the given key and whether a live value was present
func (obj *ExpiringMap[K, V]) Lookup(key K) (V, bool) {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()

	entry, ok := obj.underlying[key]
	if !ok || time.Since(entry.inserted) > obj.lifetime {
		var zero V
		return zero, false
	}
	return entry.raw, true
}

// Set sets a key-value pair, resetting the value's lifetime
func (obj *ExpiringMap[K, V]) Set(key K, value V) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()

	obj.underlying[key] = &expiringEntry[V]{
		raw:      value,
		inserted: time.Now(),
	}
}

// Unset deletes the value assigned to the given key
func (obj *ExpiringMap[K, V]) Unset(key K) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()

	delete(obj.underlying, key)
}

// Size returns the amount of stored key-value pairs, including not yet cleaned up expired ones
func (obj *ExpiringMap[K, V]) Size() int {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()

	return len(obj.underlying)
}
