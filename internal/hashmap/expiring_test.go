package hashmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpiringMap(t *testing.T) {
	obj := NewExpiring[string, int](time.Minute)

	_, ok := obj.Lookup("key")
	assert.False(t, ok)

	obj.Set("key", 42)
	value, ok := obj.Lookup("key")
	assert.True(t, ok)
	assert.Equal(t, 42, value)
	assert.Equal(t, 1, obj.Size())

	obj.Unset("key")
	_, ok = obj.Lookup("key")
	assert.False(t, ok)
}

func TestExpiringMap_Expiration(t *testing.T) {
	obj := NewExpiring[string, int](10 * time.Millisecond)
	obj.Set("key", 42)

	time.Sleep(25 * time.Millisecond)

	// The value is expired even though no cleanup task ran
	_, ok := obj.Lookup("key")
	assert.False(t, ok)
	assert.Equal(t, 1, obj.Size())
}

func TestExpiringMap_CleanupTask(t *testing.T) {
	obj := NewExpiring[string, int](10 * time.Millisecond)
	obj.Set("key", 42)

	obj.ScheduleCleanupTask(5 * time.Millisecond)
	defer obj.StopCleanupTask()

	assert.Eventually(t, func() bool {
		return obj.Size() == 0
	}, time.Second, 5*time.Millisecond)
}
