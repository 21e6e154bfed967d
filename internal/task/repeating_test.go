package task

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepeatingTask(t *testing.T) {
	var count int64
	obj := NewRepeating(func() {
		atomic.AddInt64(&count, 1)
	}, 5*time.Millisecond)

	obj.Start()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt64(&count) >= 3
	}, time.Second, time.Millisecond)

	obj.Stop(false)
	settled := atomic.LoadInt64(&count)
	time.Sleep(25 * time.Millisecond)
	assert.LessOrEqual(t, atomic.LoadInt64(&count), settled+1)
}

func TestRepeatingTask_StopForceExec(t *testing.T) {
	var count int64
	obj := NewRepeating(func() {
		atomic.AddInt64(&count, 1)
	}, time.Hour)

	obj.Start()
	obj.Stop(true)
	assert.Equal(t, int64(1), atomic.LoadInt64(&count))
}

func TestRepeatingTask_StartTwice(t *testing.T) {
	obj := NewRepeating(func() {}, time.Hour)
	obj.Start()
	obj.Start()
	obj.Stop(false)
	obj.Stop(false)
}
