package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Kalex-k/urlshortener/internal/workerpool"
	"github.com/stretchr/testify/assert"
)

func TestSubmitRunsAllTasksExactlyOnce(t *testing.T) {
	p := workerpool.New(4, 16)
	defer p.Close()

	var count atomic.Int64

	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		})
	}

	wg.Wait()
	assert.EqualValues(t, 100, count.Load())
}

func TestSubmitRunsOnCallerWhenQueueSaturated(t *testing.T) {
	p := workerpool.New(1, 0)
	defer p.Close()

	block := make(chan struct{})
	started := make(chan struct{})

	p.Submit(func() {
		close(started)
		<-block
	})

	<-started

	var ranOnCaller bool

	callerGoroutine := make(chan struct{})
	go func() { close(callerGoroutine) }()
	<-callerGoroutine

	done := make(chan struct{})
	go func() {
		p.Submit(func() { ranOnCaller = true })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("submit blocked instead of running on caller")
	}

	assert.True(t, ranOnCaller)
	close(block)
}
