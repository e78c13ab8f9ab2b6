package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntityLocker_SerializesSameKey(t *testing.T) {
	locks := newEntityLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("entry-1")
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Empty(t, locks.locks, "released keys are dropped")
}

func TestEntityLocker_IndependentKeys(t *testing.T) {
	locks := newEntityLocker()
	unlockA := locks.Lock("a")

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("b")
		unlock()
		close(done)
	}()
	<-done

	assert.Len(t, locks.locks, 1)
	unlockA()
	assert.Empty(t, locks.locks)
}
