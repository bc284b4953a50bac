package kvstore

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLocker_SerializesSameKey(t *testing.T) {
	l := NewLocker()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := l.Lock("colors:u1")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			defer unlock()
			v := counter
			counter = v + 1
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 increments, got %d", counter)
	}
	if len(l.locks) != 0 {
		t.Errorf("expected idle locks to be dropped, %d remain", len(l.locks))
	}
}

func TestLocker_IndependentKeys(t *testing.T) {
	l := NewLocker()
	unlockA, err := l.Lock("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer unlockA()

	// A different key must not block while "a" is held.
	done := make(chan struct{})
	go func() {
		unlock, err := l.Lock("b")
		if err == nil {
			unlock()
		}
		close(done)
	}()
	<-done
}

func TestLocker_RetiredKeyRefusesQueuedWriter(t *testing.T) {
	l := NewLocker()
	unlock, err := l.Lock("colors:u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := make(chan error, 1)
	go func() {
		unlock, err := l.Lock("colors:u1")
		if err == nil {
			unlock()
		}
		result <- err
	}()

	l.Retire("colors:u1")
	unlock()

	if err := <-result; !errors.Is(err, ErrRetired) {
		t.Fatalf("expected ErrRetired for queued writer, got %v", err)
	}
	if _, err := l.Lock("colors:u1"); !errors.Is(err, ErrRetired) {
		t.Errorf("expected ErrRetired for later writer, got %v", err)
	}
	if len(l.locks) != 0 {
		t.Errorf("expected refused locks to be released, %d remain", len(l.locks))
	}

	// Other keys are unaffected.
	if unlock, err := l.Lock("colors:u2"); err != nil {
		t.Errorf("unexpected error for other key: %v", err)
	} else {
		unlock()
	}
}

func TestLocker_RetirementExpires(t *testing.T) {
	l := NewLocker()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Retire("k")
	if _, err := l.Lock("k"); !errors.Is(err, ErrRetired) {
		t.Fatalf("expected ErrRetired, got %v", err)
	}

	now = now.Add(retireTTL + time.Second)
	unlock, err := l.Lock("k")
	if err != nil {
		t.Fatalf("expected retirement to lapse, got %v", err)
	}
	unlock()
	if len(l.retired) != 0 {
		t.Errorf("expected lapsed entry to be pruned, %d remain", len(l.retired))
	}
}
