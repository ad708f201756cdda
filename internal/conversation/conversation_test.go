package conversation

import (
	"sync"
	"testing"
)

func TestTakeConsumes(t *testing.T) {
	tr := NewTracker()
	tr.Set(1, AwaitingReply{TopicID: 7})

	st, ok := tr.Take(1)
	if !ok {
		t.Fatal("expected a pending state")
	}
	if s, ok := st.(AwaitingReply); !ok || s.TopicID != 7 {
		t.Fatalf("unexpected state %#v", st)
	}

	if _, ok := tr.Take(1); ok {
		t.Error("state should be consumed by Take")
	}
}

func TestSetReplaces(t *testing.T) {
	tr := NewTracker()
	tr.Set(2, AwaitingReply{TopicID: 1})
	tr.Set(2, AwaitingUsername{})

	st, ok := tr.Take(2)
	if !ok {
		t.Fatal("expected a pending state")
	}
	if _, ok := st.(AwaitingUsername); !ok {
		t.Fatalf("later Set should win, got %#v", st)
	}
}

func TestClearIdempotent(t *testing.T) {
	tr := NewTracker()
	tr.Set(3, AwaitingUsername{})
	tr.Clear(3)
	tr.Clear(3)
	if _, ok := tr.Take(3); ok {
		t.Error("cleared state should be gone")
	}
}

func TestOneStatePerUser(t *testing.T) {
	tr := NewTracker()
	tr.Set(4, AwaitingReply{TopicID: 1})
	tr.Set(5, AwaitingReportReason{TopicID: 2})
	if tr.Len() != 2 {
		t.Errorf("Len = %d, want 2", tr.Len())
	}
	tr.Set(4, AwaitingReportReason{TopicID: 3})
	if tr.Len() != 2 {
		t.Errorf("replacing a state must not grow the map, Len = %d", tr.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			tr.Set(id, AwaitingReply{TopicID: uint(id)})
			tr.Take(id)
			tr.Set(id, AwaitingUsername{})
			tr.Clear(id)
		}(int64(i % 10))
	}
	wg.Wait()
}
