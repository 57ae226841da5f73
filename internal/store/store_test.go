package store

import (
	"testing"
	"time"

	"curio-cli/internal/reducers"
	"curio-cli/internal/schema"
)

type noopAction struct{}

func (noopAction) Type() string { return "test.noop" }

func TestDispatch_NoOpKeepsSnapshotAndSkipsSubscribers(t *testing.T) {
	s := New()
	notified := 0
	s.Subscribe(func() { notified++ })

	before := s.State()
	s.Dispatch(noopAction{})
	if s.State() != before {
		t.Fatalf("no-op dispatch replaced the snapshot")
	}
	if notified != 0 {
		t.Fatalf("subscriber notified on no-op dispatch")
	}
}

func TestDispatch_ChangeNotifiesSubscribers(t *testing.T) {
	s := New()
	notified := 0
	s.Subscribe(func() { notified++ })

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.Dispatch(reducers.AddTags{Tags: []schema.Tag{{TagID: 1, TagName: "x", CreatedAt: now, ModifiedAt: now}}})

	if s.State().Tags[1].TagName != "x" {
		t.Fatalf("dispatch not applied")
	}
	if notified != 1 {
		t.Fatalf("expected one notification; got %d", notified)
	}
}

func TestDispatch_OrderWithinCallStack(t *testing.T) {
	s := New()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.Dispatch(reducers.AddTags{Tags: []schema.Tag{{TagID: 1, TagName: "a", CreatedAt: now, ModifiedAt: now}}})
	s.Dispatch(reducers.DeleteTags{TagIDs: []int{1}})
	if len(s.State().Tags) != 0 {
		t.Fatalf("dispatch order violated: %v", s.State().Tags)
	}
}
