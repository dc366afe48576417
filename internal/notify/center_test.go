package notify

import (
	"testing"

	"github.com/mzurek/taskflow/internal/model"
)

func TestCenterAddNewestFirst(t *testing.T) {
	c := NewCenter()

	first := c.Add("first", model.KindInfo)
	second := c.Add("second", model.KindSuccess)

	if second <= first {
		t.Errorf("ids not increasing: first=%d second=%d", first, second)
	}

	list := c.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}
	if list[0].Message != "second" || list[1].Message != "first" {
		t.Errorf("expected newest first, got %q then %q", list[0].Message, list[1].Message)
	}
	if list[0].Read {
		t.Error("new notification should start unread")
	}
}

func TestCenterIDsUniqueUnderRapidCalls(t *testing.T) {
	c := NewCenter()

	seen := make(map[int64]bool)
	for i := 0; i < 1000; i++ {
		id := c.Add("msg", model.KindInfo)
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
}

func TestCenterMarkReadIdempotent(t *testing.T) {
	c := NewCenter()
	id := c.Add("msg", model.KindWarning)

	c.MarkRead(id)
	if got := c.UnreadCount(); got != 0 {
		t.Errorf("unread count after markRead = %d, want 0", got)
	}

	// Second call must not change anything.
	c.MarkRead(id)
	if got := c.UnreadCount(); got != 0 {
		t.Errorf("unread count after repeated markRead = %d, want 0", got)
	}
	if len(c.List()) != 1 {
		t.Error("markRead must not remove entries")
	}
}

func TestCenterMarkReadAbsentIsNoop(t *testing.T) {
	c := NewCenter()
	c.Add("msg", model.KindInfo)

	c.MarkRead(42)

	if got := c.UnreadCount(); got != 1 {
		t.Errorf("unread count = %d, want 1", got)
	}
}

func TestCenterDismiss(t *testing.T) {
	c := NewCenter()
	id1 := c.Add("one", model.KindInfo)
	id2 := c.Add("two", model.KindInfo)

	c.Dismiss(id1)

	list := c.List()
	if len(list) != 1 || list[0].ID != id2 {
		t.Fatalf("expected only id %d to remain, got %v", id2, list)
	}

	// Dismissing an absent id is a no-op.
	c.Dismiss(id1)
	if len(c.List()) != 1 {
		t.Error("repeated dismiss changed state")
	}
}

func TestCenterUnreadCountAfterMixedOps(t *testing.T) {
	c := NewCenter()

	a := c.Add("a", model.KindInfo)
	b := c.Add("b", model.KindError)
	d := c.Add("c", model.KindSuccess)

	c.MarkRead(a)
	c.Dismiss(b)

	if got := c.UnreadCount(); got != 1 {
		t.Errorf("unread count = %d, want 1", got)
	}

	c.MarkRead(d)
	if got := c.UnreadCount(); got != 0 {
		t.Errorf("unread count = %d, want 0", got)
	}
}
