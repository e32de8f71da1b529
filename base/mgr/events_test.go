package mgr

import "testing"

func TestEventMgrFanOut(t *testing.T) {
	em := NewEventMgr[int]("test")
	a := em.Subscribe("a", 4)
	b := em.Subscribe("b", 4)

	em.Submit(1)
	em.Submit(2)

	for _, sub := range []*EventSubscription[int]{a, b} {
		for want := 1; want <= 2; want++ {
			select {
			case got := <-sub.Events():
				if got != want {
					t.Errorf("got %d, want %d", got, want)
				}
			default:
				t.Fatalf("event %d missing", want)
			}
		}
	}
}

func TestEventMgrDropsWhenSubscriberFull(t *testing.T) {
	em := NewEventMgr[int]("test")
	sub := em.Subscribe("slow", 1)

	em.Submit(1)
	em.Submit(2) // dropped, buffer full

	if got := <-sub.Events(); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
	select {
	case got := <-sub.Events():
		t.Errorf("expected the second event to be dropped, got %d", got)
	default:
	}
}
