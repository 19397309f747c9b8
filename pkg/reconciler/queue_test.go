package reconciler

import "testing"

func TestQueue_PopDrainsInOrder(t *testing.T) {
	q := NewQueue()
	q.Enqueue(
		FeedbackEvent{Type: FeedbackMovement, Source: 0, Target: 1},
		FeedbackEvent{Type: FeedbackConquest, Source: 1, Target: 2},
	)

	first, ok := q.Pop()
	if !ok || first.Type != FeedbackMovement {
		t.Fatalf("expected the first enqueued event first, got %+v ok=%v", first, ok)
	}
	if !q.Busy() {
		t.Fatal("expected the queue to be busy immediately after Pop")
	}
	q.Done()

	second, ok := q.Pop()
	if !ok || second.Type != FeedbackConquest {
		t.Fatalf("expected the second enqueued event next, got %+v ok=%v", second, ok)
	}
}

func TestQueue_PopEmptyReturnsFalse(t *testing.T) {
	q := NewQueue()
	_, ok := q.Pop()
	if ok {
		t.Fatal("expected Pop on an empty queue to return false")
	}
}

func TestQueue_DeferredEndTurnFlushesOnDrain(t *testing.T) {
	q := NewQueue()
	q.Enqueue(
		FeedbackEvent{Type: FeedbackMovement},
		FeedbackEvent{Type: FeedbackConquest},
	)
	q.Pop() // first event now in flight
	q.DeferEndTurn()

	if flush := q.Done(); flush {
		t.Fatal("should not flush end-turn while a combat animation event remains queued")
	}

	q.Pop() // second (last) event now in flight
	if flush := q.Done(); !flush {
		t.Fatal("expected the deferred end-turn to flush once the queue fully drains")
	}
}

func TestQueue_IdleAfterFullDrain(t *testing.T) {
	q := NewQueue()
	q.Enqueue(FeedbackEvent{Type: FeedbackMovement})
	q.Pop()
	q.Done()

	if !q.Idle() {
		t.Fatal("expected the queue to be idle once drained and not busy")
	}
}
